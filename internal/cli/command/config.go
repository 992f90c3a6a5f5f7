package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration after file and environment merging",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c, map[string]any{})
	if err != nil {
		return err
	}
	// A nested struct has no table form; YAML mirrors the file layout.
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format).Format(writer(c), cfg)
}

func configValidate(c *cli.Context) error {
	cfg, err := loadConfig(c, map[string]any{})
	if err != nil {
		return err
	}
	if _, err := setupLogger(c, cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	source := ParseGlobalFlags(c).Config
	if source == "" {
		source = "defaults and environment"
	}
	_, err = fmt.Fprintf(writer(c), "configuration OK (%s)\n", source)
	return err
}
