package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/bench/config"
	"github.com/yndnr/tsmap-go/internal/cli/output"
	"github.com/yndnr/tsmap-go/internal/infra/buildinfo"
	"github.com/yndnr/tsmap-go/internal/infra/confloader"
	"github.com/yndnr/tsmap-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tsmap",
		Usage:   "Exercise a fixed-capacity concurrent hash table",
		Version: buildinfo.Get().String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StressCommand(),
			DemoCommand(),
			ShellCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"TSMAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config    string
	Output    string
	LogLevel  string
	LogFormat string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:    c.String("config"),
		Output:    c.String("output"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
	}
}

// loadConfig merges defaults, the config file, TSMAP_ environment
// variables and the given flag overrides, then verifies the result.
func loadConfig(c *cli.Context, overrides map[string]any) (*config.Config, error) {
	flags := ParseGlobalFlags(c)
	if flags.LogLevel != "" {
		overrides["log.level"] = flags.LogLevel
	}
	if flags.LogFormat != "" {
		overrides["log.format"] = flags.LogFormat
	}

	cfg := config.Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(flags.Config),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger builds the process logger from the log section and
// installs it as the default.
func setupLogger(c *cli.Context, sec config.LogSection) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  sec.Level,
		Format: sec.Format,
		Output: errWriter(c),
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

func outputFormat(c *cli.Context) (output.Format, error) {
	return output.ParseFormat(ParseGlobalFlags(c).Output)
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
