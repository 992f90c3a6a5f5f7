package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/cli/repl"
	"github.com/yndnr/tsmap-go/pkg/tsmap"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive get/put/delete against a fresh table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "capacity", Usage: "Number of buckets"},
			&cli.StringFlag{Name: "history", Usage: "File to persist command history in"},
		},
		Action: func(c *cli.Context) error {
			overrides := map[string]any{}
			if c.IsSet("capacity") {
				overrides["table.capacity"] = c.Int("capacity")
			}
			cfg, err := loadConfig(c, overrides)
			if err != nil {
				return err
			}
			m, err := tsmap.New(cfg.Table.Capacity)
			if err != nil {
				return err
			}
			defer m.Close()

			in := c.App.Reader
			if in == nil {
				in = os.Stdin
			}
			return repl.New(m, in, writer(c), c.String("history")).Run()
		},
	}
}
