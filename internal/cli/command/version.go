package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tsmap-go/internal/cli/output"
	"github.com/yndnr/tsmap-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			format, err := outputFormat(c)
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(writer(c), info)
			}
			_, err = fmt.Fprintf(writer(c), "tsmap %s\n", info)
			return err
		},
	}
}
