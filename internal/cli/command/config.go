package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration inspection",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
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
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	return render(c, cfg)
}

func configValidate(c *cli.Context) error {
	if _, _, err := loadConfig(c); err != nil {
		return err
	}
	source := c.String("config")
	if source == "" {
		source = "defaults and environment"
	}
	_, err := fmt.Fprintf(c.App.Writer, "configuration is valid (%s)\n", source)
	return err
}
