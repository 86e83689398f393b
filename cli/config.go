package cli

import (
	"fmt"
	"os"

	"github.com/0x6flab/namegenerator"
	"github.com/charmbracelet/huh"
	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

const filePermission = 0o644

type routesConfig struct {
	Clients []connection.Client `toml:"clients"`
}

// NewConfigCmd builds an interactive generator for the router's routing
// table. It walks the operator through adding client entries and writes the
// result as a TOML file the router loads at startup.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <output-file>",
		Short: "Generate routing table",
		Long:  `Interactively generate the TOML routing table that maps client names to endpoints.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			ngen := namegenerator.NewGenerator()

			var cfg routesConfig
			for {
				client := connection.Client{Name: ngen.Generate()}
				var addMore bool

				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Client name").
							Value(&client.Name),
						huh.NewInput().
							Title("Channel ID").
							Value(&client.Endpoint.ChannelID),
						huh.NewConfirm().
							Title("Add another client?").
							Value(&addMore),
					),
				)
				if err := form.Run(); err != nil {
					logErrorCmd(*cmd, err)

					return
				}

				cfg.Clients = append(cfg.Clients, client)
				if !addMore {
					break
				}
			}

			data, err := toml.Marshal(cfg)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			if err := os.WriteFile(args[0], data, filePermission); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, fmt.Sprintf("Successfully wrote %d client(s) to %s", len(cfg.Clients), args[0]))
		},
	}
}
