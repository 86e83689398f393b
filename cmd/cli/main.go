package main

import (
	"log"

	"github.com/fedstore/fedroute/cli"
	"github.com/fedstore/fedroute/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	defRouterURL       = "http://localhost:7070"
	defTLSVerification = false
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fedroute-cli",
		Short: "Fedroute CLI",
		Long:  `Fedroute CLI is a command line interface for interacting with the fedroute router.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				RouterURL:       defRouterURL,
				TLSVerification: defTLSVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetSDK(s)
		},
	}

	rootCmd.AddCommand(cli.NewQueriesCmd())
	rootCmd.AddCommand(cli.NewClientsCmd())
	rootCmd.AddCommand(cli.NewPoliciesCmd())
	rootCmd.AddCommand(cli.NewUsageCmd())
	rootCmd.AddCommand(cli.NewConfigCmd())

	rootCmd.PersistentFlags().StringVarP(
		&defRouterURL,
		"router-url",
		"r",
		defRouterURL,
		"Router URL",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&defTLSVerification,
		"tls-verification",
		"v",
		defTLSVerification,
		"TLS Verification",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
