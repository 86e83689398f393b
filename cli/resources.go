package cli

import (
	"github.com/spf13/cobra"
)

func NewClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients [list]",
		Short: "Clients manager",
		Long:  `View the clients the router can delegate queries to.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Long:  `List clients.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			clients, err := rsdk.ListClients()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, clients)
		},
	}

	cmd.AddCommand(listCmd)

	return cmd
}

func NewPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies [list]",
		Short: "Policies manager",
		Long:  `View the policies installed on the router.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List policies",
		Long:  `List policies.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := rsdk.ListPolicies(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	cmd.AddCommand(listCmd)

	addPageFlags(cmd)

	return cmd
}

func NewUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage [list]",
		Short: "Usage-log manager",
		Long:  `View the usage-log entries the router has recorded.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List usage entries",
		Long:  `List usage entries.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := rsdk.ListUsage(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	cmd.AddCommand(listCmd)

	addPageFlags(cmd)

	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Uint64VarP(
		&defOffset,
		"offset",
		"o",
		defOffset,
		"Offset",
	)

	cmd.PersistentFlags().Uint64VarP(
		&defLimit,
		"limit",
		"l",
		defLimit,
		"Limit",
	)
}
