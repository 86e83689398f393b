package cli

import (
	"encoding/json"
	"os"

	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/query"
	"github.com/fedstore/fedroute/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10
)

var rsdk sdk.SDK

// SetSDK sets the router SDK instance the commands talk through.
func SetSDK(s sdk.SDK) {
	rsdk = s
}

var (
	clientName     string
	featureName    string
	populationName string
	policyFile     string
	runID          int64
	eligibility    bool
	minClients     int
)

func NewQueriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries [submit]",
		Short: "Queries manager",
		Long:  `Submit queries to the router and wait for their outcome.`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit <collection>",
		Short: "Submit query",
		Long: `Submit a query against a collection.

Examples:
  # Submit a federated query
  fedroute-cli queries submit examples --client=app.example --feature=keyboard --population=pop/keyboard --policy=policy.json --run-id=7

  # Submit an eligibility-eval query
  fedroute-cli queries submit examples --client=app.example --feature=keyboard --population=pop/keyboard --policy=policy.json --eligibility`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			q := query.Query{
				ClientName:     clientName,
				FeatureName:    featureName,
				PopulationName: populationName,
			}
			if policyFile != "" {
				data, err := os.ReadFile(policyFile)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				var p policy.Policy
				if err := json.Unmarshal(data, &p); err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				q.Policy = &p
			}

			criteria, err := query.Wrap(q)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			props := sdk.Properties{RunID: runID}
			if eligibility {
				props.EligibilityEval = &sdk.EligibilityEval{PopulationName: populationName}
			} else {
				f := &sdk.Federated{PopulationName: populationName}
				if minClients > 0 {
					f.SecureAggregation = &sdk.SecureAggregation{MinimumClients: minClients}
				}
				props.Federated = f
			}

			res, err := rsdk.StartQuery(sdk.QueryRequest{
				Collection: args[0],
				Criteria:   criteria,
				Properties: props,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, res)
		},
	}

	submitCmd.Flags().StringVar(&clientName, "client", "", "Client name the query targets")
	submitCmd.Flags().StringVar(&featureName, "feature", "", "Feature name for usage accounting")
	submitCmd.Flags().StringVar(&populationName, "population", "", "Population name")
	submitCmd.Flags().StringVar(&policyFile, "policy", "", "Path to the requested policy (JSON)")
	submitCmd.Flags().Int64Var(&runID, "run-id", 0, "Run ID")
	submitCmd.Flags().BoolVar(&eligibility, "eligibility", false, "Submit an eligibility-eval query instead of a federated one")
	submitCmd.Flags().IntVar(&minClients, "min-clients", 0, "Secure aggregation minimum clients (federated only)")

	cmd.AddCommand(submitCmd)

	return cmd
}
