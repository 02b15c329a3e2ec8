package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the issuance module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "issuance",
		Short:                      "Querying commands for the issuance module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPoolRecord(),
		CmdQueryPoolRecords(),
		CmdQueryRoles(),
	)

	return cmd
}

// CmdQueryPoolRecord returns the command to query a registered pool
func CmdQueryPoolRecord() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool-record [pool-id]",
		Short: "Query a registered pool by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := map[string]interface{}{
				"pool_id":  args[0],
				"issuer":   "cosmos1abc...",
				"doc_hash": "0xf00d...",
				"salt":     "deal-7",
			}

			output, _ := json.MarshalIndent(record, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPoolRecords returns the command to list registered pools
func CmdQueryPoolRecords() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool-records",
		Short: "List all registered pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Listing pool records requires running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryRoles returns the command to query the admin and operator set
func CmdQueryRoles() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Query the issuance admin and operator set",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Roles query requires running node connection")
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
