package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"cosmossdk.io/math"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// GetTxCmd returns the transaction commands for the issuance module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "issuance",
		Short:                      "Issuance module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreatePool(),
		CmdLockPool(),
		CmdInitiateSettlement(),
		CmdProcessMaturity(),
		CmdEmergencyShutdown(),
		CmdAddOperator(),
		CmdRemoveOperator(),
	)

	return cmd
}

// CmdCreatePool returns the command to register and deploy a new debt pool
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [issuer] [salt] [instrument-type] [doc-hash] [denom] [rate-bps] [epoch-start] [epoch-end] [maturity-date] [min-investment]",
		Short: "Register a new debt pool and deploy its ledger",
		Long: `Register a new fixed-term debt pool. Epoch and maturity timestamps
are unix seconds. Instrument type is one of discount-bill, commercial-paper
or debt-note.

Examples:
  notechaind tx issuance create-pool cosmos1abc... deal-7 commercial-paper 0xf00d usdc 500 1760000000 1762592000 1770000000 1000 --from operator`,
		Args: cobra.ExactArgs(10),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			rateBps, err := strconv.ParseInt(args[5], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rate-bps: %v", err)
			}
			epochStart, err := strconv.ParseInt(args[6], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid epoch-start: %v", err)
			}
			epochEnd, err := strconv.ParseInt(args[7], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid epoch-end: %v", err)
			}
			maturityDate, err := strconv.ParseInt(args[8], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid maturity-date: %v", err)
			}
			minInvestment, ok := math.NewIntFromString(args[9])
			if !ok {
				return fmt.Errorf("invalid min-investment: %s", args[9])
			}

			discounted, err := cmd.Flags().GetBool("discounted")
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Operator: clientCtx.GetFromAddress().String(),
				Issuer:   args[0],
				Salt:     args[1],
				Terms: debtpooltypes.InstrumentTerms{
					InstrumentType: args[2],
					DocHash:        args[3],
					Denom:          args[4],
					RateBps:        rateBps,
					Discounted:     discounted,
					EpochStart:     epochStart,
					EpochEnd:       epochEnd,
					MaturityDate:   maturityDate,
					MinInvestment:  minInvestment,
				},
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().Bool("discounted", false, "issue at a discount instead of accruing interest")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdLockPool returns the command to lock a pool after its subscription window
func CmdLockPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock-pool [pool-id]",
		Short: "Lock a pool once its subscription window has closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgLockPool(clientCtx.GetFromAddress().String(), args[0])
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdInitiateSettlement returns the command to settle a pool to its issuer
func CmdInitiateSettlement() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle [pool-id]",
		Short: "Move raised principal into custody and release it to the issuer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgInitiateSettlement(clientCtx.GetFromAddress().String(), args[0])
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdProcessMaturity returns the command to process repayment at maturity
func CmdProcessMaturity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-maturity [pool-id]",
		Short: "Collect principal plus yield from the issuer and mature the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgProcessMaturity(clientCtx.GetFromAddress().String(), args[0])
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEmergencyShutdown returns the command to halt a pool
func CmdEmergencyShutdown() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency-shutdown [pool-id]",
		Short: "Halt a pool and return any unsettled escrow to its ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgEmergencyShutdown(clientCtx.GetFromAddress().String(), args[0])
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddOperator returns the command to grant the operator role
func CmdAddOperator() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-operator [address]",
		Short: "Grant the operator role to an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgAddOperator{
				Admin:    clientCtx.GetFromAddress().String(),
				Operator: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRemoveOperator returns the command to revoke the operator role
func CmdRemoveOperator() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-operator [address]",
		Short: "Revoke the operator role from an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRemoveOperator{
				Admin:    clientCtx.GetFromAddress().String(),
				Operator: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
