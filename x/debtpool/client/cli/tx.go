package cli

import (
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/structuredfi/notechain/x/debtpool/types"
)

// GetTxCmd returns the transaction commands for the debtpool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "debtpool",
		Short:                      "Debtpool module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdDeposit(),
		CmdWithdraw(),
		CmdApproveWithdraw(),
	)

	return cmd
}

// CmdDeposit returns the command to deposit assets into a pool
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [amount]",
		Short: "Deposit assets into a debt pool during its subscription window",
		Long: `Deposit assets into a debt pool in exchange for pool shares.

Examples:
  notechaind tx debtpool deposit pool-1a2b3c4d 100000 --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDeposit{
				Investor: clientCtx.GetFromAddress().String(),
				PoolID:   args[0],
				Amount:   args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to redeem shares from a pool
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [shares]",
		Short: "Redeem pool shares for assets",
		Long: `Redeem pool shares for the corresponding assets. The --owner flag
withdraws from another investor's position using a prior approval, and
--receiver directs the payout to a different address.

Examples:
  notechaind tx debtpool withdraw pool-1a2b3c4d 5000 --from alice
  notechaind tx debtpool withdraw pool-1a2b3c4d 5000 --owner cosmos1abc... --from bob`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			withdrawer := clientCtx.GetFromAddress().String()

			owner, err := cmd.Flags().GetString("owner")
			if err != nil {
				return err
			}
			if owner == "" {
				owner = withdrawer
			}

			receiver, err := cmd.Flags().GetString("receiver")
			if err != nil {
				return err
			}
			if receiver == "" {
				receiver = withdrawer
			}

			msg := &types.MsgWithdraw{
				Withdrawer: withdrawer,
				Owner:      owner,
				Receiver:   receiver,
				PoolID:     args[0],
				Shares:     args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String("owner", "", "position owner when spending an approval (defaults to sender)")
	cmd.Flags().String("receiver", "", "address that receives the assets (defaults to sender)")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdApproveWithdraw returns the command to grant a withdrawal allowance
func CmdApproveWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve-withdraw [pool-id] [spender] [shares]",
		Short: "Allow another account to redeem shares from your position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgApproveWithdraw{
				Owner:   clientCtx.GetFromAddress().String(),
				Spender: args[1],
				PoolID:  args[0],
				Shares:  args[2],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
