package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/config"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var (
	sendABI      abiFlags
	sendAddress  string
	sendEndpoint string
	sendWallet   string
	sendValue    string
	sendYes      bool
)

var sendCmd = &cobra.Command{
	Use:   "send <method> [args...]",
	Short: "Send a state-changing contract transaction",
	Long: `Invoke a nonpayable or payable method: sign, broadcast and wait for
inclusion. The transaction hash prints as soon as it is submitted.

--value attaches native currency in ETH units (payable methods only); it is
converted to wei exactly, so "0.000000000000000001" is 1 wei.

Examples:
  abistudio send transfer 0xAb58…c012 1000000 --contract mytoken --wallet dev
  abistudio send deposit --contract weth --value 0.5
  abistudio send approve 0xSpender…04 100 --builtin erc20 --address 0xdAC1…1ec7 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, sendArgs := args[0], args[1:]

		t, err := resolveABI(&sendABI, sendAddress, sendEndpoint)
		if err != nil {
			return err
		}

		value, err := weiFromETH(sendValue)
		if err != nil {
			return err
		}

		sess, err := openSession(sendWallet)
		if err != nil {
			return err
		}
		if !sess.CanSign() {
			return fmt.Errorf("no signing wallet — add one with: abistudio wallet add")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.TxConfirmTimeout)
		defer cancel()

		client, endpointName, err := dialEndpoint(ctx, t.endpoint)
		if err != nil {
			return err
		}
		defer client.Close()

		addr, err := resolveAddress(ctx, client, t.address)
		if err != nil {
			return err
		}

		from, _ := sess.Address()
		if !sendYes {
			prompt := fmt.Sprintf("send %s(%s) to %s on %s from %s",
				method, joinArgs(sendArgs), ui.TruncateAddr(addr.Hex()), endpointName, ui.TruncateAddr(from.Hex()))
			if value.Sign() > 0 {
				prompt += fmt.Sprintf(" with %s ETH", ethFromWei(value))
			}
			if !ui.Confirm(prompt + "?") {
				fmt.Println(ui.Meta("aborted"))
				return nil
			}
		}

		inv := newInvoker(client, addr, t.methods, sess, nil)

		ticket, rec, err := inv.Submit(ctx, method, sendArgs, value)
		if err != nil {
			return err
		}
		fmt.Println(ui.Info("submitted " + rec.TxHash))

		spin := ui.NewSpinner("waiting for inclusion…")
		spin.Start()
		final, err := ticket.Await(ctx)
		spin.Stop()
		if err != nil {
			if final.Block > 0 {
				fmt.Println(ui.Err(fmt.Sprintf("reverted in block %d (gas %d)", final.Block, final.GasUsed)))
			}
			return err
		}

		fmt.Println(ui.Success(final.Result))
		fmt.Println(ui.Meta("  tx ") + ui.Addr(final.TxHash))
		return nil
	},
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

func init() {
	sendABI.register(sendCmd)
	sendCmd.Flags().StringVar(&sendAddress, "address", "", "contract address (hex or ENS)")
	sendCmd.Flags().StringVar(&sendEndpoint, "endpoint", "", "endpoint name or RPC URL (default: config)")
	sendCmd.Flags().StringVar(&sendWallet, "wallet", "", "signing wallet (default: the default wallet)")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "native value to attach, in ETH (payable methods)")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "skip the confirmation prompt")
}
