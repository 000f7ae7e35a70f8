package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/config"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var (
	callABI      abiFlags
	callAddress  string
	callEndpoint string
	callBlock    uint64
)

var callCmd = &cobra.Command{
	Use:   "call <method> [args...]",
	Short: "Call a read-only contract method",
	Long: `Call a view or pure method and print the decoded result.

Arguments are plain strings coerced by the ABI type: addresses accept hex or
ENS names, integers accept decimal or 0x hex, bools accept true/false, arrays
are comma-separated.

Examples:
  abistudio call balanceOf 0xAb58…c012 --builtin erc20 --address 0xdAC1…1ec7
  abistudio call symbol --contract mytoken
  abistudio call totalSupply --contract mytoken --block 19000000`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, callArgs := args[0], args[1:]

		t, err := resolveABI(&callABI, callAddress, callEndpoint)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.CallTimeout)
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

		var block *big.Int
		if callBlock > 0 {
			block = new(big.Int).SetUint64(callBlock)
		}

		inv := newInvoker(client, addr, t.methods, nil, nil)

		spin := ui.NewSpinner(fmt.Sprintf("calling %s on %s…", method, endpointName))
		spin.Start()
		rec, err := inv.Read(ctx, method, callArgs, block)
		spin.Stop()
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Contract", ui.Addr(addr.Hex())},
			{"Method", ui.Val(method)},
			{"Endpoint", ui.ChainName(endpointName)},
		}
		if block != nil {
			pairs = append(pairs, [2]string{"Block", block.String()})
		}
		pairs = append(pairs, [2]string{"Result", ui.Val(rec.Result)})

		fmt.Println(ui.KeyValueBlock("Call", pairs))
		return nil
	},
}

func init() {
	callABI.register(callCmd)
	callCmd.Flags().StringVar(&callAddress, "address", "", "contract address (hex or ENS)")
	callCmd.Flags().StringVar(&callEndpoint, "endpoint", "", "endpoint name or RPC URL (default: config)")
	callCmd.Flags().Uint64Var(&callBlock, "block", 0, "read against a historic block number")
}
