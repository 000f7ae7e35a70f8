package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/contract"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var decodeABI abiFlags

var decodeCmd = &cobra.Command{
	Use:   "decode <calldata>",
	Short: "Decode transaction calldata",
	Long: `Decode hex calldata. With an ABI source the method is matched by selector
and every argument is unpacked and printed; without one the selector and the
raw 32-byte argument words are shown.

Examples:
  abistudio decode 0xa9059cbb000000…0064 --builtin erc20
  abistudio decode 0x23b872dd000000…0001 --contract mytoken
  abistudio decode 0x095ea7b3000000…ffff`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "0x")
		data, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("calldata is not hex: %v", err)
		}
		if len(data) < 4 {
			return fmt.Errorf("calldata is %d byte(s) — need at least the 4-byte selector", len(data))
		}

		if decodeABI.empty() {
			printRawCalldata(data)
			return nil
		}

		t, err := resolveABI(&decodeABI, "", "")
		if err != nil {
			return err
		}
		m, vals, err := contract.DecodeCalldata(t.methods, data)
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Method", m.Name},
			{"Signature", m.Signature()},
			{"Selector", m.Selector()},
		}
		for i, in := range m.Inputs {
			label := in.Name
			if label == "" {
				label = fmt.Sprintf("arg%d", i)
			}
			pairs = append(pairs, [2]string{
				fmt.Sprintf("%s (%s)", label, in.Type),
				contract.FormatValue(in, vals[i]),
			})
		}
		fmt.Println(ui.KeyValueBlock("Calldata", pairs))
		return nil
	},
}

// printRawCalldata shows the selector and the argument area split into the
// encoder's 32-byte words, for eyeballing calldata with no ABI at hand.
func printRawCalldata(data []byte) {
	fmt.Println(ui.Meta("  selector ") + ui.Val("0x"+common.Bytes2Hex(data[:4])))
	words := data[4:]
	for i := 0; i+32 <= len(words); i += 32 {
		fmt.Printf("  %s %s\n",
			ui.Meta(fmt.Sprintf("word %2d ", i/32)),
			ui.Val("0x"+common.Bytes2Hex(words[i:i+32])))
	}
	if rem := len(words) % 32; rem != 0 {
		fmt.Println(ui.Warn(fmt.Sprintf("%d trailing byte(s) after the last full word", rem)))
	}
}

func init() {
	decodeABI.register(decodeCmd)
}
