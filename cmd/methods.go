package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/contract"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var (
	methodsABI     abiFlags
	methodsAddress string
	methodsWrites  bool
	methodsReads   bool
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the callable methods an ABI derives",
	Long: `Parse an ABI and list its callable methods, sorted by name.

Only function entries with a name, declared inputs and outputs and a state
mutability make the list; constructors, events, errors and fallback/receive
entries are dropped.

Examples:
  abistudio methods --builtin erc20
  abistudio methods --abi-file ./out/Token.json
  abistudio methods --contract mytoken
  abistudio methods --fetch --address 0xdAC17F958D2ee523a2206206994597C13D831ec7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveABI(&methodsABI, methodsAddress, "")
		if err != nil {
			return err
		}

		methods := t.methods
		if methodsReads || methodsWrites {
			filtered := methods[:0:0]
			for _, m := range methods {
				if (methodsReads && m.IsRead()) || (methodsWrites && !m.IsRead()) {
					filtered = append(filtered, m)
				}
			}
			methods = filtered
		}

		fmt.Printf("%s %s · %s\n\n",
			ui.Val(t.name),
			ui.Meta(fmt.Sprintf("(%d methods)", len(methods))),
			ui.Meta(t.source))

		if len(methods) == 0 {
			fmt.Println(ui.Warn("ABI has no callable methods"))
			return nil
		}

		fmt.Println(methodTable(methods))
		return nil
	},
}

// methodTable renders the selector/signature listing shared by `methods` and
// `contract show`.
func methodTable(methods []contract.Method) string {
	tbl := ui.NewTable("SELECTOR", "METHOD", "MUTABILITY", "RETURNS")
	for _, m := range methods {
		var outs []string
		for _, o := range m.Outputs {
			outs = append(outs, o.Type)
		}
		tbl.AddRow(m.Selector(), m.Signature(), m.StateMutability, joinOrDash(outs))
	}
	return tbl.Render()
}

func joinOrDash(parts []string) string {
	if len(parts) == 0 {
		return "—"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func init() {
	methodsABI.register(methodsCmd)
	methodsCmd.Flags().StringVar(&methodsAddress, "address", "", "contract address (needed for --fetch)")
	methodsCmd.Flags().BoolVar(&methodsReads, "reads", false, "only view/pure methods")
	methodsCmd.Flags().BoolVar(&methodsWrites, "writes", false, "only state-changing methods")
}
