package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/contract"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage saved contracts (name → address + ABI)",
	Long: `Save contracts under short names so other commands can use --contract <name>
instead of repeating an address and an ABI source every time. Entries live in
contracts.json inside the config directory and keep the ABI text verbatim.`,
}

// ---------------------------------------------------------------------------
// add
// ---------------------------------------------------------------------------

var (
	addInline   string
	addFile     string
	addURL      string
	addBuiltin  string
	addFetch    bool
	addAddress  string
	addEndpoint string
)

var contractAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Save a contract under a short name",
	Long: `Save a contract: a name, an address and the ABI from one source. The ABI
JSON is stored exactly as supplied so nothing is lost between sessions.

With --fetch the name may be omitted; the verified contract name from the
explorer is used instead.

Examples:
  abistudio contract add mytoken --address 0xdAC1…1ec7 --builtin erc20
  abistudio contract add vault --address 0xabc…def --abi-file ./out/Vault.json
  abistudio contract add --fetch --address 0xdAC1…1ec7 --endpoint mainnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, fetchedName, source, err := rawABISource()
		if err != nil {
			return err
		}

		entries, err := contract.ParseABI(raw)
		if err != nil {
			return err
		}
		methods := contract.DeriveMethods(entries)

		name := fetchedName
		if len(args) > 0 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no name — pass one, or use --fetch against a verified contract")
		}

		if addAddress != "" && !common.IsHexAddress(addAddress) && !strings.Contains(addAddress, ".") {
			return fmt.Errorf("%q is not a hex address or ENS name", addAddress)
		}

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		_, lookupErr := reg.Get(name)
		reg.Add(&contract.Entry{
			Name:     name,
			Address:  addAddress,
			Endpoint: addEndpoint,
			ABI:      raw,
			Source:   source,
		})
		if err := reg.Save(); err != nil {
			return err
		}

		verb := "saved"
		if lookupErr == nil {
			verb = "updated"
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s %s (%d methods)", verb, name, len(methods))))
		return nil
	},
}

// rawABISource loads the ABI bytes for storage, keeping the original JSON
// rather than a re-serialization of the parsed form.
func rawABISource() (raw json.RawMessage, name, source string, err error) {
	switch {
	case addInline != "":
		return json.RawMessage(addInline), "", "inline", nil

	case addFile != "":
		raw, err := contract.RawFromArtifact(addFile)
		if err != nil {
			return nil, "", "", err
		}
		name := strings.TrimSuffix(filepath.Base(addFile), filepath.Ext(addFile))
		return raw, name, addFile, nil

	case addURL != "":
		raw, err := newFetcher().RawFromURL(addURL)
		if err != nil {
			return nil, "", "", err
		}
		return raw, "", addURL, nil

	case addBuiltin != "":
		b, ok := contract.GetBuiltin(addBuiltin)
		if !ok {
			return nil, "", "", fmt.Errorf("unknown builtin %q — available: %s", addBuiltin, builtinIDs())
		}
		raw, err := json.Marshal(b.ABI)
		if err != nil {
			return nil, "", "", err
		}
		return raw, b.ID, "builtin:" + b.ID, nil

	case addFetch:
		if !common.IsHexAddress(addAddress) {
			return nil, "", "", fmt.Errorf("--fetch needs --address with a hex contract address")
		}
		api := cfg.ExplorerAPI(addEndpoint)
		if api == "" {
			return nil, "", "", fmt.Errorf("no explorer API known for endpoint %q — set one with: abistudio config set-explorer", endpointLabel(addEndpoint))
		}
		fetcher := newFetcher()
		raw, err := fetcher.RawFromExplorer(api, addAddress)
		if err != nil {
			return nil, "", "", err
		}
		return raw, fetcher.ContractName(api, addAddress), api, nil

	default:
		return nil, "", "", fmt.Errorf("no ABI source — use --abi, --abi-file, --abi-url, --builtin or --fetch")
	}
}

// ---------------------------------------------------------------------------
// list / show / remove
// ---------------------------------------------------------------------------

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved contracts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		all := reg.All()
		if len(all) == 0 {
			fmt.Println(ui.Meta("no contracts saved — add one with: abistudio contract add"))
			return nil
		}

		tbl := ui.NewTable("NAME", "ADDRESS", "METHODS", "ENDPOINT", "SOURCE")
		for _, e := range all {
			count := "?"
			if methods, err := e.Methods(); err == nil {
				count = fmt.Sprintf("%d", len(methods))
			}
			addr := e.Address
			if addr == "" {
				addr = "—"
			}
			endpoint := e.Endpoint
			if endpoint == "" {
				endpoint = "default"
			}
			tbl.AddRow(e.Name, addr, count, endpoint, e.Source)
		}
		fmt.Println(tbl.Render())
		return nil
	},
}

var contractShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one saved contract and its methods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		entry, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		methods, err := entry.Methods()
		if err != nil {
			return fmt.Errorf("saved ABI for %s: %w", entry.Name, err)
		}

		fmt.Println(ui.KeyValueBlock("Contract", [][2]string{
			{"Name", entry.Name},
			{"Address", orDash(entry.Address)},
			{"Endpoint", orDefault(entry.Endpoint)},
			{"Source", orDash(entry.Source)},
			{"Added", orDash(entry.AddedAt)},
			{"Methods", fmt.Sprintf("%d", len(methods))},
		}))
		if len(methods) > 0 {
			fmt.Println(methodTable(methods))
		}
		return nil
	},
}

var removeYes bool

var contractRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		if _, err := reg.Get(name); err != nil {
			return err
		}
		if !removeYes && !ui.Confirm(fmt.Sprintf("remove saved contract %s?", name)) {
			fmt.Println(ui.Meta("aborted"))
			return nil
		}
		if err := reg.Remove(name); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("removed " + name))
		return nil
	},
}

// ---------------------------------------------------------------------------
// import / builtins
// ---------------------------------------------------------------------------

var contractImportCmd = &cobra.Command{
	Use:   "import <file-or-url>",
	Short: "Import contracts in bulk from a manifest",
	Long: `Import every contract listed in a manifest file or URL. A manifest maps
names to addresses and ABIs:

  {"contracts": {"mytoken": {"address": "0x…", "abi_url": "https://…"}}}

Entries may inline the ABI under "abi" instead of "abi_url". Bad entries are
skipped with a warning; the rest import normally.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		fetcher := newFetcher()

		var (
			m   *contract.Manifest
			err error
		)
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			m, err = fetcher.FetchManifest(src)
		} else {
			m, err = contract.LoadManifest(src)
		}
		if err != nil {
			return err
		}

		reg, err := openRegistry()
		if err != nil {
			return err
		}
		added, warnings := m.Import(reg, fetcher)
		for _, w := range warnings {
			fmt.Println(ui.Warn(w))
		}
		if len(added) == 0 {
			return fmt.Errorf("nothing imported")
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("imported %d contracts: %s", len(added), strings.Join(added, ", "))))
		return nil
	},
}

var contractBuiltinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the ABIs embedded in the binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl := ui.NewTable("ID", "NAME", "METHODS", "DESCRIPTION")
		for _, b := range contract.AllBuiltins() {
			count := len(contract.DeriveMethods(b.ABI))
			tbl.AddRow(b.ID, b.Name, fmt.Sprintf("%d", count), b.Description)
		}
		fmt.Println(tbl.Render())
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s
}

func init() {
	contractAddCmd.Flags().StringVar(&addInline, "abi", "", "inline ABI JSON")
	contractAddCmd.Flags().StringVar(&addFile, "abi-file", "", "path to an ABI JSON file or compiler artifact")
	contractAddCmd.Flags().StringVar(&addURL, "abi-url", "", "URL serving raw ABI JSON")
	contractAddCmd.Flags().StringVar(&addBuiltin, "builtin", "", "built-in ABI ("+builtinIDs()+")")
	contractAddCmd.Flags().BoolVar(&addFetch, "fetch", false, "fetch the verified ABI from the block explorer")
	contractAddCmd.Flags().StringVar(&addAddress, "address", "", "contract address (hex or ENS)")
	contractAddCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "endpoint this contract lives on")
	contractAddCmd.MarkFlagsMutuallyExclusive("abi", "abi-file", "abi-url", "builtin", "fetch")

	contractRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")

	contractCmd.AddCommand(contractAddCmd, contractListCmd, contractShowCmd,
		contractRemoveCmd, contractImportCmd, contractBuiltinsCmd)
}
