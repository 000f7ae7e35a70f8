package cmd

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/Mohsinsiddi/abistudio/internal/contract"
	"github.com/Mohsinsiddi/abistudio/internal/ens"
	"github.com/Mohsinsiddi/abistudio/internal/invoke"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
	"github.com/Mohsinsiddi/abistudio/internal/wallet"
)

// ---------------------------------------------------------------------------
// ABI sources
// ---------------------------------------------------------------------------

// abiFlags is the shared ABI source flag set. Exactly one source supplies the
// ABI; --contract additionally fills in address and endpoint from the
// registry entry.
type abiFlags struct {
	inline   string
	file     string
	url      string
	builtin  string
	contract string
	fetch    bool
}

func (f *abiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inline, "abi", "", "inline ABI JSON")
	cmd.Flags().StringVar(&f.file, "abi-file", "", "path to an ABI JSON file or compiler artifact")
	cmd.Flags().StringVar(&f.url, "abi-url", "", "URL serving raw ABI JSON")
	cmd.Flags().StringVar(&f.builtin, "builtin", "", "built-in ABI ("+builtinIDs()+")")
	cmd.Flags().StringVar(&f.contract, "contract", "", "saved contract name")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "fetch the verified ABI from the block explorer")
	cmd.MarkFlagsMutuallyExclusive("abi", "abi-file", "abi-url", "builtin", "contract", "fetch")
}

// empty reports whether no source flag was given.
func (f *abiFlags) empty() bool {
	return f.inline == "" && f.file == "" && f.url == "" && f.builtin == "" && f.contract == "" && !f.fetch
}

// target is a resolved invocation target: parsed ABI, the methods derived
// from it, and where to reach the contract.
type target struct {
	entries  []contract.ABIEntry
	methods  []contract.Method
	name     string // display name for headers
	source   string // where the ABI came from
	address  string // hex or ENS name; empty for offline use
	endpoint string // endpoint name or URL; empty means the default
}

// resolveABI loads and parses the ABI named by the source flags. address and
// endpoint are the command's own flags; a registry entry fills them in when
// they are empty. Explorer fetches need a hex address (ENS names resolve
// later, against a live endpoint).
func resolveABI(f *abiFlags, address, endpoint string) (*target, error) {
	t := &target{name: "contract", address: address, endpoint: endpoint}

	switch {
	case f.contract != "":
		reg, err := openRegistry()
		if err != nil {
			return nil, err
		}
		entry, err := reg.Get(f.contract)
		if err != nil {
			return nil, err
		}
		entries, err := contract.ParseABI(entry.ABI)
		if err != nil {
			return nil, fmt.Errorf("saved ABI for %s: %w", entry.Name, err)
		}
		t.entries, t.name, t.source = entries, entry.Name, entry.Source
		if t.address == "" {
			t.address = entry.Address
		}
		if t.endpoint == "" {
			t.endpoint = entry.Endpoint
		}

	case f.inline != "":
		entries, err := contract.ParseABI([]byte(f.inline))
		if err != nil {
			return nil, err
		}
		t.entries, t.name, t.source = entries, "inline", "flag"

	case f.file != "":
		entries, err := contract.LoadFromArtifact(f.file)
		if err != nil {
			return nil, err
		}
		t.entries = entries
		t.name = strings.TrimSuffix(filepath.Base(f.file), filepath.Ext(f.file))
		t.source = f.file

	case f.url != "":
		entries, err := newFetcher().FetchFromURL(f.url)
		if err != nil {
			return nil, err
		}
		t.entries, t.name, t.source = entries, "remote", f.url

	case f.builtin != "":
		b, ok := contract.GetBuiltin(f.builtin)
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q — available: %s", f.builtin, builtinIDs())
		}
		t.entries, t.name, t.source = b.ABI, b.ID, "builtin:"+b.ID

	case f.fetch:
		if !common.IsHexAddress(t.address) {
			return nil, fmt.Errorf("--fetch needs --address with a hex contract address")
		}
		api := cfg.ExplorerAPI(t.endpoint)
		if api == "" {
			return nil, fmt.Errorf("no explorer API known for endpoint %q — set one with: abistudio config set-explorer", endpointLabel(t.endpoint))
		}
		fetcher := newFetcher()
		entries, err := fetcher.FetchFromExplorer(api, t.address)
		if err != nil {
			return nil, err
		}
		t.entries, t.source = entries, api
		if name := fetcher.ContractName(api, t.address); name != "" {
			t.name = name
		}

	default:
		return nil, fmt.Errorf("no ABI source — use --abi, --abi-file, --abi-url, --builtin, --contract or --fetch")
	}

	t.methods = contract.DeriveMethods(t.entries)
	return t, nil
}

func builtinIDs() string {
	var ids []string
	for _, b := range contract.AllBuiltins() {
		ids = append(ids, b.ID)
	}
	return strings.Join(ids, ", ")
}

func endpointLabel(endpoint string) string {
	if endpoint == "" {
		return cfg.DefaultEndpoint
	}
	return endpoint
}

// ---------------------------------------------------------------------------
// endpoint + address
// ---------------------------------------------------------------------------

// dialEndpoint resolves an endpoint name or URL against the config and dials
// it. The returned label is the name used in output headers.
func dialEndpoint(ctx context.Context, endpoint string) (*chain.Client, string, error) {
	url, err := cfg.ResolveEndpoint(endpoint)
	if err != nil {
		return nil, "", err
	}
	client, err := chain.Dial(ctx, url, log)
	if err != nil {
		return nil, "", err
	}
	return client, endpointLabel(endpoint), nil
}

// resolveAddress turns a hex address or ENS name into an address. ENS needs
// a live client; offline callers pass nil and get an error for names.
func resolveAddress(ctx context.Context, client *chain.Client, s string) (common.Address, error) {
	switch {
	case s == "":
		return common.Address{}, fmt.Errorf("no contract address — pass --address or use a saved --contract")
	case ens.IsName(s):
		if client == nil {
			return common.Address{}, fmt.Errorf("ENS name %q needs an endpoint to resolve — pass a hex address", s)
		}
		return ens.Resolve(ctx, client, s)
	case common.IsHexAddress(s):
		return common.HexToAddress(s), nil
	default:
		return common.Address{}, fmt.Errorf("%q is not a hex address or ENS name", s)
	}
}

// ---------------------------------------------------------------------------
// session + invoker
// ---------------------------------------------------------------------------

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))),
		wallet.WithKeystore(wallet.DefaultKeystore()),
	)
}

// openSession builds the signing session for --wallet, falling back to the
// default wallet, falling back to read-only.
func openSession(walletName string) (*wallet.Session, error) {
	mgr := newWalletManager()
	if walletName != "" {
		w, err := mgr.Get(walletName)
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", walletName, err)
		}
		return wallet.NewSession(w, mgr.Keystore()), nil
	}
	return wallet.NewSession(mgr.Default(), mgr.Keystore()), nil
}

func openRegistry() (*contract.Registry, error) {
	reg := contract.NewRegistry(filepath.Join(cfg.Dir(), "contracts.json"))
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

func newFetcher() *contract.Fetcher {
	return contract.NewFetcher(cfg.ExplorerAPIKey)
}

// newInvoker assembles the session invoker for one resolved target. A nil or
// read-only session yields an invoker that rejects writes. A nil history gets
// a fresh one; the studio passes its own so the feed survives contract
// switches.
func newInvoker(client *chain.Client, addr common.Address, methods []contract.Method, sess *wallet.Session, hist *invoke.History) *invoke.Invoker {
	if hist == nil {
		hist = invoke.NewHistory(cfg.HistorySize)
	}
	opts := invoke.Options{
		Address: addr,
		Methods: methods,
		Reader:  client,
		History: hist,
		Log:     log,
	}
	if sess != nil && sess.CanSign() {
		if signer, err := sess.Signer(); err == nil {
			opts.Writer = client.Bind(signer)
		}
	}
	return invoke.New(opts)
}

// ---------------------------------------------------------------------------
// values + display
// ---------------------------------------------------------------------------

// weiFromETH converts a decimal ETH amount ("0.05") to wei. Empty means zero.
func weiFromETH(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: expected a decimal ETH amount", s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("value cannot be negative")
	}
	wei := d.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("value %s is finer than 1 wei (more than 18 decimal places)", s)
	}
	return wei.BigInt(), nil
}

// ethFromWei renders a wei amount as a trimmed decimal ETH string.
func ethFromWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

// feedItems converts history records into studio feed rows.
func feedItems(recs []invoke.Record) []ui.FeedItem {
	items := make([]ui.FeedItem, len(recs))
	for i, r := range recs {
		items[i] = ui.FeedItem{
			ID:     r.ID,
			Method: r.Method,
			Status: string(r.Stage),
			Detail: r.Result,
			Err:    r.Err,
			When:   r.Timestamp,
		}
	}
	return items
}

// studioEntries converts derived methods into studio rows.
func studioEntries(methods []contract.Method) []ui.StudioEntry {
	entries := make([]ui.StudioEntry, len(methods))
	for i, m := range methods {
		e := ui.StudioEntry{
			Name:     m.Name,
			Selector: m.Selector(),
			Sig:      m.Signature(),
			IsWrite:  !m.IsRead(),
			Payable:  m.IsPayable(),
			Inputs:   make([]ui.StudioParam, len(m.Inputs)),
		}
		for j, p := range m.Inputs {
			e.Inputs[j] = ui.StudioParam{Name: p.Name, Type: p.Type, Example: exampleFor(p.Type)}
		}
		if m.IsRead() {
			for _, o := range m.Outputs {
				e.Outputs = append(e.Outputs, o.Type)
			}
		}
		entries[i] = e
	}
	return entries
}

// exampleFor suggests an input shape for an ABI type.
func exampleFor(abiType string) string {
	switch {
	case strings.HasSuffix(abiType, "[]"):
		return "comma-separated " + strings.TrimSuffix(abiType, "[]")
	case abiType == "address":
		return "0x… or name.eth"
	case abiType == "bool":
		return "true / false"
	case abiType == "string":
		return "any text"
	case abiType == "bytes":
		return "0x-prefixed hex"
	case strings.HasPrefix(abiType, "bytes"):
		return "0x… (" + strings.TrimPrefix(abiType, "bytes") + " bytes)"
	case strings.HasPrefix(abiType, "uint"), strings.HasPrefix(abiType, "int"):
		return "decimal or 0x hex"
	default:
		return abiType
	}
}
