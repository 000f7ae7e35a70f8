package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/Mohsinsiddi/abistudio/internal/config"
	"github.com/Mohsinsiddi/abistudio/internal/contract"
	"github.com/Mohsinsiddi/abistudio/internal/invoke"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
	"github.com/Mohsinsiddi/abistudio/internal/wallet"
)

var (
	studioABI      abiFlags
	studioAddress  string
	studioEndpoint string
	studioWallet   string
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Interactive studio: browse methods, fill forms, watch results",
	Long: `Open the full-screen studio. Methods derived from the ABI are listed in
read and write sections; selecting one opens an argument form, and every
invocation lands in the result feed at the bottom (newest first).

The studio can start empty — press a inside it to paste ABI JSON or load a
file, URL, builtin or saved contract. Failed calls and unreachable endpoints
show up in the feed and banner; the session itself keeps running.

Examples:
  abistudio studio --contract mytoken
  abistudio studio --builtin erc20 --address 0xdAC17F958D2ee523a2206206994597C13D831ec7
  abistudio studio --endpoint sepolia`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := &target{address: studioAddress, endpoint: studioEndpoint}
		if !studioABI.empty() {
			var err error
			t, err = resolveABI(&studioABI, studioAddress, studioEndpoint)
			if err != nil {
				return err
			}
		}

		sess, err := openSession(studioWallet)
		if err != nil {
			return err
		}

		dialCtx, cancel := context.WithTimeout(cmd.Context(), config.CallTimeout)
		client, endpointName, err := dialEndpoint(dialCtx, t.endpoint)
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()

		ss := &studioSession{client: client, sess: sess}
		var addr common.Address
		if t.address != "" {
			resCtx, cancel := context.WithTimeout(cmd.Context(), config.CallTimeout)
			addr, err = resolveAddress(resCtx, client, t.address)
			cancel()
			if err != nil {
				return err
			}
			ss.hasAddr = true
		}
		ss.inv = newInvoker(client, addr, t.methods, sess, nil)

		name, shown := t.name, t.address
		if name == "" {
			name = "no contract"
		}
		if shown == "" {
			shown = "—"
		}
		m := ui.StudioModel{
			ContractName: name,
			Address:      shown,
			Endpoint:     endpointName,
			CanSign:      sess.CanSign(),
			Entries:      studioEntries(t.methods),
			Hooks: ui.StudioHooks{
				Invoke:  ss.invokeHook,
				LoadABI: ss.loadHook,
			},
		}
		return ui.RunStudio(m)
	},
}

// studioSession owns the live pieces behind the TUI hooks: the dialed client,
// the signing session and the invoker for the currently loaded contract.
// Loading a new ABI swaps the invoker; the mutex keeps the swap safe against
// in-flight invocations, which run on their own goroutines.
type studioSession struct {
	mu      sync.Mutex
	client  *chain.Client
	sess    *wallet.Session
	inv     *invoke.Invoker
	hasAddr bool
}

func (s *studioSession) snapshot() (*invoke.Invoker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv, s.hasAddr
}

// invokeHook runs one invocation off the UI goroutine. Reads resolve in a
// single message; writes resolve in two, chained via Next: a submitted update
// as soon as the transaction broadcasts, then the confirmation or failure.
func (s *studioSession) invokeHook(e ui.StudioEntry, args []string, value string) tea.Msg {
	inv, hasAddr := s.snapshot()

	fail := func(err error) tea.Msg {
		return ui.InvokeMsg{
			Method: e.Name,
			Items:  feedItems(inv.History().Records()),
			Banner: err.Error(),
			Err:    true,
			Done:   true,
		}
	}

	if !hasAddr {
		return fail(errors.New("no contract address — load a saved contract or restart with --address"))
	}

	if !e.IsWrite {
		ctx, cancel := context.WithTimeout(context.Background(), config.CallTimeout)
		defer cancel()
		if _, err := inv.Read(ctx, e.Name, args, nil); err != nil {
			return fail(err)
		}
		return ui.InvokeMsg{Method: e.Name, Items: feedItems(inv.History().Records()), Done: true}
	}

	wei, err := weiFromETH(value)
	if err != nil {
		return fail(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.CallTimeout)
	defer cancel()
	ticket, _, err := inv.Submit(ctx, e.Name, args, wei)
	if err != nil {
		return fail(err)
	}

	await := func() tea.Msg {
		waitCtx, cancel := context.WithTimeout(context.Background(), config.TxConfirmTimeout)
		defer cancel()
		final, err := ticket.Await(waitCtx)
		msg := ui.InvokeMsg{Method: e.Name, Items: feedItems(inv.History().Records()), Done: true}
		if err != nil {
			msg.Banner, msg.Err = err.Error(), true
		} else {
			msg.Banner = final.Result
		}
		return msg
	}
	return ui.InvokeMsg{
		Method: e.Name,
		Items:  feedItems(inv.History().Records()),
		Banner: "submitted — waiting for inclusion",
		Next:   await,
	}
}

// loadHook resolves the studio's free-form ABI input and swaps the invoker,
// carrying the result history over. A parse failure reports Parse so the
// model drops the stale method list; fetch and lookup failures keep it.
func (s *studioSession) loadHook(src string) tea.Msg {
	t, err := loadStudioABI(src)
	if err != nil {
		return ui.ABIMsg{Parse: errors.Is(err, contract.ErrParse), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	addr := s.inv.Address()
	if t.address != "" {
		ctx, cancel := context.WithTimeout(context.Background(), config.CallTimeout)
		resolved, rerr := resolveAddress(ctx, s.client, t.address)
		cancel()
		if rerr != nil {
			return ui.ABIMsg{Err: rerr}
		}
		addr, s.hasAddr = resolved, true
	}
	s.inv = newInvoker(s.client, addr, t.methods, s.sess, s.inv.History())

	return ui.ABIMsg{Entries: studioEntries(t.methods), Name: t.name, Address: t.address}
}

// loadStudioABI classifies one studio input line: pasted JSON, a file path, a
// URL, builtin:<id> or a saved contract name. Only saved contracts carry an
// address. The endpoint stays the session's; a saved entry's endpoint applies
// when the studio is started with --contract, not on a mid-session switch.
func loadStudioABI(src string) (*target, error) {
	t := &target{}

	switch {
	case strings.HasPrefix(src, "[") || strings.HasPrefix(src, "{"):
		entries, err := contract.ParseABI([]byte(src))
		if err != nil {
			return nil, err
		}
		t.entries, t.name, t.source = entries, "inline", "paste"

	case strings.HasPrefix(src, "builtin:"):
		id := strings.ToLower(strings.TrimPrefix(src, "builtin:"))
		b, ok := contract.GetBuiltin(id)
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q — available: %s", id, builtinIDs())
		}
		t.entries, t.name, t.source = b.ABI, b.ID, src

	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		entries, err := newFetcher().FetchFromURL(src)
		if err != nil {
			return nil, err
		}
		t.entries, t.name, t.source = entries, "remote", src

	default:
		if _, statErr := os.Stat(src); statErr == nil {
			entries, err := contract.LoadFromArtifact(src)
			if err != nil {
				return nil, err
			}
			t.entries = entries
			t.name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			t.source = src
			break
		}
		reg, err := openRegistry()
		if err != nil {
			return nil, err
		}
		entry, err := reg.Get(src)
		if err != nil {
			return nil, fmt.Errorf("%q is not ABI JSON, a readable file, a URL, builtin:<id> or a saved contract", src)
		}
		entries, err := contract.ParseABI(entry.ABI)
		if err != nil {
			return nil, fmt.Errorf("saved ABI for %s: %w", entry.Name, err)
		}
		t.entries, t.name, t.source = entries, entry.Name, "registry"
		t.address = entry.Address
	}

	t.methods = contract.DeriveMethods(t.entries)
	return t, nil
}

func init() {
	studioABI.register(studioCmd)
	studioCmd.Flags().StringVar(&studioAddress, "address", "", "contract address (hex or ENS)")
	studioCmd.Flags().StringVar(&studioEndpoint, "endpoint", "", "endpoint name or RPC URL (default: config)")
	studioCmd.Flags().StringVar(&studioWallet, "wallet", "", "signing wallet (default: the default wallet)")
}
