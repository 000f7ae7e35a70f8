package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/ui"
	"github.com/Mohsinsiddi/abistudio/internal/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing and watch-only wallets",
	Long: `Manage the wallets used to sign transactions. Private keys are stored in
the OS keychain, never in a file; wallets.json in the config directory holds
only names, addresses and keychain references.`,
}

// ---------------------------------------------------------------------------
// add / generate
// ---------------------------------------------------------------------------

var (
	addKey   string
	addWatch string
)

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wallet from a private key, or a watch-only address",
	Long: `Add a wallet. With --key the hex private key goes into the OS keychain and
the wallet can sign; with --watch only the address is stored and the wallet
is read-only.

Examples:
  abistudio wallet add dev --key 0xac0974bec…f80
  abistudio wallet add treasury --watch 0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		switch {
		case addKey != "":
			if err := mgr.AddWithKey(name, addKey); err != nil {
				return err
			}
			w, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("added signing wallet " + name))
			fmt.Println(ui.Meta("  address ") + ui.Addr(w.Address))

		case addWatch != "":
			if !common.IsHexAddress(addWatch) {
				return fmt.Errorf("%q is not a hex address", addWatch)
			}
			if err := mgr.Add(name, &wallet.Wallet{
				Name:    name,
				Address: common.HexToAddress(addWatch).Hex(),
				Type:    wallet.TypeWatchOnly,
			}); err != nil {
				return err
			}
			fmt.Println(ui.Success("added watch-only wallet " + name))

		default:
			return fmt.Errorf("pass --key for a signing wallet or --watch for a watch-only one")
		}

		if mgr.Default() != nil && mgr.Default().Name == name {
			fmt.Println(ui.Meta("  this is now the default wallet"))
		}
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a fresh key pair",
	Long: `Generate a new private key, store it in the OS keychain and register the
wallet. The key is printed exactly once — copy it somewhere safe if you need
a backup; it cannot be shown again without --reveal on export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		w, hexKey, err := mgr.Generate(name)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("generated wallet " + name))
		fmt.Println(ui.Meta("  address ") + ui.Addr(w.Address))
		fmt.Println()
		fmt.Println(ui.DangerBox("PRIVATE KEY — shown once, store it safely:\n\n  " + hexKey))
		return nil
	},
}

// ---------------------------------------------------------------------------
// list / use / remove / export
// ---------------------------------------------------------------------------

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		wallets := mgr.List()
		if len(wallets) == 0 {
			fmt.Println(ui.Meta("no wallets — add one with: abistudio wallet add"))
			return nil
		}

		tbl := ui.NewTable("NAME", "ADDRESS", "TYPE", "DEFAULT")
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			tbl.AddRow(w.Name, w.Address, w.Type, def)
		}
		fmt.Println(tbl.Render())
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet",
	Long:  `Set the wallet other commands use when --wallet is not given. With no argument an interactive picker opens.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			wallets := mgr.List()
			items := make([]ui.PickerItem, len(wallets))
			for i, w := range wallets {
				items[i] = ui.PickerItem{Label: w.Name, SubLabel: w.Address, Value: w.Name}
			}
			picked, err := ui.PickItem("Default wallet", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Println(ui.Meta("aborted"))
				return nil
			}
			name = picked
		}

		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		fmt.Println(ui.Success("default wallet is now " + name))
		return nil
	},
}

var walletRemoveYes bool

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and evict its key from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()
		w, err := mgr.Get(name)
		if err != nil {
			return err
		}

		if !walletRemoveYes && w.Type == wallet.TypeSigning {
			if !ui.ConfirmDanger(fmt.Sprintf("remove %s and delete its private key? This cannot be undone.", name)) {
				fmt.Println(ui.Meta("aborted"))
				return nil
			}
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		fmt.Println(ui.Success("removed " + name))
		return nil
	},
}

var exportReveal bool

var walletExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a wallet's private key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !exportReveal {
			return fmt.Errorf("exporting prints the private key in the clear — re-run with --reveal")
		}
		if !ui.ConfirmDanger(fmt.Sprintf("print the private key for %s to this terminal?", name)) {
			fmt.Println(ui.Meta("aborted"))
			return nil
		}

		key, err := newWalletManager().ExportKey(name)
		if err != nil {
			return err
		}
		fmt.Println(ui.DangerBox("PRIVATE KEY for " + name + ":\n\n  " + key))
		return nil
	},
}

// ---------------------------------------------------------------------------
// sign / verify
// ---------------------------------------------------------------------------

var signWallet string

var walletSignCmd = &cobra.Command{
	Use:   "sign <message>",
	Short: "Sign a message (EIP-191 personal_sign)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(signWallet)
		if err != nil {
			return err
		}
		if !sess.CanSign() {
			return fmt.Errorf("no signing wallet — add one with: abistudio wallet add")
		}
		signer, err := sess.Signer()
		if err != nil {
			return err
		}

		sig, err := signer.SignMessage([]byte(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Signature", [][2]string{
			{"Signer", signer.Address().Hex()},
			{"Message", args[0]},
			{"Signature", "0x" + hex.EncodeToString(sig)},
		}))
		return nil
	},
}

var walletVerifyCmd = &cobra.Command{
	Use:   "verify <message> <signature>",
	Short: "Recover the address that signed a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigHex := strings.TrimPrefix(args[1], "0x")
		sig, err := hex.DecodeString(sigHex)
		if err != nil {
			return fmt.Errorf("signature is not hex: %w", err)
		}

		addr, err := wallet.VerifyMessage([]byte(args[0]), sig)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success("signed by " + addr.Hex()))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&addKey, "key", "", "hex private key (stored in the OS keychain)")
	walletAddCmd.Flags().StringVar(&addWatch, "watch", "", "address for a watch-only wallet")
	walletAddCmd.MarkFlagsMutuallyExclusive("key", "watch")

	walletRemoveCmd.Flags().BoolVarP(&walletRemoveYes, "yes", "y", false, "skip the confirmation prompt")
	walletExportCmd.Flags().BoolVar(&exportReveal, "reveal", false, "confirm printing the key in the clear")
	walletSignCmd.Flags().StringVar(&signWallet, "wallet", "", "signing wallet (default: the default wallet)")

	walletCmd.AddCommand(walletAddCmd, walletGenerateCmd, walletListCmd,
		walletUseCmd, walletRemoveCmd, walletExportCmd, walletSignCmd, walletVerifyCmd)
}
