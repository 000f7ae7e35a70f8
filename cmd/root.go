package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/abistudio/internal/config"
	"github.com/Mohsinsiddi/abistudio/internal/logging"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/abistudio/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	log     *zap.SugaredLogger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "abistudio",
	Short: "Terminal studio for smart-contract ABIs",
	Long: `abistudio — paste an ABI, pick a method, call it.

  Load a contract ABI from a flag, file, URL, the block explorer or the
  built-in library, browse the derived method list, fill in arguments and
  fire calls. Reads print decoded results; writes are signed, broadcast
  and tracked to confirmation. Every outcome lands in a bounded session
  history.

Endpoints are named in the config (ethereum, sepolia, base, …) and any
command accepts --endpoint <name|url> to pick one for a single run.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log = logging.New(verbose)
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// ABISTUDIO_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("ABISTUDIO_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.abistudio)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Register all sub-commands.
	rootCmd.AddCommand(
		studioCmd,
		methodsCmd,
		callCmd,
		sendCmd,
		contractCmd,
		walletCmd,
		configCmd,
		decodeCmd,
		selectorCmd,
	)
}
