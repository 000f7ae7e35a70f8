package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/abistudio/internal/rpc"
	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit configuration",
	Long: `Inspect and edit config.json: named RPC endpoints, the default endpoint,
block explorer APIs and the result history size. Built-in network presets
are always available; configured entries override them.`,
}

// ---------------------------------------------------------------------------
// show
// ---------------------------------------------------------------------------

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := "not set"
		if cfg.ExplorerAPIKey != "" {
			apiKey = maskKey(cfg.ExplorerAPIKey)
		}
		fmt.Println(ui.KeyValueBlock("Config", [][2]string{
			{"Directory", cfg.Dir()},
			{"Default endpoint", cfg.DefaultEndpoint},
			{"Endpoints", fmt.Sprintf("%d", len(cfg.Endpoints))},
			{"History size", fmt.Sprintf("%d", cfg.HistorySize)},
			{"Explorer API key", apiKey},
		}))
		return nil
	},
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

// ---------------------------------------------------------------------------
// endpoints
// ---------------------------------------------------------------------------

var endpointsCheck bool

var configEndpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List named endpoints, optionally probing each one",
	Long: `List every endpoint name commands accept via --endpoint. With --check each
endpoint is probed in parallel: latency, head block and chain id for the
live ones, the error for the dead ones.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !endpointsCheck {
			tbl := ui.NewTable("NAME", "URL", "EXPLORER", "DEFAULT")
			for _, name := range endpointNames() {
				explorer := ""
				if cfg.ExplorerAPI(name) != "" {
					explorer = "✓"
				}
				def := ""
				if name == cfg.DefaultEndpoint {
					def = "✓"
				}
				tbl.AddRow(name, cfg.Endpoints[name], explorer, def)
			}
			fmt.Println(tbl.Render())
			return nil
		}

		spin := ui.NewSpinner(fmt.Sprintf("probing %d endpoints…", len(cfg.Endpoints)))
		spin.Start()
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		reports := rpc.CheckAll(ctx, cfg.Endpoints)
		cancel()
		spin.Stop()

		fastest, haveFastest := rpc.Fastest(reports)

		tbl := ui.NewTable("NAME", "STATUS", "LATENCY", "BLOCK", "CHAIN")
		for _, r := range reports {
			if !r.Healthy() {
				tbl.AddRow(r.Name, "dead", "—", "—", "—")
				continue
			}
			status := "ok"
			if haveFastest && r.Name == fastest.Name {
				status = "fastest"
			}
			tbl.AddRow(
				r.Name,
				status,
				r.Latency.Round(time.Millisecond).String(),
				fmt.Sprintf("%d", r.BlockNumber),
				fmt.Sprintf("%d", r.ChainID),
			)
		}
		fmt.Println(tbl.Render())

		for _, r := range reports {
			if !r.Healthy() {
				fmt.Println(ui.Warn(fmt.Sprintf("%s: %v", r.Name, r.Err)))
			}
		}
		return nil
	},
}

func endpointNames() []string {
	names := make([]string, 0, len(cfg.Endpoints))
	for name := range cfg.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// set / remove
// ---------------------------------------------------------------------------

var configSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <name> <url>",
	Short: "Add or update a named RPC endpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		if !strings.Contains(url, "://") {
			return fmt.Errorf("%q does not look like a URL", url)
		}
		if err := cfg.AddEndpoint(name, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("endpoint %s → %s", name, url)))
		return nil
	},
}

var configRemoveEndpointCmd = &cobra.Command{
	Use:   "remove-endpoint <name>",
	Short: "Remove a named RPC endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == cfg.DefaultEndpoint {
			return fmt.Errorf("%s is the default endpoint — pick another default first", name)
		}
		if err := cfg.RemoveEndpoint(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("removed endpoint " + name))
		return nil
	},
}

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, err := cfg.ResolveEndpoint(name); err != nil {
			return err
		}
		cfg.DefaultEndpoint = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("default endpoint is now " + name))
		return nil
	},
}

var configSetExplorerCmd = &cobra.Command{
	Use:   "set-explorer <endpoint> <api-base>",
	Short: "Bind a block explorer API to an endpoint",
	Long: `Bind an Etherscan-compatible API base to an endpoint name so --fetch can
pull verified ABIs there, e.g.:

  abistudio config set-explorer mainnet https://api.etherscan.io/api`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, api := args[0], args[1]
		if !strings.Contains(api, "://") {
			return fmt.Errorf("%q does not look like a URL", api)
		}
		if cfg.Explorers == nil {
			cfg.Explorers = make(map[string]string)
		}
		cfg.Explorers[name] = api
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("explorer for %s → %s", name, api)))
		return nil
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key <key>",
	Short: "Set the explorer API key used for ABI fetches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ExplorerAPIKey = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("explorer API key set"))
		return nil
	},
}

var configSetHistoryCmd = &cobra.Command{
	Use:   "set-history <n>",
	Short: "Set how many results the session history keeps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("history size must be a positive integer")
		}
		cfg.HistorySize = n
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("history keeps the last %d results", n)))
		return nil
	},
}

func init() {
	configEndpointsCmd.Flags().BoolVar(&endpointsCheck, "check", false, "probe every endpoint")

	configCmd.AddCommand(configShowCmd, configEndpointsCmd,
		configSetEndpointCmd, configRemoveEndpointCmd, configSetDefaultCmd,
		configSetExplorerCmd, configSetAPIKeyCmd, configSetHistoryCmd)
}
