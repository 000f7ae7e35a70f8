package chain

import "strings"

// Network is one well-known EVM endpoint preset. Presets seed the endpoint
// table in a fresh config and resolve --network shorthands; any URL not in
// the table is used verbatim.
type Network struct {
	Name        string
	ChainID     uint64
	RPC         string
	ExplorerAPI string // Etherscan-compatible API base, empty when none
}

func presets() []Network {
	return []Network{
		{Name: "ethereum", ChainID: 1, RPC: "https://ethereum-rpc.publicnode.com", ExplorerAPI: "https://eth.blockscout.com/api"},
		{Name: "sepolia", ChainID: 11155111, RPC: "https://rpc.sepolia.org", ExplorerAPI: "https://eth-sepolia.blockscout.com/api"},
		{Name: "base", ChainID: 8453, RPC: "https://mainnet.base.org", ExplorerAPI: "https://base.blockscout.com/api"},
		{Name: "arbitrum", ChainID: 42161, RPC: "https://arb1.arbitrum.io/rpc", ExplorerAPI: "https://arbitrum.blockscout.com/api"},
		{Name: "optimism", ChainID: 10, RPC: "https://mainnet.optimism.io", ExplorerAPI: "https://optimism.blockscout.com/api"},
		{Name: "polygon", ChainID: 137, RPC: "https://polygon-bor-rpc.publicnode.com", ExplorerAPI: "https://polygon.blockscout.com/api"},
		{Name: "avalanche", ChainID: 43114, RPC: "https://api.avax.network/ext/bc/C/rpc"},
		{Name: "local", ChainID: 31337, RPC: "http://localhost:8545"},
	}
}

// Presets returns the built-in endpoint catalog.
func Presets() []Network {
	return presets()
}

// Preset looks up a built-in network by name, case-insensitively.
func Preset(name string) (Network, bool) {
	for _, n := range presets() {
		if strings.EqualFold(n.Name, name) {
			return n, true
		}
	}
	return Network{}, false
}
