package config

// Config holds all abistudio configuration. Wallets and registered
// contracts live in their own files next to config.json and are owned by
// the wallet and contract packages.
type Config struct {
	DefaultEndpoint string            `json:"default_endpoint"`
	Endpoints       map[string]string `json:"endpoints"` // name → RPC URL
	Explorers       map[string]string `json:"explorers"` // name → Etherscan-compatible API base
	ExplorerAPIKey  string            `json:"explorer_api_key,omitempty"`
	HistorySize     int               `json:"history_size"` // bounded result history per session

	// internal: config dir path used for Save()
	configDir string
}
