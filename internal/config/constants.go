package config

import "time"

// Timeout constants used across cmd packages.
const (
	CallTimeout      = 30 * time.Second // read-only contract call round trip
	TxConfirmTimeout = 3 * time.Minute  // transaction confirmation wait
)
