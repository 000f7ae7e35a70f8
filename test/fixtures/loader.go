// Package fixtures loads shared test data for the integration and e2e
// suites.
package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Dir returns the absolute path to the fixtures directory.
func Dir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// ABIPath returns the absolute path to a fixture ABI file.
func ABIPath(filename string) string {
	return filepath.Join(Dir(), "abis", filename)
}

// LoadABI reads a fixture ABI JSON file and returns its raw bytes.
func LoadABI(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(ABIPath(filename))
	require.NoError(t, err, "loading fixture ABI %s", filename)
	return data
}
