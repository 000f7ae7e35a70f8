package contract

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestABI = `[{"name":"ping","type":"function","inputs":[],"outputs":[],"stateMutability":"view"}]`

// ---------------------------------------------------------------------------
// LoadManifest / parsing
// ---------------------------------------------------------------------------

func TestLoadManifest(t *testing.T) {
	path := writeTemp(t, "deployments.json", `{
		"contracts": {
			"token": {"address": "0x1111111111111111111111111111111111111111", "endpoint": "sepolia", "abi": `+manifestABI+`}
		}
	}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Contains(t, m.Contracts, "token")
	assert.Equal(t, "sepolia", m.Contracts["token"].Endpoint)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadManifestBadJSON(t *testing.T) {
	path := writeTemp(t, "bad.json", "{nope")

	_, err := LoadManifest(path)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeTemp(t, "empty.json", `{"contracts": {}}`)

	_, err := LoadManifest(path)
	assert.ErrorIs(t, err, ErrParse)
}

func TestFetchManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contracts": {"vault": {"address": "0x2", "abi": ` + manifestABI + `}}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	f := NewFetcher("")
	f.client = srv.Client()

	m, err := f.FetchManifest(srv.URL)
	require.NoError(t, err)
	assert.Contains(t, m.Contracts, "vault")
}

// ---------------------------------------------------------------------------
// Import
// ---------------------------------------------------------------------------

func TestImportInlineABI(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "contracts.json"))
	m := &Manifest{Contracts: map[string]ManifestEntry{
		"beta":  {Address: "0xB", ABI: []byte(manifestABI)},
		"alpha": {Address: "0xA", ABI: []byte(manifestABI)},
	}}

	added, warnings := m.Import(reg, NewFetcher(""))
	assert.Equal(t, []string{"alpha", "beta"}, added, "import order is sorted by name")
	assert.Empty(t, warnings)

	e, err := reg.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "0xA", e.Address)
	assert.Equal(t, "manifest", e.Source)
	assert.NotEmpty(t, e.AddedAt)
}

func TestImportFetchesABIURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(manifestABI)) //nolint:errcheck
	}))
	defer srv.Close()

	f := NewFetcher("")
	f.client = srv.Client()

	reg := NewRegistry(filepath.Join(t.TempDir(), "contracts.json"))
	m := &Manifest{Contracts: map[string]ManifestEntry{
		"remote": {Address: "0xC", ABIURL: srv.URL + "/abi.json"},
	}}

	added, warnings := m.Import(reg, f)
	assert.Equal(t, []string{"remote"}, added)
	assert.Empty(t, warnings)

	e, err := reg.Get("remote")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/abi.json", e.Source)
	assert.JSONEq(t, manifestABI, string(e.ABI))
}

func TestImportSkipsBadEntries(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "contracts.json"))
	m := &Manifest{Contracts: map[string]ManifestEntry{
		"good":    {Address: "0x1", ABI: []byte(manifestABI)},
		"no-abi":  {Address: "0x2"},
		"bad-abi": {Address: "0x3", ABI: []byte("not json")},
		"dead":    {Address: "0x4", ABIURL: "http://127.0.0.1:1/abi.json"},
	}}

	added, warnings := m.Import(reg, NewFetcher(""))
	assert.Equal(t, []string{"good"}, added)
	assert.Len(t, warnings, 3, "one warning per skipped entry")

	_, err := reg.Get("no-abi")
	assert.ErrorIs(t, err, ErrContractNotFound)
}
