package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Manifest lists contracts to import in bulk: a name bound to an address and
// an ABI that is either inlined or fetched from a URL. Teams publish one of
// these next to their deploy artifacts so everyone registers the same set.
type Manifest struct {
	Contracts map[string]ManifestEntry `json:"contracts"`
}

// ManifestEntry describes one contract in a manifest.
type ManifestEntry struct {
	Address  string          `json:"address"`
	Endpoint string          `json:"endpoint,omitempty"`
	ABIURL   string          `json:"abi_url,omitempty"`
	ABI      json.RawMessage `json:"abi,omitempty"`
}

// FetchManifest downloads and parses a manifest.
func (f *Fetcher) FetchManifest(url string) (*Manifest, error) {
	body, err := f.get(url)
	if err != nil {
		return nil, err
	}
	return parseManifest(body)
}

// LoadManifest reads a manifest from a local file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrParse, err)
	}
	if len(m.Contracts) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no contracts", ErrParse)
	}
	return &m, nil
}

// Import upserts every manifest entry into the registry, fetching ABIs
// through f where only a URL is given. A bad entry is skipped with a warning
// instead of aborting the rest. The caller saves the registry afterwards.
func (m *Manifest) Import(reg *Registry, f *Fetcher) (added []string, warnings []string) {
	names := make([]string, 0, len(m.Contracts))
	for name := range m.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		me := m.Contracts[name]
		abi := me.ABI
		source := "manifest"

		if len(abi) == 0 {
			if me.ABIURL == "" {
				warnings = append(warnings, fmt.Sprintf("%s: entry has neither abi nor abi_url", name))
				continue
			}
			body, err := f.get(me.ABIURL)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			abi = body
			source = me.ABIURL
		}

		if _, err := ParseABI(abi); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		reg.Add(&Entry{
			Name:     name,
			Address:  me.Address,
			Endpoint: me.Endpoint,
			ABI:      abi,
			Source:   source,
		})
		added = append(added, name)
	}
	return added, warnings
}
