package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// ErrContractNotFound is returned when a name is not in the registry.
var ErrContractNotFound = errors.New("contract not found")

// Entry is a registered contract: a short name bound to an address, an
// endpoint and the ABI kept as raw JSON — a faithful copy of whatever was
// pasted, loaded or fetched, parsed again on use.
type Entry struct {
	Name     string          `json:"name"`
	Address  string          `json:"address"`
	Endpoint string          `json:"endpoint,omitempty"`
	ABI      json.RawMessage `json:"abi"`
	Source   string          `json:"source,omitempty"` // file path, URL or "inline"
	AddedAt  string          `json:"added_at"`
}

// Methods parses the stored ABI and derives its callable methods.
func (e *Entry) Methods() ([]Method, error) {
	entries, err := ParseABI(e.ABI)
	if err != nil {
		return nil, err
	}
	return DeriveMethods(entries), nil
}

// Registry stores contract entries under short names in a JSON file.
type Registry struct {
	path      string
	contracts map[string]*Entry
}

// NewRegistry creates a Registry backed by a JSON file.
func NewRegistry(path string) *Registry {
	return &Registry{
		path:      path,
		contracts: make(map[string]*Entry),
	}
}

// Load reads stored contracts from disk. A missing file is an empty registry.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing contract registry: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		r.contracts[e.Name] = e
	}
	return nil
}

// Save writes all contracts to disk, sorted by name.
func (r *Registry) Save() error {
	entries := make([]Entry, 0, len(r.contracts))
	for _, e := range r.contracts {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}

// Add adds or updates a contract entry and stamps AddedAt when unset.
func (r *Registry) Add(e *Entry) {
	if e.AddedAt == "" {
		e.AddedAt = time.Now().UTC().Format(time.RFC3339)
	}
	r.contracts[e.Name] = e
}

// Get returns a contract by name.
func (r *Registry) Get(name string) (*Entry, error) {
	e, ok := r.contracts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	return e, nil
}

// All returns all registered contracts sorted by name.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.contracts))
	for _, e := range r.contracts {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Remove deletes a contract entry.
func (r *Registry) Remove(name string) error {
	if _, ok := r.contracts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	delete(r.contracts, name)
	return nil
}
