package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/avast/retry-go/v4"
)

const (
	fetchTimeout  = 15 * time.Second
	fetchAttempts = 3
	fetchDelay    = 400 * time.Millisecond
)

// Fetcher retrieves ABIs from block explorers or plain URLs.
type Fetcher struct {
	client *http.Client
	apiKey string
}

// NewFetcher creates an ABI fetcher. The API key is optional; public
// Blockscout instances ignore it.
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		apiKey: apiKey,
	}
}

// RawFromExplorer fetches a verified contract's ABI JSON from an
// Etherscan-compatible API. apiBase example: "https://eth.blockscout.com/api".
// The bytes are the explorer's verbatim ABI text, suitable for storage.
func (f *Fetcher) RawFromExplorer(apiBase, address string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s?module=contract&action=getabi&address=%s", apiBase, address)
	if f.apiKey != "" {
		url += "&apikey=" + f.apiKey
	}

	body, err := f.get(url)
	if err != nil {
		return nil, err
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: explorer response: %v", ErrParse, err)
	}
	if result.Status != "1" {
		return nil, fmt.Errorf("explorer refused %s: %s — is the contract verified?", address, result.Message)
	}
	return json.RawMessage(result.Result), nil
}

// FetchFromExplorer fetches and parses a verified contract's ABI.
func (f *Fetcher) FetchFromExplorer(apiBase, address string) ([]ABIEntry, error) {
	raw, err := f.RawFromExplorer(apiBase, address)
	if err != nil {
		return nil, err
	}
	return ParseABI(raw)
}

// RawFromURL fetches ABI JSON from any URL without parsing it.
func (f *Fetcher) RawFromURL(url string) (json.RawMessage, error) {
	return f.get(url)
}

// FetchFromURL fetches a raw ABI JSON array from any URL.
func (f *Fetcher) FetchFromURL(url string) ([]ABIEntry, error) {
	body, err := f.get(url)
	if err != nil {
		return nil, err
	}
	return ParseABI(body)
}

// ContractName looks up the verified contract name via the explorer's
// getsourcecode action. Returns "" when the contract is unverified or the
// lookup fails in any way; the name is cosmetic and never blocks a fetch.
func (f *Fetcher) ContractName(apiBase, address string) string {
	url := fmt.Sprintf("%s?module=contract&action=getsourcecode&address=%s", apiBase, address)
	if f.apiKey != "" {
		url += "&apikey=" + f.apiKey
	}

	resp, err := f.client.Get(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var result struct {
		Status string `json:"status"`
		Result []struct {
			ContractName string `json:"ContractName"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ""
	}
	if result.Status != "1" || len(result.Result) == 0 {
		return ""
	}
	return result.Result[0].ContractName
}

// get retries transient transport failures. A reachable server's body is
// returned as-is; 5xx statuses count as transient.
func (f *Fetcher) get(url string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			resp, err := f.client.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 {
				return fmt.Errorf("server status %s", resp.Status)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(fetchDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", chain.ErrConnection, url, err)
	}
	return body, nil
}

// RawFromArtifact reads the ABI JSON out of a local file that is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"abi":[...],"bytecode":"0x...",...}
//
// Both formats are detected automatically; the returned bytes are always the
// bare ABI array.
func RawFromArtifact(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read ABI file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: ABI file is empty: %s", ErrParse, path)
	}

	// Detect a Hardhat/Foundry artifact (object with an "abi" key).
	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if json.Unmarshal(data, &artifact) == nil && len(artifact.ABI) > 1 && artifact.ABI[0] == '[' {
		return artifact.ABI, nil
	}

	// Fall back: treat the whole file as a raw ABI array.
	return json.RawMessage(data), nil
}

// LoadFromArtifact loads and parses an ABI file or compiler artifact.
func LoadFromArtifact(path string) ([]ABIEntry, error) {
	raw, err := RawFromArtifact(path)
	if err != nil {
		return nil, err
	}
	return ParseABI(raw)
}
