// Package rpc probes configured endpoints so users can see which of their
// named RPC URLs are alive before pointing a call at one.
package rpc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const probeTimeout = 5 * time.Second

// Report holds the outcome of probing one named endpoint.
type Report struct {
	Name        string
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	ChainID     uint64
	Err         error
}

// Healthy reports whether the endpoint answered the probe.
func (r Report) Healthy() bool { return r.Err == nil }

// CheckAll probes every named endpoint in parallel and returns the reports
// sorted by name. Each probe is a single attempt with a bounded timeout;
// callers decide what to do with dead entries.
func CheckAll(ctx context.Context, endpoints map[string]string) []Report {
	reports := make([]Report, 0, len(endpoints))
	for name, url := range endpoints {
		reports = append(reports, Report{Name: name, URL: url})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })

	var wg sync.WaitGroup
	for i := range reports {
		wg.Add(1)
		go func(r *Report) {
			defer wg.Done()
			probe(ctx, r)
		}(&reports[i])
	}
	wg.Wait()
	return reports
}

// Fastest returns the lowest-latency healthy report, or false when every
// endpoint failed its probe.
func Fastest(reports []Report) (Report, bool) {
	var best Report
	found := false
	for _, r := range reports {
		if !r.Healthy() {
			continue
		}
		if !found || r.Latency < best.Latency {
			best = r
			found = true
		}
	}
	return best, found
}

func probe(ctx context.Context, r *Report) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	c, err := ethclient.DialContext(ctx, r.URL)
	if err != nil {
		r.Err = err
		return
	}
	defer c.Close()

	block, err := c.BlockNumber(ctx)
	r.Latency = time.Since(start)
	if err != nil {
		r.Err = err
		return
	}
	r.BlockNumber = block

	if id, err := c.ChainID(ctx); err == nil {
		r.ChainID = id.Uint64()
	}
}
