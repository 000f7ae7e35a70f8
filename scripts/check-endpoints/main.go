// check-endpoints: probes every preset RPC endpoint in parallel and prints a
// health summary (latency, head block, chain id). Handy for spotting dead
// public RPCs before cutting a release that ships them as defaults.
//
// Run from the module root:
//
//	go run ./scripts/check-endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/Mohsinsiddi/abistudio/internal/rpc"
)

const sweepTimeout = 15 * time.Second

func main() {
	endpoints := make(map[string]string)
	expectedID := make(map[string]uint64)
	for _, n := range chain.Presets() {
		endpoints[n.Name] = n.RPC
		expectedID[n.Name] = n.ChainID
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	reports := rpc.CheckAll(ctx, endpoints)
	printTable(reports, expectedID)

	if _, ok := rpc.Fastest(reports); !ok {
		fmt.Fprintln(os.Stderr, "no endpoint answered")
		os.Exit(1)
	}
}

func printTable(reports []rpc.Report, expectedID map[string]uint64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ENDPOINT\tSTATUS\tLATENCY\tBLOCK\tCHAIN ID\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 6)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 20))

	for _, r := range reports {
		if !r.Healthy() {
			fmt.Fprintf(w, "%s\tdead\t—\t—\t—\t%s\n", r.Name, shortErr(r.Err))
			continue
		}
		note := ""
		if want := expectedID[r.Name]; want != 0 && r.ChainID != want {
			note = fmt.Sprintf("chain id %d, expected %d", r.ChainID, want)
		}
		fmt.Fprintf(w, "%s\tok\t%s\t%d\t%d\t%s\n",
			r.Name, r.Latency.Round(time.Millisecond), r.BlockNumber, r.ChainID, note)
	}

	w.Flush() //nolint:errcheck
}

// shortErr keeps one line of the error so the table stays readable.
func shortErr(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:57] + "…"
	}
	return s
}
