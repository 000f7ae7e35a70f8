// Package ens resolves ENS names to addresses through the on-chain registry,
// so commands accept "vitalik.eth" anywhere a contract or wallet address is
// expected.
package ens

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// The ENS registry lives at the same address on mainnet and Sepolia.
var registryAddr = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// Selectors for resolver(bytes32) and addr(bytes32).
var (
	resolverSel = [4]byte{0x01, 0x78, 0xb8, 0xbf}
	addrSel     = [4]byte{0x3b, 0x3b, 0x57, 0xde}
)

// IsName reports whether s looks like an ENS name rather than a hex address.
func IsName(s string) bool {
	return !strings.HasPrefix(s, "0x") && strings.Contains(s, ".")
}

// Resolve resolves an ENS name on-chain: the registry is asked for the name's
// resolver, then the resolver for its address record.
func Resolve(ctx context.Context, client *chain.Client, name string) (common.Address, error) {
	node := Namehash(name)

	out, err := client.CallContract(ctx, registryAddr, calldata(resolverSel, node), nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying registry for %q: %w", name, err)
	}
	resolver := wordToAddress(out)
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no resolver set for %q", name)
	}

	out, err = client.CallContract(ctx, resolver, calldata(addrSel, node), nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying resolver for %q: %w", name, err)
	}
	addr := wordToAddress(out)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no address record for %q", name)
	}
	return addr, nil
}

// Namehash implements the EIP-137 recursive hash over the name's labels,
// processed right to left.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node[:], labelHash)
	}
	return node
}

func calldata(sel [4]byte, node common.Hash) []byte {
	data := make([]byte, 0, 36)
	data = append(data, sel[:]...)
	return append(data, node[:]...)
}

// wordToAddress reads an address out of one ABI-encoded 32-byte word.
func wordToAddress(word []byte) common.Address {
	if len(word) < 32 {
		return common.Address{}
	}
	return common.BytesToAddress(word[12:32])
}
