package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"

	"github.com/Mohsinsiddi/abistudio/internal/ui"
)

var selectorABI abiFlags

var selectorCmd = &cobra.Command{
	Use:   "selector <signature | 0xselector>",
	Short: "Compute a 4-byte selector, or look one up in an ABI",
	Long: `Given a method signature, compute its 4-byte selector (and the full keccak
hash, which doubles as the event topic for event signatures). Parameter names
and data locations are stripped, so Solidity-style signatures work as-is.

Given a 0x selector and an ABI source, find the method it belongs to.

Examples:
  abistudio selector 'transfer(address,uint256)'
  abistudio selector 'transfer(address to, uint256 amount)'
  abistudio selector 0xa9059cbb --builtin erc20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := strings.TrimSpace(args[0])

		if strings.HasPrefix(arg, "0x") && len(arg) == 10 {
			return lookupSelector(strings.ToLower(arg))
		}

		sig, err := normalizeSignature(arg)
		if err != nil {
			return err
		}
		sel, hash := keccakSelector(sig)

		fmt.Println(ui.KeyValueBlock("Selector", [][2]string{
			{"Signature", sig},
			{"Selector", sel},
			{"Keccak", hash},
		}))
		return nil
	},
}

// keccakSelector hashes a canonical signature, returning the 4-byte selector
// and the full 32-byte hash (the topic, for event signatures).
func keccakSelector(sig string) (selector, hash string) {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[:4]), "0x" + hex.EncodeToString(sum)
}

func lookupSelector(sel string) error {
	if selectorABI.empty() {
		return fmt.Errorf("looking up %s needs an ABI — pass --abi, --abi-file, --builtin or --contract", sel)
	}
	t, err := resolveABI(&selectorABI, "", "")
	if err != nil {
		return err
	}
	for _, m := range t.methods {
		if m.Selector() != sel {
			continue
		}
		fmt.Println(ui.KeyValueBlock("Selector", [][2]string{
			{"Selector", sel},
			{"Method", m.Name},
			{"Signature", m.Signature()},
			{"Mutability", m.StateMutability},
		}))
		return nil
	}
	return fmt.Errorf("no method in this ABI has selector %s", sel)
}

// normalizeSignature canonicalises a human-written signature: parameter names
// and data-location keywords are dropped, whitespace is squeezed out, so
// "transfer(address to, uint256 amount)" becomes "transfer(address,uint256)".
// Splitting respects nesting, so tuple parameters survive.
func normalizeSignature(sig string) (string, error) {
	sig = strings.TrimSpace(sig)
	open := strings.Index(sig, "(")
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", fmt.Errorf("%q is not a method signature like transfer(address,uint256)", sig)
	}
	name := strings.TrimSpace(sig[:open])
	if strings.ContainsAny(name, " \t") {
		return "", fmt.Errorf("method name %q contains whitespace", name)
	}

	inner := sig[open+1 : len(sig)-1]
	if strings.TrimSpace(inner) == "" {
		return name + "()", nil
	}

	parts := splitTopLevel(inner, ',')
	types := make([]string, len(parts))
	for i, part := range parts {
		t, err := typeOf(part)
		if err != nil {
			return "", fmt.Errorf("parameter %d of %q: %v", i, sig, err)
		}
		types[i] = t
	}
	return name + "(" + strings.Join(types, ",") + ")", nil
}

// typeOf extracts the canonical type from one parameter declaration: the
// first depth-zero token, with tuple components normalized recursively so
// their own names and spaces drop out too.
func typeOf(param string) (string, error) {
	tokens := splitTopLevel(strings.TrimSpace(param), ' ')
	if len(tokens) == 0 || tokens[0] == "" {
		return "", fmt.Errorf("empty parameter")
	}
	tok := tokens[0]
	if !strings.HasPrefix(tok, "(") {
		return tok, nil
	}
	end := strings.LastIndex(tok, ")")
	if end < 0 {
		return "", fmt.Errorf("unbalanced tuple %q", tok)
	}
	comps := splitTopLevel(tok[1:end], ',')
	normed := make([]string, len(comps))
	for i, c := range comps {
		n, err := typeOf(c)
		if err != nil {
			return "", err
		}
		normed[i] = n
	}
	return "(" + strings.Join(normed, ",") + ")" + tok[end+1:], nil
}

// splitTopLevel splits on sep only at bracket depth zero, keeping tuple types
// like (uint256,address)[] intact.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func init() {
	selectorABI.register(selectorCmd)
}
