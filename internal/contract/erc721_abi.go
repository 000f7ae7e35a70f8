package contract

// erc721 is the standard ERC-721 NFT interface (EIP-721) plus the metadata
// extension. Use --builtin erc721 against any NFT collection.
//
// Function selectors:
//
//	name()                  → 0x06fdde03
//	symbol()                → 0x95d89b41
//	tokenURI(u256)          → 0xc87b56dd
//	balanceOf(address)      → 0x70a08231
//	ownerOf(u256)           → 0x6352211e
//	getApproved(u256)       → 0x081812fc
//	isApprovedForAll(a,a)   → 0xe985e9c5
//	approve(a,u256)         → 0x095ea7b3
//	setApprovalForAll(a,b)  → 0xa22cb465
//	transferFrom(a,a,u256)  → 0x23b872dd
//	safeTransferFrom(a,a,u) → 0x42842e0e
func init() {
	RegisterBuiltin(Builtin{
		ID:          "erc721",
		Name:        "ERC-721 NFT",
		Description: "Standard ERC-721 interface (EIP-721) with metadata. Use `--builtin erc721` with any NFT collection.",
		ABI:         erc721ABI,
	})
}

var erc721ABI = []ABIEntry{
	// ── Read ─────────────────────────────────────────────────────────────────
	{
		Name: "name", Type: "function",
		Inputs: []ABIParam{}, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Inputs: []ABIParam{}, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "tokenURI", Type: "function",
		Inputs:          []ABIParam{{Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "ownerOf", Type: "function",
		Inputs:          []ABIParam{{Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{{Name: "", Type: "address"}},
		StateMutability: "view",
	},
	{
		Name: "getApproved", Type: "function",
		Inputs:          []ABIParam{{Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{{Name: "", Type: "address"}},
		StateMutability: "view",
	},
	{
		Name: "isApprovedForAll", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}, {Name: "operator", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	// ── Write ────────────────────────────────────────────────────────────────
	{
		Name: "approve", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{},
		StateMutability: "nonpayable",
	},
	{
		Name: "setApprovalForAll", Type: "function",
		Inputs:          []ABIParam{{Name: "operator", Type: "address"}, {Name: "approved", Type: "bool"}},
		Outputs:         []ABIParam{},
		StateMutability: "nonpayable",
	},
	{
		Name: "transferFrom", Type: "function",
		Inputs:          []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{},
		StateMutability: "nonpayable",
	},
	{
		Name: "safeTransferFrom", Type: "function",
		Inputs:          []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}},
		Outputs:         []ABIParam{},
		StateMutability: "nonpayable",
	},
	// ── Events ───────────────────────────────────────────────────────────────
	{
		Name:   "Transfer",
		Type:   "event",
		Inputs: []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "tokenId", Type: "uint256"}},
	},
	{
		Name:   "Approval",
		Type:   "event",
		Inputs: []ABIParam{{Name: "owner", Type: "address"}, {Name: "approved", Type: "address"}, {Name: "tokenId", Type: "uint256"}},
	},
	{
		Name:   "ApprovalForAll",
		Type:   "event",
		Inputs: []ABIParam{{Name: "owner", Type: "address"}, {Name: "operator", Type: "address"}, {Name: "approved", Type: "bool"}},
	},
}
