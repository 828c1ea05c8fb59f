package entities

import (
	"fmt"
	"strings"
)

// wormholeChains maps wormhole chain ids to their names.
var wormholeChains = map[int]string{
	0:     "Unset",
	1:     "Solana",
	2:     "Ethereum",
	3:     "Terra",
	4:     "BSC",
	5:     "Polygon",
	6:     "Avalanche",
	7:     "Oasis",
	8:     "Algorand",
	9:     "Aurora",
	10:    "Fantom",
	11:    "Karura",
	12:    "Acala",
	13:    "Klaytn",
	14:    "Celo",
	15:    "Near",
	16:    "Moonbeam",
	18:    "Terra2",
	19:    "Injective",
	20:    "Osmosis",
	21:    "Sui",
	22:    "Aptos",
	23:    "Arbitrum",
	24:    "Optimism",
	25:    "Gnosis",
	26:    "PythNet",
	28:    "Xpla",
	29:    "Btc",
	30:    "Base",
	31:    "FileCoin",
	32:    "Sei",
	33:    "Rootstock",
	34:    "Scroll",
	35:    "Mantle",
	36:    "Blast",
	37:    "XLayer",
	38:    "Linea",
	39:    "Berachain",
	40:    "SeiEVM",
	41:    "Eclipse",
	42:    "BOB",
	43:    "Snaxchain",
	44:    "Unichain",
	45:    "Worldchain",
	46:    "Ink",
	47:    "HyperEVM",
	48:    "Monad",
	49:    "Movement",
	3104:  "Wormchain",
	4000:  "Cosmoshub",
	4001:  "Evmos",
	4002:  "Kujira",
	4003:  "Neutron",
	4004:  "Celestia",
	4005:  "Stargaze",
	4006:  "Seda",
	4007:  "Dymension",
	4008:  "Provenance",
	4009:  "Noble",
	10002: "Sepolia",
	10003: "ArbitrumSepolia",
	10004: "BaseSepolia",
	10005: "OptimismSepolia",
	10006: "Holesky",
	10007: "PolygonSepolia",
}

// ChainName returns the lowercase name of a wormhole chain. Unknown and missing ids
// resolve to "unknown chain (<id>)".
func ChainName(chainID *int) string {
	if chainID == nil {
		return "unknown chain (none)"
	}
	name, ok := wormholeChains[*chainID]
	if !ok {
		name = fmt.Sprintf("Unknown Chain (%d)", *chainID)
	}
	return strings.ToLower(name)
}
