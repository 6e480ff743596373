package exchange

// MergedPosition is the net signed position for one symbol.
type MergedPosition struct {
	Symbol    string
	Size      float64
	MarkPrice *float64
}

// Merge folds raw per-contract records into one net size per symbol:
// size = Σ contracts*contractSize, shorts negative. The accumulation is
// commutative, so input order only affects the order of the result, which
// follows first appearance of each symbol.
func Merge(raw []RawPosition) []MergedPosition {
	index := map[string]int{}
	out := make([]MergedPosition, 0, len(raw))

	for _, p := range raw {
		i, ok := index[p.Symbol]
		if !ok {
			i = len(out)
			index[p.Symbol] = i
			out = append(out, MergedPosition{Symbol: p.Symbol})
		}

		sign := 1.0
		if p.Side == SideShort {
			sign = -1.0
		}

		out[i].Size += p.Contracts * p.ContractSize * sign

		if out[i].MarkPrice == nil && p.MarkPrice != nil {
			out[i].MarkPrice = p.MarkPrice
		}
	}

	return out
}
