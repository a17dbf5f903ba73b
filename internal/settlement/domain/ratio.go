package settlement

// ResolveRatios computes the deferred raw totals of ratio-flagged lines.
// The base for a ratio line is the sum of raw totals over the non-ratio,
// non-discount lines sharing its room and category, so ratio lines never
// feed each other. A group without non-ratio lines resolves to zero.
// The input slice is not mutated.
func ResolveRatios(lines []Line) []Line {
	type groupKey struct {
		roomID   int64
		category Category
	}

	bases := make(map[groupKey]float64)
	for _, line := range lines {
		if line.Ratio || line.Discount {
			continue
		}
		bases[groupKey{line.RoomID, line.Category}] += line.RawTotal
	}

	out := make([]Line, len(lines))
	copy(out, lines)
	for i := range out {
		if !out[i].Ratio {
			continue
		}
		base := bases[groupKey{out[i].RoomID, out[i].Category}]
		out[i].PreDiscountBase = base
		out[i].RawTotal = base * out[i].RatioValue / 100
		out[i].Total = out[i].sign()
	}
	return out
}
