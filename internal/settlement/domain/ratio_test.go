package settlement

import "testing"

func TestResolveRatios_BasePerRoomAndCategory(t *testing.T) {
	lines := []Line{
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 100000, Total: 100000},
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 50000, Total: 50000},
		{RoomID: 1, Category: CategoryFacility, RawTotal: 20000, Total: 20000},
		{RoomID: 2, Category: CategoryCleaning, RawTotal: 70000, Total: 70000},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, RatioValue: 10},
	}

	resolved := ResolveRatios(lines)
	ratio := resolved[4]
	if ratio.PreDiscountBase != 150000 {
		t.Fatalf("expected base 150000, got %f", ratio.PreDiscountBase)
	}
	if ratio.RawTotal != 15000 {
		t.Fatalf("expected raw total 15000, got %f", ratio.RawTotal)
	}
	if ratio.Total != 15000 {
		t.Fatalf("expected total 15000, got %f", ratio.Total)
	}
}

func TestResolveRatios_DiscountLinesExcludedFromBase(t *testing.T) {
	lines := []Line{
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 100000, Total: 100000},
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 30000, Total: -30000, Discount: true},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, RatioValue: 20},
	}

	resolved := ResolveRatios(lines)
	if got := resolved[2].RawTotal; got != 20000 {
		t.Fatalf("expected raw total 20000, got %f", got)
	}
}

func TestResolveRatios_DiscountRatioLineIsNegative(t *testing.T) {
	lines := []Line{
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 100000, Total: 100000},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, Discount: true, RatioValue: 10},
	}

	resolved := ResolveRatios(lines)
	if got := resolved[1].Total; got != -10000 {
		t.Fatalf("expected total -10000, got %f", got)
	}
	if got := resolved[1].RawTotal; got != 10000 {
		t.Fatalf("expected raw total 10000, got %f", got)
	}
}

func TestResolveRatios_NoCascading(t *testing.T) {
	lines := []Line{
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 100000, Total: 100000},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, RatioValue: 10},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, RatioValue: 50},
	}

	resolved := ResolveRatios(lines)
	// Both ratio lines resolve against the same non-ratio base, not against
	// each other.
	if got := resolved[1].RawTotal; got != 10000 {
		t.Fatalf("expected 10000, got %f", got)
	}
	if got := resolved[2].RawTotal; got != 50000 {
		t.Fatalf("expected 50000, got %f", got)
	}
}

func TestResolveRatios_EmptyBaseResolvesToZero(t *testing.T) {
	lines := []Line{
		{RoomID: 9, Category: CategoryMonthly, Ratio: true, RatioValue: 25},
	}

	resolved := ResolveRatios(lines)
	if resolved[0].RawTotal != 0 || resolved[0].Total != 0 {
		t.Fatalf("expected zero totals, got raw=%f total=%f", resolved[0].RawTotal, resolved[0].Total)
	}
	if resolved[0].PreDiscountBase != 0 {
		t.Fatalf("expected zero base, got %f", resolved[0].PreDiscountBase)
	}
}

func TestResolveRatios_InputNotMutated(t *testing.T) {
	lines := []Line{
		{RoomID: 1, Category: CategoryCleaning, RawTotal: 100000, Total: 100000},
		{RoomID: 1, Category: CategoryCleaning, Ratio: true, RatioValue: 10},
	}

	_ = ResolveRatios(lines)
	if lines[1].RawTotal != 0 || lines[1].PreDiscountBase != 0 {
		t.Fatalf("expected input slice untouched, got %+v", lines[1])
	}
}
