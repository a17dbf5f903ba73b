package settlement

import (
	"math"
	"sort"
	"strconv"
)

// vatRate is the statutory value-added tax applied to the statement total.
const vatRate = 0.1

// Totals is the rolled-up view of a statement. Category buckets exclude
// discount lines; discounts are folded into Total at the statement level.
type Totals struct {
	Cleaning   float64 `json:"cleaning"`
	Facility   float64 `json:"facility"`
	Monthly    float64 `json:"monthly"`
	Misc       float64 `json:"misc"`
	Total      float64 `json:"total"`
	VAT        float64 `json:"vat"`
	GrandTotal float64 `json:"grandTotal"`
}

// Statement is one host's full settlement detail for the month.
type Statement struct {
	HostID   int64  `json:"hostId"`
	HostName string `json:"hostName"`
	Lines    []Line `json:"lines"`
	Totals   Totals `json:"totals"`
}

// SummaryRow is the totals-only cross-host comparison row.
type SummaryRow struct {
	HostID     int64   `json:"hostId"`
	HostName   string  `json:"hostName"`
	Cleaning   float64 `json:"cleaning"`
	Facility   float64 `json:"facility"`
	Monthly    float64 `json:"monthly"`
	Misc       float64 `json:"misc"`
	Total      float64 `json:"total"`
	VAT        float64 `json:"vat"`
	GrandTotal float64 `json:"grandTotal"`
}

// Snapshot is the full settlement response for one invocation.
type Snapshot struct {
	Month         string       `json:"month"`
	Summary       []SummaryRow `json:"summary"`
	Statements    []Statement  `json:"statements"`
	HostOptions   []HostOption `json:"hostOptions"`
	AppliedHostID *int64       `json:"appliedHostId"`
}

// BuildStatement assembles a host statement from resolved lines: sorts them
// by date for presentation, assigns stable line ids and rolls up the totals.
func BuildStatement(host Host, lines []Line) Statement {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].RoomID < sorted[j].RoomID
	})

	totals := Totals{}
	var discountSum float64
	for i := range sorted {
		sorted[i].ID = sorted[i].Date + "-" + strconv.FormatInt(sorted[i].RoomID, 10) + "-" + strconv.Itoa(i)
		line := sorted[i]
		if line.Discount {
			discountSum += line.Total
			continue
		}
		switch line.Category {
		case CategoryCleaning:
			totals.Cleaning += line.Total
		case CategoryFacility:
			totals.Facility += line.Total
		case CategoryMonthly:
			totals.Monthly += line.Total
		case CategoryMisc:
			totals.Misc += line.Total
		}
	}
	totals.Total = totals.Cleaning + totals.Facility + totals.Monthly + totals.Misc + discountSum
	totals.VAT = math.Round(totals.Total * vatRate)
	totals.GrandTotal = totals.Total + totals.VAT

	return Statement{
		HostID:   host.ID,
		HostName: host.Name,
		Lines:    sorted,
		Totals:   totals,
	}
}

// SummaryOf flattens a statement into its cross-host comparison row.
func SummaryOf(st Statement) SummaryRow {
	return SummaryRow{
		HostID:     st.HostID,
		HostName:   st.HostName,
		Cleaning:   st.Totals.Cleaning,
		Facility:   st.Totals.Facility,
		Monthly:    st.Totals.Monthly,
		Misc:       st.Totals.Misc,
		Total:      st.Totals.Total,
		VAT:        st.Totals.VAT,
		GrandTotal: st.Totals.GrandTotal,
	}
}
