package settlement

import (
	"strconv"
	"strings"
	"time"
)

// WorkEvent is one cleaning occurrence for a room on a date. Times are the
// actual checkout/checkin recorded by the field team. Cancelled events never
// produce charges.
type WorkEvent struct {
	ID           int64
	RoomID       int64
	Date         time.Time
	CheckoutTime string
	CheckinTime  string
	AmenityQty   int
	BlanketQty   int
	Cancelled    bool
}

// AdHocCharge is a dated, titled one-off charge tied directly to a room,
// outside the rule evaluation loop.
type AdHocCharge struct {
	ID     int64
	RoomID int64
	Date   time.Time
	Title  string
	Amount float64
}

// MinuteOfDay converts an HH:MM[:SS] clock string to minutes since midnight.
// Seconds contribute fractionally. Malformed or empty values resolve to 0.
func MinuteOfDay(value string) float64 {
	if value == "" {
		return 0
	}
	parts := strings.Split(value, ":")
	var h, m, s float64
	if len(parts) > 0 {
		h, _ = strconv.ParseFloat(parts[0], 64)
	}
	if len(parts) > 1 {
		m, _ = strconv.ParseFloat(parts[1], 64)
	}
	if len(parts) > 2 {
		s, _ = strconv.ParseFloat(parts[2], 64)
	}
	return h*60 + m + s/60
}
