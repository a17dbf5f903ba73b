package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cleanops/internal/observability/metrics"
	settlement "cleanops/internal/settlement/domain"
)

// DataSource loads settlement inputs from postgres in bulk queries. Room
// labels are resolved here by joining buildings, so the engine never sees
// building rows.
type DataSource struct {
	db   *sql.DB
	caps settlement.Capabilities
}

// Option configures the data source.
type Option func(*DataSource)

// WithCapabilities sets the schema contract. When a flag column is not
// supported the rule query never references it, instead of probing
// information_schema at request time.
func WithCapabilities(caps settlement.Capabilities) Option {
	return func(d *DataSource) {
		d.caps = caps
	}
}

// NewDataSource constructs a data source.
func NewDataSource(db *sql.DB, opts ...Option) *DataSource {
	d := &DataSource{db: db, caps: settlement.DefaultCapabilities()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ListHosts returns hosts in scope ordered by name then id.
func (d *DataSource) ListHosts(ctx context.Context, scope settlement.HostScope) ([]settlement.Host, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("settlement source: nil db")
	}
	defer observe("hosts", time.Now())

	query := `
SELECT id, name, register_no
FROM hosts
WHERE ($1::bigint = 0 OR id = $1)
  AND ($2::text = '' OR register_no = $2)
ORDER BY name ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, scope.HostID, scope.RegisterNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.Host
	for rows.Next() {
		var host settlement.Host
		if err := rows.Scan(&host.ID, &host.Name, &host.RegisterNo); err != nil {
			return nil, err
		}
		out = append(out, host)
	}
	return out, rows.Err()
}

// ListRooms returns rooms of the given hosts with their building label.
func (d *DataSource) ListRooms(ctx context.Context, hostIDs []int64) ([]settlement.Room, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("settlement source: nil db")
	}
	if len(hostIDs) == 0 {
		return nil, nil
	}
	defer observe("rooms", time.Now())

	query := `
SELECT r.id, r.host_id, b.short_name || r.room_no, r.bed_count,
	r.checkout_time, r.checkin_time, COALESCE(r.rule_set_id, 0), r.closed,
	r.start_date, r.end_date
FROM rooms r
JOIN buildings b ON b.id = r.building_id
WHERE r.host_id = ANY($1)
ORDER BY r.id ASC`
	rows, err := d.db.QueryContext(ctx, query, hostIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.Room
	for rows.Next() {
		var room settlement.Room
		var endDate sql.NullTime
		if err := rows.Scan(
			&room.ID, &room.HostID, &room.Label, &room.BedCount,
			&room.CheckoutTime, &room.CheckinTime, &room.RuleSetID, &room.Closed,
			&room.StartDate, &endDate,
		); err != nil {
			return nil, err
		}
		if endDate.Valid {
			room.EndDate = endDate.Time
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// ListRules returns rule-set id to ordered rules. Flag columns outside the
// schema contract are selected as constant false.
func (d *DataSource) ListRules(ctx context.Context, ruleSetIDs []int64) (map[int64][]settlement.PriceRule, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("settlement source: nil db")
	}
	if len(ruleSetIDs) == 0 {
		return map[int64][]settlement.PriceRule{}, nil
	}
	defer observe("rules", time.Now())

	discountCol := "FALSE"
	if d.caps.SupportsDiscountFlag {
		discountCol = "discount"
	}
	ratioCol := "FALSE"
	if d.caps.SupportsRatioFlag {
		ratioCol = "ratio"
	}
	query := `
SELECT id, rule_set_id, seq, kind, title, amount, ` + discountCol + `, ` + ratioCol + `
FROM price_rules
WHERE rule_set_id = ANY($1)
ORDER BY rule_set_id ASC, seq ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, ruleSetIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]settlement.PriceRule, len(ruleSetIDs))
	for rows.Next() {
		var rule settlement.PriceRule
		var kind int
		if err := rows.Scan(&rule.ID, &rule.RuleSetID, &rule.Seq, &kind, &rule.Title, &rule.Amount, &rule.Discount, &rule.Ratio); err != nil {
			return nil, err
		}
		rule.Kind = settlement.RuleKind(kind)
		out[rule.RuleSetID] = append(out[rule.RuleSetID], rule)
	}
	return out, rows.Err()
}

// ListWorkEvents returns non-cancelled events inside the month boundary.
func (d *DataSource) ListWorkEvents(ctx context.Context, roomIDs []int64, month settlement.Month) ([]settlement.WorkEvent, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("settlement source: nil db")
	}
	if len(roomIDs) == 0 {
		return nil, nil
	}
	defer observe("work_events", time.Now())

	query := `
SELECT id, room_id, date, checkout_time, checkin_time, amenity_qty, blanket_qty
FROM work_events
WHERE room_id = ANY($1) AND date >= $2 AND date <= $3 AND cancelled = FALSE
ORDER BY date ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, roomIDs, month.Start(), month.End())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.WorkEvent
	for rows.Next() {
		var event settlement.WorkEvent
		if err := rows.Scan(
			&event.ID, &event.RoomID, &event.Date,
			&event.CheckoutTime, &event.CheckinTime,
			&event.AmenityQty, &event.BlanketQty,
		); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// ListAdHocCharges returns charges dated inside the month boundary.
func (d *DataSource) ListAdHocCharges(ctx context.Context, roomIDs []int64, month settlement.Month) ([]settlement.AdHocCharge, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("settlement source: nil db")
	}
	if len(roomIDs) == 0 {
		return nil, nil
	}
	defer observe("adhoc_charges", time.Now())

	query := `
SELECT id, room_id, date, title, amount
FROM adhoc_charges
WHERE room_id = ANY($1) AND date >= $2 AND date <= $3
ORDER BY date ASC, id ASC`
	rows, err := d.db.QueryContext(ctx, query, roomIDs, month.Start(), month.End())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []settlement.AdHocCharge
	for rows.Next() {
		var charge settlement.AdHocCharge
		if err := rows.Scan(&charge.ID, &charge.RoomID, &charge.Date, &charge.Title, &charge.Amount); err != nil {
			return nil, err
		}
		out = append(out, charge)
	}
	return out, rows.Err()
}

func observe(query string, start time.Time) {
	metrics.ObserveDataSource(query, time.Since(start))
}
