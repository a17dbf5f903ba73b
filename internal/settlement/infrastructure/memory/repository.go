package memory

import (
	"context"
	"sort"
	"sync"

	settlement "cleanops/internal/settlement/domain"
)

// DataSource is an in-memory settlement data source for tests and fixtures.
// It mirrors the ordering guarantees of the postgres implementation.
type DataSource struct {
	mu      sync.RWMutex
	hosts   []settlement.Host
	rooms   []settlement.Room
	rules   []settlement.PriceRule
	events  []settlement.WorkEvent
	charges []settlement.AdHocCharge
}

// NewDataSource constructs an empty data source.
func NewDataSource() *DataSource {
	return &DataSource{}
}

// AddHosts appends host fixtures.
func (d *DataSource) AddHosts(hosts ...settlement.Host) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hosts = append(d.hosts, hosts...)
}

// AddRooms appends room fixtures.
func (d *DataSource) AddRooms(rooms ...settlement.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = append(d.rooms, rooms...)
}

// AddRules appends price rule fixtures.
func (d *DataSource) AddRules(rules ...settlement.PriceRule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules = append(d.rules, rules...)
}

// AddWorkEvents appends work event fixtures.
func (d *DataSource) AddWorkEvents(events ...settlement.WorkEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
}

// AddAdHocCharges appends ad-hoc charge fixtures.
func (d *DataSource) AddAdHocCharges(charges ...settlement.AdHocCharge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.charges = append(d.charges, charges...)
}

// ListHosts returns hosts in scope ordered by name then id.
func (d *DataSource) ListHosts(ctx context.Context, scope settlement.HostScope) ([]settlement.Host, error) {
	_ = ctx
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]settlement.Host, 0, len(d.hosts))
	for _, host := range d.hosts {
		if scope.HostID > 0 && host.ID != scope.HostID {
			continue
		}
		if scope.RegisterNo != "" && settlement.NormalizeRegisterNo(host.RegisterNo) != scope.RegisterNo {
			continue
		}
		out = append(out, host)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListRooms returns rooms of the given hosts ordered by id.
func (d *DataSource) ListRooms(ctx context.Context, hostIDs []int64) ([]settlement.Room, error) {
	_ = ctx
	wanted := toSet(hostIDs)
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]settlement.Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		if _, ok := wanted[room.HostID]; ok {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListRules returns rule-set id to ordered rules.
func (d *DataSource) ListRules(ctx context.Context, ruleSetIDs []int64) (map[int64][]settlement.PriceRule, error) {
	_ = ctx
	wanted := toSet(ruleSetIDs)
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[int64][]settlement.PriceRule, len(ruleSetIDs))
	for _, rule := range d.rules {
		if _, ok := wanted[rule.RuleSetID]; ok {
			out[rule.RuleSetID] = append(out[rule.RuleSetID], rule)
		}
	}
	for id := range out {
		rules := out[id]
		sort.Slice(rules, func(i, j int) bool {
			if rules[i].Seq != rules[j].Seq {
				return rules[i].Seq < rules[j].Seq
			}
			return rules[i].ID < rules[j].ID
		})
		out[id] = rules
	}
	return out, nil
}

// ListWorkEvents returns non-cancelled events inside the month, date order.
func (d *DataSource) ListWorkEvents(ctx context.Context, roomIDs []int64, month settlement.Month) ([]settlement.WorkEvent, error) {
	_ = ctx
	wanted := toSet(roomIDs)
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]settlement.WorkEvent, 0, len(d.events))
	for _, event := range d.events {
		if _, ok := wanted[event.RoomID]; !ok {
			continue
		}
		if event.Cancelled || !month.Contains(event.Date) {
			continue
		}
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListAdHocCharges returns charges dated inside the month, date order.
func (d *DataSource) ListAdHocCharges(ctx context.Context, roomIDs []int64, month settlement.Month) ([]settlement.AdHocCharge, error) {
	_ = ctx
	wanted := toSet(roomIDs)
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]settlement.AdHocCharge, 0, len(d.charges))
	for _, charge := range d.charges {
		if _, ok := wanted[charge.RoomID]; !ok {
			continue
		}
		if !month.Contains(charge.Date) {
			continue
		}
		out = append(out, charge)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
