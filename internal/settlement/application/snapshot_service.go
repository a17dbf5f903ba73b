package application

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"cleanops/internal/auth"
	"cleanops/internal/errorlog"
	"cleanops/internal/observability/metrics"
	settlement "cleanops/internal/settlement/domain"
)

// SnapshotQuery is one settlement invocation. Month must be an explicit
// YYYY-MM value; the HTTP boundary decides what the default month is.
// HostID is honored only for admin callers, everyone else is hard-scoped to
// the host behind their registration code.
type SnapshotQuery struct {
	Month      string
	HostID     int64
	ActorRoles []string
	RegisterNo string
}

// SnapshotService computes monthly settlement snapshots. The computation is
// a pure transformation over data fetched once per invocation; configuration
// gaps are reported to the error sink and never abort the run.
type SnapshotService struct {
	source settlement.DataSource
	errs   errorlog.Logger
	caps   settlement.Capabilities
	logger *log.Logger
}

// NewSnapshotService constructs the service.
func NewSnapshotService(source settlement.DataSource, errs errorlog.Logger, caps settlement.Capabilities, logger *log.Logger) (*SnapshotService, error) {
	if source == nil {
		return nil, settlement.ErrNilDataSource
	}
	return &SnapshotService{
		source: source,
		errs:   errs,
		caps:   caps,
		logger: logger,
	}, nil
}

// hostWork is the per-host slice of the run handed to one worker.
type hostWork struct {
	host  settlement.Host
	rooms []settlement.RoomInput
}

// Build computes the settlement snapshot for one month and caller scope.
func (s *SnapshotService) Build(ctx context.Context, query SnapshotQuery) (*settlement.Snapshot, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSnapshotBuild(result, time.Since(start))
	}()

	month, err := settlement.ParseMonth(query.Month)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	roles := auth.NormalizeRoles(query.ActorRoles)
	isAdmin := auth.HasRole(roles, auth.RoleAdmin)
	isHostOnly := auth.HasRole(roles, auth.RoleHost) && !isAdmin

	scope := settlement.HostScope{}
	var applied *int64
	if query.HostID > 0 {
		hostID := query.HostID
		applied = &hostID
		if isAdmin {
			scope.HostID = hostID
		}
	}
	if isHostOnly {
		scope.RegisterNo = settlement.NormalizeRegisterNo(query.RegisterNo)
	}

	snapshot := &settlement.Snapshot{
		Month:         month.String(),
		Summary:       []settlement.SummaryRow{},
		Statements:    []settlement.Statement{},
		HostOptions:   []settlement.HostOption{},
		AppliedHostID: applied,
	}

	hosts, err := s.source.ListHosts(ctx, scope)
	if err != nil {
		result = metrics.ResultError
		return nil, s.failLoad("hosts", err, month, query)
	}
	if len(hosts) == 0 {
		return snapshot, nil
	}
	for _, host := range hosts {
		snapshot.HostOptions = append(snapshot.HostOptions, settlement.HostOption{ID: host.ID, Name: host.Name})
	}

	hostIDs := make([]int64, 0, len(hosts))
	for _, host := range hosts {
		hostIDs = append(hostIDs, host.ID)
	}
	rooms, err := s.source.ListRooms(ctx, hostIDs)
	if err != nil {
		result = metrics.ResultError
		return nil, s.failLoad("rooms", err, month, query)
	}

	eligible, roomIDs, ruleSetIDs := s.resolveEligibility(month, rooms)
	if len(roomIDs) == 0 {
		return snapshot, nil
	}

	rules, err := s.source.ListRules(ctx, ruleSetIDs)
	if err != nil {
		result = metrics.ResultError
		return nil, s.failLoad("rules", err, month, query)
	}
	events, err := s.source.ListWorkEvents(ctx, roomIDs, month)
	if err != nil {
		result = metrics.ResultError
		return nil, s.failLoad("work events", err, month, query)
	}
	extras, err := s.source.ListAdHocCharges(ctx, roomIDs, month)
	if err != nil {
		result = metrics.ResultError
		return nil, s.failLoad("adhoc charges", err, month, query)
	}

	work := s.assembleWork(ctx, month, hosts, eligible, rules, events, extras)
	if len(work) == 0 {
		return snapshot, nil
	}

	statements := make([]settlement.Statement, len(work))
	var wg sync.WaitGroup
	for i := range work {
		wg.Add(1)
		go func(slot int, unit hostWork) {
			defer wg.Done()
			var lines []settlement.Line
			for _, room := range unit.rooms {
				lines = append(lines, settlement.GenerateLines(month, room)...)
			}
			statements[slot] = settlement.BuildStatement(unit.host, settlement.ResolveRatios(lines))
		}(i, work[i])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		result = metrics.ResultError
		return nil, err
	}

	snapshot.Statements = statements
	for _, st := range statements {
		snapshot.Summary = append(snapshot.Summary, settlement.SummaryOf(st))
	}
	return snapshot, nil
}

// resolveEligibility filters rooms to the month window and collects the ids
// the bulk loads need.
func (s *SnapshotService) resolveEligibility(month settlement.Month, rooms []settlement.Room) (map[int64][]settlement.RoomInput, []int64, []int64) {
	eligible := make(map[int64][]settlement.RoomInput)
	var roomIDs []int64
	setIDs := make(map[int64]struct{})

	for _, room := range rooms {
		window, ok := room.ActiveWindow(month)
		if !ok {
			continue
		}
		eligible[room.HostID] = append(eligible[room.HostID], settlement.RoomInput{
			Room:       room,
			ActiveDays: window.ActiveDays,
		})
		roomIDs = append(roomIDs, room.ID)
		if room.RuleSetID > 0 {
			setIDs[room.RuleSetID] = struct{}{}
		}
	}

	ruleSetIDs := make([]int64, 0, len(setIDs))
	for id := range setIDs {
		ruleSetIDs = append(ruleSetIDs, id)
	}
	sort.Slice(ruleSetIDs, func(i, j int) bool { return ruleSetIDs[i] < ruleSetIDs[j] })
	return eligible, roomIDs, ruleSetIDs
}

// assembleWork distributes rules, events and charges onto the eligible rooms
// and reports configuration anomalies without aborting the run.
func (s *SnapshotService) assembleWork(
	ctx context.Context,
	month settlement.Month,
	hosts []settlement.Host,
	eligible map[int64][]settlement.RoomInput,
	rules map[int64][]settlement.PriceRule,
	events []settlement.WorkEvent,
	extras []settlement.AdHocCharge,
) []hostWork {
	eventsByRoom := make(map[int64][]settlement.WorkEvent)
	for _, event := range events {
		if event.Cancelled {
			continue
		}
		eventsByRoom[event.RoomID] = append(eventsByRoom[event.RoomID], event)
	}
	extrasByRoom := make(map[int64][]settlement.AdHocCharge)
	for _, extra := range extras {
		extrasByRoom[extra.RoomID] = append(extrasByRoom[extra.RoomID], extra)
	}

	flagsMasked := false
	work := make([]hostWork, 0, len(hosts))
	for _, host := range hosts {
		roomInputs := eligible[host.ID]
		if len(roomInputs) == 0 {
			continue
		}
		unit := hostWork{host: host, rooms: make([]settlement.RoomInput, 0, len(roomInputs))}
		for _, input := range roomInputs {
			room := input.Room
			if room.RuleSetID == 0 {
				s.reportAnomaly(ctx, "missing_rule_set", "room has no assigned price rule-set", month, host, room)
			} else if len(rules[room.RuleSetID]) == 0 {
				s.reportAnomaly(ctx, "empty_rule_set", "room rule-set resolves to zero rules", month, host, room)
			}
			for _, rule := range rules[room.RuleSetID] {
				applied, masked := s.caps.Apply(rule)
				if masked {
					flagsMasked = true
				}
				input.Rules = append(input.Rules, applied)
			}
			input.Events = eventsByRoom[room.ID]
			input.Extras = extrasByRoom[room.ID]
			unit.rooms = append(unit.rooms, input)
		}
		work = append(work, unit)
	}

	if flagsMasked {
		metrics.IncSettlementAnomaly("flags_masked")
		s.report(ctx, errorlog.Entry{
			Level:   errorlog.LevelWarn,
			Message: "schema contract disables discount/ratio flags still present on stored rules",
			Context: map[string]any{"month": month.String()},
		})
	}
	return work
}

func (s *SnapshotService) reportAnomaly(ctx context.Context, kind, message string, month settlement.Month, host settlement.Host, room settlement.Room) {
	metrics.IncSettlementAnomaly(kind)
	s.report(ctx, errorlog.Entry{
		Level:   errorlog.LevelWarn,
		Message: message,
		Context: map[string]any{
			"month":  month.String(),
			"hostId": host.ID,
			"roomId": room.ID,
		},
	})
}

func (s *SnapshotService) report(ctx context.Context, entry errorlog.Entry) {
	if s.errs == nil {
		return
	}
	if err := s.errs.Report(ctx, entry); err != nil && s.logger != nil {
		s.logger.Printf("error report failed: %v", err)
	}
}

func (s *SnapshotService) failLoad(what string, err error, month settlement.Month, query SnapshotQuery) error {
	if s.logger != nil {
		s.logger.Printf("snapshot load %s failed: month=%s host_filter=%s roles=%v err=%v",
			what, month.String(), strconv.FormatInt(query.HostID, 10), query.ActorRoles, err)
	}
	return fmt.Errorf("snapshot service: load %s: %w", what, err)
}
