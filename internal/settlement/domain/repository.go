package settlement

import "context"

// HostScope narrows the host universe of one invocation. HostID filters to a
// single host when set; RegisterNo hard-scopes non-privileged callers to
// their own host. Both zero values mean no filtering.
type HostScope struct {
	HostID     int64
	RegisterNo string
}

// DataSource loads the read-only inputs of a settlement run in bulk, front
// of any computation. Implementations must order hosts by name and events by
// date so runs stay deterministic.
type DataSource interface {
	ListHosts(ctx context.Context, scope HostScope) ([]Host, error)
	ListRooms(ctx context.Context, hostIDs []int64) ([]Room, error)
	ListRules(ctx context.Context, ruleSetIDs []int64) (map[int64][]PriceRule, error)
	ListWorkEvents(ctx context.Context, roomIDs []int64, month Month) ([]WorkEvent, error)
	ListAdHocCharges(ctx context.Context, roomIDs []int64, month Month) ([]AdHocCharge, error)
}
