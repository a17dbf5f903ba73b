package settlement

// Host is the billing customer owning rooms.
type Host struct {
	ID         int64
	Name       string
	RegisterNo string
}

// HostOption is one entry of the selectable host list.
type HostOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NormalizeRegisterNo strips non-digits and truncates to the six significant
// characters of a business registration code.
func NormalizeRegisterNo(value string) string {
	out := make([]byte, 0, 6)
	for i := 0; i < len(value) && len(out) < 6; i++ {
		if value[i] >= '0' && value[i] <= '9' {
			out = append(out, value[i])
		}
	}
	return string(out)
}
