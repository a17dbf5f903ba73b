package settlement

// Category is the rollup bucket a settlement line belongs to.
type Category string

const (
	CategoryCleaning Category = "cleaning"
	CategoryFacility Category = "facility"
	CategoryMonthly  Category = "monthly"
	CategoryMisc     Category = "misc"
)

// RuleKind is the closed set of pricing rule variants.
type RuleKind int

const (
	KindFlatPerCleaning   RuleKind = 1
	KindFlatMonthly       RuleKind = 2
	KindPerBedPerCleaning RuleKind = 3
	KindPerBedMonthly     RuleKind = 4
	KindCheckVariance     RuleKind = 5
	KindExtraConsumables  RuleKind = 6
	KindAdHoc             RuleKind = 7
)

// Valid reports whether the kind is one of the known variants.
func (k RuleKind) Valid() bool {
	return k >= KindFlatPerCleaning && k <= KindAdHoc
}

// Category returns the rollup bucket fixed by the kind.
func (k RuleKind) Category() Category {
	switch k {
	case KindFlatPerCleaning:
		return CategoryCleaning
	case KindPerBedPerCleaning, KindCheckVariance, KindExtraConsumables:
		return CategoryFacility
	case KindFlatMonthly, KindPerBedMonthly:
		return CategoryMonthly
	default:
		return CategoryMisc
	}
}

// PriceRule is one titled, typed pricing instruction of a rule-set.
// Amount is a unit price, or a percentage when Ratio is set.
type PriceRule struct {
	ID        int64
	RuleSetID int64
	Seq       int
	Kind      RuleKind
	Title     string
	Amount    float64
	Discount  bool
	Ratio     bool
}

// Capabilities is the versioned schema contract for optional rule columns,
// supplied at startup instead of probing the store per request.
type Capabilities struct {
	SupportsDiscountFlag bool `yaml:"supports_discount_flag"`
	SupportsRatioFlag    bool `yaml:"supports_ratio_flag"`
}

// DefaultCapabilities assumes a fully migrated schema.
func DefaultCapabilities() Capabilities {
	return Capabilities{SupportsDiscountFlag: true, SupportsRatioFlag: true}
}

// Apply masks flags the schema contract does not support. Stored flags that
// get masked are a configuration anomaly the caller must report.
func (c Capabilities) Apply(rule PriceRule) (PriceRule, bool) {
	masked := false
	if !c.SupportsDiscountFlag && rule.Discount {
		rule.Discount = false
		masked = true
	}
	if !c.SupportsRatioFlag && rule.Ratio {
		rule.Ratio = false
		masked = true
	}
	return rule, masked
}
