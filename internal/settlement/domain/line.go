package settlement

// Line is one output row of a statement. RawTotal is the unsigned charge,
// Total carries the discount sign. Ratio lines keep the percentage in
// RatioValue and the base they were computed against in PreDiscountBase.
type Line struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	Item            string   `json:"item"`
	Amount          float64  `json:"amount"`
	Quantity        float64  `json:"quantity"`
	Total           float64  `json:"total"`
	RawTotal        float64  `json:"rawTotal"`
	Category        Category `json:"category"`
	RoomID          int64    `json:"roomId"`
	RoomLabel       string   `json:"roomLabel"`
	Discount        bool     `json:"minusYn"`
	Ratio           bool     `json:"ratioYn"`
	RatioValue      float64  `json:"ratioValue,omitempty"`
	PreDiscountBase float64  `json:"preDiscountBase,omitempty"`
}

// sign applies the discount sign to the raw total.
func (l Line) sign() float64 {
	if l.Discount {
		return -l.RawTotal
	}
	return l.RawTotal
}
