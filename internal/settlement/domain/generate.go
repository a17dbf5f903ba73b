package settlement

// RoomInput bundles everything the generator needs for one room: the
// eligibility window, the room's ordered rules (already passed through the
// schema Capabilities), its non-cancelled work events inside the month and
// its dated ad-hoc charges.
type RoomInput struct {
	Room       Room
	ActiveDays int
	Rules      []PriceRule
	Events     []WorkEvent
	Extras     []AdHocCharge
}

// GenerateLines evaluates a room's rules against its events and active-day
// window, producing itemized charge lines. Ratio-flagged rules emit a single
// deferred line per room whose raw total is resolved by ResolveRatios.
func GenerateLines(month Month, in RoomInput) []Line {
	lines := make([]Line, 0, len(in.Rules)+len(in.Extras))
	room := in.Room
	monthDate := month.Start().Format("2006-01-02")

	for _, rule := range in.Rules {
		if !rule.Kind.Valid() {
			continue
		}
		if rule.Ratio {
			lines = append(lines, Line{
				Date:       monthDate,
				Item:       room.Label + " " + rule.Title,
				Amount:     rule.Amount,
				Quantity:   1,
				Category:   rule.Kind.Category(),
				RoomID:     room.ID,
				RoomLabel:  room.Label,
				Discount:   rule.Discount,
				Ratio:      true,
				RatioValue: rule.Amount,
			})
			continue
		}

		switch rule.Kind {
		case KindFlatPerCleaning:
			for _, event := range eligibleEvents(month, in.Events) {
				lines = append(lines, eventLine(room, rule, event, 1))
			}
		case KindPerBedPerCleaning:
			qty := float64(bedCount(room))
			for _, event := range eligibleEvents(month, in.Events) {
				lines = append(lines, eventLine(room, rule, event, qty))
			}
		case KindCheckVariance:
			for _, event := range eligibleEvents(month, in.Events) {
				minutes := varianceMinutes(room, event)
				if minutes <= 0 {
					continue
				}
				lines = append(lines, eventLine(room, rule, event, minutes))
			}
		case KindExtraConsumables:
			for _, event := range eligibleEvents(month, in.Events) {
				extra := extraConsumables(room, event)
				if extra <= 0 {
					continue
				}
				lines = append(lines, eventLine(room, rule, event, extra))
			}
		case KindFlatMonthly:
			perDay := rule.Amount / float64(month.Days())
			lines = append(lines, monthlyLine(room, rule, monthDate, perDay, float64(in.ActiveDays)))
		case KindPerBedMonthly:
			perDay := rule.Amount / float64(month.Days())
			qty := float64(bedCount(room)) * float64(in.ActiveDays)
			lines = append(lines, monthlyLine(room, rule, monthDate, perDay, qty))
		case KindAdHoc:
			lines = append(lines, monthlyLine(room, rule, monthDate, rule.Amount, 1))
		}
	}

	for _, extra := range in.Extras {
		if !month.Contains(extra.Date) {
			continue
		}
		line := Line{
			Date:      extra.Date.Format("2006-01-02"),
			Item:      room.Label + " " + extra.Title,
			Amount:    extra.Amount,
			Quantity:  1,
			Category:  CategoryMisc,
			RoomID:    room.ID,
			RoomLabel: room.Label,
		}
		line.RawTotal = line.Amount * line.Quantity
		line.Total = line.sign()
		lines = append(lines, line)
	}

	return lines
}

// varianceMinutes is the billable checkout/checkin deviation in minutes of
// day. Only lateness past the default checkout and earliness before the
// default checkin count; each side clamps at zero independently.
func varianceMinutes(room Room, event WorkEvent) float64 {
	late := MinuteOfDay(event.CheckoutTime) - MinuteOfDay(room.CheckoutTime)
	if late < 0 {
		late = 0
	}
	early := MinuteOfDay(room.CheckinTime) - MinuteOfDay(event.CheckinTime)
	if early < 0 {
		early = 0
	}
	return late + early
}

// extraConsumables counts amenity and blanket units beyond the room's bed
// count, each category clamped at zero.
func extraConsumables(room Room, event WorkEvent) float64 {
	beds := bedCount(room)
	extra := 0
	if event.AmenityQty > beds {
		extra += event.AmenityQty - beds
	}
	if event.BlanketQty > beds {
		extra += event.BlanketQty - beds
	}
	return float64(extra)
}

func bedCount(room Room) int {
	if room.BedCount < 1 {
		return 1
	}
	return room.BedCount
}

func eligibleEvents(month Month, events []WorkEvent) []WorkEvent {
	out := events[:0:0]
	for _, event := range events {
		if event.Cancelled || !month.Contains(event.Date) {
			continue
		}
		out = append(out, event)
	}
	return out
}

func eventLine(room Room, rule PriceRule, event WorkEvent, quantity float64) Line {
	line := Line{
		Date:      event.Date.Format("2006-01-02"),
		Item:      room.Label + " " + rule.Title,
		Amount:    rule.Amount,
		Quantity:  quantity,
		Category:  rule.Kind.Category(),
		RoomID:    room.ID,
		RoomLabel: room.Label,
		Discount:  rule.Discount,
	}
	line.RawTotal = line.Amount * line.Quantity
	line.Total = line.sign()
	return line
}

func monthlyLine(room Room, rule PriceRule, date string, amount, quantity float64) Line {
	line := Line{
		Date:      date,
		Item:      room.Label + " " + rule.Title,
		Amount:    amount,
		Quantity:  quantity,
		Category:  rule.Kind.Category(),
		RoomID:    room.ID,
		RoomLabel: room.Label,
		Discount:  rule.Discount,
	}
	line.RawTotal = line.Amount * line.Quantity
	line.Total = line.sign()
	return line
}
