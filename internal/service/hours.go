package service

// Time-of-day business rules. Three independent hour-boundary checks;
// callers supply the hour so ordering decisions stay testable.

// IsDeliveryOpenAt reports whether the storefront takes orders at the
// given hour. The store closes from 3 AM until 6 AM.
func IsDeliveryOpenAt(hour int) bool {
	return hour < 3 || hour >= 6
}

// CanSellAlcoholAt reports whether alcohol can be sold at the given hour.
// The window is 8 AM to 3 AM, wrapping midnight.
func CanSellAlcoholAt(hour int) bool {
	return hour >= 8 || hour < 3
}

// IsNightMoodAt reports whether the hero copy switches to its night
// variant. The night window is 8 PM to 3 AM, wrapping midnight.
func IsNightMoodAt(hour int) bool {
	return hour >= 20 || hour < 3
}

