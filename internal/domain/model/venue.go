package model

// TariffCategory splits the price list into the two audiences the venue sells to.
type TariffCategory string

const (
	TariffAdult TariffCategory = "adult"
	TariffChild TariffCategory = "child"
)

// Label returns the user-facing name of the category.
func (c TariffCategory) Label() string {
	switch c {
	case TariffAdult:
		return "Взрослые"
	case TariffChild:
		return "Детские"
	default:
		return "неизвестная категория"
	}
}

// LoadSnapshot is the venue's current occupancy.
type LoadSnapshot struct {
	VisitorCount int
	LoadPercent  int
}

// Session is one bookable time slot on a given date.
type Session struct {
	TimeLabel  string
	FreeCount  int
	TotalCount int
}

// Tariff is a named ticket price entry for a given date, in rubles.
type Tariff struct {
	Name  string
	Price int
}
