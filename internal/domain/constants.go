package domain

// Time format constants
const (
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	CycleFormat = "2006-01"    // YYYY-MM, membership accounting bucket
)

// LowAvailabilityRatio доля вместимости, при которой оставшиеся места
// считаются "почти закончившимися" (status = low)
const LowAvailabilityRatio = 0.2

// Default catalog window
const (
	DefaultCatalogLookbackDays = 0
	DefaultCatalogHorizonDays  = 31
)

// MaxWindowDays максимальный размер окна календаря (квартал)
const MaxWindowDays = 92
