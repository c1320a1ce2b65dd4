package nlp

import "regexp"

type Intent string

const (
	IntentGreeting     Intent = "GREETING"
	IntentBookNow      Intent = "BOOK_NOW"
	IntentShowMore     Intent = "SHOW_MORE"
	IntentShowDetails  Intent = "SHOW_DETAILS"
	IntentCompare      Intent = "COMPARE"
	IntentDistance     Intent = "DISTANCE"
	IntentCityInfo     Intent = "CITY_INFO"
	IntentAttractions  Intent = "ATTRACTIONS"
	IntentWeather      Intent = "WEATHER"
	IntentFood         Intent = "FOOD"
	IntentLuxurySearch Intent = "LUXURY_SEARCH"
	IntentBudgetSearch Intent = "BUDGET_SEARCH"
	IntentHotelSearch  Intent = "HOTEL_SEARCH"
	IntentSelectDates  Intent = "SELECT_DATES"
	IntentSelectGuests Intent = "SELECT_GUESTS"
	IntentSelectRoom   Intent = "SELECT_ROOM"
	IntentHelp         Intent = "HELP"
	IntentThanks       Intent = "THANKS"
	IntentCancel       Intent = "CANCEL"
	IntentNavigation   Intent = "NAVIGATION"
	IntentYesConfirm   Intent = "YES_CONFIRM"
	IntentNoDecline    Intent = "NO_DECLINE"
	IntentUnknown      Intent = "UNKNOWN"
)

// AllIntents lists every intent the classifier can return, UNKNOWN included.
func AllIntents() []Intent {
	return []Intent{
		IntentGreeting, IntentBookNow, IntentShowMore, IntentShowDetails,
		IntentCompare, IntentDistance, IntentCityInfo, IntentAttractions,
		IntentWeather, IntentFood, IntentLuxurySearch, IntentBudgetSearch,
		IntentHotelSearch, IntentSelectDates, IntentSelectGuests, IntentSelectRoom,
		IntentHelp, IntentThanks, IntentCancel, IntentNavigation,
		IntentYesConfirm, IntentNoDecline, IntentUnknown,
	}
}

func (i Intent) String() string {
	return string(i)
}

// Rule pairs an intent with the pattern that selects it.
type Rule struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

func (r Rule) Match(text string) bool {
	return r.Pattern.MatchString(text)
}

type BudgetPreference string

const (
	BudgetPreferenceBudget   BudgetPreference = "budget"
	BudgetPreferenceMidrange BudgetPreference = "midrange"
	BudgetPreferenceLuxury   BudgetPreference = "luxury"
)

const (
	BudgetCeiling = 3500.0
	LuxuryFloor   = 8000.0
)

type Budget struct {
	Min        *float64         `json:"min,omitempty"`
	Max        *float64         `json:"max,omitempty"`
	Preference BudgetPreference `json:"preference,omitempty"`
}

func (b *Budget) IsEmpty() bool {
	return b == nil || (b.Min == nil && b.Max == nil && b.Preference == "")
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func DefaultGuests() Guests {
	return Guests{Adults: 2, Children: 0}
}

// DateRange holds ISO (YYYY-MM-DD) dates; empty means not found.
type DateRange struct {
	CheckIn  string `json:"checkIn,omitempty"`
	CheckOut string `json:"checkOut,omitempty"`
}

func (d DateRange) IsEmpty() bool {
	return d.CheckIn == "" && d.CheckOut == ""
}

// Entities is everything the extractors found in a single utterance.
type Entities struct {
	City   string
	Dates  DateRange
	Budget *Budget
	Guests *Guests
}

const DateLayout = "2006-01-02"

func floatPtr(v float64) *float64 {
	return &v
}
