package nlp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CityKey maps a lowercase lookup key to the display name of a city.
type CityKey struct {
	Key  string
	Name string
}

type cityAlias struct {
	alias string
	city  string
}

type EntityExtractor struct {
	cityKeys []CityKey
	aliases  []cityAlias
}

func NewEntityExtractor(cityKeys []CityKey) *EntityExtractor {
	return &EntityExtractor{
		cityKeys: cityKeys,
		aliases: []cityAlias{
			{"pondy", "Pondicherry"},
			{"puducherry", "Pondicherry"},
			{"bengaluru", "Bangalore"},
			{"bombay", "Mumbai"},
			{"madras", "Chennai"},
			{"calcutta", "Kolkata"},
			{"cochin", "Kochi"},
			{"trivandrum", "Thiruvananthapuram"},
			{"udhagamandalam", "Ooty"},
			{"ooty", "Ooty"},
			{"kodai", "Kodaikanal"},
			{"new delhi", "Delhi"},
			{"mysuru", "Mysore"},
		},
	}
}

// ExtractCity returns the first city mentioned in text, checking the known
// city list, then knowledge base keys, then the alias table.
func (e *EntityExtractor) ExtractCity(text string, knownCities []string) string {
	text = Normalize(text)
	if text == "" {
		return ""
	}

	for _, city := range knownCities {
		name := Normalize(city)
		if name != "" && strings.Contains(text, name) {
			return city
		}
	}

	for _, ck := range e.cityKeys {
		if ck.Key != "" && strings.Contains(text, ck.Key) {
			return ck.Name
		}
	}

	for _, a := range e.aliases {
		if strings.Contains(text, a.alias) {
			return a.city
		}
	}

	return ""
}

// ExtractCities returns every distinct city mentioned, in order of appearance.
func (e *EntityExtractor) ExtractCities(text string, knownCities []string) []string {
	text = Normalize(text)

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	seen := make(map[string]bool)

	add := func(needle, name string) {
		if needle == "" {
			return
		}
		pos := strings.Index(text, needle)
		if pos < 0 {
			return
		}
		key := Normalize(name)
		if seen[key] {
			return
		}
		seen[key] = true
		hits = append(hits, hit{name: name, pos: pos})
	}

	for _, city := range knownCities {
		add(Normalize(city), city)
	}
	for _, ck := range e.cityKeys {
		add(ck.Key, ck.Name)
	}
	for _, a := range e.aliases {
		add(a.alias, a.city)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})

	cities := make([]string, 0, len(hits))
	for _, h := range hits {
		cities = append(cities, h.name)
	}
	return cities
}

var (
	monthNames = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b|\b(\d{1,2})-(\d{1,2})-(\d{4}|\d{2})\b`)
	isoDatePattern     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthPattern    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `\b`)
	monthDayPattern    = regexp.MustCompile(`\b` + monthNames + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	nightsPattern      = regexp.MustCompile(`\b(\d+)\s*(?:nights?|days?)\b`)
	checkOutCue        = regexp.MustCompile(`\b(?:check[\s-]?out|leaving|leave|depart(?:ing|ure)?|until|till)\b`)
	checkInCue         = regexp.MustCompile(`\b(?:check[\s-]?in|from|arriv(?:e|ing|al)|starting)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

type dateHit struct {
	start, end int
	date       time.Time
}

// ExtractDates resolves relative phrases, absolute dates and a trailing
// "N nights" duration. known holds the dates already in the conversation:
// a lone absolute date fills check-out when check-in is known and check-out
// is still open, and known.CheckIn anchors a duration when the utterance
// carries no check-in of its own.
func (e *EntityExtractor) ExtractDates(text string, now time.Time, known DateRange) DateRange {
	text = replaceNumberWords(Normalize(text))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var checkIn, checkOut time.Time

	switch {
	case strings.Contains(text, "next weekend"):
		sat := upcomingSaturday(today).AddDate(0, 0, 7)
		checkIn, checkOut = sat, sat.AddDate(0, 0, 1)
	case strings.Contains(text, "weekend"):
		sat := upcomingSaturday(today)
		checkIn, checkOut = sat, sat.AddDate(0, 0, 1)
	case strings.Contains(text, "day after tomorrow"):
		checkIn = today.AddDate(0, 0, 2)
	case strings.Contains(text, "tomorrow"):
		checkIn = today.AddDate(0, 0, 1)
	case strings.Contains(text, "today"), strings.Contains(text, "tonight"):
		checkIn = today
	}

	knownIn, _ := time.ParseInLocation(DateLayout, known.CheckIn, now.Location())

	hits := absoluteDates(text, today)
	if checkIn.IsZero() && len(hits) == 1 && fillsCheckOut(text, hits[0].date, knownIn, known.CheckOut) {
		checkOut = hits[0].date
		hits = nil
	}

	for _, hit := range hits {
		if checkIn.IsZero() {
			checkIn = hit.date
		} else if checkOut.IsZero() {
			checkOut = hit.date
		}
	}

	if m := nightsPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			base := checkIn
			if base.IsZero() {
				base = knownIn
			}
			if !base.IsZero() {
				checkOut = base.AddDate(0, 0, n)
			}
		}
	}

	var out DateRange
	if !checkIn.IsZero() {
		out.CheckIn = checkIn.Format(DateLayout)
	}
	if !checkOut.IsZero() {
		out.CheckOut = checkOut.Format(DateLayout)
	}
	return out
}

// fillsCheckOut decides the slot of a single absolute date. An explicit
// check-out or check-in phrase wins; otherwise the date goes to check-out
// only when check-in is set, check-out is open and the date falls after it.
func fillsCheckOut(text string, date, knownIn time.Time, knownOut string) bool {
	switch {
	case checkOutCue.MatchString(text):
		return true
	case checkInCue.MatchString(text):
		return false
	}
	return !knownIn.IsZero() && knownOut == "" && date.After(knownIn)
}

func upcomingSaturday(today time.Time) time.Time {
	days := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, days)
}

// absoluteDates finds explicit dates in encounter order. Overlapping matches
// keep the earliest one. A date before today rolls forward one year.
func absoluteDates(text string, today time.Time) []dateHit {
	var hits []dateHit

	for _, m := range numericDatePattern.FindAllStringSubmatchIndex(text, -1) {
		dayIdx, monIdx, yearIdx := 2, 4, 6
		if m[2] < 0 {
			dayIdx, monIdx, yearIdx = 8, 10, 12
		}
		day := atoi(text[m[dayIdx]:m[dayIdx+1]])
		mon := atoi(text[m[monIdx]:m[monIdx+1]])
		year := today.Year()
		if m[yearIdx] >= 0 {
			year = expandYear(atoi(text[m[yearIdx]:m[yearIdx+1]]))
		}
		if d, ok := buildDate(year, mon, day, today); ok {
			hits = append(hits, dateHit{start: m[0], end: m[1], date: d})
		}
	}

	for _, m := range isoDatePattern.FindAllStringSubmatchIndex(text, -1) {
		year := atoi(text[m[2]:m[3]])
		mon := atoi(text[m[4]:m[5]])
		day := atoi(text[m[6]:m[7]])
		if d, ok := buildDate(year, mon, day, today); ok {
			hits = append(hits, dateHit{start: m[0], end: m[1], date: d})
		}
	}

	for _, m := range dayMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		day := atoi(text[m[2]:m[3]])
		mon := monthFromName(text[m[4]:m[5]])
		if d, ok := buildDate(today.Year(), int(mon), day, today); ok {
			hits = append(hits, dateHit{start: m[0], end: m[1], date: d})
		}
	}

	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		mon := monthFromName(text[m[2]:m[3]])
		day := atoi(text[m[4]:m[5]])
		if d, ok := buildDate(today.Year(), int(mon), day, today); ok {
			hits = append(hits, dateHit{start: m[0], end: m[1], date: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].start < hits[j].start
	})

	result := make([]dateHit, 0, len(hits))
	lastEnd := -1
	for _, h := range hits {
		if h.start < lastEnd {
			continue
		}
		result = append(result, h)
		lastEnd = h.end
	}
	return result
}

func buildDate(year, month, day int, today time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location())
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	if d.Before(today) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

func expandYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

func monthFromName(name string) time.Month {
	if len(name) < 3 {
		return 0
	}
	return months[name[:3]]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var (
	amountExpr = `(?:rs\.?|inr|₹)?\s*(\d+(?:,\d{3})*(?:\.\d+)?)\s*(k\b|thousand)?`

	maxBudgetPattern   = regexp.MustCompile(`\b(?:under|below|less than|within|upto|up to|max(?:imum)?|not more than|cheaper than|budget (?:of|is))\s*` + amountExpr)
	minBudgetPattern   = regexp.MustCompile(`\b(?:above|over|more than|min(?:imum)?|at least|starting (?:at|from))\s*` + amountExpr)
	rangeBudgetPattern = regexp.MustCompile(`\bbetween\s*` + amountExpr + `\s*(?:and|to|-)\s*` + amountExpr)

	budgetWords   = regexp.MustCompile(`\b(cheap|cheapest|budget|affordable|economical|economy|low.?cost|inexpensive|pocket.?friendly)\b`)
	luxuryWords   = regexp.MustCompile(`\b(luxury|luxurious|5.?star|five.?star|premium|upscale|lavish|high.?end)\b`)
	midrangeWords = regexp.MustCompile(`\b(mid.?range|moderate|moderately priced|3.?star|three.?star|4.?star|four.?star|reasonable)\b`)
)

// ExtractBudget reads explicit price bounds first and falls back to keyword
// buckets. Returns nil when nothing budget-related is present.
func (e *EntityExtractor) ExtractBudget(text string) *Budget {
	text = Normalize(text)

	if m := rangeBudgetPattern.FindStringSubmatch(text); m != nil {
		lo := parseAmount(m[1], m[2])
		hi := parseAmount(m[3], m[4])
		if lo > hi {
			lo, hi = hi, lo
		}
		return &Budget{Min: floatPtr(lo), Max: floatPtr(hi), Preference: preferenceFor(&lo, &hi)}
	}

	var minV, maxV *float64
	if m := maxBudgetPattern.FindStringSubmatch(text); m != nil {
		maxV = floatPtr(parseAmount(m[1], m[2]))
	}
	if m := minBudgetPattern.FindStringSubmatch(text); m != nil {
		minV = floatPtr(parseAmount(m[1], m[2]))
	}
	if minV != nil || maxV != nil {
		return &Budget{Min: minV, Max: maxV, Preference: preferenceFor(minV, maxV)}
	}

	switch {
	case budgetWords.MatchString(text):
		return &Budget{Max: floatPtr(BudgetCeiling), Preference: BudgetPreferenceBudget}
	case luxuryWords.MatchString(text):
		return &Budget{Min: floatPtr(LuxuryFloor), Preference: BudgetPreferenceLuxury}
	case midrangeWords.MatchString(text):
		return &Budget{Min: floatPtr(BudgetCeiling), Max: floatPtr(LuxuryFloor), Preference: BudgetPreferenceMidrange}
	}

	return nil
}

// parseAmount applies the thousands heuristic: a "k" suffix or a bare value
// under 100 is read as thousands of rupees.
func parseAmount(number, suffix string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil {
		return 0
	}
	if suffix != "" || v < 100 {
		v *= 1000
	}
	return v
}

func preferenceFor(minV, maxV *float64) BudgetPreference {
	switch {
	case maxV != nil && *maxV <= BudgetCeiling:
		return BudgetPreferenceBudget
	case minV != nil && *minV >= LuxuryFloor:
		return BudgetPreferenceLuxury
	default:
		return BudgetPreferenceMidrange
	}
}

var (
	adultsPattern   = regexp.MustCompile(`\b(\d+)\s*(?:adults?|grown.?ups?)\b`)
	childrenPattern = regexp.MustCompile(`\b(\d+)\s*(?:child|children|kids?|infants?)\b`)
	peoplePattern   = regexp.MustCompile(`\b(\d+)\s*(?:people|persons?|guests?|pax|of us)\b`)

	coupleWords = regexp.MustCompile(`\b(couple|honeymoon|romantic|my (?:wife|husband|partner))\b`)
	familyWords = regexp.MustCompile(`\bfamily\b`)
	soloWords   = regexp.MustCompile(`\b(solo|alone|just me|myself|single travell?er)\b`)
)

// ExtractGuests returns nil when the utterance says nothing about party size.
func (e *EntityExtractor) ExtractGuests(text string) *Guests {
	text = replaceNumberWords(Normalize(text))

	adultsMatch := adultsPattern.FindStringSubmatch(text)
	childrenMatch := childrenPattern.FindStringSubmatch(text)
	if adultsMatch != nil || childrenMatch != nil {
		g := DefaultGuests()
		if adultsMatch != nil {
			g.Adults = atoi(adultsMatch[1])
		}
		if childrenMatch != nil {
			g.Children = atoi(childrenMatch[1])
		}
		return clampGuests(g)
	}

	switch {
	case coupleWords.MatchString(text):
		return &Guests{Adults: 2, Children: 0}
	case familyWords.MatchString(text):
		return &Guests{Adults: 2, Children: 2}
	case soloWords.MatchString(text):
		return &Guests{Adults: 1, Children: 0}
	}

	if m := peoplePattern.FindStringSubmatch(text); m != nil {
		return clampGuests(Guests{Adults: atoi(m[1]), Children: 0})
	}

	return nil
}

func clampGuests(g Guests) *Guests {
	if g.Adults < 1 {
		g.Adults = 1
	}
	if g.Children < 0 {
		g.Children = 0
	}
	return &g
}

// Extract runs every extractor over one utterance.
func (e *EntityExtractor) Extract(text string, knownCities []string, now time.Time, known DateRange) Entities {
	return Entities{
		City:   e.ExtractCity(text, knownCities),
		Dates:  e.ExtractDates(text, now, known),
		Budget: e.ExtractBudget(text),
		Guests: e.ExtractGuests(text),
	}
}
