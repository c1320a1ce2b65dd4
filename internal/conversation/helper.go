package conversation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/nlp"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const pageSize = 3

var printer = message.NewPrinter(language.English)

var fallbackCities = []string{"Chennai", "Ooty", "Goa", "Pondicherry"}

func formatPrice(v float64) string {
	return printer.Sprintf("₹%d", int64(math.Round(v)))
}

func formatDate(iso string) string {
	d, err := time.Parse(nlp.DateLayout, iso)
	if err != nil {
		return iso
	}
	return d.Format("Mon, 2 Jan 2006")
}

func hotelLine(i int, h entity.Hotel) string {
	return fmt.Sprintf("%d. **%s** - %s/night, rated %.1f", i, h.Name, formatPrice(h.PricePerNight), h.Rating)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func guestsText(g nlp.Guests) string {
	return plural(g.Adults, "adult", "adults") + ", " + plural(g.Children, "child", "children")
}

func sortByRating(hotels []entity.Hotel) {
	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].Rating > hotels[j].Rating
	})
}

// suggestCities lists up to limit cities, preferred ones first, skipping
// exclude.
func (e *Engine) suggestCities(ctx context.Context, cities []string, exclude string, limit int) []string {
	if cities == nil {
		cities = e.knownCities(ctx)
	}
	if len(cities) == 0 {
		for _, ck := range e.kb.CityKeys() {
			cities = append(cities, ck.Name)
		}
	}
	if len(cities) == 0 {
		cities = fallbackCities
	}

	seen := map[string]bool{strings.ToLower(exclude): true}
	var out []string
	add := func(city string) {
		key := strings.ToLower(city)
		if city == "" || seen[key] || len(out) >= limit {
			return
		}
		seen[key] = true
		out = append(out, city)
	}
	for _, c := range e.ctx.Preferences.PreferredCities {
		add(c)
	}
	for _, c := range cities {
		add(c)
	}
	return out
}

func (e *Engine) cityPromptReplies(ctx context.Context, cities []string) ([]string, []string) {
	names := e.suggestCities(ctx, cities, "", maxQuickReplies)
	replies := make([]string, 0, len(names))
	for _, c := range names {
		replies = append(replies, "Hotels in "+c)
	}
	return names, replies
}

var ordinals = []struct {
	words []string
	index int
}{
	{[]string{"first", "1st", "top"}, 0},
	{[]string{"second", "2nd"}, 1},
	{[]string{"third", "3rd"}, 2},
}

// pickHotel resolves a hotel named by ordinal or by name within the last
// results. Ordinals count from the page currently shown.
func (e *Engine) pickHotel(text string, fuzzy bool) (entity.Hotel, bool) {
	results := e.ctx.LastResults
	if len(results) == 0 {
		return entity.Hotel{}, false
	}

	words := strings.Fields(strings.NewReplacer(",", " ", ".", " ", "?", " ", "!", " ").Replace(text))
	has := func(w string) bool {
		for _, x := range words {
			if x == w {
				return true
			}
		}
		return false
	}

	offset := e.ctx.ResultsOffset
	if offset >= len(results) {
		offset = 0
	}
	for _, o := range ordinals {
		for _, w := range o.words {
			if has(w) && offset+o.index < len(results) {
				return results[offset+o.index], true
			}
		}
	}
	if has("last") {
		end := offset + pageSize
		if end > len(results) {
			end = len(results)
		}
		return results[end-1], true
	}

	for _, h := range results {
		if name := nlp.Normalize(h.Name); name != "" && strings.Contains(text, name) {
			return h, true
		}
	}

	if !fuzzy {
		return entity.Hotel{}, false
	}

	best, bestScore := -1, 0
	for i, h := range results {
		score := 0
		for _, token := range strings.Fields(nlp.Normalize(h.Name)) {
			if len(token) >= 3 && !genericNameWords[token] && has(token) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return results[best], true
	}
	return entity.Hotel{}, false
}

var genericNameWords = map[string]bool{
	"the": true, "hotel": true, "hotels": true, "resort": true, "resorts": true,
	"inn": true, "suites": true, "residency": true, "grand": true, "stay": true,
}

// currentHotel is the selected hotel, else the first result.
func (e *Engine) currentHotel() (entity.Hotel, bool) {
	if e.ctx.SelectedHotel != nil {
		return *e.ctx.SelectedHotel, true
	}
	if len(e.ctx.LastResults) > 0 {
		return e.ctx.LastResults[0], true
	}
	return entity.Hotel{}, false
}
