package conversation

import (
	"context"
	"fmt"
	"strings"

	"HotelAssistant/pkg/knowledge"
	"HotelAssistant/pkg/nlp"
)

func (e *Engine) cityMentioned(t turn) (knowledge.City, bool) {
	if t.entities.City != "" {
		if c, ok := e.kb.City(nlp.Normalize(t.entities.City)); ok {
			return c, true
		}
	}
	return e.kb.CityFromText(t.text)
}

// cityFor finds the knowledge base entry for the city the user is asking
// about: the one mentioned in this turn, else the current search city.
func (e *Engine) cityFor(t turn) (knowledge.City, bool) {
	if c, ok := e.cityMentioned(t); ok {
		return c, true
	}
	if e.ctx.SearchCity != "" {
		return e.kb.City(nlp.Normalize(e.ctx.SearchCity))
	}
	return knowledge.City{}, false
}

// offerSearch ends an informational reply with a hotel search offer.
func (e *Engine) offerSearch(msg string, city knowledge.City, extra ...string) reply {
	if e.ctx.SearchCity == "" {
		e.ctx.SearchCity = city.Name
		e.ctx.AddPreferredCity(city.Name)
	}
	e.ctx.SetPending(PendingSearchHotels)

	quick := append([]string{"Hotels in " + city.Name}, extra...)
	return reply{
		message:      fmt.Sprintf("%s\nWould you like to see hotels in %s?", msg, city.Name),
		quickReplies: quick,
	}
}

func (e *Engine) handleDistance(ctx context.Context, t turn) reply {
	cities := e.extractor.ExtractCities(t.raw, t.cities)
	if len(cities) == 1 && e.ctx.SearchCity != "" && !strings.EqualFold(cities[0], e.ctx.SearchCity) {
		cities = []string{e.ctx.SearchCity, cities[0]}
	}

	if len(cities) < 2 {
		return reply{
			message:      "Tell me two cities and I'll tell you how far apart they are, for example \"How far is Ooty from Chennai?\"",
			quickReplies: []string{"How far is Ooty from Chennai?", "Distance from Chennai to Pondicherry"},
		}
	}

	from, to := cities[0], cities[1]
	distance, okDistance := e.kb.Distance(nlp.Normalize(from), nlp.Normalize(to))
	travel, okTravel := e.kb.TravelTime(nlp.Normalize(from), nlp.Normalize(to))

	var msg string
	switch {
	case okDistance && okTravel:
		msg = fmt.Sprintf("**%s** to **%s** is about %s, roughly %s.", from, to, distance, travel)
	case okDistance:
		msg = fmt.Sprintf("**%s** to **%s** is about %s.", from, to, distance)
	case okTravel:
		msg = fmt.Sprintf("Getting from **%s** to **%s** takes roughly %s.", from, to, travel)
	default:
		msg = fmt.Sprintf("I don't have the exact distance between %s and %s, but a maps app will give you live travel times.", from, to)
	}

	return reply{
		message:      msg,
		quickReplies: []string{"Hotels in " + to, "Weather in " + to, "Things to do in " + to},
	}
}

func (e *Engine) handleCityInfo(ctx context.Context, t turn) reply {
	city, ok := e.cityFor(t)
	if !ok {
		return reply{
			message:      "I can share travel tips for cities like Chennai, Ooty, Goa and Pondicherry. Which city are you curious about?",
			quickReplies: []string{"Tell me about Ooty", "Tell me about Goa", "Tell me about Pondicherry"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: %s", city.Name, city.Description)
	if city.BestTimeToVisit != "" {
		fmt.Fprintf(&b, "\nBest time to visit: %s", city.BestTimeToVisit)
	}
	if len(city.Attractions) > 0 {
		fmt.Fprintf(&b, "\nTop attractions: %s", strings.Join(firstN(city.Attractions, 3), ", "))
	}

	return e.offerSearch(b.String(), city, "Things to do in "+city.Name, "Weather in "+city.Name)
}

func (e *Engine) handleAttractions(ctx context.Context, t turn) reply {
	if city, ok := e.cityMentioned(t); ok && len(city.Attractions) > 0 {
		return e.attractionsReply(city)
	}

	var title string
	var places []string
	switch {
	case strings.Contains(t.text, "beach"):
		title, places = "Some of the best beaches", e.kb.BestBeaches()
	case strings.Contains(t.text, "hill"):
		title, places = "Popular hill stations", e.kb.BestHillStations()
	case strings.Contains(t.text, "temple"):
		title, places = "Famous temples", e.kb.BestTemples()
	}
	if len(places) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%s:", title)
		for _, p := range places {
			fmt.Fprintf(&b, "\n- %s", p)
		}
		return reply{
			message:      b.String(),
			quickReplies: []string{"Hotels in Ooty", "Hotels in Goa", "Hotels in Madurai"},
		}
	}

	if city, ok := e.cityFor(t); ok && len(city.Attractions) > 0 {
		return e.attractionsReply(city)
	}

	return reply{
		message:      "Every city has something special. Tell me where you're headed and I'll list the must-see places, or ask about beaches, hill stations or temples.",
		quickReplies: []string{"Best beaches", "Hill stations", "Things to do in Chennai"},
	}
}

func (e *Engine) attractionsReply(city knowledge.City) reply {
	var b strings.Builder
	fmt.Fprintf(&b, "Top attractions in **%s**:", city.Name)
	for _, a := range city.Attractions {
		fmt.Fprintf(&b, "\n- %s", a)
	}
	if len(city.Activities) > 0 {
		fmt.Fprintf(&b, "\nThings to do: %s", strings.Join(city.Activities, ", "))
	}
	return e.offerSearch(b.String(), city, "Food in "+city.Name)
}

func (e *Engine) handleWeather(ctx context.Context, t turn) reply {
	city, ok := e.cityFor(t)
	if !ok {
		return reply{
			message:      "Most of South India is warm all year, while hill stations like Ooty and Kodaikanal stay cool. Tell me a city and I'll give you its seasons.",
			quickReplies: []string{"Weather in Ooty", "Weather in Goa", "Weather in Chennai"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weather in **%s**:", city.Name)
	if city.Weather.Summer != "" {
		fmt.Fprintf(&b, "\n- Summer: %s", city.Weather.Summer)
	}
	if city.Weather.Winter != "" {
		fmt.Fprintf(&b, "\n- Winter: %s", city.Weather.Winter)
	}
	if city.Weather.Monsoon != "" {
		fmt.Fprintf(&b, "\n- Monsoon: %s", city.Weather.Monsoon)
	}
	if city.BestTimeToVisit != "" {
		fmt.Fprintf(&b, "\nBest time to visit: %s", city.BestTimeToVisit)
	}

	return e.offerSearch(b.String(), city, "Things to do in "+city.Name)
}

func (e *Engine) handleFood(ctx context.Context, t turn) reply {
	city, ok := e.cityFor(t)
	if !ok {
		return reply{
			message:      "South Indian food is a treat: try dosa, idli, filter coffee and a proper banana-leaf meal. Tell me a city for local favourites.",
			quickReplies: []string{"Food in Chennai", "Food in Madurai", "Food in Goa"},
		}
	}

	dishes := e.kb.MustTryFood(city.Key)
	if len(dishes) == 0 {
		dishes = city.Specialities
	}
	if len(dishes) == 0 {
		return e.offerSearch(fmt.Sprintf("I don't have a food list for %s yet, but ask your hotel for the local favourites.", city.Name), city)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Must-try food in **%s**:", city.Name)
	for _, d := range dishes {
		fmt.Fprintf(&b, "\n- %s", d)
	}
	return e.offerSearch(b.String(), city, "Things to do in "+city.Name)
}

func (e *Engine) handleHelp(ctx context.Context, t turn) reply {
	return reply{
		message: "Here's what I can do:\n" +
			"- Find hotels: \"Hotels in Chennai\", \"Luxury hotels in Goa\", \"Hotels under 3000 in Ooty\"\n" +
			"- Show details and compare: \"the first one\", \"compare hotels\"\n" +
			"- Book: \"book it\", \"this weekend for 2 nights\", \"2 adults and 1 child\"\n" +
			"- Travel tips: \"Weather in Ooty\", \"Things to do in Pondicherry\", \"How far is Ooty from Chennai?\"",
		quickReplies: []string{"Hotels in Chennai", "Weather in Ooty", "Budget hotels in Goa"},
	}
}

func (e *Engine) handleThanks(ctx context.Context, t turn) reply {
	return reply{
		message:      "You're welcome! Anything else I can help you with?",
		quickReplies: e.Suggestions(),
	}
}

func (e *Engine) handleUnknown(ctx context.Context, t turn) reply {
	return reply{
		message: "Sorry, I didn't quite get that. You can try:\n" +
			"- \"Hotels in Chennai\"\n" +
			"- \"Budget hotels in Ooty this weekend\"\n" +
			"- \"Weather in Goa\"",
		quickReplies: []string{"Hotels in Chennai", "Budget hotels in Ooty", "Help"},
	}
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
