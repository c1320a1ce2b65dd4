package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/nlp"
	"HotelAssistant/pkg/utils"
)

func (e *Engine) handleGreeting(ctx context.Context, t turn) reply {
	e.ctx.State = StateIdle

	name := ""
	if e.user != nil && e.user.FirstName() != "" {
		name = ", " + e.user.FirstName()
	}

	return reply{
		message: fmt.Sprintf("%s%s! I'm your hotel assistant. I can find hotels, share travel tips about a city and help you book a stay. Where would you like to go?",
			greetingFor(t.now), name),
		quickReplies: []string{"Hotels in Chennai", "Luxury hotels in Goa", "What can you do?"},
	}
}

func greetingFor(now time.Time) string {
	switch utils.TimeOfDay(now) {
	case utils.Morning:
		return "Good morning"
	case utils.Afternoon:
		return "Good afternoon"
	case utils.Evening:
		return "Good evening"
	default:
		return "Hello"
	}
}

// budgetBounds turns the intent and the stored budget into a price window.
// Only a budget or luxury bracket narrows a search; a stored midrange
// preference does not.
func budgetBounds(intent nlp.Intent, b nlp.Budget) (pref nlp.BudgetPreference, minP, maxP *float64) {
	pref = b.Preference
	switch intent {
	case nlp.IntentBudgetSearch:
		pref = nlp.BudgetPreferenceBudget
	case nlp.IntentLuxurySearch:
		pref = nlp.BudgetPreferenceLuxury
	}

	switch pref {
	case nlp.BudgetPreferenceBudget:
		ceiling := nlp.BudgetCeiling
		if b.Max != nil {
			ceiling = *b.Max
		}
		return pref, nil, &ceiling
	case nlp.BudgetPreferenceLuxury:
		floor := nlp.LuxuryFloor
		if b.Min != nil {
			floor = *b.Min
		}
		return pref, &floor, nil
	}
	return "", nil, nil
}

func filterHotels(hotels []entity.Hotel, city string, minP, maxP *float64) []entity.Hotel {
	city = strings.ToLower(city)
	out := make([]entity.Hotel, 0)
	for _, h := range hotels {
		if !strings.Contains(strings.ToLower(h.City), city) {
			continue
		}
		if minP != nil && h.PricePerNight < *minP {
			continue
		}
		if maxP != nil && h.PricePerNight > *maxP {
			continue
		}
		out = append(out, h)
	}
	sortByRating(out)
	return out
}

func (e *Engine) handleHotelSearch(ctx context.Context, t turn) reply {
	e.ctx.ClearPending()

	city := e.ctx.SearchCity
	if city == "" {
		e.ctx.State = StateSearching
		names, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      fmt.Sprintf("Which city would you like to stay in? I can search hotels in %s and more.", strings.Join(names, ", ")),
			quickReplies: replies,
		}
	}

	pref, minP, maxP := budgetBounds(t.intent, e.ctx.Budget)
	results := filterHotels(e.listHotels(ctx), city, minP, maxP)

	e.ctx.ClearSelection()
	e.ctx.SetResults(ResultTypeHotels, results)

	if len(results) == 0 {
		e.ctx.State = StateSearching
		qualifier := ""
		if pref != "" {
			qualifier = " in your price range"
		}
		others := e.suggestCities(ctx, t.cities, city, maxQuickReplies)
		replies := make([]string, 0, len(others))
		for _, c := range others {
			replies = append(replies, "Hotels in "+c)
		}
		msg := fmt.Sprintf("Sorry, I couldn't find any hotels in %s%s.", city, qualifier)
		if len(others) > 0 {
			msg += " Try one of these cities instead: " + strings.Join(others, ", ") + "."
		}
		return reply{message: msg, quickReplies: replies}
	}

	e.ctx.State = StateBrowsingResults

	var b strings.Builder
	fmt.Fprintf(&b, "I found %s in **%s**%s:", plural(len(results), "hotel", "hotels"), city, prefLabel(pref))
	for i := 0; i < len(results) && i < pageSize; i++ {
		b.WriteString("\n")
		b.WriteString(hotelLine(i+1, results[i]))
	}
	if len(results) > pageSize {
		e.ctx.SetPending(PendingShowMore)
		b.WriteString("\nSay \"show more\" to see other options, or pick one for details.")
	} else {
		b.WriteString("\nWould you like details on one of these?")
	}

	quick := []string{"Show details of " + results[0].Name}
	if pref == nlp.BudgetPreferenceBudget {
		quick = append(quick, "Show luxury options")
	} else {
		quick = append(quick, "Show budget options")
	}
	if e.ctx.CheckInDate == "" {
		quick = append(quick, "Book for this weekend")
	}
	if len(results) > pageSize {
		quick = append(quick, "Show more")
	}

	payload := map[string]any{"city": city, "count": len(results)}
	action := ActionDisplayResults
	if pref != "" {
		action = ActionApplyFilter
		payload["preference"] = string(pref)
		if minP != nil {
			payload["minPrice"] = *minP
		}
		if maxP != nil {
			payload["maxPrice"] = *maxP
		}
	}

	return reply{
		message:      b.String(),
		quickReplies: quick,
		hotels:       results,
		action:       action,
		payload:      payload,
	}
}

func prefLabel(pref nlp.BudgetPreference) string {
	switch pref {
	case nlp.BudgetPreferenceBudget:
		return " for a budget stay"
	case nlp.BudgetPreferenceLuxury:
		return " in the luxury range"
	}
	return ""
}

func (e *Engine) handleShowMore(ctx context.Context, t turn) reply {
	e.ctx.ClearPending()
	results := e.ctx.LastResults

	if len(results) == 0 {
		_, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      "I haven't shown you any hotels yet. Tell me a city and I'll find some.",
			quickReplies: replies,
		}
	}

	city := e.ctx.SearchCity
	if len(results) <= pageSize {
		return reply{
			message:      fmt.Sprintf("That's everything I found in %s. There are no more hotels to show.", city),
			quickReplies: []string{"Show details of " + results[0].Name, "Show budget options", "Show luxury options"},
		}
	}

	next := e.ctx.ResultsOffset + pageSize
	if next >= len(results) {
		e.ctx.ResultsOffset = 0
		return reply{
			message:      fmt.Sprintf("You've seen all %d hotels in %s. Pick one for details or try a different city.", len(results), city),
			quickReplies: []string{"Show details of " + results[0].Name, "Compare hotels"},
		}
	}

	end := next + pageSize
	if end > len(results) {
		end = len(results)
	}
	page := results[next:end]
	e.ctx.ResultsOffset = next
	e.ctx.State = StateBrowsingResults

	var b strings.Builder
	fmt.Fprintf(&b, "Here are more hotels in **%s**:", city)
	for i, h := range page {
		b.WriteString("\n")
		b.WriteString(hotelLine(next+i+1, h))
	}
	quick := []string{"Show details of " + page[0].Name}
	if end < len(results) {
		e.ctx.SetPending(PendingShowMore)
		b.WriteString("\nSay \"show more\" for the next few.")
		quick = append(quick, "Show more")
	}
	quick = append(quick, "Compare hotels")

	return reply{
		message:      b.String(),
		quickReplies: quick,
		hotels:       page,
		action:       ActionDisplayResults,
		payload:      map[string]any{"city": city, "offset": next, "count": len(page)},
	}
}

func (e *Engine) handleShowDetails(ctx context.Context, t turn) reply {
	hotel, ok := e.pickHotel(t.text, true)
	if !ok {
		hotel, ok = e.currentHotel()
	}
	if !ok {
		_, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      "Please search for hotels first, then I can show you the details of any of them.",
			quickReplies: replies,
		}
	}

	e.ctx.SelectHotel(hotel)
	e.ctx.State = StateViewingHotel
	e.ctx.SetPending(PendingBookHotel)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**, %s\n", hotel.Name, hotel.City)
	if hotel.StarRating > 0 {
		fmt.Fprintf(&b, "%d-star hotel rated %.1f/5\n", hotel.StarRating, hotel.Rating)
	} else {
		fmt.Fprintf(&b, "Rated %.1f/5\n", hotel.Rating)
	}
	fmt.Fprintf(&b, "Price: %s per night\n", formatPrice(hotel.PricePerNight))
	if len(hotel.Amenities) > 0 {
		fmt.Fprintf(&b, "Amenities: %s\n", strings.Join(hotel.Amenities, ", "))
	}
	if len(hotel.Rooms) > 0 {
		rooms := make([]string, 0, len(hotel.Rooms))
		for _, r := range hotel.Rooms {
			rooms = append(rooms, fmt.Sprintf("%s (%s)", r.Type, formatPrice(r.PricePerNight)))
		}
		fmt.Fprintf(&b, "Rooms: %s\n", strings.Join(rooms, ", "))
	}
	b.WriteString("Would you like to book this hotel?")

	quick := []string{"Yes, book it"}
	if len(hotel.Rooms) > 0 {
		quick = append(quick, "Show room types")
	}
	if len(e.ctx.LastResults) > 1 {
		quick = append(quick, "Compare hotels")
	}

	return reply{
		message:      b.String(),
		quickReplies: quick,
		hotels:       []entity.Hotel{hotel},
		action:       ActionShowDetails,
		payload:      map[string]any{"hotelId": hotel.ID},
	}
}

func (e *Engine) handleCompare(ctx context.Context, t turn) reply {
	results := e.ctx.LastResults
	if len(results) < 2 {
		_, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      "I need at least two hotels to compare. Search a city first and I'll line them up.",
			quickReplies: replies,
		}
	}

	start := e.ctx.ResultsOffset
	if start >= len(results) || len(results)-start < 2 {
		start = 0
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	compared := results[start:end]

	bestRated, cheapest := compared[0], compared[0]
	var b strings.Builder
	b.WriteString("Here's how they compare:")
	for i, h := range compared {
		fmt.Fprintf(&b, "\n%d. **%s** - %s/night, rated %.1f", i+1, h.Name, formatPrice(h.PricePerNight), h.Rating)
		if h.StarRating > 0 {
			fmt.Fprintf(&b, ", %d-star", h.StarRating)
		}
		if h.Rating > bestRated.Rating {
			bestRated = h
		}
		if h.PricePerNight < cheapest.PricePerNight {
			cheapest = h
		}
	}
	fmt.Fprintf(&b, "\nBest rated: %s. Best value: %s.", bestRated.Name, cheapest.Name)

	quick := []string{"Show details of " + bestRated.Name}
	if cheapest.ID != bestRated.ID {
		quick = append(quick, "Show details of "+cheapest.Name)
	}

	return reply{
		message:      b.String(),
		quickReplies: quick,
		hotels:       append([]entity.Hotel{}, compared...),
	}
}
