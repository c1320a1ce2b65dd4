package conversation

// Suggestions returns quick replies that fit where the conversation is.
func (e *Engine) Suggestions() []string {
	city := e.ctx.SearchCity

	switch e.ctx.State {
	case StateBrowsingResults:
		if len(e.ctx.LastResults) > 0 {
			out := []string{"Show details of " + e.ctx.LastResults[0].Name}
			if len(e.ctx.LastResults) > pageSize {
				out = append(out, "Show more")
			}
			if len(e.ctx.LastResults) > 1 {
				out = append(out, "Compare hotels")
			}
			return capReplies(out)
		}
	case StateViewingHotel, StateSelectingRoom:
		if e.ctx.SelectedHotel != nil {
			return []string{"Book it", "Show room types", "Compare hotels"}
		}
	case StateBooking:
		return []string{"Yes, proceed", "Change dates", "Cancel"}
	case StateConfirmation:
		if city != "" {
			return []string{"Go to my bookings", "Weather in " + city, "Things to do in " + city}
		}
		return []string{"Go to my bookings", "Help"}
	}

	if city != "" {
		return []string{"Hotels in " + city, "Weather in " + city, "Things to do in " + city}
	}

	out := make([]string, 0, maxQuickReplies)
	for _, c := range e.ctx.Preferences.PreferredCities {
		out = append(out, "Hotels in "+c)
	}
	out = append(out, "Hotels in Chennai", "Luxury hotels in Goa", "What can you do?")
	return capReplies(dedupe(out))
}

func capReplies(in []string) []string {
	if len(in) > maxQuickReplies {
		return in[:maxQuickReplies]
	}
	return in
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
