package conversation

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/nlp"
)

var dateReplies = []string{"This weekend", "Tomorrow", "Next weekend"}

func (e *Engine) handleBookNow(ctx context.Context, t turn) reply {
	hotel, ok := e.pickHotel(t.text, false)
	if !ok {
		hotel, ok = e.currentHotel()
	}
	if !ok {
		if e.ctx.SearchCity != "" {
			r := e.handleHotelSearch(ctx, t)
			if len(e.ctx.LastResults) > 0 {
				r.message = "Let's pick a hotel first. " + r.message
			}
			return r
		}
		e.ctx.ClearPending()
		_, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      "I'd love to help you book! Which city are you travelling to?",
			quickReplies: replies,
		}
	}

	e.ctx.SelectHotel(hotel)

	if e.ctx.CheckInDate == "" {
		e.ctx.SetPending(PendingGetDates)
		return reply{
			message:      fmt.Sprintf("Great choice! When would you like to check in at **%s**? You can say something like \"this weekend\" or \"25th December for 2 nights\".", hotel.Name),
			quickReplies: dateReplies,
		}
	}

	checkIn, err := time.Parse(nlp.DateLayout, e.ctx.CheckInDate)
	if err != nil {
		e.ctx.CheckInDate = ""
		e.ctx.SetPending(PendingGetDates)
		return reply{
			message:      "I couldn't read your check-in date. Which dates would you like?",
			quickReplies: dateReplies,
		}
	}

	checkOut, err := time.Parse(nlp.DateLayout, e.ctx.CheckOutDate)
	if err != nil || !checkOut.After(checkIn) {
		checkOut = checkIn.AddDate(0, 0, 1)
		e.ctx.CheckOutDate = checkOut.Format(nlp.DateLayout)
	}

	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	price := hotel.PricePerNight
	room := e.ctx.SelectedRoom
	if room != nil && room.HotelID == hotel.ID {
		price = room.PricePerNight
	} else {
		room = nil
	}
	total := price * float64(nights)

	e.ctx.State = StateBooking
	e.ctx.SetPending(PendingConfirmBooking)

	var b strings.Builder
	b.WriteString("Here's your booking summary:\n")
	fmt.Fprintf(&b, "**%s** (%s)\n", hotel.Name, hotel.City)
	if room != nil {
		fmt.Fprintf(&b, "Room: %s\n", room.Type)
	}
	fmt.Fprintf(&b, "Check-in: %s\n", formatDate(e.ctx.CheckInDate))
	fmt.Fprintf(&b, "Check-out: %s\n", formatDate(e.ctx.CheckOutDate))
	fmt.Fprintf(&b, "Guests: %s\n", guestsText(e.ctx.Guests))
	fmt.Fprintf(&b, "%s at %s = **%s**\n", plural(nights, "night", "nights"), formatPrice(price), formatPrice(total))
	b.WriteString("Shall I proceed to booking?")

	payload := map[string]any{
		"hotelId":       hotel.ID,
		"hotelName":     hotel.Name,
		"checkIn":       e.ctx.CheckInDate,
		"checkOut":      e.ctx.CheckOutDate,
		"adults":        e.ctx.Guests.Adults,
		"children":      e.ctx.Guests.Children,
		"nights":        nights,
		"pricePerNight": price,
		"totalPrice":    total,
	}
	if room != nil {
		payload["roomId"] = room.ID
	}

	return reply{
		message:      b.String(),
		quickReplies: []string{"Yes, proceed", "Change dates", "Cancel"},
		hotels:       []entity.Hotel{hotel},
		action:       ActionPrepareBooking,
		payload:      payload,
	}
}

// bookingURL keeps the query parameters in a fixed order.
func bookingURL(hotelID, checkIn, checkOut string, g nlp.Guests, roomID string) string {
	params := []struct{ k, v string }{
		{"hotelId", hotelID},
		{"checkIn", checkIn},
		{"checkOut", checkOut},
		{"adults", strconv.Itoa(g.Adults)},
		{"children", strconv.Itoa(g.Children)},
	}
	if roomID != "" {
		params = append(params, struct{ k, v string }{"roomId", roomID})
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.k+"="+url.QueryEscape(p.v))
	}
	return "/booking?" + strings.Join(parts, "&")
}

func (e *Engine) handleConfirmation(ctx context.Context, t turn) reply {
	pending := e.ctx.PendingAction
	e.ctx.ClearPending()

	switch pending {
	case PendingBookHotel, PendingGetDates:
		return e.handleBookNow(ctx, t)
	case PendingConfirmBooking:
		return e.completeBooking(ctx, t)
	case PendingSearchHotels:
		return e.handleHotelSearch(ctx, t)
	case PendingShowMore:
		return e.handleShowMore(ctx, t)
	case PendingNone:
	default:
		e.log.WithField("pending_action", pending).Debug("Unknown pending action")
	}

	return reply{
		message:      "Great! What would you like to do next?",
		quickReplies: e.Suggestions(),
	}
}

func (e *Engine) completeBooking(ctx context.Context, t turn) reply {
	hotel := e.ctx.SelectedHotel
	if hotel == nil || e.ctx.CheckInDate == "" || e.ctx.CheckOutDate == "" {
		return e.handleBookNow(ctx, t)
	}

	roomID := ""
	if e.ctx.SelectedRoom != nil && e.ctx.SelectedRoom.HotelID == hotel.ID {
		roomID = e.ctx.SelectedRoom.ID
	}
	target := bookingURL(hotel.ID, e.ctx.CheckInDate, e.ctx.CheckOutDate, e.ctx.Guests, roomID)

	e.ctx.State = StateConfirmation

	return reply{
		message: fmt.Sprintf("Taking you to the booking page for **%s** from %s to %s. Complete the payment there to confirm your stay.",
			hotel.Name, formatDate(e.ctx.CheckInDate), formatDate(e.ctx.CheckOutDate)),
		quickReplies: []string{"Go to my bookings", "Weather in " + hotel.City, "Things to do in " + hotel.City},
		action:       ActionNavigate,
		payload:      map[string]any{"url": target, "hotelId": hotel.ID},
	}
}

func (e *Engine) handleDecline(ctx context.Context, t turn) reply {
	pending := e.ctx.PendingAction
	e.ctx.ClearPending()

	msg := "Alright. What else can I help you with?"
	switch pending {
	case PendingConfirmBooking:
		msg = "No problem, I haven't booked anything. Would you like to look at other hotels?"
	case PendingBookHotel:
		msg = "Okay. Let me know if you'd like details on another hotel."
	case PendingShowMore:
		msg = "Sure. Pick one of the hotels above, or ask me about the city."
	}

	return reply{message: msg, quickReplies: e.Suggestions()}
}

func (e *Engine) handleSelectDates(ctx context.Context, t turn) reply {
	if t.entities.Dates.IsEmpty() {
		e.ctx.SetPending(PendingGetDates)
		msg := "Which dates would you like? For example \"this weekend\", \"tomorrow for 2 nights\" or \"25/12 to 28/12\"."
		if e.ctx.CheckInDate != "" {
			msg = fmt.Sprintf("You're currently set for %s. Which new dates would you like?", formatDate(e.ctx.CheckInDate))
		}
		return reply{message: msg, quickReplies: dateReplies}
	}

	inBooking := e.ctx.PendingAction == PendingGetDates ||
		e.ctx.PendingAction == PendingConfirmBooking ||
		e.ctx.State == StateBooking
	if inBooking && e.ctx.SelectedHotel != nil && e.ctx.CheckInDate != "" {
		e.ctx.ClearPending()
		return e.handleBookNow(ctx, t)
	}

	var b strings.Builder
	if e.ctx.CheckInDate != "" {
		fmt.Fprintf(&b, "Got it, checking in %s", formatDate(e.ctx.CheckInDate))
		if e.ctx.CheckOutDate != "" {
			fmt.Fprintf(&b, " and checking out %s", formatDate(e.ctx.CheckOutDate))
		}
		b.WriteString(".")
	} else {
		fmt.Fprintf(&b, "Got it, checking out %s. When would you like to check in?", formatDate(e.ctx.CheckOutDate))
		e.ctx.SetPending(PendingGetDates)
		return reply{message: b.String(), quickReplies: dateReplies}
	}

	var quick []string
	switch {
	case len(e.ctx.LastResults) > 0:
		e.ctx.ClearPending()
		b.WriteString(" Pick a hotel to book or say \"book it\" for the top result.")
		quick = []string{"Book it", "Show details of " + e.ctx.LastResults[0].Name}
	case e.ctx.SearchCity != "":
		e.ctx.SetPending(PendingSearchHotels)
		fmt.Fprintf(&b, " Shall I search hotels in %s for these dates?", e.ctx.SearchCity)
		quick = []string{"Yes", "Hotels in " + e.ctx.SearchCity}
	default:
		e.ctx.ClearPending()
		b.WriteString(" Which city are you travelling to?")
		_, quick = e.cityPromptReplies(ctx, t.cities)
	}

	return reply{message: b.String(), quickReplies: quick}
}

func (e *Engine) handleSelectGuests(ctx context.Context, t turn) reply {
	if t.entities.Guests == nil {
		return reply{
			message:      fmt.Sprintf("How many guests? Right now I have %s.", guestsText(e.ctx.Guests)),
			quickReplies: []string{"2 adults", "2 adults and 2 children", "Solo traveller"},
		}
	}

	if e.ctx.State == StateBooking && e.ctx.SelectedHotel != nil && e.ctx.CheckInDate != "" {
		return e.handleBookNow(ctx, t)
	}

	msg := fmt.Sprintf("Got it, %s.", guestsText(e.ctx.Guests))
	var quick []string
	switch {
	case len(e.ctx.LastResults) > 0:
		msg += " Pick a hotel when you're ready to book."
		quick = []string{"Book it", "Show details of " + e.ctx.LastResults[0].Name}
	case e.ctx.SearchCity != "":
		msg += fmt.Sprintf(" Shall I search hotels in %s?", e.ctx.SearchCity)
		e.ctx.SetPending(PendingSearchHotels)
		quick = []string{"Yes", "Hotels in " + e.ctx.SearchCity}
	default:
		msg += " Which city are you travelling to?"
		_, quick = e.cityPromptReplies(ctx, t.cities)
	}

	return reply{message: msg, quickReplies: quick}
}

func (e *Engine) handleSelectRoom(ctx context.Context, t turn) reply {
	hotel, ok := e.currentHotel()
	if !ok {
		_, replies := e.cityPromptReplies(ctx, t.cities)
		return reply{
			message:      "Pick a hotel first and I'll show you its rooms.",
			quickReplies: replies,
		}
	}
	e.ctx.SelectHotel(hotel)

	if len(hotel.Rooms) == 0 {
		e.ctx.SetPending(PendingBookHotel)
		return reply{
			message:      fmt.Sprintf("I don't have room details for **%s**. The standard rate is %s per night. Would you like to book it?", hotel.Name, formatPrice(hotel.PricePerNight)),
			quickReplies: []string{"Yes, book it"},
		}
	}

	for _, room := range hotel.Rooms {
		if name := nlp.Normalize(room.Type); name != "" && strings.Contains(t.text, name) {
			r := room
			e.ctx.SelectedRoom = &r
			e.ctx.State = StateSelectingRoom
			e.ctx.SetPending(PendingBookHotel)

			msg := fmt.Sprintf("**%s** room at %s: %s per night, up to %s.", room.Type, hotel.Name, formatPrice(room.PricePerNight), plural(room.MaxGuests, "guest", "guests"))
			if party := e.ctx.Guests.Adults + e.ctx.Guests.Children; room.MaxGuests > 0 && party > room.MaxGuests {
				msg += fmt.Sprintf(" Note that you're %d guests.", party)
			}
			msg += " Shall I book it?"

			return reply{
				message:      msg,
				quickReplies: []string{"Yes, book it", "Show room types"},
				hotels:       []entity.Hotel{hotel},
				payload:      map[string]any{"hotelId": hotel.ID, "roomId": room.ID},
			}
		}
	}

	e.ctx.State = StateSelectingRoom
	var b strings.Builder
	fmt.Fprintf(&b, "Room types at **%s**:", hotel.Name)
	quick := make([]string, 0, len(hotel.Rooms))
	for _, room := range hotel.Rooms {
		fmt.Fprintf(&b, "\n- %s: %s per night (up to %s)", room.Type, formatPrice(room.PricePerNight), plural(room.MaxGuests, "guest", "guests"))
		quick = append(quick, room.Type+" room")
	}
	b.WriteString("\nWhich one would you like?")

	return reply{
		message:      b.String(),
		quickReplies: quick,
		hotels:       []entity.Hotel{hotel},
	}
}

func (e *Engine) handleCancel(ctx context.Context, t turn) reply {
	e.ctx.ClearPending()
	e.ctx.ClearSelection()
	e.ctx.State = StateIdle

	msg := "No problem, I've cancelled that."
	if e.ctx.SearchCity != "" {
		msg += fmt.Sprintf(" Your search for %s is still saved if you want to pick it up again.", e.ctx.SearchCity)
	}
	return reply{message: msg, quickReplies: e.Suggestions()}
}
