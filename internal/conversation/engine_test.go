package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/knowledge"
	"HotelAssistant/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Thursday morning
var fixedNow = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

type fakeProvider struct {
	hotels []entity.Hotel
	err    error
}

func (f fakeProvider) ListHotels(context.Context) ([]entity.Hotel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hotels, nil
}

func (f fakeProvider) ListCities(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	var cities []string
	for _, h := range f.hotels {
		if !seen[h.City] {
			seen[h.City] = true
			cities = append(cities, h.City)
		}
	}
	return cities, nil
}

func testHotels() []entity.Hotel {
	return []entity.Hotel{
		{ID: "c1", Name: "Taj Coromandel", City: "Chennai", Country: "India", PricePerNight: 9500, Rating: 4.5, StarRating: 5, Amenities: []string{"Pool", "Spa"}},
		{ID: "o1", Name: "Savoy Ooty", City: "Ooty", Country: "India", PricePerNight: 7800, Rating: 4.6, StarRating: 5, Rooms: []entity.Room{
			{ID: "o1-deluxe", HotelID: "o1", Type: "Deluxe", PricePerNight: 7800, MaxGuests: 2},
			{ID: "o1-suite", HotelID: "o1", Type: "Suite", PricePerNight: 11000, MaxGuests: 3},
		}},
		{ID: "c2", Name: "ITC Grand Chola", City: "Chennai", Country: "India", PricePerNight: 12000, Rating: 4.8, StarRating: 5},
		{ID: "g1", Name: "Goa Beach Inn", City: "Goa", Country: "India", PricePerNight: 4000, Rating: 4.0, StarRating: 3},
		{ID: "c3", Name: "Ibis Chennai City Centre", City: "Chennai", Country: "India", PricePerNight: 3200, Rating: 4.1, StarRating: 3},
		{ID: "c4", Name: "The Park Chennai", City: "Chennai", Country: "India", PricePerNight: 6500, Rating: 4.3, StarRating: 4},
		{ID: "o2", Name: "Sterling Ooty", City: "Ooty", Country: "India", PricePerNight: 5200, Rating: 4.2, StarRating: 4},
		{ID: "c5", Name: "Treebo Trend Mount", City: "Chennai", Country: "India", PricePerNight: 2200, Rating: 3.9, StarRating: 2},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	kb, err := knowledge.New()
	require.NoError(t, err)

	base := []Option{
		WithHotelProvider(fakeProvider{hotels: testHotels()}),
		WithKnowledgeBase(kb),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewEngine(nil, append(base, opts...)...)
}

func hotelIDs(hotels []entity.Hotel) []string {
	ids := make([]string, 0, len(hotels))
	for _, h := range hotels {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestHandlerTableCoversEveryIntent(t *testing.T) {
	e := newTestEngine(t)
	for _, intent := range nlp.AllIntents() {
		assert.Contains(t, e.handlers, intent, intent)
	}
}

func TestHotelSearchReturnsCityHotelsByRating(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)

	assert.Equal(t, []string{"c2", "c1", "c4", "c3", "c5"}, hotelIDs(resp.Hotels))
	assert.Contains(t, resp.QuickReplies, "Show details of ITC Grand Chola")
	assert.LessOrEqual(t, len(resp.QuickReplies), 3)
	assert.Equal(t, nlp.IntentHotelSearch, resp.Meta.Intent)
	assert.Equal(t, ActionDisplayResults, resp.Meta.Action)
	assert.Equal(t, StateBrowsingResults, resp.Context.State)
	assert.Equal(t, "Chennai", resp.Context.City)

	c := e.Context()
	assert.Equal(t, StateBrowsingResults, c.State)
	assert.Equal(t, ResultTypeHotels, c.LastResultType)
	assert.Len(t, c.LastResults, 5)
}

func TestCityIsKeptWhenNotMentioned(t *testing.T) {
	e := newTestEngine(t)

	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)
	e.Process(context.Background(), "thanks", entity.ChannelChat)
	e.Process(context.Background(), "2 adults", entity.ChannelChat)

	c := e.Context()
	assert.Equal(t, "Chennai", c.SearchCity)
	assert.Equal(t, nlp.Guests{Adults: 2, Children: 0}, c.Guests)
}

func TestBookItWithoutHotelAsksForCity(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "Book it", entity.ChannelChat)

	assert.Equal(t, nlp.IntentBookNow, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "Which city")
	assert.Empty(t, resp.Meta.Action)
	assert.Empty(t, resp.Meta.Payload)
	assert.Empty(t, resp.Hotels)
	assert.NotEmpty(t, resp.QuickReplies)
	assert.Equal(t, PendingNone, e.Context().PendingAction)
}

func TestLoneDateFillsOpenCheckOut(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Process(ctx, "Hotels in Ooty from 25th December", entity.ChannelChat)
	c := e.Context()
	assert.Equal(t, "2026-12-25", c.CheckInDate)
	assert.Empty(t, c.CheckOutDate)

	e.Process(ctx, "28th December", entity.ChannelChat)
	c = e.Context()
	assert.Equal(t, "2026-12-25", c.CheckInDate)
	assert.Equal(t, "2026-12-28", c.CheckOutDate)

	e.Process(ctx, "check out on 30/12", entity.ChannelChat)
	c = e.Context()
	assert.Equal(t, "2026-12-25", c.CheckInDate)
	assert.Equal(t, "2026-12-30", c.CheckOutDate)
}

func TestBookingScenarioEndsInNavigation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	resp := e.Process(ctx, "Hotels in Ooty", entity.ChannelChat)
	require.Equal(t, []string{"o1", "o2"}, hotelIDs(resp.Hotels))

	resp = e.Process(ctx, "the first one", entity.ChannelChat)
	assert.Equal(t, nlp.IntentShowDetails, resp.Meta.Intent)
	assert.Equal(t, ActionShowDetails, resp.Meta.Action)
	assert.Equal(t, PendingBookHotel, e.Context().PendingAction)
	assert.Equal(t, StateViewingHotel, resp.Context.State)

	resp = e.Process(ctx, "book it", entity.ChannelChat)
	assert.Equal(t, nlp.IntentBookNow, resp.Meta.Intent)
	assert.Equal(t, PendingGetDates, e.Context().PendingAction)
	assert.Equal(t, dateReplies, resp.QuickReplies)

	resp = e.Process(ctx, "this weekend", entity.ChannelChat)
	assert.Equal(t, nlp.IntentSelectDates, resp.Meta.Intent)
	assert.Equal(t, ActionPrepareBooking, resp.Meta.Action)
	assert.Equal(t, "o1", resp.Meta.Payload["hotelId"])
	assert.Equal(t, 1, resp.Meta.Payload["nights"])
	assert.Equal(t, 7800.0, resp.Meta.Payload["totalPrice"])
	assert.Equal(t, StateBooking, resp.Context.State)
	assert.Equal(t, PendingConfirmBooking, e.Context().PendingAction)

	resp = e.Process(ctx, "yes", entity.ChannelChat)
	assert.Equal(t, nlp.IntentYesConfirm, resp.Meta.Intent)
	require.Equal(t, ActionNavigate, resp.Meta.Action)

	target, ok := resp.Meta.Payload["url"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(target, "/booking?"))
	assert.Contains(t, target, "hotelId=o1")
	assert.Contains(t, target, "checkIn=2026-10-17")
	assert.Contains(t, target, "checkOut=2026-10-18")
	assert.Contains(t, target, "adults=2")

	c := e.Context()
	assert.Equal(t, StateConfirmation, c.State)
	assert.Equal(t, PendingNone, c.PendingAction)
}

func TestBookingWithSelectedRoom(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Process(ctx, "Hotels in Ooty", entity.ChannelChat)
	e.Process(ctx, "the first one", entity.ChannelChat)

	resp := e.Process(ctx, "the suite room please", entity.ChannelChat)
	assert.Equal(t, nlp.IntentSelectRoom, resp.Meta.Intent)
	require.NotNil(t, e.Context().SelectedRoom)
	assert.Equal(t, "o1-suite", e.Context().SelectedRoom.ID)

	e.Process(ctx, "yes", entity.ChannelChat)
	resp = e.Process(ctx, "tomorrow for 2 nights", entity.ChannelChat)
	require.Equal(t, ActionPrepareBooking, resp.Meta.Action)
	assert.Equal(t, "o1-suite", resp.Meta.Payload["roomId"])
	assert.Equal(t, 2, resp.Meta.Payload["nights"])
	assert.Equal(t, 22000.0, resp.Meta.Payload["totalPrice"])

	resp = e.Process(ctx, "yes", entity.ChannelChat)
	target, _ := resp.Meta.Payload["url"].(string)
	assert.Contains(t, target, "checkIn=2026-10-16")
	assert.Contains(t, target, "checkOut=2026-10-18")
	assert.Contains(t, target, "roomId=o1-suite")
}

func TestShowMoreWithFewResults(t *testing.T) {
	e := newTestEngine(t)

	e.Process(context.Background(), "Hotels in Ooty", entity.ChannelChat)
	resp := e.Process(context.Background(), "show more", entity.ChannelChat)

	assert.Equal(t, nlp.IntentShowMore, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "no more hotels")
	assert.Empty(t, resp.Hotels)
}

func TestShowMorePagesThroughResults(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Process(ctx, "Hotels in Chennai", entity.ChannelChat)
	assert.Equal(t, PendingShowMore, e.Context().PendingAction)

	resp := e.Process(ctx, "show more", entity.ChannelChat)
	assert.Equal(t, []string{"c3", "c5"}, hotelIDs(resp.Hotels))
	assert.Contains(t, resp.Message, "4. **Ibis Chennai City Centre**")

	resp = e.Process(ctx, "show more", entity.ChannelChat)
	assert.Empty(t, resp.Hotels)
	assert.Contains(t, resp.Message, "seen all 5")
	assert.Equal(t, 0, e.Context().ResultsOffset)
}

func TestYesResolvesPendingShowMore(t *testing.T) {
	e := newTestEngine(t)

	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)
	resp := e.Process(context.Background(), "yes", entity.ChannelChat)

	assert.Equal(t, nlp.IntentYesConfirm, resp.Meta.Intent)
	assert.Equal(t, []string{"c3", "c5"}, hotelIDs(resp.Hotels))
}

func TestYesWithoutPendingAction(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "yes", entity.ChannelChat)

	assert.Equal(t, nlp.IntentYesConfirm, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "What would you like to do next?")
}

func TestDeclineClearsPendingOnly(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Process(ctx, "Hotels in Ooty", entity.ChannelChat)
	e.Process(ctx, "the second one", entity.ChannelChat)
	require.Equal(t, "o2", e.Context().SelectedHotel.ID)

	resp := e.Process(ctx, "no", entity.ChannelChat)
	assert.Equal(t, nlp.IntentNoDecline, resp.Meta.Intent)

	c := e.Context()
	assert.Equal(t, PendingNone, c.PendingAction)
	assert.Equal(t, StateViewingHotel, c.State)
	assert.NotNil(t, c.SelectedHotel)
}

func TestCancelReturnsToIdle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Process(ctx, "Hotels in Ooty", entity.ChannelChat)
	e.Process(ctx, "the first one", entity.ChannelChat)
	e.Process(ctx, "book it", entity.ChannelChat)
	e.Process(ctx, "cancel", entity.ChannelChat)

	c := e.Context()
	assert.Equal(t, StateIdle, c.State)
	assert.Equal(t, PendingNone, c.PendingAction)
	assert.Nil(t, c.SelectedHotel)
	assert.Equal(t, "Ooty", c.SearchCity)
}

func TestBudgetSearchFiltersByPrice(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "cheap hotels in Chennai", entity.ChannelChat)

	assert.Equal(t, nlp.IntentBudgetSearch, resp.Meta.Intent)
	assert.Equal(t, []string{"c3", "c5"}, hotelIDs(resp.Hotels))
	assert.Equal(t, ActionApplyFilter, resp.Meta.Action)
	assert.Equal(t, "budget", resp.Meta.Payload["preference"])
	assert.Contains(t, resp.QuickReplies, "Show luxury options")
}

func TestStoredMidrangeBudgetDoesNotNarrowPlainSearch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	resp := e.Process(ctx, "Hotels in Chennai", entity.ChannelChat)
	require.Len(t, resp.Hotels, 5)

	e.Process(ctx, "something cheaper under 5000", entity.ChannelChat)
	require.NotNil(t, e.Context().Budget.Max)
	assert.Equal(t, 5000.0, *e.Context().Budget.Max)

	resp = e.Process(ctx, "now show all hotels", entity.ChannelChat)
	assert.Equal(t, nlp.IntentHotelSearch, resp.Meta.Intent)
	assert.Len(t, resp.Hotels, 5)
	assert.NotContains(t, resp.Message, "mid-range")
}

func TestLuxurySearchWithNoMatches(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "luxury hotels in Goa", entity.ChannelChat)

	assert.Equal(t, nlp.IntentLuxurySearch, resp.Meta.Intent)
	assert.Empty(t, resp.Hotels)
	assert.Contains(t, resp.Message, "couldn't find any hotels in Goa")
	assert.Equal(t, StateSearching, resp.Context.State)
	assert.NotContains(t, resp.QuickReplies, "Hotels in Goa")

	c := e.Context()
	assert.Empty(t, c.LastResults)
	assert.Equal(t, ResultTypeHotels, c.LastResultType)
}

func TestSearchWithoutCityPromptsForOne(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "find me a hotel", entity.ChannelChat)

	assert.Equal(t, nlp.IntentHotelSearch, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "Which city")
	assert.Equal(t, StateSearching, resp.Context.State)
	for _, q := range resp.QuickReplies {
		assert.True(t, strings.HasPrefix(q, "Hotels in "), q)
	}
}

func TestProviderFailureDegradesToEmptyResults(t *testing.T) {
	e := newTestEngine(t, WithHotelProvider(fakeProvider{err: errors.New("catalog down")}))

	resp := e.Process(context.Background(), "Hotels in Ooty", entity.ChannelChat)

	assert.Equal(t, nlp.IntentHotelSearch, resp.Meta.Intent)
	assert.Empty(t, resp.Hotels)
	assert.Contains(t, resp.Message, "couldn't find")
}

func TestWeatherOffersSearchAndYesRunsIt(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	resp := e.Process(ctx, "what's the weather like in ooty", entity.ChannelChat)
	assert.Equal(t, nlp.IntentWeather, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "Weather in **Ooty**")
	assert.Equal(t, PendingSearchHotels, e.Context().PendingAction)

	resp = e.Process(ctx, "yes", entity.ChannelChat)
	assert.Equal(t, []string{"o1", "o2"}, hotelIDs(resp.Hotels))
}

func TestInformationalFallbacksWithoutKnowledgeBase(t *testing.T) {
	e := NewEngine(nil, WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	for _, text := range []string{"tell me about ooty", "weather in ooty", "things to do", "what food should i try", "how far is ooty from chennai"} {
		resp := e.Process(ctx, text, entity.ChannelChat)
		assert.NotEmpty(t, resp.Message, text)
		assert.NotNil(t, resp.QuickReplies, text)
	}
}

func TestDistanceUsesKnowledgeBase(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "how far is ooty from chennai", entity.ChannelChat)

	assert.Equal(t, nlp.IntentDistance, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "560 km")
}

func TestGreetingUsesUserName(t *testing.T) {
	e := newTestEngine(t, WithUser(&entity.UserLoginData{ID: "u1", Username: "Asha"}))

	resp := e.Process(context.Background(), "hello", entity.ChannelChat)

	assert.Equal(t, nlp.IntentGreeting, resp.Meta.Intent)
	assert.True(t, strings.HasPrefix(resp.Message, "Good morning, Asha!"), resp.Message)
	assert.Equal(t, StateIdle, resp.Context.State)
}

func TestNavigationRequiresLogin(t *testing.T) {
	anon := newTestEngine(t)
	resp := anon.Process(context.Background(), "go to my bookings", entity.ChannelChat)
	assert.Equal(t, ActionRequestLogin, resp.Meta.Action)
	assert.Equal(t, "/my-bookings", resp.Meta.Payload["redirect"])

	user := newTestEngine(t, WithUser(&entity.UserLoginData{ID: "u1", Username: "Asha"}))
	resp = user.Process(context.Background(), "go to my bookings", entity.ChannelChat)
	assert.Equal(t, ActionNavigate, resp.Meta.Action)
	assert.Equal(t, "/my-bookings", resp.Meta.Payload["url"])

	resp = anon.Process(context.Background(), "open the map", entity.ChannelChat)
	assert.Equal(t, ActionNavigate, resp.Meta.Action)
	assert.Equal(t, "/hotels/map", resp.Meta.Payload["url"])
}

func TestUnknownFallsBackToExamples(t *testing.T) {
	e := newTestEngine(t)

	resp := e.Process(context.Background(), "qwerty", entity.ChannelChat)

	assert.Equal(t, nlp.IntentUnknown, resp.Meta.Intent)
	assert.Contains(t, resp.Message, "didn't quite get that")
	assert.NotEmpty(t, resp.QuickReplies)
}

func TestVoiceChannelAddsSpeechText(t *testing.T) {
	e := newTestEngine(t)

	chat := e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)
	assert.Empty(t, chat.SpeechText)

	voice := e.Process(context.Background(), "Hotels in Chennai", entity.ChannelVoice)
	assert.NotEmpty(t, voice.SpeechText)
	assert.NotContains(t, voice.SpeechText, "**")
	assert.True(t, strings.HasSuffix(voice.SpeechText, "Top picks: ITC Grand Chola and Taj Coromandel."), voice.SpeechText)
}

func TestHistoryIsRecordedAndCapped(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 8; i++ {
		e.Process(context.Background(), "thanks", entity.ChannelChat)
	}

	c := e.Context()
	require.Len(t, c.History, MaxHistory)
	assert.Equal(t, RoleUser, c.History[MaxHistory-2].Role)
	assert.Equal(t, RoleAssistant, c.History[MaxHistory-1].Role)
}

func TestExpiredContextStartsFresh(t *testing.T) {
	stale := NewContext(fixedNow.Add(-31 * time.Minute))
	stale.State = StateBooking
	stale.SearchCity = "Goa"

	e := NewEngine(stale, WithClock(func() time.Time { return fixedNow }))

	c := e.Context()
	assert.Equal(t, StateIdle, c.State)
	assert.Empty(t, c.SearchCity)
	assert.NotEqual(t, stale.SessionID, c.SessionID)
}

func TestContextCopyIsIsolated(t *testing.T) {
	e := newTestEngine(t)
	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)

	c := e.Context()
	c.SearchCity = "Nowhere"
	c.LastResults[0].Name = "Changed"
	c.History = nil

	fresh := e.Context()
	assert.Equal(t, "Chennai", fresh.SearchCity)
	assert.Equal(t, "ITC Grand Chola", fresh.LastResults[0].Name)
	assert.NotEmpty(t, fresh.History)
}

func TestResetDiscardsContext(t *testing.T) {
	e := newTestEngine(t)
	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)
	before := e.Context().SessionID

	e.Reset()

	c := e.Context()
	assert.Equal(t, StateIdle, c.State)
	assert.Empty(t, c.SearchCity)
	assert.Empty(t, c.LastResults)
	assert.NotEqual(t, before, c.SessionID)
}

func TestSuggestionsFollowState(t *testing.T) {
	e := newTestEngine(t)
	assert.Contains(t, e.Suggestions(), "Hotels in Chennai")

	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)
	assert.Equal(t, []string{"Show details of ITC Grand Chola", "Show more", "Compare hotels"}, e.Suggestions())
}

func TestCompareCurrentPage(t *testing.T) {
	e := newTestEngine(t)
	e.Process(context.Background(), "Hotels in Chennai", entity.ChannelChat)

	resp := e.Process(context.Background(), "compare them", entity.ChannelChat)

	assert.Equal(t, nlp.IntentCompare, resp.Meta.Intent)
	assert.Equal(t, []string{"c2", "c1", "c4"}, hotelIDs(resp.Hotels))
	assert.Contains(t, resp.Message, "Best rated: ITC Grand Chola")
	assert.Contains(t, resp.Message, "Best value: The Park Chennai")
}
