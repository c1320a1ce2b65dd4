package conversation

import (
	"strings"
	"time"
	"unicode/utf8"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/nlp"

	"github.com/oklog/ulid/v2"
)

type State string

const (
	StateIdle            State = "IDLE"
	StateSearching       State = "SEARCHING"
	StateBrowsingResults State = "BROWSING_RESULTS"
	StateViewingHotel    State = "VIEWING_HOTEL"
	StateSelectingRoom   State = "SELECTING_ROOM"
	StateBooking         State = "BOOKING"
	StateConfirmation    State = "CONFIRMATION"
)

type PendingAction string

const (
	PendingNone           PendingAction = ""
	PendingBookHotel      PendingAction = "book_hotel"
	PendingGetDates       PendingAction = "get_dates"
	PendingConfirmBooking PendingAction = "confirm_booking"
	PendingSearchHotels   PendingAction = "search_hotels"
	PendingShowMore       PendingAction = "show_more"
)

type ResultType string

const (
	ResultTypeNone   ResultType = ""
	ResultTypeHotels ResultType = "hotels"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	ContextTTL         = 30 * time.Minute
	MaxHistory         = 10
	MaxPreferredCities = 5
	MaxTurnContent     = 200
)

type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Preferences struct {
	PreferredCities []string `json:"preferredCities"`
}

// Context is the whole dialogue state of one session. LastResults and
// LastResultType are only written through SetResults and ClearResults;
// History and PreferredCities only through their append methods.
type Context struct {
	SessionID      string         `json:"sessionId"`
	Timestamp      time.Time      `json:"timestamp"`
	State          State          `json:"state"`
	SearchCity     string         `json:"searchCity,omitempty"`
	CheckInDate    string         `json:"checkInDate,omitempty"`
	CheckOutDate   string         `json:"checkOutDate,omitempty"`
	Guests         nlp.Guests     `json:"guests"`
	Budget         nlp.Budget     `json:"budget"`
	LastResults    []entity.Hotel `json:"lastResults"`
	LastResultType ResultType     `json:"lastResultType,omitempty"`
	ResultsOffset  int            `json:"resultsOffset"`
	SelectedHotel  *entity.Hotel  `json:"selectedHotel,omitempty"`
	SelectedRoom   *entity.Room   `json:"selectedRoom,omitempty"`
	PendingAction  PendingAction  `json:"pendingAction,omitempty"`
	Preferences    Preferences    `json:"preferences"`
	History        []Turn         `json:"history"`
}

func NewContext(now time.Time) *Context {
	return &Context{
		SessionID:   ulid.Make().String(),
		Timestamp:   now,
		State:       StateIdle,
		Guests:      nlp.DefaultGuests(),
		LastResults: []entity.Hotel{},
		Preferences: Preferences{PreferredCities: []string{}},
		History:     []Turn{},
	}
}

// Expired reports whether the context has been idle longer than ContextTTL.
func (c *Context) Expired(now time.Time) bool {
	return now.Sub(c.Timestamp) > ContextTTL
}

func (c *Context) Touch(now time.Time) {
	c.Timestamp = now
}

func (c *Context) SetResults(kind ResultType, hotels []entity.Hotel) {
	c.LastResults = append([]entity.Hotel{}, hotels...)
	c.LastResultType = kind
	c.ResultsOffset = 0
}

func (c *Context) ClearResults() {
	c.LastResults = []entity.Hotel{}
	c.LastResultType = ResultTypeNone
	c.ResultsOffset = 0
}

func (c *Context) SetPending(action PendingAction) {
	c.PendingAction = action
}

func (c *Context) ClearPending() {
	c.PendingAction = PendingNone
}

func (c *Context) SelectHotel(h entity.Hotel) {
	c.SelectedHotel = &h
	if c.SelectedRoom != nil && c.SelectedRoom.HotelID != h.ID {
		c.SelectedRoom = nil
	}
}

func (c *Context) ClearSelection() {
	c.SelectedHotel = nil
	c.SelectedRoom = nil
}

// AddPreferredCity moves city to the front of the MRU list.
func (c *Context) AddPreferredCity(city string) {
	if city == "" {
		return
	}
	cities := []string{city}
	for _, existing := range c.Preferences.PreferredCities {
		if !strings.EqualFold(existing, city) {
			cities = append(cities, existing)
		}
	}
	if len(cities) > MaxPreferredCities {
		cities = cities[:MaxPreferredCities]
	}
	c.Preferences.PreferredCities = cities
}

func (c *Context) AppendHistory(role Role, content string, now time.Time) {
	c.History = append(c.History, Turn{
		Role:      role,
		Content:   truncate(content, MaxTurnContent),
		Timestamp: now,
	})
	if len(c.History) > MaxHistory {
		c.History = append([]Turn{}, c.History[len(c.History)-MaxHistory:]...)
	}
}

// Merge folds freshly extracted entities into the context. Fields the
// utterance did not mention are left as they are.
func (c *Context) Merge(e nlp.Entities) {
	if e.City != "" {
		c.SearchCity = e.City
		c.AddPreferredCity(e.City)
	}

	if e.Dates.CheckIn != "" {
		c.CheckInDate = e.Dates.CheckIn
		if e.Dates.CheckOut == "" && c.CheckOutDate != "" && c.CheckOutDate <= c.CheckInDate {
			c.CheckOutDate = ""
		}
	}
	if e.Dates.CheckOut != "" {
		c.CheckOutDate = e.Dates.CheckOut
	}

	if e.Budget != nil {
		c.mergeBudget(*e.Budget)
	}

	if e.Guests != nil {
		c.Guests = *e.Guests
	}
}

func (c *Context) mergeBudget(b nlp.Budget) {
	merged := c.Budget
	if b.Min != nil {
		v := *b.Min
		merged.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		merged.Max = &v
	}
	if b.Preference != "" {
		merged.Preference = b.Preference
	}

	// a new bound that contradicts the stored one replaces it
	if merged.Min != nil && merged.Max != nil && *merged.Min > *merged.Max {
		if b.Min != nil && b.Max == nil {
			merged.Max = nil
		} else if b.Max != nil && b.Min == nil {
			merged.Min = nil
		}
	}

	c.Budget = merged
}

// Clone returns a deep copy that shares no memory with c.
func (c *Context) Clone() Context {
	out := *c

	out.Budget = nlp.Budget{Preference: c.Budget.Preference}
	if c.Budget.Min != nil {
		v := *c.Budget.Min
		out.Budget.Min = &v
	}
	if c.Budget.Max != nil {
		v := *c.Budget.Max
		out.Budget.Max = &v
	}

	out.LastResults = make([]entity.Hotel, len(c.LastResults))
	for i, h := range c.LastResults {
		out.LastResults[i] = cloneHotel(h)
	}

	if c.SelectedHotel != nil {
		h := cloneHotel(*c.SelectedHotel)
		out.SelectedHotel = &h
	}
	if c.SelectedRoom != nil {
		r := *c.SelectedRoom
		out.SelectedRoom = &r
	}

	out.Preferences.PreferredCities = append([]string{}, c.Preferences.PreferredCities...)
	out.History = append([]Turn{}, c.History...)

	return out
}

func cloneHotel(h entity.Hotel) entity.Hotel {
	if h.Amenities != nil {
		h.Amenities = append([]string{}, h.Amenities...)
	}
	if h.Rooms != nil {
		h.Rooms = append([]entity.Room{}, h.Rooms...)
	}
	return h
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
