package conversation

import (
	"regexp"
	"strings"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/nlp"
)

type Action string

const (
	ActionNavigate       Action = "NAVIGATE"
	ActionPrepareBooking Action = "PREPARE_BOOKING"
	ActionRequestLogin   Action = "REQUEST_LOGIN"
	ActionDisplayResults Action = "DISPLAY_RESULTS"
	ActionApplyFilter    Action = "APPLY_FILTER"
	ActionShowDetails    Action = "SHOW_DETAILS"
)

type Meta struct {
	Intent  nlp.Intent     `json:"intent"`
	Action  Action         `json:"action,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Snapshot struct {
	State State         `json:"state"`
	City  string        `json:"city,omitempty"`
	Dates nlp.DateRange `json:"dates"`
}

type Response struct {
	Message      string         `json:"message"`
	QuickReplies []string       `json:"quickReplies"`
	Hotels       []entity.Hotel `json:"hotels"`
	Meta         Meta           `json:"meta"`
	Timestamp    string         `json:"timestamp"`
	Context      Snapshot       `json:"context"`
	SpeechText   string         `json:"speechText,omitempty"`
}

// reply is what a handler produces before formatting.
type reply struct {
	message      string
	quickReplies []string
	hotels       []entity.Hotel
	action       Action
	payload      map[string]any
}

const (
	maxQuickReplies = 3
	speechLimit     = 200
	speechHotels    = 2
)

func format(r reply, intent nlp.Intent, c *Context, channel entity.Channel, now time.Time) Response {
	quick := r.quickReplies
	if len(quick) > maxQuickReplies {
		quick = quick[:maxQuickReplies]
	}
	if quick == nil {
		quick = []string{}
	}

	hotels := r.hotels
	if hotels == nil {
		hotels = []entity.Hotel{}
	}

	resp := Response{
		Message:      r.message,
		QuickReplies: quick,
		Hotels:       hotels,
		Meta: Meta{
			Intent:  intent,
			Action:  r.action,
			Payload: r.payload,
		},
		Timestamp: now.UTC().Format(time.RFC3339),
		Context: Snapshot{
			State: c.State,
			City:  c.SearchCity,
			Dates: nlp.DateRange{CheckIn: c.CheckInDate, CheckOut: c.CheckOutDate},
		},
	}

	if channel == entity.ChannelVoice {
		resp.SpeechText = SpeechText(r.message, hotels)
	}

	return resp
}

var (
	emphasis     = regexp.MustCompile(`\*\*|__|\*|~~|` + "`")
	bulletMarker = regexp.MustCompile(`^\s*(?:[-•*]|\d+[.)])\s+`)
	sentence     = regexp.MustCompile(`.*?[.!?]+(?:\s+|$)`)
)

// SpeechText turns a chat message into something short enough to read
// aloud.
func SpeechText(message string, hotels []entity.Hotel) string {
	var parts []string
	for _, line := range strings.Split(message, "\n") {
		line = bulletMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(emphasis.ReplaceAllString(line, ""))
		line = strings.TrimRight(line, ":; ")
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line[len(line)-1:], ".!?") {
			line += "."
		}
		parts = append(parts, line)
	}
	text := strings.Join(parts, " ")

	if len([]rune(text)) > speechLimit {
		sentences := sentence.FindAllString(text, 2)
		if len(sentences) > 0 {
			text = strings.TrimSpace(strings.Join(sentences, ""))
		}
	}

	if len(hotels) > 0 {
		names := make([]string, 0, speechHotels)
		for i := 0; i < len(hotels) && i < speechHotels; i++ {
			names = append(names, hotels[i].Name)
		}
		if len(names) == 1 {
			text += " Top pick: " + names[0] + "."
		} else {
			text += " Top picks: " + names[0] + " and " + names[1] + "."
		}
	}

	return strings.TrimSpace(text)
}
