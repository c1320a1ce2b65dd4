package assistant

import (
	"time"

	"HotelAssistant/internal/conversation"
	"HotelAssistant/pkg/nlp"
)

type MessageRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,min=1,max=1000"`
	Channel   string `json:"channel" validate:"omitempty,oneof=chat voice"`
}

type MessageResponse struct {
	SessionID string `json:"session_id"`
	conversation.Response
}

type ResetRequest struct {
	SessionID string `json:"session_id" validate:"required,max=64"`
}

type SessionSnapshot struct {
	SessionID       string                     `json:"session_id"`
	State           conversation.State         `json:"state"`
	City            string                     `json:"city,omitempty"`
	Dates           nlp.DateRange              `json:"dates"`
	Guests          nlp.Guests                 `json:"guests"`
	Budget          nlp.Budget                 `json:"budget"`
	PendingAction   conversation.PendingAction `json:"pending_action,omitempty"`
	SelectedHotelID string                     `json:"selected_hotel_id,omitempty"`
	ResultCount     int                        `json:"result_count"`
	PreferredCities []string                   `json:"preferred_cities"`
	UpdatedAt       time.Time                  `json:"updated_at"`
	ExpiresAt       time.Time                  `json:"expires_at"`
}

type SuggestionsResponse struct {
	SessionID   string             `json:"session_id"`
	State       conversation.State `json:"state"`
	Suggestions []string           `json:"suggestions"`
}

type TurnHistory struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Channel   string    `json:"channel"`
	Utterance string    `json:"utterance"`
	Intent    string    `json:"intent"`
	Action    string    `json:"action,omitempty"`
	Reply     string    `json:"reply"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

type Analytics struct {
	TotalTurns   int            `json:"total_turns"`
	SuccessRate  float64        `json:"success_rate"`
	IntentUsage  map[string]int `json:"intent_usage"`
	ActionUsage  map[string]int `json:"action_usage"`
	ChannelUsage map[string]int `json:"channel_usage"`
	UsageByTime  map[string]int `json:"usage_by_time"`
	TopCities    []string       `json:"top_cities,omitempty"`
}
