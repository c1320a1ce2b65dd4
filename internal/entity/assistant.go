package entity

import "time"

type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelVoice Channel = "voice"
)

// AssistantTurn is one processed utterance, kept for history and analytics.
type AssistantTurn struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	Channel   Channel   `db:"channel"`
	Utterance string    `db:"utterance"`
	Intent    string    `db:"intent"`
	Action    string    `db:"action"`
	Reply     string    `db:"reply"`
	State     string    `db:"state"`
	City      string    `db:"city"`
	Succeeded bool      `db:"succeeded"`
	CreatedAt time.Time `db:"created_at"`
}
