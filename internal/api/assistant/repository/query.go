package assistantRepository

const (
	queryCreateTurn = `
		INSERT INTO assistant_turns (
			id, session_id, user_id, channel, utterance,
			intent, action, reply, state, city,
			succeeded, created_at
		) VALUES (
			:id, :session_id, :user_id, :channel, :utterance,
			:intent, :action, :reply, :state, :city,
			:succeeded, :created_at
		)
	`

	queryGetTurnsBySessionID = `
		SELECT
			id, session_id, user_id, channel, utterance,
			intent, action, reply, state, city,
			succeeded, created_at
		FROM assistant_turns
		WHERE session_id = :session_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountTurnsBySessionID = `
		SELECT COUNT(*)
		FROM assistant_turns
		WHERE session_id = :session_id
	`

	queryGetTurnsSince = `
		SELECT
			id, session_id, user_id, channel, utterance,
			intent, action, reply, state, city,
			succeeded, created_at
		FROM assistant_turns
		WHERE created_at >= :since
		AND (:user_id = '' OR user_id = :user_id)
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
