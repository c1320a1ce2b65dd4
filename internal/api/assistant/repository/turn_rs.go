package assistantRepository

import (
	"database/sql"
	"time"

	"HotelAssistant/internal/entity"
	contextPkg "HotelAssistant/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type AssistantTurnDB struct {
	ID        sql.NullString `db:"id"`
	SessionID sql.NullString `db:"session_id"`
	UserID    sql.NullString `db:"user_id"`
	Channel   sql.NullString `db:"channel"`
	Utterance sql.NullString `db:"utterance"`
	Intent    sql.NullString `db:"intent"`
	Action    sql.NullString `db:"action"`
	Reply     sql.NullString `db:"reply"`
	State     sql.NullString `db:"state"`
	City      sql.NullString `db:"city"`
	Succeeded sql.NullBool   `db:"succeeded"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *turnRepository) CreateTurn(ctx context.Context, turn entity.AssistantTurn) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         turn.ID,
		"session_id": turn.SessionID,
		"user_id":    turn.UserID,
		"channel":    string(turn.Channel),
		"utterance":  turn.Utterance,
		"intent":     turn.Intent,
		"action":     turn.Action,
		"reply":      turn.Reply,
		"state":      turn.State,
		"city":       turn.City,
		"succeeded":  turn.Succeeded,
		"created_at": turn.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateTurn, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateTurn")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": turn.SessionID,
			"error":      err.Error(),
		}).Error("Database error when creating assistant turn")
		return err
	}

	return nil
}

func (r *turnRepository) GetTurnsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.AssistantTurn, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var turnsDB []AssistantTurnDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountTurnsBySessionID, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountTurnsBySessionID named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountTurnsBySessionID execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetTurnsBySessionID, map[string]interface{}{
		"session_id": sessionID,
		"limit":      limit,
		"offset":     offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsBySessionID named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &turnsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsBySessionID execution err")
		return nil, 0, err
	}

	return r.makeTurns(turnsDB), total, nil
}

func (r *turnRepository) GetTurnsSince(ctx context.Context, userID string, since time.Time, limit int) ([]entity.AssistantTurn, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var turnsDB []AssistantTurnDB

	query, args, err := sqlx.Named(queryGetTurnsSince, map[string]interface{}{
		"user_id": userID,
		"since":   since,
		"limit":   limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsSince named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &turnsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTurnsSince execution err")
		return nil, err
	}

	return r.makeTurns(turnsDB), nil
}

func (r *turnRepository) makeTurns(rows []AssistantTurnDB) []entity.AssistantTurn {
	turns := make([]entity.AssistantTurn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, entity.AssistantTurn{
			ID:        row.ID.String,
			SessionID: row.SessionID.String,
			UserID:    row.UserID.String,
			Channel:   entity.Channel(row.Channel.String),
			Utterance: row.Utterance.String,
			Intent:    row.Intent.String,
			Action:    row.Action.String,
			Reply:     row.Reply.String,
			State:     row.State.String,
			City:      row.City.String,
			Succeeded: row.Succeeded.Bool,
			CreatedAt: row.CreatedAt,
		})
	}
	return turns
}
