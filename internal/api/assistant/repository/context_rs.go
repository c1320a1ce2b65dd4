package assistantRepository

import (
	"errors"
	"fmt"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/conversation"
	contextPkg "HotelAssistant/pkg/context"
	redisPkg "HotelAssistant/pkg/redis"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	contextKeyPrefix = "assistant:context:"
	contextVersion   = 1
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// contextEnvelope is what lands in Redis. Anything that does not decode into
// the current version is treated as a cache miss.
type contextEnvelope struct {
	Version int                 `json:"version"`
	Payload jsoniter.RawMessage `json:"payload"`
}

func contextKey(sessionID string) string {
	return contextKeyPrefix + sessionID
}

func (r *contextRepository) Load(ctx context.Context, sessionID string) (*conversation.Context, error) {
	requestID := contextPkg.GetRequestID(ctx)

	raw, err := r.redis.Get(ctx, contextKey(sessionID))
	if err != nil {
		if errors.Is(err, redisPkg.ErrKeyNotFound) {
			return nil, assistant.ErrContextNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to read conversation context")
		return nil, fmt.Errorf("%w: %v", assistant.ErrContextStoreFailed, err)
	}

	var envelope contextEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding malformed conversation context")
		return nil, assistant.ErrContextNotFound
	}

	if envelope.Version != contextVersion {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"version":    envelope.Version,
		}).Warn("Discarding conversation context with unknown version")
		return nil, assistant.ErrContextNotFound
	}

	var c conversation.Context
	if err := json.Unmarshal(envelope.Payload, &c); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding undecodable conversation context")
		return nil, assistant.ErrContextNotFound
	}

	if c.SessionID != sessionID || c.Expired(r.now()) {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
		}).Debug("Stored conversation context is stale")
		return nil, assistant.ErrContextNotFound
	}

	return &c, nil
}

func (r *contextRepository) Save(ctx context.Context, c *conversation.Context) error {
	requestID := contextPkg.GetRequestID(ctx)

	payload, err := json.Marshal(c)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": c.SessionID,
			"error":      err.Error(),
		}).Error("Failed to marshal conversation context")
		return err
	}

	raw, err := json.Marshal(contextEnvelope{Version: contextVersion, Payload: payload})
	if err != nil {
		return err
	}

	if err := r.redis.Set(ctx, contextKey(c.SessionID), raw, r.ttl); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": c.SessionID,
			"error":      err.Error(),
		}).Error("Failed to store conversation context")
		return fmt.Errorf("%w: %v", assistant.ErrContextStoreFailed, err)
	}

	return nil
}

func (r *contextRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.redis.Delete(ctx, contextKey(sessionID)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to delete conversation context")
		return fmt.Errorf("%w: %v", assistant.ErrContextStoreFailed, err)
	}
	return nil
}
