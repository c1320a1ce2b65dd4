package assistantService

import (
	"errors"
	"strings"
	"time"

	"HotelAssistant/internal/api/assistant"
	assistantRepository "HotelAssistant/internal/api/assistant/repository"
	"HotelAssistant/internal/conversation"
	"HotelAssistant/internal/entity"
	contextPkg "HotelAssistant/pkg/context"
	"HotelAssistant/pkg/nlp"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *assistantService) ProcessMessage(ctx context.Context, user *entity.UserLoginData, req assistant.MessageRequest) (*assistant.MessageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	if strings.TrimSpace(req.Message) == "" {
		return nil, assistant.ErrEmptyMessage
	}

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	prior := s.loadContext(ctx, repo, req.SessionID)

	engine := conversation.NewEngine(prior, s.engineOptions(user)...)

	channel := entity.Channel(req.Channel)
	if channel == "" {
		channel = entity.ChannelChat
	}

	resp := engine.Process(ctx, req.Message, channel)
	snapshot := engine.Context()

	if err := repo.Contexts.Save(ctx, &snapshot); err != nil {
		s.metrics.RecordStoreError("save")
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": snapshot.SessionID,
			"error":      err.Error(),
		}).Error("Failed to save conversation context, reply still returned")
	}

	turnID, err := s.utils.NewULIDFromTimestamp(s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate turn id")
	} else {
		s.recordTurn(ctx, repo, entity.AssistantTurn{
			ID:        turnID,
			SessionID: snapshot.SessionID,
			UserID:    userID(user),
			Channel:   channel,
			Utterance: req.Message,
			Intent:    string(resp.Meta.Intent),
			Action:    string(resp.Meta.Action),
			Reply:     resp.Message,
			State:     string(snapshot.State),
			City:      snapshot.SearchCity,
			Succeeded: resp.Meta.Intent != nlp.IntentUnknown,
			CreatedAt: s.now(),
		})
	}

	s.metrics.RecordTurn(string(resp.Meta.Intent), string(channel), time.Since(start))

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": snapshot.SessionID,
		"intent":     resp.Meta.Intent,
		"state":      snapshot.State,
	}).Debug("Processed assistant message")

	return &assistant.MessageResponse{
		SessionID: snapshot.SessionID,
		Response:  resp,
	}, nil
}

func (s *assistantService) ResetSession(ctx context.Context, sessionID string) (*assistant.SessionSnapshot, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if sessionID == "" {
		return nil, assistant.ErrSessionRequired
	}

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	if err := repo.Contexts.Delete(ctx, sessionID); err != nil {
		s.metrics.RecordStoreError("delete")
		return nil, err
	}

	engine := conversation.NewEngine(nil, s.engineOptions(nil)...)
	fresh := engine.Context()

	if err := repo.Contexts.Save(ctx, &fresh); err != nil {
		s.metrics.RecordStoreError("save")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"old_session_id": sessionID,
		"session_id":     fresh.SessionID,
	}).Info("Conversation reset")

	return s.makeSnapshot(fresh), nil
}

func (s *assistantService) GetSession(ctx context.Context, sessionID string) (*assistant.SessionSnapshot, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	c, err := repo.Contexts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.makeSnapshot(*c), nil
}

func (s *assistantService) GetSuggestions(ctx context.Context, sessionID string) (*assistant.SuggestionsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	engine := conversation.NewEngine(s.loadContext(ctx, repo, sessionID), s.engineOptions(nil)...)
	c := engine.Context()

	return &assistant.SuggestionsResponse{
		SessionID:   c.SessionID,
		State:       c.State,
		Suggestions: engine.Suggestions(),
	}, nil
}

func (s *assistantService) GetHistory(ctx context.Context, sessionID string, page, limit int) ([]assistant.TurnHistory, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if sessionID == "" {
		return nil, 0, assistant.ErrSessionRequired
	}

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	turns, total, err := repo.Turns.GetTurnsBySessionID(ctx, sessionID, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get assistant turns")
		return nil, 0, assistant.ErrTurnLogFailed
	}

	history := make([]assistant.TurnHistory, 0, len(turns))
	for _, turn := range turns {
		history = append(history, assistant.TurnHistory{
			ID:        turn.ID,
			SessionID: turn.SessionID,
			Channel:   string(turn.Channel),
			Utterance: turn.Utterance,
			Intent:    turn.Intent,
			Action:    turn.Action,
			Reply:     turn.Reply,
			State:     turn.State,
			CreatedAt: turn.CreatedAt,
		})
	}

	return history, total, nil
}

func (s *assistantService) GetPageMappings() []conversation.PageMapping {
	return conversation.PageMappings()
}

// loadContext treats every load failure as a miss; the conversation simply
// starts over.
func (s *assistantService) loadContext(ctx context.Context, repo assistantRepository.Client, sessionID string) *conversation.Context {
	if sessionID == "" {
		return nil
	}

	c, err := repo.Contexts.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, assistant.ErrContextNotFound) {
			s.metrics.RecordStoreError("load")
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to load conversation context, starting fresh")
		}
		return nil
	}
	return c
}

func (s *assistantService) recordTurn(ctx context.Context, repo assistantRepository.Client, turn entity.AssistantTurn) {
	if err := repo.Turns.CreateTurn(ctx, turn); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": turn.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to record assistant turn")
	}
}

func (s *assistantService) engineOptions(user *entity.UserLoginData) []conversation.Option {
	return []conversation.Option{
		conversation.WithHotelProvider(s.hotels),
		conversation.WithKnowledgeBase(s.kb),
		conversation.WithLogger(s.log),
		conversation.WithClock(s.now),
		conversation.WithUser(user),
	}
}

func (s *assistantService) makeSnapshot(c conversation.Context) *assistant.SessionSnapshot {
	snapshot := &assistant.SessionSnapshot{
		SessionID:       c.SessionID,
		State:           c.State,
		City:            c.SearchCity,
		Dates:           nlp.DateRange{CheckIn: c.CheckInDate, CheckOut: c.CheckOutDate},
		Guests:          c.Guests,
		Budget:          c.Budget,
		PendingAction:   c.PendingAction,
		ResultCount:     len(c.LastResults),
		PreferredCities: c.Preferences.PreferredCities,
		UpdatedAt:       c.Timestamp,
		ExpiresAt:       c.Timestamp.Add(conversation.ContextTTL),
	}
	if c.SelectedHotel != nil {
		snapshot.SelectedHotelID = c.SelectedHotel.ID
	}
	if snapshot.PreferredCities == nil {
		snapshot.PreferredCities = []string{}
	}
	return snapshot
}

func userID(user *entity.UserLoginData) string {
	if user == nil {
		return ""
	}
	return user.ID
}
