package conversation

import (
	"context"
	"time"

	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/knowledge"
	"HotelAssistant/pkg/nlp"

	"github.com/sirupsen/logrus"
)

type handlerFunc func(ctx context.Context, t turn) reply

// turn is one utterance after extraction and classification.
type turn struct {
	raw      string
	text     string
	intent   nlp.Intent
	entities nlp.Entities
	cities   []string
	now      time.Time
}

type Option func(*Engine)

func WithHotelProvider(p HotelProvider) Option {
	return func(e *Engine) {
		if p != nil {
			e.hotels = p
		}
	}
}

func WithKnowledgeBase(kb knowledge.IKnowledgeBase) Option {
	return func(e *Engine) {
		if kb != nil {
			e.kb = kb
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithUser attaches the signed-in user. Greetings use the name and account
// pages stop asking for a login.
func WithUser(user *entity.UserLoginData) Option {
	return func(e *Engine) {
		e.user = user
	}
}

// Engine owns the dialogue state of a single session. It is not safe for
// concurrent use.
type Engine struct {
	ctx        *Context
	hotels     HotelProvider
	kb         knowledge.IKnowledgeBase
	extractor  *nlp.EntityExtractor
	classifier *nlp.IntentClassifier
	handlers   map[nlp.Intent]handlerFunc
	now        func() time.Time
	log        *logrus.Logger
	user       *entity.UserLoginData
}

// NewEngine resumes c, or starts fresh when c is nil or expired.
func NewEngine(c *Context, opts ...Option) *Engine {
	e := &Engine{
		hotels: emptyProvider{},
		kb:     (*knowledge.Base)(nil),
		now:    time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.extractor = nlp.NewEntityExtractor(e.kb.CityKeys())
	e.classifier = nlp.NewIntentClassifier(e.extractor)
	e.handlers = e.handlerTable()

	now := e.now()
	if c == nil || c.Expired(now) {
		c = NewContext(now)
	}
	e.ctx = c

	return e
}

func (e *Engine) handlerTable() map[nlp.Intent]handlerFunc {
	return map[nlp.Intent]handlerFunc{
		nlp.IntentGreeting:     e.handleGreeting,
		nlp.IntentBookNow:      e.handleBookNow,
		nlp.IntentShowMore:     e.handleShowMore,
		nlp.IntentShowDetails:  e.handleShowDetails,
		nlp.IntentCompare:      e.handleCompare,
		nlp.IntentDistance:     e.handleDistance,
		nlp.IntentCityInfo:     e.handleCityInfo,
		nlp.IntentAttractions:  e.handleAttractions,
		nlp.IntentWeather:      e.handleWeather,
		nlp.IntentFood:         e.handleFood,
		nlp.IntentLuxurySearch: e.handleHotelSearch,
		nlp.IntentBudgetSearch: e.handleHotelSearch,
		nlp.IntentHotelSearch:  e.handleHotelSearch,
		nlp.IntentSelectDates:  e.handleSelectDates,
		nlp.IntentSelectGuests: e.handleSelectGuests,
		nlp.IntentSelectRoom:   e.handleSelectRoom,
		nlp.IntentHelp:         e.handleHelp,
		nlp.IntentThanks:       e.handleThanks,
		nlp.IntentCancel:       e.handleCancel,
		nlp.IntentNavigation:   e.handleNavigation,
		nlp.IntentYesConfirm:   e.handleConfirmation,
		nlp.IntentNoDecline:    e.handleDecline,
		nlp.IntentUnknown:      e.handleUnknown,
	}
}

// Process runs one utterance through extraction, classification and the
// matching handler. It always returns a usable Response.
func (e *Engine) Process(ctx context.Context, utterance string, channel entity.Channel) Response {
	now := e.now()
	if e.ctx.Expired(now) {
		e.log.WithFields(logrus.Fields{
			"session_id": e.ctx.SessionID,
		}).Debug("Conversation context expired, starting fresh")
		e.ctx = NewContext(now)
	}

	cities := e.knownCities(ctx)
	entities := e.extractor.Extract(utterance, cities, now, nlp.DateRange{
		CheckIn:  e.ctx.CheckInDate,
		CheckOut: e.ctx.CheckOutDate,
	})
	e.ctx.Merge(entities)

	intent := e.classifier.Classify(utterance, e.ctx.PendingAction != PendingNone, cities)

	e.ctx.AppendHistory(RoleUser, utterance, now)

	handler, ok := e.handlers[intent]
	if !ok {
		handler = e.handleUnknown
	}

	r := handler(ctx, turn{
		raw:      utterance,
		text:     nlp.Normalize(utterance),
		intent:   intent,
		entities: entities,
		cities:   cities,
		now:      now,
	})

	e.ctx.AppendHistory(RoleAssistant, r.message, now)
	e.ctx.Touch(now)

	return format(r, intent, e.ctx, channel, now)
}

// Reset discards the current context.
func (e *Engine) Reset() {
	e.ctx = NewContext(e.now())
}

// Context returns a deep copy of the current context.
func (e *Engine) Context() Context {
	return e.ctx.Clone()
}

func (e *Engine) knownCities(ctx context.Context) []string {
	cities, err := e.hotels.ListCities(ctx)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"session_id": e.ctx.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to list cities")
		return nil
	}
	return cities
}

func (e *Engine) listHotels(ctx context.Context) []entity.Hotel {
	hotels, err := e.hotels.ListHotels(ctx)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"session_id": e.ctx.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to list hotels")
		return nil
	}
	return hotels
}
