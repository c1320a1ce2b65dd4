package assistantRepository

import (
	"time"

	"HotelAssistant/internal/conversation"
	"HotelAssistant/internal/entity"
	redisPkg "HotelAssistant/pkg/redis"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, rds redisPkg.IRedis, log *logrus.Logger, contextTTL time.Duration) Repository {
	if contextTTL <= 0 {
		contextTTL = conversation.ContextTTL
	}
	return &repository{
		DB:         db,
		redis:      rds,
		log:        log,
		contextTTL: contextTTL,
	}
}

type repository struct {
	DB         *sqlx.DB
	redis      redisPkg.IRedis
	log        *logrus.Logger
	contextTTL time.Duration
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Contexts: &contextRepository{redis: r.redis, log: r.log, ttl: r.contextTTL, now: time.Now},
		Turns:    &turnRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Contexts interface {
		Load(ctx context.Context, sessionID string) (*conversation.Context, error)
		Save(ctx context.Context, c *conversation.Context) error
		Delete(ctx context.Context, sessionID string) error
	}

	Turns interface {
		CreateTurn(ctx context.Context, turn entity.AssistantTurn) error
		GetTurnsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.AssistantTurn, int, error)
		GetTurnsSince(ctx context.Context, userID string, since time.Time, limit int) ([]entity.AssistantTurn, error)
	}

	Commit   func() error
	Rollback func() error
}

type contextRepository struct {
	redis redisPkg.IRedis
	log   *logrus.Logger
	ttl   time.Duration
	now   func() time.Time
}

type turnRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
