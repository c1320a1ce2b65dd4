package assistantRepository

import (
	"testing"
	"time"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/conversation"
	redisPkg "HotelAssistant/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

var storeNow = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

func newTestContexts(t *testing.T) (*contextRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return &contextRepository{
		redis: redisPkg.NewFromClient(client),
		log:   log,
		ttl:   conversation.ContextTTL,
		now:   func() time.Time { return storeNow },
	}, mr
}

func TestContextRoundTrip(t *testing.T) {
	store, mr := newTestContexts(t)
	ctx := context.Background()

	c := conversation.NewContext(storeNow)
	c.State = conversation.StateBrowsingResults
	c.SearchCity = "Ooty"
	c.CheckInDate = "2026-10-17"
	c.AddPreferredCity("Ooty")
	c.SetPending(conversation.PendingShowMore)
	c.AppendHistory(conversation.RoleUser, "hotels in ooty", storeNow)

	require.NoError(t, store.Save(ctx, c))
	assert.True(t, mr.Exists("assistant:context:"+c.SessionID))
	assert.Equal(t, conversation.ContextTTL, mr.TTL("assistant:context:"+c.SessionID))

	got, err := store.Load(ctx, c.SessionID)
	require.NoError(t, err)
	assert.Equal(t, c.SessionID, got.SessionID)
	assert.Equal(t, conversation.StateBrowsingResults, got.State)
	assert.Equal(t, "Ooty", got.SearchCity)
	assert.Equal(t, "2026-10-17", got.CheckInDate)
	assert.Equal(t, conversation.PendingShowMore, got.PendingAction)
	assert.Equal(t, []string{"Ooty"}, got.Preferences.PreferredCities)
	require.Len(t, got.History, 1)
	assert.True(t, storeNow.Equal(got.Timestamp))
}

func TestContextEnvelopeIsVersioned(t *testing.T) {
	store, mr := newTestContexts(t)
	c := conversation.NewContext(storeNow)
	require.NoError(t, store.Save(context.Background(), c))

	raw, err := mr.Get("assistant:context:" + c.SessionID)
	require.NoError(t, err)
	assert.Contains(t, raw, `"version":1`)
	assert.Contains(t, raw, `"payload":{`)
}

func TestContextLoadMisses(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "malformed json", value: `{"version":1,"payload":`},
		{name: "unknown version", value: `{"version":2,"payload":{"sessionId":"s1"}}`},
		{name: "payload of wrong shape", value: `{"version":1,"payload":"oops"}`},
		{name: "other session", value: `{"version":1,"payload":{"sessionId":"s2","timestamp":"2026-10-15T10:30:00Z"}}`},
		{name: "stale timestamp", value: `{"version":1,"payload":{"sessionId":"s1","timestamp":"2026-10-15T09:00:00Z"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mr := newTestContexts(t)
			require.NoError(t, mr.Set("assistant:context:s1", tt.value))

			_, err := store.Load(context.Background(), "s1")
			assert.ErrorIs(t, err, assistant.ErrContextNotFound)
		})
	}
}

func TestContextExpiresWithTTL(t *testing.T) {
	store, mr := newTestContexts(t)
	ctx := context.Background()
	c := conversation.NewContext(storeNow)
	require.NoError(t, store.Save(ctx, c))

	mr.FastForward(conversation.ContextTTL + time.Second)

	_, err := store.Load(ctx, c.SessionID)
	assert.ErrorIs(t, err, assistant.ErrContextNotFound)
}

func TestContextDelete(t *testing.T) {
	store, mr := newTestContexts(t)
	ctx := context.Background()
	c := conversation.NewContext(storeNow)
	require.NoError(t, store.Save(ctx, c))

	require.NoError(t, store.Delete(ctx, c.SessionID))
	assert.False(t, mr.Exists("assistant:context:"+c.SessionID))

	_, err := store.Load(ctx, c.SessionID)
	assert.ErrorIs(t, err, assistant.ErrContextNotFound)
}

func TestContextStoreUnavailable(t *testing.T) {
	store, mr := newTestContexts(t)
	mr.Close()

	_, err := store.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, assistant.ErrContextStoreFailed)
	assert.NotErrorIs(t, err, assistant.ErrContextNotFound)

	err = store.Save(context.Background(), conversation.NewContext(storeNow))
	assert.ErrorIs(t, err, assistant.ErrContextStoreFailed)
}
