package middleware

import (
	"net/http"
	"sync"
	"time"

	"HotelAssistant/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

// visitors idle for longer than this are dropped on the next sweep
const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	visitors  map[string]*visitor
	rate      rate.Limit
	burstSize int
	lastSweep time.Time
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      reqRate,
		burstSize: burstSize,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string, now time.Time) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if now.Sub(r.lastSweep) > visitorIdleTTL {
		r.sweep(now)
	}

	v, exist := r.visitors[ip]
	if !exist {
		v = &visitor{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter
}

func (r *rateLimiter) sweep(now time.Time) {
	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(r.visitors, ip)
		}
	}
	r.lastSweep = now
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP, time.Now())

	if !limiter.Allow() {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"ip":         clientIP,
			"path":       ctx.Path(),
		}).Warn("Too many requests")
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}
