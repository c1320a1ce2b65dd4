package assistantService

import (
	"math"
	"sort"

	"HotelAssistant/internal/api/assistant"
	"HotelAssistant/internal/entity"
	contextPkg "HotelAssistant/pkg/context"
	"HotelAssistant/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const topCityCount = 3

func (s *assistantService) GetAnalytics(ctx context.Context, userID string) (*assistant.Analytics, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.assistantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	since := s.now().Add(-s.config.AnalyticsWindow)
	turns, err := repo.Turns.GetTurnsSince(ctx, userID, since, s.config.AnalyticsLimit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get assistant turns for analytics")
		return nil, assistant.ErrTurnLogFailed
	}

	return generateAnalytics(turns), nil
}

func generateAnalytics(turns []entity.AssistantTurn) *assistant.Analytics {
	analytics := &assistant.Analytics{
		TotalTurns:   len(turns),
		IntentUsage:  make(map[string]int),
		ActionUsage:  make(map[string]int),
		ChannelUsage: make(map[string]int),
		UsageByTime:  make(map[string]int),
	}

	if len(turns) == 0 {
		return analytics
	}

	successCount := 0
	cityUsage := make(map[string]int)

	for _, turn := range turns {
		analytics.IntentUsage[turn.Intent]++
		analytics.ChannelUsage[string(turn.Channel)]++
		analytics.UsageByTime[utils.TimeOfDay(turn.CreatedAt)]++

		if turn.Action != "" {
			analytics.ActionUsage[turn.Action]++
		}
		if turn.City != "" {
			cityUsage[turn.City]++
		}
		if turn.Succeeded {
			successCount++
		}
	}

	rate := float64(successCount) / float64(len(turns)) * 100
	analytics.SuccessRate = math.Round(rate*100) / 100
	analytics.TopCities = topKeys(cityUsage, topCityCount)

	return analytics
}

// topKeys orders by count, then name so ties are stable.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
