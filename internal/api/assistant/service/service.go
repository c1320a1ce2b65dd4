package assistantService

import (
	"time"

	"HotelAssistant/internal/api/assistant"
	assistantRepository "HotelAssistant/internal/api/assistant/repository"
	"HotelAssistant/internal/conversation"
	"HotelAssistant/internal/entity"
	"HotelAssistant/pkg/knowledge"
	"HotelAssistant/pkg/metrics"
	"HotelAssistant/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAssistantService interface {
	ProcessMessage(ctx context.Context, user *entity.UserLoginData, req assistant.MessageRequest) (*assistant.MessageResponse, error)
	ResetSession(ctx context.Context, sessionID string) (*assistant.SessionSnapshot, error)
	GetSession(ctx context.Context, sessionID string) (*assistant.SessionSnapshot, error)
	GetSuggestions(ctx context.Context, sessionID string) (*assistant.SuggestionsResponse, error)

	GetHistory(ctx context.Context, sessionID string, page, limit int) ([]assistant.TurnHistory, int, error)
	GetAnalytics(ctx context.Context, userID string) (*assistant.Analytics, error)

	GetPageMappings() []conversation.PageMapping
}

type assistantService struct {
	log           *logrus.Logger
	assistantRepo assistantRepository.Repository
	hotels        conversation.HotelProvider
	kb            knowledge.IKnowledgeBase
	utils         utils.IUtils
	metrics       metrics.IMetrics
	config        *AssistantConfig
	now           func() time.Time
}

type AssistantConfig struct {
	ContextTTL      time.Duration `json:"context_ttl"`
	AnalyticsWindow time.Duration `json:"analytics_window"`
	AnalyticsLimit  int           `json:"analytics_limit"`
}

func DefaultConfig() *AssistantConfig {
	return &AssistantConfig{
		ContextTTL:      conversation.ContextTTL,
		AnalyticsWindow: 30 * 24 * time.Hour,
		AnalyticsLimit:  500,
	}
}

func NewAssistantService(
	log *logrus.Logger,
	assistantRepo assistantRepository.Repository,
	hotels conversation.HotelProvider,
	kb knowledge.IKnowledgeBase,
	utils utils.IUtils,
	m metrics.IMetrics,
	config *AssistantConfig,
) IAssistantService {
	if config == nil {
		config = DefaultConfig()
	}
	if m == nil {
		m = metrics.Noop()
	}

	return &assistantService{
		log:           log,
		assistantRepo: assistantRepo,
		hotels:        hotels,
		kb:            kb,
		utils:         utils,
		metrics:       m,
		config:        config,
		now:           time.Now,
	}
}
