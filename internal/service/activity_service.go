package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

const (
	activityWriteTimeout = 5 * time.Second
	activityStreamBuffer = 16
)

// RequestMeta carries per-request metadata attached to audit entries.
// IP is the first X-Forwarded-For value, falling back to X-Real-IP;
// either may be nil when absent.
type RequestMeta struct {
	UserID    *uint
	IPAddress *string
	UserAgent *string
}

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   *uint
	Details    map[string]interface{}
	IPAddress  *string
	UserAgent  *string
}

// ActivityRecorder records audit entries. Record is best-effort and
// fire-and-forget: it never blocks the caller on the log store and never
// lets a logging failure escape to the triggering operation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService exposes the audit trail to the admin dashboard on top
// of the recorder contract.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Subscribe() (<-chan dto.ActivityResponse, func())
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
	broker *activityBroker
	wg     sync.WaitGroup
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
		broker: newActivityBroker(),
	}
}

func (s *activityService) Record(_ context.Context, entry ActivityEntry) {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		s.logger.Warn().Msg("dropped activity entry without action tag")
		return
	}

	model := models.ActivityLog{
		UserID:    entry.UserID,
		Action:    action,
		EntityID:  entry.EntityID,
		Details:   toJSONMap(entry.Details),
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
	}
	if entityType := strings.TrimSpace(entry.EntityType); entityType != "" {
		model.EntityType = &entityType
	}

	// The write is detached from the request context so a cancelled
	// request cannot abort the audit entry, and the caller returns
	// immediately.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), activityWriteTimeout)
		defer cancel()

		if err := s.repo.Create(ctx, &model); err != nil {
			s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist activity log")
			return
		}

		s.logger.Debug().Str("action", model.Action).Msg("activity logged")
		s.broker.publish(dto.NewActivityResponse(model))
	}()
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter := repository.ActivityLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityListResponse{Entries: responses, Pagination: pagination}, nil
}

func (s *activityService) Subscribe() (<-chan dto.ActivityResponse, func()) {
	return s.broker.subscribe()
}

// activityBroker fans freshly persisted entries out to dashboard stream
// subscribers. Slow subscribers drop entries rather than block the writer.
type activityBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.ActivityResponse]struct{}
}

func newActivityBroker() *activityBroker {
	return &activityBroker{subscribers: make(map[chan dto.ActivityResponse]struct{})}
}

func (b *activityBroker) subscribe() (<-chan dto.ActivityResponse, func()) {
	ch := make(chan dto.ActivityResponse, activityStreamBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

func (b *activityBroker) publish(entry dto.ActivityResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

func toJSONMap(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}
	m := datatypes.JSONMap{}
	for key, value := range details {
		m[key] = value
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
