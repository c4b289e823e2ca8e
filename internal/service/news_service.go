package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/observability"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

const (
	newsEntityType   = "news"
	newsListCacheKey = "news:list:v1"
)

// ErrNewsNotFound indicates an unknown news id.
var ErrNewsNotFound = errors.New("news not found")

// NewsService handles the news lifecycle: admin-only create, partial
// update and delete, plus the public listing and detail reads.
type NewsService interface {
	Create(ctx context.Context, req dto.NewsCreateRequest, meta RequestMeta) (dto.NewsResponse, error)
	Get(ctx context.Context, id uint) (dto.NewsResponse, error)
	List(ctx context.Context) (dto.NewsListResponse, error)
	Update(ctx context.Context, id uint, req dto.NewsUpdateRequest, meta RequestMeta) (dto.NewsResponse, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type newsService struct {
	repo      repository.NewsRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	recorder  ActivityRecorder
	logger    zerolog.Logger
	policy    *bluemonday.Policy
	tracer    trace.Tracer
}

// NewNewsService constructs the news service. The cache client may be
// nil, in which case every listing hits the store.
func NewNewsService(repo repository.NewsRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, recorder ActivityRecorder, logger zerolog.Logger) NewsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &newsService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		recorder:  recorder,
		logger:    logger.With().Str("component", "news_service").Logger(),
		policy:    bluemonday.UGCPolicy(),
		tracer:    otel.Tracer("github.com/ratotecki/smartgridlab-api/internal/service/news"),
	}
}

func (s *newsService) Create(ctx context.Context, req dto.NewsCreateRequest, meta RequestMeta) (dto.NewsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "news.create")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.create.validation_failed",
			EntityType: newsEntityType,
			Details:    map[string]interface{}{"title": req.Title},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.SetStatus(codes.Error, "validation failed")
		return dto.NewsResponse{}, err
	}

	news := models.News{
		Title:   strings.TrimSpace(req.Title),
		Date:    strings.TrimSpace(req.Date),
		Summary: strings.TrimSpace(req.Summary),
		Content: s.policy.Sanitize(req.Content),
		Image:   req.Image,
	}

	if err := s.repo.Create(ctx, &news); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.create.system_error",
			EntityType: newsEntityType,
			Details:    map[string]interface{}{"title": news.Title, "reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return dto.NewsResponse{}, err
	}

	span.SetAttributes(attribute.Int("news.id", int(news.ID)))

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "news.create.success",
		EntityType: newsEntityType,
		EntityID:   &news.ID,
		Details:    map[string]interface{}{"title": news.Title, "date": news.Date},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	s.invalidateListCache(ctx)

	return dto.NewNewsResponse(news), nil
}

func (s *newsService) Get(ctx context.Context, id uint) (dto.NewsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "news.get")
	defer span.End()

	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "not found")
			return dto.NewsResponse{}, ErrNewsNotFound
		}
		span.RecordError(err)
		return dto.NewsResponse{}, err
	}

	return dto.NewNewsResponse(*news), nil
}

func (s *newsService) List(ctx context.Context) (dto.NewsListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "news.list")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, newsListCacheKey).Result(); err == nil && cached != "" {
			var response dto.NewsListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.NewsCacheRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		observability.NewsCacheRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		return dto.NewsListResponse{}, err
	}

	responses := make([]dto.NewsResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewNewsResponse(item))
	}

	response := dto.NewsListResponse{News: responses}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, newsListCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache news listing")
			}
		}
	}
	observability.NewsCacheRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func (s *newsService) Update(ctx context.Context, id uint, req dto.NewsUpdateRequest, meta RequestMeta) (dto.NewsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "news.update")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.update.validation_failed",
			EntityType: newsEntityType,
			EntityID:   &id,
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.SetStatus(codes.Error, "validation failed")
		return dto.NewsResponse{}, err
	}

	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.Record(ctx, ActivityEntry{
				UserID:     meta.UserID,
				Action:     "news.update.not_found",
				EntityType: newsEntityType,
				EntityID:   &id,
				IPAddress:  meta.IPAddress,
				UserAgent:  meta.UserAgent,
			})
			span.SetStatus(codes.Error, "not found")
			return dto.NewsResponse{}, ErrNewsNotFound
		}
		span.RecordError(err)
		return dto.NewsResponse{}, err
	}

	// Explicit presence governs each field: supplied values overwrite,
	// omitted ones are retained. Image additionally honors an explicit
	// null, which clears the stored value.
	changed := make([]string, 0, 5)
	if req.Title != nil {
		news.Title = strings.TrimSpace(*req.Title)
		changed = append(changed, "title")
	}
	if req.Date != nil {
		news.Date = strings.TrimSpace(*req.Date)
		changed = append(changed, "date")
	}
	if req.Summary != nil {
		news.Summary = strings.TrimSpace(*req.Summary)
		changed = append(changed, "summary")
	}
	if req.Content != nil {
		news.Content = s.policy.Sanitize(*req.Content)
		changed = append(changed, "content")
	}
	if req.Image.Set {
		news.Image = req.Image.Value
		changed = append(changed, "image")
	}

	if err := s.repo.Update(ctx, news); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.update.system_error",
			EntityType: newsEntityType,
			EntityID:   &id,
			Details:    map[string]interface{}{"reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return dto.NewsResponse{}, err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "news.update.success",
		EntityType: newsEntityType,
		EntityID:   &id,
		Details:    map[string]interface{}{"changed_fields": changed},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	s.invalidateListCache(ctx)

	return dto.NewNewsResponse(*news), nil
}

func (s *newsService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	ctx, span := s.tracer.Start(ctx, "news.delete")
	defer span.End()

	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recorder.Record(ctx, ActivityEntry{
				UserID:     meta.UserID,
				Action:     "news.delete.not_found",
				EntityType: newsEntityType,
				EntityID:   &id,
				IPAddress:  meta.IPAddress,
				UserAgent:  meta.UserAgent,
			})
			span.SetStatus(codes.Error, "not found")
			return ErrNewsNotFound
		}
		span.RecordError(err)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.delete.system_error",
			EntityType: newsEntityType,
			EntityID:   &id,
			Details:    map[string]interface{}{"reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "news.delete.success",
		EntityType: newsEntityType,
		EntityID:   &id,
		Details:    map[string]interface{}{"title": news.Title},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	s.invalidateListCache(ctx)

	return nil
}

func (s *newsService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, newsListCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate news cache")
	}
}
