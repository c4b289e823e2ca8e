package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
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
	waitingListEntityType = "waiting_list_entry"

	// DefaultDemoProduct is the product assigned to demo requests that
	// do not name one.
	DefaultDemoProduct = "SmartGridLab"
)

var (
	// ErrWaitingListDuplicate indicates the email is already registered.
	// A second submission is rejected, never merged.
	ErrWaitingListDuplicate = errors.New("email already in waiting list")
	// ErrProductNameRequired indicates a non-demo signup without a product.
	ErrProductNameRequired = errors.New("product name is required")
)

// WaitingListService handles public waiting-list signups and the
// admin-only listing.
type WaitingListService interface {
	Submit(ctx context.Context, req dto.WaitingListCreateRequest, meta RequestMeta) (dto.WaitingListEntryResponse, error)
	List(ctx context.Context, meta RequestMeta) ([]dto.WaitingListEntryResponse, error)
}

type waitingListService struct {
	repo      repository.WaitingListRepository
	validator *validator.Validate
	recorder  ActivityRecorder
	leads     LeadPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewWaitingListService constructs a waiting-list service.
func NewWaitingListService(repo repository.WaitingListRepository, validate *validator.Validate, recorder ActivityRecorder, leads LeadPublisher, logger zerolog.Logger) WaitingListService {
	return &waitingListService{
		repo:      repo,
		validator: validate,
		recorder:  recorder,
		leads:     leads,
		logger:    logger.With().Str("component", "waiting_list_service").Logger(),
		tracer:    otel.Tracer("github.com/ratotecki/smartgridlab-api/internal/service/waitinglist"),
	}
}

func (s *waitingListService) Submit(ctx context.Context, req dto.WaitingListCreateRequest, meta RequestMeta) (dto.WaitingListEntryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "waiting_list.submit")
	defer span.End()

	productName := strings.TrimSpace(req.ProductName)
	if req.IsDemoRequest && productName == "" {
		productName = DefaultDemoProduct
	}

	validationErr := s.validator.Struct(req)
	if validationErr == nil && productName == "" {
		validationErr = ErrProductNameRequired
	}
	if validationErr != nil {
		s.recorder.Record(ctx, ActivityEntry{
			Action:     "waiting_list.create.validation_failed",
			EntityType: waitingListEntityType,
			Details:    map[string]interface{}{"email": req.Email, "is_demo_request": req.IsDemoRequest},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		observability.WaitingListSignups().WithLabelValues("validation_failed").Inc()
		span.SetStatus(codes.Error, "validation failed")
		return dto.WaitingListEntryResponse{}, validationErr
	}

	entry := models.WaitingListEntry{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Name:           req.Name,
		CompanyName:    req.CompanyName,
		ProductName:    productName,
		ProductVersion: req.ProductVersion,
		IsDemoRequest:  req.IsDemoRequest,
	}

	// A single constrained insert; the unique index on email closes the
	// race between concurrent duplicate submissions.
	if err := s.repo.Create(ctx, &entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.recorder.Record(ctx, ActivityEntry{
				Action:     "waiting_list.create.duplicate",
				EntityType: waitingListEntityType,
				Details:    map[string]interface{}{"email": entry.Email},
				IPAddress:  meta.IPAddress,
				UserAgent:  meta.UserAgent,
			})
			observability.WaitingListSignups().WithLabelValues("duplicate").Inc()
			span.SetStatus(codes.Error, "duplicate email")
			return dto.WaitingListEntryResponse{}, ErrWaitingListDuplicate
		}

		s.recorder.Record(ctx, ActivityEntry{
			Action:     "waiting_list.create.system_error",
			EntityType: waitingListEntityType,
			Details:    map[string]interface{}{"email": entry.Email, "reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		observability.WaitingListSignups().WithLabelValues("error").Inc()
		span.RecordError(err)
		return dto.WaitingListEntryResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("waiting_list.id", int(entry.ID)),
		attribute.Bool("waiting_list.is_demo_request", entry.IsDemoRequest),
	)

	s.recorder.Record(ctx, ActivityEntry{
		Action:     "waiting_list.create.success",
		EntityType: waitingListEntityType,
		EntityID:   &entry.ID,
		Details: map[string]interface{}{
			"email":           entry.Email,
			"product_name":    entry.ProductName,
			"is_demo_request": entry.IsDemoRequest,
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})

	response := dto.NewWaitingListEntryResponse(entry)

	kind := "waiting_list"
	if entry.IsDemoRequest {
		kind = "demo_request"
	}
	s.leads.PublishLead(ctx, kind, response)
	observability.WaitingListSignups().WithLabelValues("success").Inc()

	return response, nil
}

func (s *waitingListService) List(ctx context.Context, meta RequestMeta) ([]dto.WaitingListEntryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "waiting_list.list")
	defer span.End()

	entries, err := s.repo.List(ctx)
	if err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "waiting_list.list.system_error",
			EntityType: waitingListEntityType,
			Details:    map[string]interface{}{"reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return nil, err
	}

	responses := make([]dto.WaitingListEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewWaitingListEntryResponse(entry))
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "waiting_list.list.success",
		EntityType: waitingListEntityType,
		Details:    map[string]interface{}{"count": len(responses)},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return responses, nil
}
