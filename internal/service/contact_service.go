package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/observability"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

const contactEntityType = "contact_message"

// ContactService handles the public contact form and the admin-only
// message listing.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactCreateRequest, meta RequestMeta) (uint, error)
	List(ctx context.Context, meta RequestMeta) ([]dto.ContactMessageResponse, error)
}

type contactService struct {
	repo      repository.ContactRepository
	validator *validator.Validate
	recorder  ActivityRecorder
	leads     LeadPublisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewContactService constructs a contact service.
func NewContactService(repo repository.ContactRepository, validate *validator.Validate, recorder ActivityRecorder, leads LeadPublisher, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:      repo,
		validator: validate,
		recorder:  recorder,
		leads:     leads,
		logger:    logger.With().Str("component", "contact_service").Logger(),
		tracer:    otel.Tracer("github.com/ratotecki/smartgridlab-api/internal/service/contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactCreateRequest, meta RequestMeta) (uint, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			Action:     "contact_message.create.validation_failed",
			EntityType: contactEntityType,
			Details:    map[string]interface{}{"name": req.Name, "email": req.Email},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		observability.ContactSubmissions().WithLabelValues("validation_failed").Inc()
		span.SetStatus(codes.Error, "validation failed")
		return 0, err
	}

	message := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: req.Subject,
		Message: strings.TrimSpace(req.Message),
	}

	if err := s.repo.Create(ctx, &message); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			Action:     "contact_message.create.system_error",
			EntityType: contactEntityType,
			Details:    map[string]interface{}{"email": message.Email, "reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		observability.ContactSubmissions().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return 0, err
	}

	span.SetAttributes(attribute.Int("contact.id", int(message.ID)))

	s.recorder.Record(ctx, ActivityEntry{
		Action:     "contact_message.create.success",
		EntityType: contactEntityType,
		EntityID:   &message.ID,
		Details: map[string]interface{}{
			"name":    message.Name,
			"email":   message.Email,
			"subject": message.Subject,
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	s.leads.PublishLead(ctx, "contact_message", dto.NewContactMessageResponse(message))
	observability.ContactSubmissions().WithLabelValues("success").Inc()

	return message.ID, nil
}

func (s *contactService) List(ctx context.Context, meta RequestMeta) ([]dto.ContactMessageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.list")
	defer span.End()

	messages, err := s.repo.List(ctx)
	if err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "contact_message.list.system_error",
			EntityType: contactEntityType,
			Details:    map[string]interface{}{"reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return nil, err
	}

	responses := make([]dto.ContactMessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewContactMessageResponse(message))
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "contact_message.list.success",
		EntityType: contactEntityType,
		Details:    map[string]interface{}{"count": len(responses)},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return responses, nil
}
