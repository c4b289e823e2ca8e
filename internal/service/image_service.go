package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrImageRequired indicates the multipart file was missing.
	ErrImageRequired = errors.New("image file is required")
	// ErrImageTooLarge indicates the payload exceeded the size limit.
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
	// ErrImageTypeNotAllowed indicates the detected MIME type is not an image.
	ErrImageTypeNotAllowed = errors.New("file type not allowed")
	// ErrImageUploadsDisabled indicates no storage backend is configured.
	ErrImageUploadsDisabled = errors.New("image uploads are not configured")
)

// FileStorage abstracts the upload destination for news images.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// NewsImageService validates and stores news illustration images,
// returning the public URL to embed in a post.
type NewsImageService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, meta RequestMeta) (string, error)
}

type newsImageService struct {
	storage  FileStorage
	recorder ActivityRecorder
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewNewsImageService constructs the image upload service. A nil storage
// backend leaves uploads disabled.
func NewNewsImageService(storage FileStorage, recorder ActivityRecorder, maxSizeMB int, logger zerolog.Logger) NewsImageService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &newsImageService{
		storage:  storage,
		recorder: recorder,
		logger:   logger.With().Str("component", "news_image_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		tracer:   otel.Tracer("github.com/ratotecki/smartgridlab-api/internal/service/newsimage"),
	}
}

func (s *newsImageService) Upload(ctx context.Context, file *multipart.FileHeader, meta RequestMeta) (string, error) {
	ctx, span := s.tracer.Start(ctx, "news.image_upload")
	defer span.End()

	if s.storage == nil {
		return "", ErrImageUploadsDisabled
	}

	if file == nil {
		span.SetStatus(codes.Error, "file missing")
		return "", ErrImageRequired
	}

	if file.Size > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrImageTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return "", err
	}
	if int64(buf.Len()) > s.maxSize {
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrImageTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		span.SetStatus(codes.Error, "type not allowed")
		return "", ErrImageTypeNotAllowed
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			UserID:     meta.UserID,
			Action:     "news.image_upload.system_error",
			EntityType: newsEntityType,
			Details:    map[string]interface{}{"filename": file.Filename, "reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		span.RecordError(err)
		return "", err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     meta.UserID,
		Action:     "news.image_upload.success",
		EntityType: newsEntityType,
		Details:    map[string]interface{}{"filename": file.Filename, "url": url},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return url, nil
}
