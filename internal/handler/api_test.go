package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/config"
	"github.com/ratotecki/smartgridlab-api/internal/handler"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
	"github.com/ratotecki/smartgridlab-api/internal/router"
	"github.com/ratotecki/smartgridlab-api/internal/service"
)

// storageStub satisfies service.FileStorage for image upload tests.
type storageStub struct{ name string }

func (s *storageStub) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	s.name = name
	return "https://cdn.example.com/" + name, nil
}

var testDBSeq atomic.Int64

// testEnv assembles the full application the way main does, backed by
// in-memory sqlite and without external services.
type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	sessions *service.SessionManager
	cfg      config.Config
	activity service.ActivityService
	storage  *storageStub
}

func newTestEnv(t *testing.T, bootstrapEnabled bool) *testEnv {
	t.Helper()

	// A named shared in-memory database keeps every pooled connection on
	// the same data; the unique name isolates tests from each other.
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.News{},
		&models.ContactMessage{},
		&models.WaitingListEntry{},
		&models.ActivityLog{},
	))

	cfg := config.Config{
		AppName:               "SmartGridLab API",
		AppEnv:                "test",
		SessionSecret:         "test-secret",
		SessionCookieName:     "sgl_session",
		SessionTTL:            time.Hour,
		NewsCacheTTL:          time.Minute,
		LoginPath:             "/paitrabalhou",
		DashboardPrefix:       "/dashboard",
		AdminBootstrapEnabled: bootstrapEnabled,
	}

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	sessions := service.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	storage := &storageStub{}

	userRepo := repository.NewUserRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	contactRepo := repository.NewContactRepository(db)
	waitingListRepo := repository.NewWaitingListRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activity := service.NewActivityService(activityRepo, logger)
	leads := service.NewNATSLeadPublisher(nil, "leads", logger)

	deps := router.Dependencies{
		HealthHandler:      handler.NewHealthHandler(cfg.AppName, "test"),
		AuthHandler:        handler.NewAuthHandler(service.NewAuthService(userRepo, sessions, activity, logger), activity, cfg.SessionCookieName, cfg.SessionTTL, false, logger),
		ContactHandler:     handler.NewContactHandler(service.NewContactService(contactRepo, validate, activity, leads, logger), logger),
		WaitingListHandler: handler.NewWaitingListHandler(service.NewWaitingListService(waitingListRepo, validate, activity, leads, logger), logger),
		NewsHandler:        handler.NewNewsHandler(service.NewNewsService(newsRepo, nil, cfg.NewsCacheTTL, validate, activity, logger), service.NewNewsImageService(storage, activity, 5, logger), logger),
		ActivityHandler:    handler.NewActivityHandler(activity, logger),
		BootstrapHandler:   handler.NewBootstrapHandler(service.NewBootstrapService(userRepo, validate, activity, bootstrapEnabled, logger), logger),
		Recorder:           activity,
	}

	app := fiber.New()
	app.Use(middleware.Session(sessions, cfg.SessionCookieName))
	router.Register(app, cfg, deps)

	return &testEnv{app: app, db: db, sessions: sessions, cfg: cfg, activity: activity, storage: storage}
}

// createAdmin seeds an administrator account and returns a valid
// session cookie value for it.
func (e *testEnv) createAdmin(t *testing.T, email string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Email: email, Name: "Admin", PasswordHash: string(hash), IsAdmin: true}
	require.NoError(t, e.db.Create(&user).Error)

	token, err := e.sessions.Issue(service.Principal{UserID: user.ID, Email: user.Email, IsAdmin: true})
	require.NoError(t, err)

	return user, token
}

func (e *testEnv) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: e.cfg.SessionCookieName, Value: token}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// waitForAction polls the audit trail until the action appears; Record
// is fire-and-forget so persistence trails the HTTP response.
func (e *testEnv) waitForAction(t *testing.T, action string) models.ActivityLog {
	t.Helper()
	var entry models.ActivityLog
	require.Eventually(t, func() bool {
		return e.db.Where("action = ?", action).First(&entry).Error == nil
	}, 2*time.Second, 10*time.Millisecond, "expected audit entry %q", action)
	return entry
}
