package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/database"
	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/http/handler"
	"github.com/logiscore/logiscore-backend/internal/http/router"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/security"
	"github.com/logiscore/logiscore-backend/internal/service"
)

var integrationDBSeq atomic.Int64

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	jwt     *security.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	// Endpoint is never dialed; upload tests stop at validation.
	storage, err := service.NewMinIOStorageService("localhost:1", "test", "test", "test-bucket", false)
	if err != nil {
		t.Fatal(err)
	}
	return newTestServerWithStorage(t, storage)
}

func newTestServerWithStorage(t *testing.T, storage service.StorageService) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", integrationDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Env:                 "test",
		JWTSecret:           "integration-test-secret-key-0123",
		JWTAccessTTL:        30 * time.Minute,
		VerificationCodeTTL: 10 * time.Minute,
		PasswordResetTTL:    time.Hour,
		AuthRateLimitPerMin: 1000,
		APIRateLimitPerMin:  1000,
	}
	jwtMgr := security.NewJWTManager(cfg.JWTSecret, "logiscore", cfg.JWTAccessTTL)
	mailer := service.NewDevMailer(observability.NewLogger())

	users := repository.NewUserRepository(db)
	forwarders := repository.NewForwarderRepository(db)
	reviews := repository.NewReviewRepository(db)
	disputes := repository.NewDisputeRepository(db)
	campaigns := repository.NewCampaignRepository(db)

	authSvc := service.NewAuthService(cfg, users, jwtMgr, mailer, observability.NewLogger())
	oauthSvc := service.NewOAuthService(cfg, service.NewGitHubProvider(cfg), users, jwtMgr)
	userSvc := service.NewUserService(users)
	forwarderSvc := service.NewForwarderService(forwarders, reviews, nil)
	reviewSvc := service.NewReviewService(reviews, forwarders, disputes)
	adminSvc := service.NewAdminService(users, forwarders, reviews, disputes, campaigns, nil)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authSvc),
		UserHandler:      handler.NewUserHandler(userSvc, oauthSvc),
		ForwarderHandler: handler.NewForwarderHandler(forwarderSvc),
		ReviewHandler:    handler.NewReviewHandler(reviewSvc),
		SearchHandler:    handler.NewSearchHandler(forwarderSvc),
		AdminHandler:     handler.NewAdminHandler(adminSvc, storage),
		JWTManager:       jwtMgr,
		UserLoader:       userSvc,
		CORSOrigins:      []string{"http://localhost:3000"},
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
	})

	return &testServer{handler: h, db: db, jwt: jwtMgr}
}

func (s *testServer) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

// signup registers an account through the API and returns its bearer
// token and user ID.
func (s *testServer) signup(t *testing.T, email, password string) (string, string) {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Integration Tester",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	return env.Data.AccessToken, env.Data.User.ID
}

func (s *testServer) promoteAdmin(t *testing.T, userID string) {
	t.Helper()
	if err := s.db.Model(&domain.User{}).Where("id = ?", userID).Update("user_type", domain.UserTypeAdmin).Error; err != nil {
		t.Fatal(err)
	}
}

func (s *testServer) seedForwarder(t *testing.T, name string) string {
	t.Helper()
	f := &domain.FreightForwarder{Name: name, Headquarters: "Hamburg, Germany", IsActive: true}
	if err := s.db.Create(f).Error; err != nil {
		t.Fatal(err)
	}
	return f.ID
}
