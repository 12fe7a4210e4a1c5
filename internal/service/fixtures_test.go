package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/security"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByGitHubID(githubID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GitHubID != "" && u.GitHubID == githubID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) ListPaged(req repository.PageRequest, filter repository.UserFilter) (repository.PageResult[domain.User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []domain.User
	for _, u := range r.users {
		if filter.UserType != "" && u.UserType != filter.UserType {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Email, strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, *u)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Email < items[j].Email })
	return repository.PageResult[domain.User]{
		Items:    items,
		Total:    int64(len(items)),
		Page:     1,
		PageSize: len(items),
	}, nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// stubMailer records sends and can be told to fail.
type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *stubMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *stubMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *stubMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].body
}

type authFixture struct {
	cfg    *config.Config
	users  *fakeUserRepo
	mailer *stubMailer
	jwtMgr *security.JWTManager
	auth   *AuthService
}

func newAuthFixture() *authFixture {
	cfg := &config.Config{
		JWTAccessTTL:        30 * time.Minute,
		VerificationCodeTTL: 10 * time.Minute,
		PasswordResetTTL:    time.Hour,
	}
	users := newFakeUserRepo()
	mailer := &stubMailer{}
	jwtMgr := security.NewJWTManager("test-secret-key", "logiscore", cfg.JWTAccessTTL)
	return &authFixture{
		cfg:    cfg,
		users:  users,
		mailer: mailer,
		jwtMgr: jwtMgr,
		auth:   NewAuthService(cfg, users, jwtMgr, mailer, nil),
	}
}

func (fx *authFixture) seedUser(email, password string) *domain.User {
	hash, err := security.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := &domain.User{
		Email:            strings.ToLower(email),
		Username:         emailLocalPart(strings.ToLower(email)),
		UserType:         domain.UserTypeShipper,
		SubscriptionTier: domain.TierFree,
		PasswordHash:     hash,
		IsActive:         true,
	}
	if err := fx.users.Create(user); err != nil {
		panic(err)
	}
	return user
}
