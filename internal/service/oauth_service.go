package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/logiscore/logiscore-backend/internal/config"
	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/security"
)

var (
	ErrOAuthNotConfigured = errors.New("github oauth not configured")
	ErrOAuthUpstream      = errors.New("github request failed")
)

// GitHubProfile is the subset of the provider's user payload the
// upsert needs.
type GitHubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// OAuthProvider abstracts the three provider calls so service tests
// can stub the network.
type OAuthProvider interface {
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*GitHubProfile, error)
	FetchEmails(ctx context.Context, token *oauth2.Token) ([]gitHubEmail, error)
}

type GitHubProvider struct {
	oauthCfg *oauth2.Config
	apiBase  string
	client   *http.Client
}

func NewGitHubProvider(cfg *config.Config) *GitHubProvider {
	return &GitHubProvider{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     githuboauth.Endpoint,
		},
		apiBase: strings.TrimRight(cfg.GitHubAPIBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.OAuthHTTPTimeout},
	}
}

func (p *GitHubProvider) AuthCodeURL(state string) (string, error) {
	if p.oauthCfg.ClientID == "" {
		return "", ErrOAuthNotConfigured
	}
	return p.oauthCfg.AuthCodeURL(state), nil
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if p.oauthCfg.ClientID == "" || p.oauthCfg.ClientSecret == "" {
		return nil, ErrOAuthNotConfigured
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthUpstream, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrOAuthUpstream)
	}
	return token, nil
}

func (p *GitHubProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*GitHubProfile, error) {
	var profile GitHubProfile
	if err := p.getJSON(ctx, token, "/user", &profile); err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("%w: profile missing id", ErrOAuthUpstream)
	}
	return &profile, nil
}

func (p *GitHubProvider) FetchEmails(ctx context.Context, token *oauth2.Token) ([]gitHubEmail, error) {
	var emails []gitHubEmail
	if err := p.getJSON(ctx, token, "/user/emails", &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, token *oauth2.Token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOAuthUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrOAuthUpstream, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrOAuthUpstream, path, err)
	}
	return nil
}

type OAuthService struct {
	cfg      *config.Config
	provider OAuthProvider
	users    repository.UserRepository
	jwtMgr   *security.JWTManager
}

func NewOAuthService(cfg *config.Config, provider OAuthProvider, users repository.UserRepository, jwtMgr *security.JWTManager) *OAuthService {
	return &OAuthService{cfg: cfg, provider: provider, users: users, jwtMgr: jwtMgr}
}

func (s *OAuthService) AuthorizeURL(state string) (string, error) {
	return s.provider.AuthCodeURL(state)
}

// ExchangeCode runs the full GitHub flow: code exchange, profile and
// email fetch, then upsert by the provider identity.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (*AuthResult, error) {
	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		observability.RecordOAuthLogin(ctx, "github", "exchange_failure")
		return nil, err
	}
	profile, err := s.provider.FetchProfile(ctx, token)
	if err != nil {
		observability.RecordOAuthLogin(ctx, "github", "profile_failure")
		return nil, err
	}

	// Email list failures are tolerated; the profile email field is
	// the fallback either way.
	email := ""
	if emails, err := s.provider.FetchEmails(ctx, token); err == nil {
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		email = profile.Email
	}
	email = strings.TrimSpace(strings.ToLower(email))

	githubID := fmt.Sprintf("%d", profile.ID)
	user, err := s.users.FindByGitHubID(githubID)
	switch {
	case err == nil:
		if email != "" {
			user.Email = email
		}
		if profile.Login != "" {
			user.Username = profile.Login
		}
		if profile.Name != "" {
			user.FullName = profile.Name
		}
		if profile.AvatarURL != "" {
			user.AvatarURL = profile.AvatarURL
		}
		if err := s.users.Update(user); err != nil {
			return nil, err
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = &domain.User{
			GitHubID:         githubID,
			Email:            email,
			Username:         profile.Login,
			FullName:         profile.Name,
			AvatarURL:        profile.AvatarURL,
			UserType:         domain.UserTypeShipper,
			SubscriptionTier: domain.TierFree,
			IsVerified:       true,
			IsActive:         true,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	signed, err := s.jwtMgr.Sign(user.ID, s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	observability.RecordOAuthLogin(ctx, "github", "success")
	return &AuthResult{AccessToken: signed, TokenType: "bearer", User: user}, nil
}
