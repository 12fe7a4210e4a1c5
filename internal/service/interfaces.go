package service

import (
	"context"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

type AuthServiceInterface interface {
	Signup(ctx context.Context, email, password, fullName, companyName, userType string) (*AuthResult, error)
	Signin(ctx context.Context, email, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, token, newPassword string) error
	SendCode(ctx context.Context, email string) (int, error)
	VerifyCode(ctx context.Context, email, code string) (*AuthResult, error)
}

type OAuthServiceInterface interface {
	AuthorizeURL(state string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*AuthResult, error)
}

type UserServiceInterface interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
}

type ForwarderServiceInterface interface {
	List(ctx context.Context, req repository.PageRequest, search string) (repository.PageResult[domain.FreightForwarder], error)
	Get(ctx context.Context, id string) (*ForwarderDetail, error)
	Branches(ctx context.Context, forwarderID string) ([]domain.Branch, error)
	Search(ctx context.Context, query string, limit int) ([]domain.FreightForwarder, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]domain.FreightForwarder, error)
}

type ReviewServiceInterface interface {
	Submit(ctx context.Context, userID string, sub ReviewSubmission) (*domain.Review, error)
	ListPublished(ctx context.Context, forwarderID string, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	ListByUser(ctx context.Context, userID string, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	FileDispute(ctx context.Context, reviewID, reporterID string, sub DisputeSubmission) (*domain.Dispute, error)
}

type AdminServiceInterface interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, req repository.PageRequest, filter repository.UserFilter) (repository.PageResult[domain.User], error)
	UpdateSubscription(ctx context.Context, userID, tier string) (*domain.User, error)
	ModerationQueue(ctx context.Context, status string, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	ApproveReview(ctx context.Context, reviewID string) error
	RejectReview(ctx context.Context, reviewID string) error
	ListDisputes(ctx context.Context, status string, req repository.PageRequest) (repository.PageResult[domain.Dispute], error)
	ResolveDispute(ctx context.Context, disputeID, adminNotes string) (*domain.Dispute, error)
	ListCompanies(ctx context.Context, req repository.PageRequest, search string) ([]AdminCompany, error)
	CreateCompany(ctx context.Context, create CompanyCreate) (*domain.FreightForwarder, error)
	SetCompanyLogo(ctx context.Context, forwarderID, logoURL string) (*domain.FreightForwarder, error)
	ListCampaigns(ctx context.Context) ([]domain.AdCampaign, error)
	CreateCampaign(ctx context.Context, campaign *domain.AdCampaign) error
}
