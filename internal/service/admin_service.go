package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

var (
	ErrInvalidTier   = errors.New("invalid subscription tier")
	ErrDuplicateName = errors.New("company with this name already exists")
)

var validTiers = map[string]bool{
	"free":       true,
	"basic":      true,
	"premium":    true,
	"enterprise": true,
}

type DashboardStats struct {
	TotalUsers      int64   `json:"total_users"`
	TotalCompanies  int64   `json:"total_companies"`
	TotalReviews    int64   `json:"total_reviews"`
	PendingReviews  int64   `json:"pending_reviews"`
	PendingDisputes int64   `json:"pending_disputes"`
	TotalRevenue    float64 `json:"total_revenue"`
}

type AdminCompany struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Website       string `json:"website"`
	LogoURL       string `json:"logo_url"`
	BranchesCount int64  `json:"branches_count"`
	ReviewsCount  int64  `json:"reviews_count"`
	Status        string `json:"status"`
}

type CompanyCreate struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	Description  string `json:"description"`
	Headquarters string `json:"headquarters"`
}

type AdminService struct {
	users      repository.UserRepository
	forwarders repository.ForwarderRepository
	reviews    repository.ReviewRepository
	disputes   repository.DisputeRepository
	campaigns  repository.CampaignRepository
	ratings    RatingCache
}

func NewAdminService(
	users repository.UserRepository,
	forwarders repository.ForwarderRepository,
	reviews repository.ReviewRepository,
	disputes repository.DisputeRepository,
	campaigns repository.CampaignRepository,
	ratings RatingCache,
) *AdminService {
	if ratings == nil {
		ratings = NewNoopRatingCache()
	}
	return &AdminService{
		users:      users,
		forwarders: forwarders,
		reviews:    reviews,
		disputes:   disputes,
		campaigns:  campaigns,
		ratings:    ratings,
	}
}

// Stats backs the admin dashboard. Revenue is the summed spend across
// ad campaigns.
func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error
	if stats.TotalUsers, err = s.users.Count(); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalCompanies, err = s.forwarders.Count(); err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}
	if stats.TotalReviews, err = s.reviews.Count(); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if stats.PendingReviews, err = s.reviews.CountByStatus(domain.ReviewStatusPending); err != nil {
		return nil, fmt.Errorf("count pending reviews: %w", err)
	}
	if stats.PendingDisputes, err = s.disputes.CountByStatus(domain.DisputeStatusPending); err != nil {
		return nil, fmt.Errorf("count pending disputes: %w", err)
	}
	if stats.TotalRevenue, err = s.campaigns.SumSpent(); err != nil {
		return nil, fmt.Errorf("sum campaign spend: %w", err)
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, req repository.PageRequest, filter repository.UserFilter) (repository.PageResult[domain.User], error) {
	return s.users.ListPaged(req, filter)
}

func (s *AdminService) UpdateSubscription(ctx context.Context, userID, tier string) (*domain.User, error) {
	tier = strings.ToLower(strings.TrimSpace(tier))
	if !validTiers[tier] {
		return nil, ErrInvalidTier
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.SubscriptionTier = tier
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ModerationQueue lists reviews regardless of status for review by
// moderators; an empty status means all.
func (s *AdminService) ModerationQueue(ctx context.Context, status string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	return s.reviews.ListPaged(req, repository.ReviewFilter{Status: status})
}

func (s *AdminService) ApproveReview(ctx context.Context, reviewID string) error {
	return s.setReviewStatus(ctx, reviewID, domain.ReviewStatusApproved)
}

func (s *AdminService) RejectReview(ctx context.Context, reviewID string) error {
	return s.setReviewStatus(ctx, reviewID, domain.ReviewStatusRejected)
}

func (s *AdminService) setReviewStatus(ctx context.Context, reviewID, status string) error {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	review.Status = status
	if err := s.reviews.Update(review); err != nil {
		return err
	}
	// The decision changes the published aggregate for this forwarder.
	_ = s.ratings.Invalidate(ctx, review.FreightForwarderID)
	observability.RecordModerationDecision(ctx, "review", status)
	return nil
}

func (s *AdminService) ListDisputes(ctx context.Context, status string, req repository.PageRequest) (repository.PageResult[domain.Dispute], error) {
	return s.disputes.ListPaged(req, status)
}

func (s *AdminService) ResolveDispute(ctx context.Context, disputeID, adminNotes string) (*domain.Dispute, error) {
	dispute, err := s.disputes.FindByID(disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	now := time.Now().UTC()
	dispute.Status = domain.DisputeStatusResolved
	dispute.AdminNotes = strings.TrimSpace(adminNotes)
	dispute.ResolvedAt = &now
	if err := s.disputes.Update(dispute); err != nil {
		return nil, err
	}
	observability.RecordModerationDecision(ctx, "dispute", "resolved")
	return dispute, nil
}

func (s *AdminService) ListCompanies(ctx context.Context, req repository.PageRequest, search string) ([]AdminCompany, error) {
	page, err := s.forwarders.ListPaged(req, repository.ForwarderFilter{Search: search})
	if err != nil {
		return nil, err
	}
	companies := make([]AdminCompany, 0, len(page.Items))
	for _, f := range page.Items {
		branches, err := s.forwarders.CountBranches(f.ID)
		if err != nil {
			return nil, err
		}
		reviews, err := s.reviews.CountByForwarder(f.ID)
		if err != nil {
			return nil, err
		}
		status := "active"
		if !f.IsActive {
			status = "inactive"
		}
		companies = append(companies, AdminCompany{
			ID:            f.ID,
			Name:          f.Name,
			Website:       f.Website,
			LogoURL:       f.LogoURL,
			BranchesCount: branches,
			ReviewsCount:  reviews,
			Status:        status,
		})
	}
	return companies, nil
}

func (s *AdminService) CreateCompany(ctx context.Context, create CompanyCreate) (*domain.FreightForwarder, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if _, err := s.forwarders.FindByName(name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, repository.ErrForwarderNotFound) {
		return nil, err
	}
	company := &domain.FreightForwarder{
		Name:         name,
		Website:      strings.TrimSpace(create.Website),
		Description:  strings.TrimSpace(create.Description),
		Headquarters: strings.TrimSpace(create.Headquarters),
		IsActive:     true,
	}
	if err := s.forwarders.Create(company); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return company, nil
}

// SetCompanyLogo stores the uploaded URL on the forwarder record after
// the object store write succeeds.
func (s *AdminService) SetCompanyLogo(ctx context.Context, forwarderID, logoURL string) (*domain.FreightForwarder, error) {
	company, err := s.forwarders.FindByID(forwarderID)
	if err != nil {
		if errors.Is(err, repository.ErrForwarderNotFound) {
			return nil, ErrForwarderNotFound
		}
		return nil, err
	}
	company.LogoURL = logoURL
	if err := s.forwarders.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *AdminService) ListCampaigns(ctx context.Context) ([]domain.AdCampaign, error) {
	return s.campaigns.List()
}

func (s *AdminService) CreateCampaign(ctx context.Context, campaign *domain.AdCampaign) error {
	if campaign.CampaignName == "" || campaign.FreightForwarderID == "" {
		return fmt.Errorf("campaign name and forwarder are required")
	}
	if campaign.Status == "" {
		campaign.Status = domain.CampaignStatusActive
	}
	return s.campaigns.Create(campaign)
}
