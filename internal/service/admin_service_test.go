package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

type adminFixture struct {
	db    *gorm.DB
	admin *AdminService
	fwd   *domain.FreightForwarder
	user  *domain.User
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := newServiceDBForTest(t)
	users := repository.NewUserRepository(db)
	forwarders := repository.NewForwarderRepository(db)
	reviews := repository.NewReviewRepository(db)
	disputes := repository.NewDisputeRepository(db)
	campaigns := repository.NewCampaignRepository(db)

	fwd := &domain.FreightForwarder{Name: "Acme Logistics", IsActive: true}
	if err := forwarders.Create(fwd); err != nil {
		t.Fatal(err)
	}
	user := &domain.User{Email: "shipper@example.com", Username: "shipper", UserType: domain.UserTypeShipper, SubscriptionTier: domain.TierFree, IsActive: true}
	if err := users.Create(user); err != nil {
		t.Fatal(err)
	}
	return &adminFixture{
		db:    db,
		admin: NewAdminService(users, forwarders, reviews, disputes, campaigns, nil),
		fwd:   fwd,
		user:  user,
	}
}

func (fx *adminFixture) seedReview(t *testing.T, status string) *domain.Review {
	t.Helper()
	review := &domain.Review{
		UserID:             fx.user.ID,
		FreightForwarderID: fx.fwd.ID,
		OverallRating:      3,
		Status:             status,
		IsActive:           true,
	}
	if err := fx.db.Create(review).Error; err != nil {
		t.Fatal(err)
	}
	return review
}

func TestAdminStats(t *testing.T) {
	fx := newAdminFixture(t)
	fx.seedReview(t, domain.ReviewStatusPending)
	fx.seedReview(t, domain.ReviewStatusApproved)

	dispute := &domain.Dispute{ReviewID: "r1", ReportedBy: fx.user.ID, Reason: "wrong", Status: domain.DisputeStatusPending}
	if err := fx.db.Create(dispute).Error; err != nil {
		t.Fatal(err)
	}
	for _, spent := range []float64{150.5, 49.5} {
		campaign := &domain.AdCampaign{
			FreightForwarderID: fx.fwd.ID,
			CampaignName:       "banner",
			AdType:             "banner",
			StartDate:          time.Now(),
			EndDate:            time.Now().Add(24 * time.Hour),
			Budget:             500,
			Spent:              spent,
			Status:             domain.CampaignStatusActive,
		}
		if err := fx.db.Create(campaign).Error; err != nil {
			t.Fatal(err)
		}
	}

	stats, err := fx.admin.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 1 || stats.TotalCompanies != 1 || stats.TotalReviews != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.PendingReviews != 1 || stats.PendingDisputes != 1 {
		t.Fatalf("unexpected pending counts: %+v", stats)
	}
	if stats.TotalRevenue != 200.0 {
		t.Fatalf("revenue = %v, want 200.0", stats.TotalRevenue)
	}
}

func TestAdminModeration(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		fx := newAdminFixture(t)
		review := fx.seedReview(t, domain.ReviewStatusPending)
		if err := fx.admin.ApproveReview(context.Background(), review.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
		var got domain.Review
		if err := fx.db.First(&got, "id = ?", review.ID).Error; err != nil {
			t.Fatal(err)
		}
		if got.Status != domain.ReviewStatusApproved {
			t.Fatalf("status = %q, want approved", got.Status)
		}
	})

	t.Run("reject", func(t *testing.T) {
		fx := newAdminFixture(t)
		review := fx.seedReview(t, domain.ReviewStatusPending)
		if err := fx.admin.RejectReview(context.Background(), review.ID); err != nil {
			t.Fatalf("reject: %v", err)
		}
		var got domain.Review
		if err := fx.db.First(&got, "id = ?", review.ID).Error; err != nil {
			t.Fatal(err)
		}
		if got.Status != domain.ReviewStatusRejected {
			t.Fatalf("status = %q, want rejected", got.Status)
		}
	})

	t.Run("unknown review", func(t *testing.T) {
		fx := newAdminFixture(t)
		if err := fx.admin.ApproveReview(context.Background(), "missing"); !errors.Is(err, ErrReviewNotFound) {
			t.Fatalf("expected ErrReviewNotFound, got %v", err)
		}
	})

	t.Run("queue filters by status", func(t *testing.T) {
		fx := newAdminFixture(t)
		fx.seedReview(t, domain.ReviewStatusPending)
		fx.seedReview(t, domain.ReviewStatusApproved)

		page, err := fx.admin.ModerationQueue(context.Background(), domain.ReviewStatusPending, repository.PageRequest{})
		if err != nil {
			t.Fatalf("queue: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].Status != domain.ReviewStatusPending {
			t.Fatalf("unexpected queue: %+v", page.Items)
		}

		all, err := fx.admin.ModerationQueue(context.Background(), "", repository.PageRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if len(all.Items) != 2 {
			t.Fatalf("unfiltered queue returned %d items, want 2", len(all.Items))
		}
	})
}

func TestAdminResolveDispute(t *testing.T) {
	fx := newAdminFixture(t)
	review := fx.seedReview(t, domain.ReviewStatusApproved)
	dispute := &domain.Dispute{ReviewID: review.ID, ReportedBy: fx.user.ID, Reason: "wrong facts", Status: domain.DisputeStatusPending}
	if err := fx.db.Create(dispute).Error; err != nil {
		t.Fatal(err)
	}

	resolved, err := fx.admin.ResolveDispute(context.Background(), dispute.ID, "  Reviewed evidence, keeping the review.  ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != domain.DisputeStatusResolved {
		t.Fatalf("status = %q, want resolved", resolved.Status)
	}
	if resolved.AdminNotes != "Reviewed evidence, keeping the review." {
		t.Fatalf("notes not trimmed: %q", resolved.AdminNotes)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("resolved_at not set")
	}

	if _, err := fx.admin.ResolveDispute(context.Background(), "missing", ""); !errors.Is(err, ErrDisputeNotFound) {
		t.Fatalf("expected ErrDisputeNotFound, got %v", err)
	}
}

func TestAdminUpdateSubscription(t *testing.T) {
	fx := newAdminFixture(t)

	user, err := fx.admin.UpdateSubscription(context.Background(), fx.user.ID, "Premium")
	if err != nil {
		t.Fatalf("update subscription: %v", err)
	}
	if user.SubscriptionTier != "premium" {
		t.Fatalf("tier = %q, want premium", user.SubscriptionTier)
	}

	if _, err := fx.admin.UpdateSubscription(context.Background(), fx.user.ID, "platinum"); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
	if _, err := fx.admin.UpdateSubscription(context.Background(), "missing", "free"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminCompanies(t *testing.T) {
	fx := newAdminFixture(t)
	fx.seedReview(t, domain.ReviewStatusApproved)
	branch := &domain.Branch{FreightForwarderID: fx.fwd.ID, Name: "Hamburg", Location: "Hamburg, Germany", IsActive: true}
	if err := fx.db.Create(branch).Error; err != nil {
		t.Fatal(err)
	}
	dormant := &domain.FreightForwarder{Name: "Dormant Shipping", IsActive: false}
	if err := fx.db.Create(dormant).Error; err != nil {
		t.Fatal(err)
	}

	companies, err := fx.admin.ListCompanies(context.Background(), repository.PageRequest{}, "")
	if err != nil {
		t.Fatalf("list companies: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("got %d companies, want 2 (admin listing includes inactive)", len(companies))
	}
	byName := map[string]AdminCompany{}
	for _, c := range companies {
		byName[c.Name] = c
	}
	acme := byName["Acme Logistics"]
	if acme.BranchesCount != 1 || acme.ReviewsCount != 1 || acme.Status != "active" {
		t.Fatalf("unexpected acme row: %+v", acme)
	}
	if byName["Dormant Shipping"].Status != "inactive" {
		t.Fatalf("dormant company not flagged inactive: %+v", byName["Dormant Shipping"])
	}
}

func TestAdminCreateCompany(t *testing.T) {
	fx := newAdminFixture(t)

	company, err := fx.admin.CreateCompany(context.Background(), CompanyCreate{
		Name:         "  Zenith Cargo  ",
		Website:      "https://zenith.example",
		Headquarters: "Hamburg, Germany",
	})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	if company.Name != "Zenith Cargo" || !company.IsActive {
		t.Fatalf("unexpected company: %+v", company)
	}

	if _, err := fx.admin.CreateCompany(context.Background(), CompanyCreate{Name: "zenith cargo"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := fx.admin.CreateCompany(context.Background(), CompanyCreate{Name: "   "}); err == nil {
		t.Fatal("blank name must be rejected")
	}
}

func TestAdminSetCompanyLogo(t *testing.T) {
	fx := newAdminFixture(t)

	company, err := fx.admin.SetCompanyLogo(context.Background(), fx.fwd.ID, "https://cdn.example/logos/acme.png")
	if err != nil {
		t.Fatalf("set logo: %v", err)
	}
	if company.LogoURL != "https://cdn.example/logos/acme.png" {
		t.Fatalf("logo url = %q", company.LogoURL)
	}

	if _, err := fx.admin.SetCompanyLogo(context.Background(), "missing", "x"); !errors.Is(err, ErrForwarderNotFound) {
		t.Fatalf("expected ErrForwarderNotFound, got %v", err)
	}
}
