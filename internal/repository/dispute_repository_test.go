package repository

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/logiscore/logiscore-backend/internal/domain"
)

func TestDisputeRepositoryLifecycle(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewDisputeRepository(db)

	d := &domain.Dispute{
		ReviewID:    "rev-1",
		ReportedBy:  "user-1",
		Reason:      "factually wrong",
		Description: "Shipment referenced never existed.",
		Status:      domain.DisputeStatusPending,
	}
	if err := repo.Create(d); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	d.Status = domain.DisputeStatusResolved
	d.AdminNotes = "review removed"
	d.ResolvedAt = &now
	if err := repo.Update(d); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := repo.FindByID(d.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if loaded.Status != domain.DisputeStatusResolved || loaded.ResolvedAt == nil {
		t.Fatalf("dispute not resolved: %+v", loaded)
	}

	pending, err := repo.CountByStatus(domain.DisputeStatusPending)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 0 {
		t.Fatalf("expected 0 pending, got %d", pending)
	}

	page, err := repo.ListPaged(PageRequest{}, domain.DisputeStatusResolved)
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 resolved dispute, got %d", page.Total)
	}

	if _, err := repo.FindByID("missing"); !errors.Is(err, ErrDisputeNotFound) {
		t.Fatalf("expected ErrDisputeNotFound, got %v", err)
	}
}

func TestCampaignRepositorySumSpent(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewCampaignRepository(db)

	start := time.Now().UTC()
	for _, c := range []*domain.AdCampaign{
		{FreightForwarderID: "f1", CampaignName: "Spring banner", AdType: "banner", StartDate: start, EndDate: start.AddDate(0, 1, 0), Budget: 1000, Spent: 250.5, Status: domain.CampaignStatusActive},
		{FreightForwarderID: "f2", CampaignName: "Spotlight", AdType: "spotlight", StartDate: start, EndDate: start.AddDate(0, 2, 0), Budget: 500, Spent: 99.5, Status: domain.CampaignStatusCompleted},
	} {
		if err := repo.Create(c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	total, err := repo.SumSpent()
	if err != nil {
		t.Fatalf("sum spent: %v", err)
	}
	if math.Abs(total-350.0) > 1e-9 {
		t.Fatalf("sum = %v, want 350", total)
	}

	campaigns, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(campaigns))
	}
}
