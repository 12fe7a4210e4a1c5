package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
)

var (
	ErrForwarderNotFound = errors.New("freight forwarder not found")
	ErrDuplicateName     = errors.New("freight forwarder name already exists")
)

type ForwarderFilter struct {
	ActiveOnly bool
	Search     string
}

type ForwarderRepository interface {
	Create(f *domain.FreightForwarder) error
	FindByID(id string) (*domain.FreightForwarder, error)
	FindByName(name string) (*domain.FreightForwarder, error)
	Update(f *domain.FreightForwarder) error
	ListPaged(req PageRequest, filter ForwarderFilter) (PageResult[domain.FreightForwarder], error)
	Search(query string, limit int) ([]domain.FreightForwarder, error)
	Suggest(prefix string, limit int) ([]domain.FreightForwarder, error)
	Count() (int64, error)
	ListBranches(forwarderID string) ([]domain.Branch, error)
	CreateBranch(b *domain.Branch) error
	CountBranches(forwarderID string) (int64, error)
}

type GormForwarderRepository struct{ db *gorm.DB }

func NewForwarderRepository(db *gorm.DB) ForwarderRepository {
	return &GormForwarderRepository{db: db}
}

func (r *GormForwarderRepository) Create(f *domain.FreightForwarder) error {
	if err := r.db.Create(f).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "forwarder", "create", "error")
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "forwarder", "create", "success")
	return nil
}

func (r *GormForwarderRepository) FindByID(id string) (*domain.FreightForwarder, error) {
	var f domain.FreightForwarder
	err := r.db.Preload("Branches", "is_active = ?", true).Where("id = ?", id).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "forwarder", "find_by_id", "not_found")
			return nil, ErrForwarderNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "forwarder", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "forwarder", "find_by_id", "success")
	return &f, nil
}

func (r *GormForwarderRepository) FindByName(name string) (*domain.FreightForwarder, error) {
	var f domain.FreightForwarder
	err := r.db.Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForwarderNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *GormForwarderRepository) Update(f *domain.FreightForwarder) error {
	return r.db.Save(f).Error
}

func (r *GormForwarderRepository) ListPaged(req PageRequest, filter ForwarderFilter) (PageResult[domain.FreightForwarder], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.FreightForwarder]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	base := r.db.Model(&domain.FreightForwarder{})
	if filter.ActiveOnly {
		base = base.Where("is_active = ?", true)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		base = base.Where("lower(name) LIKE ? OR lower(description) LIKE ? OR lower(headquarters) LIKE ?", like, like, like)
	}
	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "forwarder", "list_paged", "error")
		return PageResult[domain.FreightForwarder]{}, err
	}
	offset := normalized.Offset()
	if err := base.Order("name asc").Offset(offset).Limit(normalized.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "forwarder", "list_paged", "error")
		return PageResult[domain.FreightForwarder]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(context.Background(), "forwarder", "list_paged", "success")
	return result, nil
}

// Search matches active forwarders by name or headquarters, and by the
// location of any active branch.
func (r *GormForwarderRepository) Search(query string, limit int) ([]domain.FreightForwarder, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var items []domain.FreightForwarder
	err := r.db.
		Distinct("freight_forwarders.*").
		Joins("LEFT JOIN branches ON branches.freight_forwarder_id = freight_forwarders.id AND branches.is_active = ?", true).
		Where("freight_forwarders.is_active = ?", true).
		Where("lower(freight_forwarders.name) LIKE ? OR lower(freight_forwarders.headquarters) LIKE ? OR lower(branches.location) LIKE ?", like, like, like).
		Order("freight_forwarders.name asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "forwarder", "search", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "forwarder", "search", "success")
	return items, nil
}

func (r *GormForwarderRepository) Suggest(prefix string, limit int) ([]domain.FreightForwarder, error) {
	like := strings.ToLower(strings.TrimSpace(prefix)) + "%"
	var items []domain.FreightForwarder
	err := r.db.
		Where("is_active = ? AND lower(name) LIKE ?", true, like).
		Order("name asc").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *GormForwarderRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.FreightForwarder{}).Count(&n).Error
	return n, err
}

func (r *GormForwarderRepository) ListBranches(forwarderID string) ([]domain.Branch, error) {
	var branches []domain.Branch
	err := r.db.Where("freight_forwarder_id = ? AND is_active = ?", forwarderID, true).
		Order("name asc").Find(&branches).Error
	return branches, err
}

func (r *GormForwarderRepository) CreateBranch(b *domain.Branch) error {
	return r.db.Create(b).Error
}

func (r *GormForwarderRepository) CountBranches(forwarderID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Branch{}).Where("freight_forwarder_id = ?", forwarderID).Count(&n).Error
	return n, err
}
