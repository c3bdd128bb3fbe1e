package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// CatalogGormRepository backs the admin CRUD surface: tenant settings,
// employees, services and clients.
type CatalogGormRepository struct {
	tenantStore
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{tenantStore{db: db}}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *CatalogGormRepository) CreateTenant(ctx context.Context, t *models.Tenant) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if isDuplicate(err) {
		return httperr.ErrConflict("slug_taken")
	}
	return err
}

func (r *CatalogGormRepository) UpdateTenant(ctx context.Context, t *models.Tenant) error {
	return r.db.WithContext(ctx).
		Model(t).
		Select(
			"name", "phone", "address", "timezone",
			"owner_email", "owner_phone", "webhook_url",
			"min_advance_hours", "max_advance_days", "slot_interval_minutes",
			"buffer_minutes", "auto_confirm", "updated_at",
		).
		Updates(t).Error
}

// --------------------------------------------------
// Employee
// --------------------------------------------------

func (r *CatalogGormRepository) ListEmployees(
	ctx context.Context,
	tenantID uint,
	onlyActive bool,
) ([]models.Employee, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var list []models.Employee
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogGormRepository) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CatalogGormRepository) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	return r.db.WithContext(ctx).
		Model(e).
		Select("name", "email", "phone", "active", "working_hours", "updated_at").
		Updates(e).Error
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	tenantID uint,
	onlyActive bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var list []models.Service
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) UpdateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).
		Model(s).
		Select("name", "description", "duration_min", "price", "active", "category", "updated_at").
		Updates(s).Error
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *CatalogGormRepository) ListClients(
	ctx context.Context,
	tenantID uint,
	query string,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var list []models.Client
	if err := q.Order("name ASC").Limit(200).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

var _ domain.CatalogRepository = (*CatalogGormRepository)(nil)
