package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) CreateBlock(
	ctx context.Context,
	block *models.ScheduleBlock,
) error {
	block.StartTime = block.StartTime.UTC()
	block.EndTime = block.EndTime.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(block).Error
}

// CreateBlocks writes one batch in a single INSERT. Callers chunk large
// materializations themselves.
func (r *ScheduleGormRepository) CreateBlocks(
	ctx context.Context,
	blocks []models.ScheduleBlock,
) error {
	if len(blocks) == 0 {
		return nil
	}
	for i := range blocks {
		blocks[i].StartTime = blocks[i].StartTime.UTC()
		blocks[i].EndTime = blocks[i].EndTime.UTC()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&blocks).Error
}

func (r *ScheduleGormRepository) GetBlock(
	ctx context.Context,
	tenantID uint,
	blockID uint,
) (*models.ScheduleBlock, error) {

	var b models.ScheduleBlock
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", blockID, tenantID).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *ScheduleGormRepository) ListBlocks(
	ctx context.Context,
	employeeID uint,
	start time.Time,
	end time.Time,
) ([]models.ScheduleBlock, error) {

	var list []models.ScheduleBlock
	if err := r.db.WithContext(ctx).
		Where(
			"employee_id = ? AND start_time < ? AND end_time > ?",
			employeeID,
			end.UTC(),
			start.UTC(),
		).
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ScheduleGormRepository) DeleteBlock(
	ctx context.Context,
	tenantID uint,
	blockID uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", blockID, tenantID).
		Delete(&models.ScheduleBlock{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) DeleteRecurrence(
	ctx context.Context,
	tenantID uint,
	recurrenceID string,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recurrence_id = ?", tenantID, recurrenceID).
		Delete(&models.ScheduleBlock{})

	return res.RowsAffected, res.Error
}

func (r *ScheduleGormRepository) LastRecurrenceBlock(
	ctx context.Context,
	tenantID uint,
	recurrenceID string,
) (*models.ScheduleBlock, error) {

	var b models.ScheduleBlock
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recurrence_id = ?", tenantID, recurrenceID).
		Order("start_time DESC").
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

var _ domain.BlockRepository = (*ScheduleGormRepository)(nil)
