package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joseggch15/inboundoutbound-sub000/internal/model"
)

// DutyRepository data access for the day-granular duty ledger.
//
// Upsert writes exactly one day; a multi-day range is a sequence of
// independent Upsert calls at the service layer, so a failure mid-range
// leaves the completed days committed.
type DutyRepository interface {
	Upsert(ctx context.Context, record *model.DutyRecord) error
	DeleteRange(ctx context.Context, badge, source, startDate, endDate string) (int64, error)
	ListRange(ctx context.Context, badge, source, startDate, endDate string) ([]model.DutyRecord, error)
	ListBySource(ctx context.Context, source string) ([]model.DutyRecord, error)
	DeleteByBadge(ctx context.Context, badge, source string) (int64, error)
}

type dutyRepo struct {
	db *gorm.DB
}

// NewDutyRepo creates the gorm-backed DutyRepository.
func NewDutyRepo(db *gorm.DB) DutyRepository {
	return &dutyRepo{db: db}
}

func (r *dutyRepo) Upsert(ctx context.Context, record *model.DutyRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "badge"}, {Name: "date"}, {Name: "source"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     record.Status,
				"shift_type": record.ShiftType,
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(record).Error
}

func (r *dutyRepo) DeleteRange(ctx context.Context, badge, source, startDate, endDate string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("badge = ? AND source = ? AND date >= ? AND date <= ?", badge, source, startDate, endDate).
		Delete(&model.DutyRecord{})
	return result.RowsAffected, result.Error
}

func (r *dutyRepo) ListRange(ctx context.Context, badge, source, startDate, endDate string) ([]model.DutyRecord, error) {
	var records []model.DutyRecord
	err := r.db.WithContext(ctx).
		Where("badge = ? AND source = ? AND date >= ? AND date <= ?", badge, source, startDate, endDate).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *dutyRepo) ListBySource(ctx context.Context, source string) ([]model.DutyRecord, error) {
	var records []model.DutyRecord
	err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *dutyRepo) DeleteByBadge(ctx context.Context, badge, source string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("badge = ? AND source = ?", badge, source).
		Delete(&model.DutyRecord{})
	return result.RowsAffected, result.Error
}
