package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStaffNotFound = errors.New("staff not found")

type StaffRepo struct {
	db *DbDao
}

func NewStaffRepo(db *DbDao) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) CreateStaff(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *StaffRepo) SaveStaff(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(staff).Error
}

func (r *StaffRepo) GetStaffByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, id)
		}
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepo) GetAllStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).Order("id ASC").Find(&staff).Error
	return staff, err
}

// GetFirstClockedInStaff id 最小的打卡中員工, 無人時回傳 ErrStaffNotFound
func (r *StaffRepo) GetFirstClockedInStaff(ctx context.Context) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("is_clocked_in = ?", true).
		Order("id ASC").
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// UpdateClockState lastClockIn 為 nil 時保留原值
func (r *StaffRepo) UpdateClockState(ctx context.Context, id string, isClockedIn bool, lastClockIn *time.Time) error {
	updates := map[string]interface{}{
		"is_clocked_in": isClockedIn,
	}
	if lastClockIn != nil {
		updates["last_clock_in"] = *lastClockIn
	}

	res := r.db.WithContext(ctx).Model(&model.Staff{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrStaffNotFound, id)
	}
	return nil
}

func (r *StaffRepo) CountStaff(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Staff{}).Count(&count).Error
	return count, err
}
