package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStoreConfigNotFound = errors.New("store config not found")

// StoreConfigRepo 單列設定表, id 固定
type StoreConfigRepo struct {
	db *DbDao
}

func NewStoreConfigRepo(db *DbDao) *StoreConfigRepo {
	return &StoreConfigRepo{db: db}
}

func (r *StoreConfigRepo) GetStoreConfig(ctx context.Context) (*model.StoreConfig, error) {
	var cfg model.StoreConfig
	err := r.db.WithContext(ctx).Where("id = ?", constants.StoreConfigID).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// GetOrCreateStoreConfig 第一次讀取時寫入預設值
// 已存在則不覆蓋
func (r *StoreConfigRepo) GetOrCreateStoreConfig(ctx context.Context, defaults model.StoreConfig) (*model.StoreConfig, error) {
	cfg, err := r.GetStoreConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrStoreConfigNotFound) {
		return nil, err
	}

	defaults.ID = constants.StoreConfigID
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}
	return r.GetStoreConfig(ctx)
}

func (r *StoreConfigRepo) SaveStoreConfig(ctx context.Context, cfg *model.StoreConfig) error {
	cfg.ID = constants.StoreConfigID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(cfg).Error
}
