package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type IStoreConfigService interface {
	GetConfig(ctx context.Context) (*model.StoreConfig, error)
	SaveConfig(ctx context.Context, cfg *model.StoreConfig) (*model.StoreConfig, error)
}

// StoreConfigService 不在記憶體快取, 每次都讀 DB
type StoreConfigService struct {
	repo   db.IStoreConfigRepository
	logger zerolog.Logger
}

func NewStoreConfigService(repo db.IStoreConfigRepository, logger zerolog.Logger) *StoreConfigService {
	return &StoreConfigService{
		repo:   repo,
		logger: logger.With().Str("component", "store_config_service").Logger(),
	}
}

// GetConfig 第一次讀取時寫入預設值
func (s *StoreConfigService) GetConfig(ctx context.Context) (*model.StoreConfig, error) {
	cfg, err := s.repo.GetOrCreateStoreConfig(ctx, model.DefaultStoreConfig())
	if err != nil {
		return nil, newError(KindPersistence, "GetConfig", err)
	}
	return cfg, nil
}

func (s *StoreConfigService) SaveConfig(ctx context.Context, cfg *model.StoreConfig) (*model.StoreConfig, error) {
	const op = "SaveConfig"
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Currency = strings.TrimSpace(cfg.Currency)

	if cfg.Name == "" {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: name is required", ErrInvalidConfig))
	}
	if cfg.Currency == "" {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: currency is required", ErrInvalidConfig))
	}
	if cfg.TaxRate.IsNegative() || cfg.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: tax rate %s out of [0, 1]", ErrInvalidConfig, cfg.TaxRate))
	}

	if err := s.repo.SaveStoreConfig(ctx, cfg); err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	s.logger.Info().Str("name", cfg.Name).Str("tax_rate", cfg.TaxRate.String()).Msg("store config saved")
	return s.GetConfig(ctx)
}

var _ IStoreConfigService = (*StoreConfigService)(nil)
