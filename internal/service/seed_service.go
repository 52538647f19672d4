package service

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/cafe_erp/internal/config"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SeedService 資料表為空時寫入初始商品與員工, 已有資料不動
type SeedService struct {
	store  db.UnifiedDB
	logger zerolog.Logger
}

func NewSeedService(store db.UnifiedDB, logger zerolog.Logger) *SeedService {
	return &SeedService{store: store, logger: logger.With().Str("component", "seed_service").Logger()}
}

func (s *SeedService) SeedIfEmpty(ctx context.Context, seed *config.SeedConfig) error {
	return s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		if _, err := tx.GetOrCreateStoreConfig(ctx, model.DefaultStoreConfig()); err != nil {
			return fmt.Errorf("seed store config: %w", err)
		}

		productCount, err := tx.CountProducts(ctx)
		if err != nil {
			return err
		}
		if productCount == 0 {
			for _, p := range seed.Products {
				product, err := productFromSeed(p)
				if err != nil {
					return err
				}
				if err := tx.CreateProduct(ctx, product); err != nil {
					return fmt.Errorf("seed product %s: %w", p.ID, err)
				}
			}
			s.logger.Info().Int("count", len(seed.Products)).Msg("seeded products")
		}

		staffCount, err := tx.CountStaff(ctx)
		if err != nil {
			return err
		}
		if staffCount == 0 {
			for _, st := range seed.Staff {
				role, err := model.ParseStaffRole(st.Role)
				if err != nil {
					return fmt.Errorf("seed staff %s: %w", st.ID, err)
				}
				if err := tx.CreateStaff(ctx, &model.Staff{ID: st.ID, Name: st.Name, Role: role}); err != nil {
					return fmt.Errorf("seed staff %s: %w", st.ID, err)
				}
			}
			s.logger.Info().Int("count", len(seed.Staff)).Msg("seeded staff")
		}
		return nil
	})
}

func productFromSeed(p config.ProductSeed) (*model.Product, error) {
	category, err := model.ParseCategory(p.Category)
	if err != nil {
		return nil, fmt.Errorf("seed product %s: %w", p.ID, err)
	}
	product := &model.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    decimal.NewFromFloat(p.Price),
		Cost:     decimal.NewFromFloat(p.Cost),
		Category: category,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Image:    p.Image,
	}
	if err := validateProduct(product); err != nil {
		return nil, fmt.Errorf("seed product %s: %w", p.ID, err)
	}
	return product, nil
}
