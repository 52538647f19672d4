package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type IStaffService interface {
	ListStaff(ctx context.Context) ([]model.Staff, error)
	SaveStaff(ctx context.Context, staff *model.Staff) (*model.Staff, error)
	ToggleClock(ctx context.Context, staffID string) (*model.Staff, error)
	ActiveStaffLabel(ctx context.Context) (string, error)
}

type StaffService struct {
	store  db.UnifiedDB
	logger zerolog.Logger
	now    func() time.Time
}

func NewStaffService(store db.UnifiedDB, logger zerolog.Logger) *StaffService {
	return &StaffService{
		store:  store,
		logger: logger.With().Str("component", "staff_service").Logger(),
		now:    time.Now,
	}
}

func (s *StaffService) ListStaff(ctx context.Context) ([]model.Staff, error) {
	staff, err := s.store.GetAllStaff(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "ListStaff", err)
	}
	return staff, nil
}

// SaveStaff upsert, 打卡狀態以傳入值為準
func (s *StaffService) SaveStaff(ctx context.Context, staff *model.Staff) (*model.Staff, error) {
	const op = "SaveStaff"
	staff.Name = strings.TrimSpace(staff.Name)
	if staff.Name == "" {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: name is required", ErrInvalidStaff))
	}
	if !staff.Role.IsValid() {
		return nil, newError(KindValidation, op, fmt.Errorf("%w: role %q", ErrInvalidStaff, staff.Role))
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}

	if err := s.store.SaveStaff(ctx, staff); err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	return staff, nil
}

// ToggleClock 切換打卡, 只有上班時更新 LastClockIn
func (s *StaffService) ToggleClock(ctx context.Context, staffID string) (*model.Staff, error) {
	const op = "ToggleClock"

	var updated *model.Staff
	err := s.store.ExecTx(ctx, func(tx db.UnifiedDB) error {
		staff, err := tx.GetStaffByID(ctx, staffID)
		if err != nil {
			if errors.Is(err, db.ErrStaffNotFound) {
				return newError(KindNotFound, op, fmt.Errorf("%w: %s", ErrStaffNotExist, staffID))
			}
			return newError(KindPersistence, op, err)
		}

		clockedIn := !staff.IsClockedIn
		var lastClockIn *time.Time
		if clockedIn {
			now := s.now()
			lastClockIn = &now
		}
		if err := tx.UpdateClockState(ctx, staffID, clockedIn, lastClockIn); err != nil {
			return newError(KindPersistence, op, err)
		}

		staff.IsClockedIn = clockedIn
		if lastClockIn != nil {
			staff.LastClockIn = lastClockIn
		}
		updated = staff
		return nil
	})
	if err != nil {
		return nil, asServiceError(op, err)
	}

	s.logger.Info().Str("staff_id", staffID).Bool("clocked_in", updated.IsClockedIn).Msg("staff clock toggled")
	return updated, nil
}

func (s *StaffService) ActiveStaffLabel(ctx context.Context) (string, error) {
	label, err := activeStaffLabel(ctx, s.store)
	if err != nil {
		return "", newError(KindPersistence, "ActiveStaffLabel", err)
	}
	return label, nil
}

// activeStaffLabel id 最小的打卡中員工名稱, 無人打卡時為 Admin
func activeStaffLabel(ctx context.Context, repo db.IStaffRepository) (string, error) {
	staff, err := repo.GetFirstClockedInStaff(ctx)
	if err != nil {
		if errors.Is(err, db.ErrStaffNotFound) {
			return constants.FallbackStaffLabel, nil
		}
		return "", err
	}
	return staff.Name, nil
}

var _ IStaffService = (*StaffService)(nil)
