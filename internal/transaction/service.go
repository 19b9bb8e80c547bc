package transaction

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/household-finance/internal"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*transactionDatamodel.TransactionWithCategory, int64, error)
	Months(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	UpdateCategory(ctx context.Context, id, categoryID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	WithTx(tx *gorm.DB) RepositoryAPI
}

// RollupAPI refreshes the monthly aggregates after a row disappears.
type RollupAPI interface {
	RecomputeTx(ctx context.Context, tx *gorm.DB, months ...string) error
}

type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service struct {
	repo   RepositoryAPI
	uow    UnitOfWork
	rollup RollupAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, uow UnitOfWork, rollup RollupAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		uow:    uow,
		rollup: rollup,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Normalize()

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err)
		return nil, errors.NewInternalError("failed to list transactions", err)
	}

	data := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		data = append(data, FromJoinedDataModel(row))
	}

	return &ListResponse{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Data:  data,
	}, nil
}

func (s *Service) Months(ctx context.Context) ([]string, error) {
	months, err := s.repo.Months(ctx)
	if err != nil {
		s.logger.Error("failed to list months", "error", err)
		return nil, errors.NewInternalError("failed to list months", err)
	}
	if months == nil {
		months = []string{}
	}
	return months, nil
}

// UpdateCategory is the manual override; classification never runs again
// for the row afterwards.
func (s *Service) UpdateCategory(ctx context.Context, id int64, dto UpdateCategoryDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.CategoryExists(ctx, dto.CategoryID)
	if err != nil {
		return errors.NewInternalError("failed to look up category", err)
	}
	if !exists {
		return errors.ErrCategoryNotFound
	}

	updated, err := s.repo.UpdateCategory(ctx, id, dto.CategoryID)
	if err != nil {
		s.logger.Error("failed to update transaction category", "error", err, "transaction_id", id)
		return errors.NewInternalError("failed to update transaction", err)
	}
	if !updated {
		return errors.ErrTransactionNotFound
	}

	s.logger.Info("transaction category overridden", "transaction_id", id, "category_id", dto.CategoryID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	var month string
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to load transaction", err)
		}
		if existing == nil {
			return errors.ErrTransactionNotFound
		}
		month = existing.Month

		if err := repo.Delete(ctx, id); err != nil {
			return errors.NewInternalError("failed to delete transaction", err)
		}
		// the row and its month's totals change together or not at all
		if err := s.rollup.RecomputeTx(ctx, tx, month); err != nil {
			return errors.NewInternalError("failed to refresh monthly totals", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.IsAppError(err); !ok {
			err = errors.NewInternalError("failed to delete transaction", err)
		}
		s.logger.Error("failed to delete transaction", "error", err, "transaction_id", id)
		return err
	}

	s.logger.Info("transaction deleted", "transaction_id", id, "month", month)
	return nil
}
