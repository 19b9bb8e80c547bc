package category

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/household-finance/internal"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	// DeleteReassigning moves the category's transactions to fallbackID, drops
	// its rules and removes it, atomically.
	DeleteReassigning(ctx context.Context, id, fallbackID int64) (reassigned, rulesDeleted int64, err error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, errors.NewInternalError("failed to get categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		categories = append(categories, FromDataModel(dataCategory))
	}
	return categories, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	maxSort, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to read sort order", err)
	}

	cat := NewCategory(dto.Name, dto.Color, dto.Icon, dto.Budget, maxSort+1)
	data := ToDataModel(cat)
	if err := s.repo.Create(ctx, data); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrDuplicateCategory
		}
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, errors.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", data.ID, "name", data.Name)
	return FromDataModel(data), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load category", err)
	}
	if existing == nil {
		return nil, errors.ErrCategoryNotFound
	}

	if dto.Name != nil && *dto.Name != existing.Name {
		if IsProtectedName(existing.Name) {
			return nil, errors.ErrProtectedCategory
		}
		if err := s.ensureNameFree(ctx, *dto.Name, id); err != nil {
			return nil, err
		}
		existing.Name = *dto.Name
	}
	if dto.Color != nil {
		existing.Color = *dto.Color
		if existing.Color == "" {
			existing.Color = DefaultColor
		}
	}
	if dto.Icon != nil {
		existing.Icon = *dto.Icon
	}
	if dto.Budget != nil {
		existing.Budget = *dto.Budget
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrDuplicateCategory
		}
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to update category", err)
	}

	s.logger.Info("category updated", "category_id", id)
	return FromDataModel(existing), nil
}

func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load category", err)
	}
	if existing == nil {
		return nil, errors.ErrCategoryNotFound
	}
	if IsProtectedName(existing.Name) {
		return nil, errors.ErrProtectedCategory
	}

	other, err := s.repo.GetByName(ctx, OtherName)
	if err != nil {
		return nil, errors.NewInternalError("failed to load fallback category", err)
	}
	if other == nil {
		s.logger.Error("fallback category missing; run the seed command", "category", OtherName)
		return nil, errors.NewInternalError("fallback category "+OtherName+" is missing", nil)
	}

	reassigned, rulesDeleted, err := s.repo.DeleteReassigning(ctx, id, other.ID)
	if err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return nil, errors.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted",
		"category_id", id,
		"name", existing.Name,
		"reassigned", reassigned,
		"rules_deleted", rulesDeleted)

	return &DeleteResponse{Success: true, Reassigned: reassigned, RulesDeleted: rulesDeleted}, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	found, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return errors.NewInternalError("failed to check category name", err)
	}
	if found != nil && found.ID != selfID {
		return errors.ErrDuplicateCategory
	}
	return nil
}
