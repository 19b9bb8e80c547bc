package rule

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/household-finance/internal"
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*ruleDatamodel.RuleWithCategory, error)
	GetByID(ctx context.Context, id int64) (*ruleDatamodel.RuleWithCategory, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, rule *ruleDatamodel.Rule) error
	Update(ctx context.Context, rule *ruleDatamodel.Rule) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
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

// List returns rules by priority, highest first.
func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list rules", "error", err)
		return nil, errors.NewInternalError("failed to list rules", err)
	}

	rules := make([]*Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, FromDataModel(row))
	}
	return rules, nil
}

func (s *Service) Create(ctx context.Context, dto RuleDTO) (*Rule, error) {
	if err := s.validate(ctx, &dto); err != nil {
		return nil, err
	}

	data := ToDataModel(&Rule{Keyword: dto.Keyword, CategoryID: dto.CategoryID, Priority: dto.Priority})
	if err := s.repo.Create(ctx, data); err != nil {
		s.logger.Error("failed to create rule", "error", err, "keyword", dto.Keyword)
		return nil, errors.NewInternalError("failed to create rule", err)
	}

	s.logger.Info("rule created", "rule_id", data.ID, "keyword", data.Keyword, "category_id", data.CategoryID)
	return s.load(ctx, data.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto RuleDTO) (*Rule, error) {
	if err := s.validate(ctx, &dto); err != nil {
		return nil, err
	}

	data := ToDataModel(&Rule{ID: id, Keyword: dto.Keyword, CategoryID: dto.CategoryID, Priority: dto.Priority})
	updated, err := s.repo.Update(ctx, data)
	if err != nil {
		s.logger.Error("failed to update rule", "error", err, "rule_id", id)
		return nil, errors.NewInternalError("failed to update rule", err)
	}
	if !updated {
		return nil, errors.ErrRuleNotFound
	}

	return s.load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete rule", "error", err, "rule_id", id)
		return errors.NewInternalError("failed to delete rule", err)
	}
	if !deleted {
		return errors.ErrRuleNotFound
	}
	s.logger.Info("rule deleted", "rule_id", id)
	return nil
}

func (s *Service) validate(ctx context.Context, dto *RuleDTO) error {
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
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*Rule, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load rule", err)
	}
	if row == nil {
		return nil, errors.ErrRuleNotFound
	}
	return FromDataModel(row), nil
}
