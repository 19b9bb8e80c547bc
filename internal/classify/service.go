package classify

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/category"
	"github.com/frahmantamala/household-finance/internal/statement"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_rule_source.go -package=mocks

// RuleSource is the storage the engine is built from.
type RuleSource interface {
	Rules(ctx context.Context) ([]Rule, error)
	// CategoryIDByName returns 0 when no category has that name.
	CategoryIDByName(ctx context.Context, name string) (int64, error)
}

type Service struct {
	source RuleSource
	logger *slog.Logger
}

func NewService(source RuleSource, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		logger: logger,
	}
}

// Engine loads the rule set and the two fallback categories once.
func (s *Service) Engine(ctx context.Context) (*Engine, error) {
	rules, err := s.source.Rules(ctx)
	if err != nil {
		s.logger.Error("failed to load rules", "error", err)
		return nil, errors.NewInternalError("failed to load classification rules", err)
	}

	incomeID, err := s.requireCategory(ctx, category.IncomeName)
	if err != nil {
		return nil, err
	}
	otherID, err := s.requireCategory(ctx, category.OtherName)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("classification engine built", "rules", len(rules))
	return NewEngine(rules, incomeID, otherID), nil
}

func (s *Service) requireCategory(ctx context.Context, name string) (int64, error) {
	id, err := s.source.CategoryIDByName(ctx, name)
	if err != nil {
		return 0, errors.NewInternalError("failed to look up category "+name, err)
	}
	if id == 0 {
		s.logger.Error("default category missing; run the seed command", "category", name)
		return 0, errors.NewInternalError("default category "+name+" is missing", nil)
	}
	return id, nil
}

func (s *Service) Classify(ctx context.Context, rec statement.Record) (int64, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return 0, err
	}
	return engine.Classify(rec), nil
}

func (s *Service) ClassifyBatch(ctx context.Context, recs []statement.Record) ([]int64, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return engine.ClassifyBatch(recs), nil
}
