// Package ingest turns an uploaded bank statement into stored, classified
// transactions. A batch is applied entirely or not at all.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/classify"
	classifyRepository "github.com/frahmantamala/household-finance/internal/classify/repository"
	"github.com/frahmantamala/household-finance/internal/core/events"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/statement"
	"github.com/frahmantamala/household-finance/internal/transaction"
	transactionRepository "github.com/frahmantamala/household-finance/internal/transaction/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Upload struct {
	FileName string
	Data     []byte
}

type Result struct {
	Success  bool     `json:"success"`
	BatchID  string   `json:"batch_id"`
	Total    int      `json:"total"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Months   []string `json:"months"`
	Message  string   `json:"message"`
}

// UnitOfWork runs fn in a single transaction, possibly more than once.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	uow        UnitOfWork
	maintainer *monthlyasset.Maintainer
	publisher  Publisher
	logger     *slog.Logger
}

// NewService wires the pipeline. publisher may be nil.
func NewService(uow UnitOfWork, maintainer *monthlyasset.Maintainer, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		uow:        uow,
		maintainer: maintainer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Ingest decodes, parses, classifies and stores one statement. Rows whose
// natural key is already stored are skipped, including repeats inside the
// same file. The rollup of every month the file touches is recomputed in the
// same transaction.
func (s *Service) Ingest(ctx context.Context, upload Upload) (*Result, error) {
	batchID := uuid.New().String()
	ctx = internal.ContextWithBatchID(ctx, batchID)
	logger := s.logger.With("batch_id", batchID, "file", upload.FileName)

	text, err := statement.Decode(upload.Data)
	if err != nil {
		logger.Warn("ingest: undecodable upload", "error", err)
		return nil, err
	}

	records, err := statement.Parse(text)
	if err != nil {
		logger.Warn("ingest: statement rejected", "error", err)
		return nil, err
	}
	months := monthsOf(records)

	var inserted, skipped int
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		// fn may be retried; counters restart with it
		inserted, skipped = 0, 0

		engine, err := classify.NewService(classifyRepository.NewRuleSource(tx), logger).Engine(ctx)
		if err != nil {
			return err
		}
		categoryIDs := engine.ClassifyBatch(records)

		repo := transactionRepository.NewTransactionRepository(tx)
		for i, rec := range records {
			t := rec.ToTransaction(categoryIDs[i], upload.FileName)

			exists, err := repo.ExistsByKey(ctx, t.Key())
			if err != nil {
				return fmt.Errorf("dedup lookup: %w", err)
			}
			if exists {
				skipped++
				continue
			}

			if err := repo.Create(ctx, transaction.ToDataModel(t)); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			inserted++
		}

		return s.maintainer.WithTx(tx).Recompute(ctx, months...)
	})
	if err != nil {
		logger.Error("ingest: batch rolled back", "error", err, "rows", len(records))
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		appErr := internal.NewInternalError("failed to store statement", err)
		appErr.Code = internal.ErrCodeIngestionFailed
		return nil, appErr
	}

	result := &Result{
		Success:  true,
		BatchID:  batchID,
		Total:    len(records),
		Inserted: inserted,
		Skipped:  skipped,
		Months:   months,
		Message:  fmt.Sprintf("%d added, %d duplicates skipped", inserted, skipped),
	}

	logger.Info("ingest: statement imported",
		"total", result.Total,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"months", result.Months)

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.NewStatementImportedEvent(
			batchID, upload.FileName, result.Total, result.Inserted, result.Skipped, result.Months))
	}

	return result, nil
}

func monthsOf(records []statement.Record) []string {
	seen := make(map[string]struct{}, len(records))
	months := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.Month]; ok {
			continue
		}
		seen[rec.Month] = struct{}{}
		months = append(months, rec.Month)
	}
	sort.Strings(months)
	return months
}
