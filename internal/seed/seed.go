// Package seed installs the default categories and keyword rules.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/household-finance/internal/category"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type CategoryDefault struct {
	Name     string   `yaml:"name"`
	Color    string   `yaml:"color"`
	Icon     string   `yaml:"icon"`
	Budget   int64    `yaml:"budget"`
	Keywords []string `yaml:"keywords"`
}

type Defaults struct {
	Categories []CategoryDefault `yaml:"categories"`
}

// Report counts what EnsureDefaults inserted.
type Report struct {
	Categories int
	Rules      int
}

// LoadDefaults parses the embedded default set.
func LoadDefaults() (*Defaults, error) {
	return ParseDefaults(defaultsYAML)
}

func ParseDefaults(data []byte) (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("seed: invalid defaults: %w", err)
	}
	for _, required := range []string{category.IncomeName, category.OtherName} {
		if d.find(required) == nil {
			return nil, fmt.Errorf("seed: defaults must define the %q category", required)
		}
	}
	return &d, nil
}

func (d *Defaults) find(name string) *CategoryDefault {
	for i := range d.Categories {
		if d.Categories[i].Name == name {
			return &d.Categories[i]
		}
	}
	return nil
}

type Seeder struct {
	db       *gorm.DB
	defaults *Defaults
	logger   *slog.Logger
}

func NewSeeder(db *gorm.DB, defaults *Defaults, logger *slog.Logger) *Seeder {
	return &Seeder{
		db:       db,
		defaults: defaults,
		logger:   logger,
	}
}

// EnsureDefaults seeds the full default set into an empty category table.
// On a populated table it only restores Income and Other, without rules.
// Running it twice changes nothing.
func (s *Seeder) EnsureDefaults(ctx context.Context) (*Report, error) {
	report := &Report{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&categoryDatamodel.Category{}).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return s.seedAll(tx, report)
		}

		for _, name := range []string{category.IncomeName, category.OtherName} {
			created, err := s.ensureCategory(tx, *s.defaults.find(name))
			if err != nil {
				return err
			}
			if created {
				report.Categories++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("seed: failed to apply defaults", "error", err)
		return nil, err
	}

	if report.Categories > 0 || report.Rules > 0 {
		s.logger.Info("seed: defaults applied", "categories", report.Categories, "rules", report.Rules)
	}
	return report, nil
}

func (s *Seeder) seedAll(tx *gorm.DB, report *Report) error {
	for i, def := range s.defaults.Categories {
		cat := toCategory(def, i+1)
		if err := tx.Create(cat).Error; err != nil {
			return fmt.Errorf("seed: create category %s: %w", def.Name, err)
		}
		report.Categories++

		for _, keyword := range def.Keywords {
			keyword = strings.TrimSpace(keyword)
			if keyword == "" {
				continue
			}
			rule := &ruleDatamodel.Rule{Keyword: keyword, CategoryID: cat.ID}
			if err := tx.Create(rule).Error; err != nil {
				return fmt.Errorf("seed: create rule %s: %w", keyword, err)
			}
			report.Rules++
		}
	}
	return nil
}

func (s *Seeder) ensureCategory(tx *gorm.DB, def CategoryDefault) (bool, error) {
	var count int64
	if err := tx.Model(&categoryDatamodel.Category{}).Where("name = ?", def.Name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	var maxOrder int
	if err := tx.Model(&categoryDatamodel.Category{}).Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
		return false, err
	}
	if err := tx.Create(toCategory(def, maxOrder+1)).Error; err != nil {
		return false, fmt.Errorf("seed: restore category %s: %w", def.Name, err)
	}
	return true, nil
}

func toCategory(def CategoryDefault, sortOrder int) *categoryDatamodel.Category {
	return category.ToDataModel(category.NewCategory(def.Name, def.Color, def.Icon, def.Budget, sortOrder))
}
