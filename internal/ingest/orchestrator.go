// Package ingest sequences the collection pipelines: recipe scraping,
// ingredient enrichment and the sandwich CSV import. Pipelines run to
// completion, single-threaded; per-item failures are logged and skipped so a
// run ingests as much as it can.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nmarzin/gourmand/internal/config"
	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/nutrition"
)

// RecipeStore is the document-store surface the pipelines write recipes to.
type RecipeStore interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Insert(ctx context.Context, recipe *domain.Recipe) error
	DistinctIngredientNames(ctx context.Context) ([]string, error)
}

// SandwichStore merges sandwich ingredient sets.
type SandwichStore interface {
	Upsert(ctx context.Context, label string, ingredientNames []string) error
}

// FoodStore is the relational surface of the enrichment pipeline.
type FoodStore interface {
	UpsertFood(ctx context.Context, name string) (uint, error)
	IsEnriched(ctx context.Context, foodID uint) (bool, error)
	UpsertNutrient(ctx context.Context, name, unit string) (uint, error)
	LinkFoodNutrient(ctx context.Context, foodID, nutrientID uint, value float64) error
}

// Translator maps ingredient names into the nutrition API's language.
type Translator interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// NutrientSource resolves an English food name to its nutrient set.
type NutrientSource interface {
	Lookup(ctx context.Context, foodName string) (*nutrition.NutrientSet, error)
}

// RecipeSource walks one category listing and yields extracted recipes.
type RecipeSource interface {
	Walk(ctx context.Context, category, baseURL string, yield func(domain.Recipe) error) error
}

// Orchestrator drives the pipelines over explicitly passed-in handles. It
// owns pacing and cross-pipeline sequencing only; retry policy stays in the
// nutrition client.
type Orchestrator struct {
	recipes    RecipeStore
	sandwiches SandwichStore
	foods      FoodStore
	translator Translator
	nutrients  NutrientSource
	source     RecipeSource

	categories []config.Category
	srcLang    string
	dstLang    string
	pacing     time.Duration
}

// Options holds orchestrator construction parameters.
type Options struct {
	Recipes    RecipeStore
	Sandwiches SandwichStore
	Foods      FoodStore
	Translator Translator
	Nutrients  NutrientSource
	Source     RecipeSource

	Categories []config.Category
	SourceLang string
	TargetLang string
	Pacing     time.Duration
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	srcLang := opts.SourceLang
	if srcLang == "" {
		srcLang = "fr"
	}
	dstLang := opts.TargetLang
	if dstLang == "" {
		dstLang = "en"
	}
	return &Orchestrator{
		recipes:    opts.Recipes,
		sandwiches: opts.Sandwiches,
		foods:      opts.Foods,
		translator: opts.Translator,
		nutrients:  opts.Nutrients,
		source:     opts.Source,
		categories: opts.Categories,
		srcLang:    srcLang,
		dstLang:    dstLang,
		pacing:     opts.Pacing,
	}
}

// RunRecipes scrapes every configured category and inserts recipes not yet
// stored under the same title. A failed category does not stop the others.
func (o *Orchestrator) RunRecipes(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	for _, category := range o.categories {
		ctx := logger.WithField(ctx, logger.FieldCategory, category.Name)

		err := o.source.Walk(ctx, category.Name, category.URL, func(recipe domain.Recipe) error {
			stats.Processed++

			exists, err := o.recipes.ExistsByTitle(ctx, recipe.Title)
			if err != nil {
				stats.Failed++
				logger.CtxError(ctx, "Dedup lookup for %q failed: %v", recipe.Title, err)
				return nil
			}
			if exists {
				stats.Skipped++
				logger.CtxInfo(ctx, "Recipe %q already stored, skipping", recipe.Title)
				return nil
			}

			if err := o.recipes.Insert(ctx, &recipe); err != nil {
				stats.Failed++
				logger.CtxError(ctx, "Insert of %q failed: %v", recipe.Title, err)
				return nil
			}
			stats.Stored++
			return nil
		})
		if err != nil {
			logger.CtxError(ctx, "Category %s aborted: %v", category.Name, err)
			stats.Failed++
		}
	}
	return stats, nil
}

// RunEnrichment translates every distinct stored ingredient name, resolves
// its nutrient set and stores the measurements, pacing external calls. It
// stops only when the nutrition API quota is exhausted past its retry cap;
// everything else skips the current item.
func (o *Orchestrator) RunEnrichment(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	names, err := o.recipes.DistinctIngredientNames(ctx)
	if err != nil {
		return stats, fmt.Errorf("list ingredient names: %w", err)
	}
	logger.CtxInfo(ctx, "Enriching %d distinct ingredients", len(names))

	for i, name := range names {
		if i > 0 {
			if err := o.pace(ctx); err != nil {
				return stats, err
			}
		}
		stats.Processed++
		ctx := logger.WithField(ctx, logger.FieldIngredient, name)

		english, err := o.translator.Translate(ctx, name, o.srcLang, o.dstLang)
		if err != nil {
			stats.Skipped++
			logger.CtxWarn(ctx, "Translation failed for %q: %v", name, err)
			continue
		}

		foodID, err := o.foods.UpsertFood(ctx, english)
		if err != nil {
			stats.Failed++
			logger.CtxError(ctx, "Food upsert for %q failed: %v", english, err)
			continue
		}

		enriched, err := o.foods.IsEnriched(ctx, foodID)
		if err != nil {
			stats.Failed++
			logger.CtxError(ctx, "Enrichment check for %q failed: %v", english, err)
			continue
		}
		if enriched {
			stats.Skipped++
			logger.CtxInfo(ctx, "Food %q already enriched, skipping", english)
			continue
		}

		set, err := o.nutrients.Lookup(ctx, english)
		if err != nil {
			if errors.Is(err, nutrition.ErrQuotaExhausted) {
				stats.Failed++
				return stats, err
			}
			stats.Skipped++
			logger.CtxWarn(ctx, "Nutrition lookup for %q failed: %v", english, err)
			continue
		}
		if set == nil {
			stats.Skipped++
			continue
		}

		if err := o.storeNutrients(ctx, foodID, set); err != nil {
			stats.Failed++
			logger.CtxError(ctx, "Storing nutrients for %q failed: %v", english, err)
			continue
		}
		stats.Stored++
	}
	return stats, nil
}

func (o *Orchestrator) storeNutrients(ctx context.Context, foodID uint, set *nutrition.NutrientSet) error {
	for _, m := range set.Nutrients {
		nutrientID, err := o.foods.UpsertNutrient(ctx, capitalize(m.Name), m.Unit)
		if err != nil {
			return err
		}
		if err := o.foods.LinkFoodNutrient(ctx, foodID, nutrientID, m.Value); err != nil {
			return err
		}
	}
	return nil
}

// RunSandwiches folds the flat CSV relation into sandwich documents.
func (o *Orchestrator) RunSandwiches(ctx context.Context, csvPath string) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	file, err := os.Open(csvPath)
	if err != nil {
		return stats, fmt.Errorf("open sandwich csv: %w", err)
	}
	defer file.Close()

	set, err := FoldSandwichCSV(file)
	if err != nil {
		return stats, err
	}

	for _, label := range set.Labels {
		stats.Processed++
		if err := o.sandwiches.Upsert(ctx, label, set.Ingredients[label]); err != nil {
			stats.Failed++
			logger.CtxError(ctx, "Sandwich upsert for %q failed: %v", label, err)
			continue
		}
		stats.Stored++
	}
	return stats, nil
}

// pace sleeps the configured delay between external API calls, honoring
// cancellation.
func (o *Orchestrator) pace(ctx context.Context) error {
	if o.pacing <= 0 {
		return nil
	}
	select {
	case <-time.After(o.pacing):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// capitalize upper-cases the first rune, matching the stored nutrient
// naming ("calories" -> "Calories").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
