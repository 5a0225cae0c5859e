// Package service composes the repositories and external clients behind the
// HTTP API's read paths.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/repository"
	"github.com/nmarzin/gourmand/internal/textutil"
)

// ErrNotFound marks an empty query result; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// Translator is the translation surface the ingredient lookup needs.
type Translator interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// QueryService serves the read-mostly API over both stores.
type QueryService struct {
	recipes    *repository.RecipeRepository
	sandwiches *repository.SandwichRepository
	foods      *repository.FoodRepository
	translator Translator
	srcLang    string
	dstLang    string
}

// NewQueryService creates a QueryService.
func NewQueryService(
	recipes *repository.RecipeRepository,
	sandwiches *repository.SandwichRepository,
	foods *repository.FoodRepository,
	translator Translator,
	srcLang, dstLang string,
) *QueryService {
	if srcLang == "" {
		srcLang = "fr"
	}
	if dstLang == "" {
		dstLang = "en"
	}
	return &QueryService{
		recipes:    recipes,
		sandwiches: sandwiches,
		foods:      foods,
		translator: translator,
		srcLang:    srcLang,
		dstLang:    dstLang,
	}
}

// RecipesByCategory returns every recipe whose category contains the query,
// ignoring case and diacritics ("vegetarien" matches "Végétarien").
func (s *QueryService) RecipesByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	normalized := textutil.Normalize(category)

	recipes, err := s.recipes.FindByCategory(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find recipes by category: %w", err)
	}
	if len(recipes) == 0 {
		return nil, ErrNotFound
	}
	return recipes, nil
}

// RecipeWithIngredients returns one recipe and its lowercased ingredient
// names, the keys a client would feed into the nutrient lookup.
func (s *QueryService) RecipeWithIngredients(ctx context.Context, id string) (*domain.Recipe, []string, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("find recipe: %w", err)
	}
	if recipe == nil {
		return nil, nil, ErrNotFound
	}

	names := make([]string, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		names = append(names, strings.ToLower(ingredient.Name))
	}
	return recipe, names, nil
}

// SandwichView is the API projection of one sandwich document.
type SandwichView struct {
	ID          string   `json:"_id"`
	Sandwich    string   `json:"sandwich"`
	Ingredients []string `json:"ingredients"`
}

// Sandwiches lists every stored sandwich with its ingredient names.
func (s *QueryService) Sandwiches(ctx context.Context) ([]SandwichView, error) {
	sandwiches, err := s.sandwiches.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find sandwiches: %w", err)
	}
	if len(sandwiches) == 0 {
		return nil, ErrNotFound
	}

	views := make([]SandwichView, 0, len(sandwiches))
	for _, sandwich := range sandwiches {
		view := SandwichView{
			ID:       sandwich.ID.Hex(),
			Sandwich: sandwich.Sandwich,
		}
		for _, ingredient := range sandwich.Ingredients {
			view.Ingredients = append(view.Ingredients, ingredient.Name)
		}
		views = append(views, view)
	}
	return views, nil
}

// IngredientNutrients translates a localized ingredient name to English and
// returns the matching foods with their nutrient measurements.
func (s *QueryService) IngredientNutrients(ctx context.Context, name string) ([]repository.FoodNutrients, error) {
	translated, err := s.translator.Translate(ctx, name, s.srcLang, s.dstLang)
	if err != nil {
		return nil, fmt.Errorf("translate ingredient name: %w", err)
	}
	logger.CtxInfo(ctx, "Ingredient %q translated to %q", name, translated)

	foods, err := s.foods.FindNutrientsByFoodName(ctx, strings.TrimSpace(translated))
	if err != nil {
		return nil, fmt.Errorf("find nutrients: %w", err)
	}
	if len(foods) == 0 {
		return nil, ErrNotFound
	}
	return foods, nil
}
