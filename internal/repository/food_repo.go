package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/logger"
)

// FoodRepository idempotently inserts and finds foods, nutrients and their
// associations. Every write commits per statement, so an interrupted run
// leaves committed rows intact and a re-run completes the rest.
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a FoodRepository bound to db.
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// UpsertFood looks the food up case-insensitively and inserts it when
// absent, returning the row id either way. Enrichment status is not part of
// the answer; callers check IsEnriched separately.
func (r *FoodRepository) UpsertFood(ctx context.Context, name string) (uint, error) {
	var food domain.Food
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&food).Error
	if err == nil {
		return food.FoodID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	food = domain.Food{Name: name}
	if err := r.db.WithContext(ctx).Create(&food).Error; err != nil {
		return 0, err
	}
	return food.FoodID, nil
}

// IsEnriched reports whether the food already has nutrient measurements.
// An enriched food is never re-queried against the nutrition API; this is
// the enrichment pipeline's idempotence guarantee.
func (r *FoodRepository) IsEnriched(ctx context.Context, foodID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.FoodNutrient{}).
		Where("food_id = ?", foodID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertNutrient looks the nutrient up by exact name and inserts it when
// absent, returning the row id either way.
func (r *FoodRepository) UpsertNutrient(ctx context.Context, name, unit string) (uint, error) {
	var nutrient domain.Nutrient
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&nutrient).Error
	if err == nil {
		return nutrient.NutrientID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	nutrient = domain.Nutrient{Name: name, Unit: unit}
	if err := r.db.WithContext(ctx).Create(&nutrient).Error; err != nil {
		return 0, err
	}
	return nutrient.NutrientID, nil
}

// LinkFoodNutrient inserts one measurement row. The composite primary key
// prevents duplicates, so an existing pair makes the call a logged no-op.
func (r *FoodRepository) LinkFoodNutrient(ctx context.Context, foodID, nutrientID uint, value float64) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.FoodNutrient{}).
		Where("food_id = ? AND nutrient_id = ?", foodID, nutrientID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		logger.CtxInfo(ctx, "Measurement (%d, %d) already recorded, skipping", foodID, nutrientID)
		return nil
	}

	link := domain.FoodNutrient{FoodID: foodID, NutrientID: nutrientID, Value: value}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		// Lost race with an identical insert: the desired row exists.
		logger.CtxWarn(ctx, "Insert of measurement (%d, %d) rejected: %v", foodID, nutrientID, err)
		return nil
	}
	return nil
}

// FoodNutrients is the API projection of one food's measurements.
type FoodNutrients struct {
	FoodName  string            `json:"food_name"`
	Nutrients []NutrientReading `json:"nutrients"`
}

// NutrientReading is one measurement in an API response.
type NutrientReading struct {
	NutrientName string  `json:"nutrient_name"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
}

// FindNutrientsByFoodName joins food, food_nutrient and nutrient for every
// food whose name contains the query case-insensitively, grouped per food.
func (r *FoodRepository) FindNutrientsByFoodName(ctx context.Context, name string) ([]FoodNutrients, error) {
	var rows []struct {
		FoodName     string
		NutrientName string
		Value        float64
		Unit         string
	}
	err := r.db.WithContext(ctx).
		Table("food f").
		Select("f.name AS food_name, n.name AS nutrient_name, fn.value, n.unit").
		Joins("JOIN food_nutrient fn ON f.food_id = fn.food_id").
		Joins("JOIN nutrient n ON fn.nutrient_id = n.nutrient_id").
		Where("LOWER(f.name) LIKE LOWER(?)", "%"+name+"%").
		Order("f.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var result []FoodNutrients
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.FoodName]
		if !ok {
			i = len(result)
			index[row.FoodName] = i
			result = append(result, FoodNutrients{FoodName: row.FoodName})
		}
		result[i].Nutrients = append(result[i].Nutrients, NutrientReading{
			NutrientName: row.NutrientName,
			Value:        row.Value,
			Unit:         row.Unit,
		})
	}
	return result, nil
}
