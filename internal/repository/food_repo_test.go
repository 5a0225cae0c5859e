package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmarzin/gourmand/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Food{}, &domain.Nutrient{}, &domain.FoodNutrient{}))
	return db
}

func TestUpsertFoodCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	id1, err := repo.UpsertFood(ctx, "Apple")
	require.NoError(t, err)
	id2, err := repo.UpsertFood(ctx, "apple")
	require.NoError(t, err)
	require.Equal(t, id1, id2, "case variants must resolve to one row")

	var count int64
	require.NoError(t, repo.db.Model(&domain.Food{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpsertNutrientExactName(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	id1, err := repo.UpsertNutrient(ctx, "Protein", "g")
	require.NoError(t, err)
	id2, err := repo.UpsertNutrient(ctx, "Protein", "g")
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	// Exact-name lookup: different case is a different nutrient.
	id3, err := repo.UpsertNutrient(ctx, "protein", "g")
	require.NoError(t, err)
	require.NotEqual(t, id1, id3)
}

func TestLinkFoodNutrientDuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	foodID, err := repo.UpsertFood(ctx, "apple")
	require.NoError(t, err)
	nutrientID, err := repo.UpsertNutrient(ctx, "Calories", "kcal")
	require.NoError(t, err)

	require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, nutrientID, 95))
	require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, nutrientID, 95))

	var count int64
	require.NoError(t, repo.db.Model(&domain.FoodNutrient{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "duplicate link must not create a second row")
}

func TestEnrichmentLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	foodID, err := repo.UpsertFood(ctx, "apple")
	require.NoError(t, err)

	enriched, err := repo.IsEnriched(ctx, foodID)
	require.NoError(t, err)
	require.False(t, enriched, "a bare food is not enriched")

	nutrientID, err := repo.UpsertNutrient(ctx, "Sodium", "g")
	require.NoError(t, err)
	require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, nutrientID, 0.5))

	enriched, err = repo.IsEnriched(ctx, foodID)
	require.NoError(t, err)
	require.True(t, enriched, "a food with measurements is enriched")
}

func TestEnrichmentIdempotence(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	store := func() {
		foodID, err := repo.UpsertFood(ctx, "apple")
		require.NoError(t, err)
		for _, n := range []struct {
			name  string
			unit  string
			value float64
		}{
			{"Calories", "kcal", 95},
			{"Protein", "g", 0.47},
			{"Sodium", "g", 0.5},
		} {
			nutrientID, err := repo.UpsertNutrient(ctx, n.name, n.unit)
			require.NoError(t, err)
			require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, nutrientID, n.value))
		}
	}

	store()
	store() // second run must not add rows

	var foods, nutrients, links int64
	require.NoError(t, repo.db.Model(&domain.Food{}).Count(&foods).Error)
	require.NoError(t, repo.db.Model(&domain.Nutrient{}).Count(&nutrients).Error)
	require.NoError(t, repo.db.Model(&domain.FoodNutrient{}).Count(&links).Error)
	require.EqualValues(t, 1, foods)
	require.EqualValues(t, 3, nutrients)
	require.EqualValues(t, 3, links)
}

func TestFindNutrientsByFoodName(t *testing.T) {
	ctx := context.Background()
	repo := NewFoodRepository(newTestDB(t))

	foodID, err := repo.UpsertFood(ctx, "Green Apple")
	require.NoError(t, err)
	calID, err := repo.UpsertNutrient(ctx, "Calories", "kcal")
	require.NoError(t, err)
	proID, err := repo.UpsertNutrient(ctx, "Protein", "g")
	require.NoError(t, err)
	require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, calID, 52))
	require.NoError(t, repo.LinkFoodNutrient(ctx, foodID, proID, 0.3))

	// Case-insensitive substring match.
	result, err := repo.FindNutrientsByFoodName(ctx, "apple")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "Green Apple", result[0].FoodName)
	require.Len(t, result[0].Nutrients, 2)

	result, err = repo.FindNutrientsByFoodName(ctx, "banana")
	require.NoError(t, err)
	require.Empty(t, result)
}
