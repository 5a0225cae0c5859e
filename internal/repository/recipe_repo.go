package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nmarzin/gourmand/internal/domain"
)

// ErrInvalidID marks a recipe identifier that is not a valid ObjectID.
var ErrInvalidID = errors.New("invalid recipe id")

// RecipeRepository stores scraped recipe documents.
type RecipeRepository struct {
	col *mongo.Collection
}

// NewRecipeRepository creates a RecipeRepository on the recettes collection.
func NewRecipeRepository(client *mongo.Client, database string) *RecipeRepository {
	return &RecipeRepository{col: client.Database(database).Collection(recipeCollection)}
}

// ExistsByTitle reports whether a recipe with exactly this title is already
// stored. This is the weak dedup guard used before insertion; duplicate
// titles remain possible and tolerated.
func (r *RecipeRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"title": title}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Insert stores a new recipe document.
func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) error {
	_, err := r.col.InsertOne(ctx, recipe)
	return err
}

// FindByCategory returns every recipe whose category matches the given
// regular expression pattern, case-insensitively. Callers pass a normalized
// pattern so "vegetarien" matches "Végétarien".
func (r *RecipeRepository) FindByCategory(ctx context.Context, pattern string) ([]domain.Recipe, error) {
	cursor, err := r.col.Find(ctx, bson.M{
		"category": bson.M{"$regex": pattern, "$options": "i"},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []domain.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByID returns one recipe by its hex ObjectID.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*domain.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var recipe domain.Recipe
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DistinctIngredientNames returns every distinct ingredient name across all
// stored recipes. These names feed the enrichment pipeline.
func (r *RecipeRepository) DistinctIngredientNames(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "ingredients.name", bson.M{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" && s != domain.SentinelName {
			names = append(names, s)
		}
	}
	return names, nil
}
