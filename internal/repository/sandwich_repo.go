package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nmarzin/gourmand/internal/domain"
)

// SandwichRepository stores sandwich documents keyed by their label.
type SandwichRepository struct {
	col *mongo.Collection
}

// NewSandwichRepository creates a SandwichRepository on the
// recettes_sandwiches collection.
func NewSandwichRepository(client *mongo.Client, database string) *SandwichRepository {
	return &SandwichRepository{col: client.Database(database).Collection(sandwichCollection)}
}

// Upsert merges ingredientNames into the sandwich with this label using
// set-union semantics ($addToSet): no duplicates, ingredients are only ever
// added, order is not guaranteed. A missing document is inserted.
func (s *SandwichRepository) Upsert(ctx context.Context, label string, ingredientNames []string) error {
	ingredients := make([]domain.SandwichIngredient, 0, len(ingredientNames))
	for _, name := range ingredientNames {
		ingredients = append(ingredients, domain.SandwichIngredient{Name: name})
	}

	count, err := s.col.CountDocuments(ctx, bson.M{"sandwich": label})
	if err != nil {
		return err
	}
	if count == 0 {
		_, err := s.col.InsertOne(ctx, domain.SandwichRecipe{
			Sandwich:    label,
			Ingredients: ingredients,
		})
		return err
	}

	_, err = s.col.UpdateOne(ctx,
		bson.M{"sandwich": label},
		bson.M{"$addToSet": bson.M{"ingredients": bson.M{"$each": ingredients}}},
	)
	return err
}

// FindAll returns every sandwich document.
func (s *SandwichRepository) FindAll(ctx context.Context) ([]domain.SandwichRecipe, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sandwiches []domain.SandwichRecipe
	if err := cursor.All(ctx, &sandwiches); err != nil {
		return nil, err
	}
	return sandwiches, nil
}
