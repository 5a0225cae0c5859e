package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel values stored when a page field could not be extracted. They are
// kept in French so the persisted documents stay compatible with the data
// already collected by earlier runs.
const (
	SentinelTitle      = "Titre non trouvé"
	SentinelPrepTime   = "Temps de préparation non trouvé"
	SentinelRestTime   = "Temps de repos non trouvé"
	SentinelCookTime   = "Temps de cuisson non trouvé"
	SentinelName       = "Nom non trouvé"
	SentinelQuantity   = "Quantité non trouvée"
	SentinelUnit       = "Unité non trouvée"
	SentinelComplement = "Complément non trouvé"
	SentinelImage      = "Image non trouvée"
)

// Ingredient is one entry of a recipe's ingredient list. Name and Unit are
// stored normalized (lower-case, diacritics stripped) so they can serve as
// matching keys for the enrichment pipeline.
type Ingredient struct {
	Name       string `bson:"name" json:"name"`
	Quantity   string `bson:"quantity" json:"quantity"`
	Unit       string `bson:"unit" json:"unit"`
	Complement string `bson:"complement" json:"complement"`
}

// Recipe is a scraped recipe document. Titles act as a best-effort uniqueness
// key: inserts are guarded by a title lookup but no constraint is enforced,
// so duplicate titles across categories are tolerated.
type Recipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Title       string             `bson:"title" json:"title"`
	PrepTime    string             `bson:"prep_time" json:"prep_time"`
	RestTime    string             `bson:"repos" json:"rest_time"`
	CookTime    string             `bson:"cuisson" json:"cook_time"`
	Ingredients []Ingredient       `bson:"ingredients" json:"ingredients"`
	Steps       []string           `bson:"steps" json:"steps"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
}

// SandwichIngredient is an ingredient reference inside a sandwich document.
type SandwichIngredient struct {
	Name string `bson:"name" json:"name"`
}

// SandwichRecipe groups the ingredients of one sandwich, folded from the
// flat (sandwich, ingredient) relation collected from Wikidata. Re-runs merge
// ingredients by addition-only set union.
type SandwichRecipe struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Sandwich    string               `bson:"sandwich" json:"sandwich"`
	Ingredients []SandwichIngredient `bson:"ingredients" json:"ingredients"`
}
