package domain

// Food is a relational food row, unique by case-insensitive name at the
// application level (lookup before insert).
type Food struct {
	FoodID uint   `gorm:"column:food_id;primaryKey;autoIncrement" json:"food_id"`
	Name   string `gorm:"size:255;not null" json:"name"`
}

// TableName returns the database table name for Food.
func (Food) TableName() string {
	return "food"
}

// Nutrient is a relational nutrient row, unique by exact name.
type Nutrient struct {
	NutrientID uint   `gorm:"column:nutrient_id;primaryKey;autoIncrement" json:"nutrient_id"`
	Name       string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Unit       string `gorm:"size:50;not null" json:"unit"`
}

// TableName returns the database table name for Nutrient.
func (Nutrient) TableName() string {
	return "nutrient"
}

// FoodNutrient is one nutrient measurement for one food. The composite
// primary key allows at most one row per (food, nutrient) pair; a food with
// any FoodNutrient rows is considered enriched and is never re-queried
// against the nutrition API.
type FoodNutrient struct {
	FoodID     uint    `gorm:"column:food_id;primaryKey" json:"food_id"`
	NutrientID uint    `gorm:"column:nutrient_id;primaryKey" json:"nutrient_id"`
	Value      float64 `gorm:"type:decimal(10,3)" json:"value"`

	Food     Food     `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE" json:"-"`
	Nutrient Nutrient `gorm:"foreignKey:NutrientID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the database table name for FoodNutrient.
func (FoodNutrient) TableName() string {
	return "food_nutrient"
}
