package structs

import "github.com/shopspring/decimal"

// Restaurant is the read-only snapshot a command keeps of where it was placed.
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MenuItem is owned by the catalog. Commands copy it by value when an item is added,
// which freezes the price for that line.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ShortName   string          `json:"short_name,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	ImageURL    string          `json:"image_url,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Nutrition   *NutritionFacts `json:"nutrition,omitempty"`
	Allergens   []string        `json:"allergens,omitempty"`
}

type NutritionFacts struct {
	Calories     int `json:"calories"`
	ProteinGrams int `json:"protein_g"`
	CarbsGrams   int `json:"carbs_g"`
	FatGrams     int `json:"fat_g"`
}

// Catalog is the whole reference data set served by the menu source.
type Catalog struct {
	Restaurants []Restaurant `json:"restaurants"`
	Categories  []Category   `json:"categories"`
	Items       []MenuItem   `json:"items"`
}

// DisplayShortName is the name sent to the kitchen-facing dining API.
func (m MenuItem) DisplayShortName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Name
}
