package catalog

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64  `json:"categoryId"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64           `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"categoryId"`
	ImageURL    string          `json:"imageUrl"`

	// Populated by GetProductDetails only.
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}

type Ingredient struct {
	ID   int64  `json:"ingredientId"`
	Name string `json:"name"`

	// Populated by GetIngredient only.
	Products []ProductRef `json:"products,omitempty"`
}

// ProductRef is the slim product view used when listing what an ingredient
// goes into.
type ProductRef struct {
	ID   int64  `json:"productId"`
	Name string `json:"name"`
}
