package entities

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	StockQuantity int
	ImageURL      string
}

// Prices are stored as NUMERIC(12, 2).
const PriceScale = 2

// PriceLimit is the first value that no longer fits the price column.
var PriceLimit = decimal.New(1, 10)

// PriceFits reports whether p can be stored without rounding or overflow.
func PriceFits(p decimal.Decimal) bool {
	return p.Equal(p.Truncate(PriceScale)) && p.LessThan(PriceLimit)
}

// ProductDraft is a product before the store assigned an ID.
// Price and StockQuantity are pointers so that an absent value differs from zero.
type ProductDraft struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description" validate:"required,max=2000"`
	Price         *decimal.Decimal `json:"price" validate:"required,gt=0,lt=10000000000,scale=2"`
	Category      string           `json:"category" validate:"required,max=100"`
	StockQuantity *int             `json:"stockQuantity" validate:"required,gte=0"`
	ImageURL      string           `json:"imageUrl" validate:"omitempty,max=2048"`
}

func (d ProductDraft) ToProduct(id int64) Product {
	p := Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.StockQuantity != nil {
		p.StockQuantity = *d.StockQuantity
	}
	return p
}

// ProductFilter has AND semantics, nil fields are ignored.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
