package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a snack product in the catalogue.
//
// Price is the current unit price; orders snapshot it at placement time, so
// later price edits never affect existing order lines.
type Product struct {
	ID            string          `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Flavor        string          `json:"flavor,omitempty" db:"flavor"`
	Description   string          `json:"description,omitempty" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Available     bool            `json:"available" db:"available"`
	StockQuantity *int            `json:"stockQuantity,omitempty" db:"stock_quantity"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}
