package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Drug is a stocked medication item in the inventory table.
type Drug struct {
	ID       int64           `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Quantity int64           `db:"quantity" json:"quantity"`
	Price    decimal.Decimal `db:"price" json:"price"`
	ExpDate  Date            `db:"exp_date" json:"exp_date"`
}

// NewDrug is the input for adding a drug; the id is assigned by the database.
type NewDrug struct {
	Name     string          `json:"drugName" validate:"required"`
	Quantity int64           `json:"quantity" validate:"min=0"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
	ExpDate  Date            `json:"expirationDate" validate:"required"`
}

// Stats summarises the inventory and prescription tables.
type Stats struct {
	TotalDrugs         int64 `db:"total_drugs" json:"totalDrugs"`
	LowStockItems      int64 `db:"low_stock_items" json:"lowStockItems"`
	ExpiredDrugs       int64 `db:"expired_drugs" json:"expiredDrugs"`
	TotalPrescriptions int64 `db:"total_prescriptions" json:"totalPrescriptions"`
}
