// Package repository is the data-access layer for drugs and prescriptions.
// One implementation serves every configured engine; queries are shaped with
// squirrel using the engine's placeholder format.
package repository

import (
	"context"

	"medtrack/m/domain"
	"medtrack/m/internal/database"
	"medtrack/m/internal/errs"
)

var (
	ErrDrugNotFound         = errs.NotFound("Drug not found in inventory")
	ErrPrescriptionNotFound = errs.NotFound("Prescription not found")
)

// Inventory reads and appends drug rows.
type Inventory interface {
	ListDrugs(ctx context.Context) ([]domain.Drug, error)
	AddDrug(ctx context.Context, in domain.NewDrug) (domain.Drug, error)
	GetDrug(ctx context.Context, id int64) (domain.Drug, error)
	Stats(ctx context.Context, today domain.Date, lowStockThreshold int64) (domain.Stats, error)
}

// Prescriptions reads and appends prescription rows.
type Prescriptions interface {
	Issue(ctx context.Context, in domain.NewPrescription) (domain.Prescription, error)
	ListPrescriptions(ctx context.Context) ([]domain.Prescription, error)
	GetPrescription(ctx context.Context, id int64) (domain.Prescription, error)
}

// Repository bundles both repositories over one pool.
type Repository struct {
	*InventoryRepository
	*PrescriptionRepository
}

func New(db *database.DB) *Repository {
	return &Repository{
		InventoryRepository:    NewInventoryRepository(db),
		PrescriptionRepository: NewPrescriptionRepository(db),
	}
}
