package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"medtrack/m/domain"
	"medtrack/m/internal/database"
	"medtrack/m/internal/errs"
	"medtrack/m/internal/validation"
)

var drugColumns = []string{"id", "name", "quantity", "price", "exp_date"}

type InventoryRepository struct {
	db *database.DB
}

func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListDrugs returns every inventory row in insertion order.
func (r *InventoryRepository) ListDrugs(ctx context.Context) ([]domain.Drug, error) {
	query, args, err := r.db.Builder().Select(drugColumns...).From("inventory").OrderBy("id").ToSql()
	if err != nil {
		return nil, errs.Storage("Error fetching drugs", err)
	}
	drugs := []domain.Drug{}
	if err := r.db.SelectContext(ctx, &drugs, query, args...); err != nil {
		return nil, errs.Storage("Error fetching drugs", err)
	}
	return drugs, nil
}

// AddDrug validates in and appends it to the inventory.
func (r *InventoryRepository) AddDrug(ctx context.Context, in domain.NewDrug) (domain.Drug, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return domain.Drug{}, err
	}

	query, args, err := r.db.Builder().
		Insert("inventory").
		Columns("name", "quantity", "price", "exp_date").
		Values(in.Name, in.Quantity, in.Price, in.ExpDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Drug{}, errs.Storage("Error adding drug to inventory", err)
	}

	drug := domain.Drug{Name: in.Name, Quantity: in.Quantity, Price: in.Price, ExpDate: in.ExpDate}
	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, args...).Scan(&drug.ID)
	})
	if err != nil {
		if database.IsCheckViolation(err) {
			return domain.Drug{}, errs.Validation("Quantity and price cannot be negative")
		}
		return domain.Drug{}, errs.Storage("Error adding drug to inventory", err)
	}
	return drug, nil
}

// GetDrug returns ErrDrugNotFound when no row has the id.
func (r *InventoryRepository) GetDrug(ctx context.Context, id int64) (domain.Drug, error) {
	return getDrug(ctx, r.db, r.db.Dialect, id)
}

func getDrug(ctx context.Context, q sqlx.QueryerContext, d database.Dialect, id int64) (domain.Drug, error) {
	query, args, err := d.Builder().Select(drugColumns...).From("inventory").Where("id = ?", id).ToSql()
	if err != nil {
		return domain.Drug{}, errs.Storage("Error checking drug", err)
	}
	var drug domain.Drug
	if err := sqlx.GetContext(ctx, q, &drug, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Drug{}, ErrDrugNotFound
		}
		return domain.Drug{}, errs.Storage("Error checking drug", err)
	}
	return drug, nil
}
