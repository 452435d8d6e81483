package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"medtrack/m/domain"
	"medtrack/m/internal/errs"
)

type counter struct {
	dst   *int64
	from  string
	where sq.Sqlizer
}

// Stats counts drugs, low stock drugs (quantity <= lowStockThreshold), drugs
// that expired before today, and prescriptions.
func (r *InventoryRepository) Stats(ctx context.Context, today domain.Date, lowStockThreshold int64) (domain.Stats, error) {
	var stats domain.Stats
	counters := []counter{
		{dst: &stats.TotalDrugs, from: "inventory"},
		{dst: &stats.LowStockItems, from: "inventory", where: sq.LtOrEq{"quantity": lowStockThreshold}},
		{dst: &stats.ExpiredDrugs, from: "inventory", where: sq.Lt{"exp_date": today}},
		{dst: &stats.TotalPrescriptions, from: "prescriptions"},
	}

	for _, c := range counters {
		sel := r.db.Builder().Select("COUNT(*)").From(c.from)
		if c.where != nil {
			sel = sel.Where(c.where)
		}
		query, args, err := sel.ToSql()
		if err != nil {
			return domain.Stats{}, errs.Storage("Error fetching stats", err)
		}
		if err := r.db.GetContext(ctx, c.dst, query, args...); err != nil {
			return domain.Stats{}, errs.Storage("Error fetching stats", err)
		}
	}
	return stats, nil
}
