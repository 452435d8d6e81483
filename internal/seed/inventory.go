package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"medtrack/m/domain"
	"medtrack/m/internal/database"
)

// insertDrug is written with ? placeholders; Rebind converts them for postgres.
const insertDrug = `INSERT INTO inventory (name, quantity, price, exp_date) VALUES (?, ?, ?, ?)`

// DefaultDrugs makes a fresh install usable without manual setup.
var DefaultDrugs = []domain.NewDrug{
	{Name: "Aspirin", Quantity: 100, Price: decimal.RequireFromString("5.99"), ExpDate: domain.MustParseDate("2024-12-31")},
	{Name: "Paracetamol", Quantity: 50, Price: decimal.RequireFromString("3.99"), ExpDate: domain.MustParseDate("2024-10-15")},
	{Name: "Ibuprofen", Quantity: 200, Price: decimal.RequireFromString("7.50"), ExpDate: domain.MustParseDate("2025-01-01")},
}

// Inventory inserts seed rows when the inventory table is empty and returns
// how many rows it wrote. Rows come from catalogPath when set, otherwise
// from DefaultDrugs. A table holding any row, seeded or not, is left alone.
func Inventory(ctx context.Context, db *database.DB, catalogPath string) (int, error) {
	log := zerolog.Ctx(ctx)

	drugs := DefaultDrugs
	if catalogPath != "" {
		loaded, err := LoadCatalog(ctx, catalogPath)
		if err != nil {
			return 0, err
		}
		drugs = loaded
	}

	countQuery, _, err := db.Builder().Select("COUNT(*)").From("inventory").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build inventory count: %w", err)
	}

	rows := 0
	err = db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, countQuery); err != nil {
			return fmt.Errorf("count inventory: %w", err)
		}
		if existing > 0 {
			log.Debug().Int("rows", existing).Msg("inventory already populated, skipping seed")
			return nil
		}

		stmt, err := tx.PreparexContext(ctx, tx.Rebind(insertDrug))
		if err != nil {
			return fmt.Errorf("prepare inventory insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range drugs {
			if _, err := stmt.ExecContext(ctx, d.Name, d.Quantity, d.Price, d.ExpDate); err != nil {
				return fmt.Errorf("insert seed drug %s: %w", d.Name, err)
			}
			rows++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		log.Info().Int("rows", rows).Msg("seeded inventory")
	}
	return rows, nil
}

// LoadCatalog reads drugs from a CSV file with the header
// name,quantity,price,exp_date. Malformed rows are skipped.
func LoadCatalog(ctx context.Context, path string) ([]domain.NewDrug, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open drug catalog %s: %w", path, err)
	}
	defer file.Close()
	return readCatalog(ctx, file)
}

func readCatalog(ctx context.Context, r io.Reader) ([]domain.NewDrug, error) {
	log := zerolog.Ctx(ctx)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read drug catalog header: %w", err)
	}

	var drugs []domain.NewDrug
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("unable to read catalog row")
			continue
		}
		drug, err := parseRecord(record)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping catalog row")
			continue
		}
		drugs = append(drugs, drug)
	}
	return drugs, nil
}

func parseRecord(record []string) (domain.NewDrug, error) {
	if len(record) < 4 {
		return domain.NewDrug{}, fmt.Errorf("expected 4 columns, got %d", len(record))
	}
	name := strings.TrimSpace(record[0])
	if name == "" {
		return domain.NewDrug{}, errors.New("name is empty")
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil || qty < 0 {
		return domain.NewDrug{}, fmt.Errorf("invalid quantity %q", record[1])
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil || price.IsNegative() {
		return domain.NewDrug{}, fmt.Errorf("invalid price %q", record[2])
	}
	exp, err := domain.ParseDate(record[3])
	if err != nil {
		return domain.NewDrug{}, err
	}
	return domain.NewDrug{Name: name, Quantity: qty, Price: price, ExpDate: exp}, nil
}
