package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtrack/m/domain"
	"medtrack/m/internal/config"
	"medtrack/m/internal/database"
	"medtrack/m/internal/errs"
	"medtrack/m/internal/migrations"
)

func setupRepo(t *testing.T) (*Repository, *database.DB) {
	t.Helper()
	db, err := database.Connect(context.Background(), config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "repo.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return New(db), db
}

func addDrug(t *testing.T, repo *Repository, name string, qty int64, price, exp string) domain.Drug {
	t.Helper()
	drug, err := repo.AddDrug(context.Background(), domain.NewDrug{
		Name:     name,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		ExpDate:  domain.MustParseDate(exp),
	})
	require.NoError(t, err)
	return drug
}

func issue(t *testing.T, repo *Repository, patient string, drugID int64, date string) domain.Prescription {
	t.Helper()
	p, err := repo.Issue(context.Background(), domain.NewPrescription{
		PatientID: patient,
		DrugID:    drugID,
		Dosage:    "1 tablet",
		IssueDate: domain.MustParseDate(date),
	})
	require.NoError(t, err)
	return p
}

func TestInventoryRepository(t *testing.T) {
	t.Run("Should return an empty list when no drugs exist", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drugs, err := repo.ListDrugs(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, drugs)
		assert.Empty(t, drugs)
	})

	t.Run("Should list an added drug with a fresh id", func(t *testing.T) {
		repo, _ := setupRepo(t)
		first := addDrug(t, repo, "Amoxicillin", 30, "12.50", "2025-06-01")
		second := addDrug(t, repo, "Amoxicillin", 30, "12.50", "2025-06-01")
		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)

		drugs, err := repo.ListDrugs(context.Background())
		require.NoError(t, err)
		require.Len(t, drugs, 2)
		got := drugs[0]
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, "Amoxicillin", got.Name)
		assert.Equal(t, int64(30), got.Quantity)
		assert.True(t, decimal.RequireFromString("12.5").Equal(got.Price), "price %s", got.Price)
		assert.Equal(t, "2025-06-01", got.ExpDate.String())
	})

	t.Run("Should trim the drug name", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drug := addDrug(t, repo, "  Aspirin ", 1, "1", "2025-01-01")
		assert.Equal(t, "Aspirin", drug.Name)
	})

	t.Run("Should accept expired stock", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drug := addDrug(t, repo, "Old", 1, "1", "1999-01-01")
		got, err := repo.GetDrug(context.Background(), drug.ID)
		require.NoError(t, err)
		assert.Equal(t, "1999-01-01", got.ExpDate.String())
	})

	t.Run("Should reject invalid input without inserting", func(t *testing.T) {
		repo, _ := setupRepo(t)
		_, err := repo.AddDrug(context.Background(), domain.NewDrug{Name: " ", Quantity: 1, Price: decimal.NewFromInt(1)})
		require.Error(t, err)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))

		_, err = repo.AddDrug(context.Background(), domain.NewDrug{
			Name:     "Aspirin",
			Quantity: -5,
			Price:    decimal.NewFromInt(1),
			ExpDate:  domain.MustParseDate("2025-01-01"),
		})
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))

		drugs, err := repo.ListDrugs(context.Background())
		require.NoError(t, err)
		assert.Empty(t, drugs)
	})

	t.Run("Should report a missing drug as not found", func(t *testing.T) {
		repo, _ := setupRepo(t)
		_, err := repo.GetDrug(context.Background(), 9999)
		require.ErrorIs(t, err, ErrDrugNotFound)
	})

	t.Run("Should surface driver failures as storage errors", func(t *testing.T) {
		repo, db := setupRepo(t)
		require.NoError(t, db.Close())
		_, err := repo.ListDrugs(context.Background())
		require.Error(t, err)
		e := errs.As(err)
		assert.Equal(t, errs.KindStorage, e.Kind)
		assert.Equal(t, "Error fetching drugs", e.Message)
	})
}

func TestPrescriptionRepository(t *testing.T) {
	t.Run("Should reject an unknown drug without inserting", func(t *testing.T) {
		repo, _ := setupRepo(t)
		before, err := repo.ListPrescriptions(context.Background())
		require.NoError(t, err)

		_, err = repo.Issue(context.Background(), domain.NewPrescription{
			PatientID: "P1",
			DrugID:    9999,
			Dosage:    "1 tablet",
			IssueDate: domain.MustParseDate("2024-01-01"),
		})
		require.ErrorIs(t, err, ErrDrugNotFound)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
		assert.Equal(t, "Drug not found in inventory", errs.As(err).Message)

		after, err := repo.ListPrescriptions(context.Background())
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("Should report non-positive drug ids as not found", func(t *testing.T) {
		repo, _ := setupRepo(t)
		for _, id := range []int64{0, -1} {
			_, err := repo.Issue(context.Background(), domain.NewPrescription{
				PatientID: "P1",
				DrugID:    id,
				Dosage:    "1 tablet",
				IssueDate: domain.MustParseDate("2024-01-01"),
			})
			require.ErrorIs(t, err, ErrDrugNotFound, id)
		}
	})

	t.Run("Should map a foreign key failure after the lookup to drug not found", func(t *testing.T) {
		repo, db := setupRepo(t)
		drug := addDrug(t, repo, "Aspirin", 100, "5.99", "2024-12-31")

		// The drug row disappears after the lookup, inside the insert itself.
		_, err := db.ExecContext(context.Background(), `CREATE TRIGGER drop_drug_before_issue
			BEFORE INSERT ON prescriptions
			BEGIN
				DELETE FROM inventory WHERE id = NEW.drug_id;
			END;`)
		require.NoError(t, err)

		_, err = repo.Issue(context.Background(), domain.NewPrescription{
			PatientID: "P1",
			DrugID:    drug.ID,
			Dosage:    "1 tablet",
			IssueDate: domain.MustParseDate("2024-01-01"),
		})
		require.ErrorIs(t, err, ErrDrugNotFound)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

		stored, err := repo.GetDrug(context.Background(), drug.ID)
		require.NoError(t, err, "transaction should roll back the delete")
		assert.Equal(t, drug.ID, stored.ID)
		list, err := repo.ListPrescriptions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Should resolve the drug name at issue time", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drug := addDrug(t, repo, "Ibuprofen", 200, "7.50", "2025-01-01")

		p := issue(t, repo, " P1 ", drug.ID, "2024-01-01")
		assert.NotZero(t, p.ID)
		assert.Equal(t, "P1", p.PatientID)
		assert.Equal(t, "Ibuprofen", p.DrugName)
		assert.True(t, drug.Price.Equal(p.DrugPrice))

		stored, err := repo.GetPrescription(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, stored.ID)
		assert.Equal(t, "P1", stored.PatientID)
		assert.Equal(t, drug.ID, stored.DrugID)
		assert.Equal(t, "Ibuprofen", stored.DrugName)
		assert.True(t, drug.Price.Equal(stored.DrugPrice))
		assert.Equal(t, "1 tablet", stored.Dosage)
		assert.Equal(t, "2024-01-01", stored.IssueDate.String())
	})

	t.Run("Should not change inventory quantity", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drug := addDrug(t, repo, "Ibuprofen", 3, "7.50", "2025-01-01")
		issue(t, repo, "P1", drug.ID, "2024-01-01")

		got, err := repo.GetDrug(context.Background(), drug.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Quantity)
	})

	t.Run("Should list most recent issue date first", func(t *testing.T) {
		repo, _ := setupRepo(t)
		aspirin := addDrug(t, repo, "Aspirin", 100, "5.99", "2024-12-31")
		para := addDrug(t, repo, "Paracetamol", 50, "3.99", "2024-10-15")

		mid := issue(t, repo, "P2", para.ID, "2024-02-10")
		oldest := issue(t, repo, "P1", aspirin.ID, "2023-12-31")
		newest := issue(t, repo, "P3", aspirin.ID, "2024-11-01")
		sameDay := issue(t, repo, "P4", para.ID, "2024-02-10")

		list, err := repo.ListPrescriptions(context.Background())
		require.NoError(t, err)
		ids := make([]int64, 0, len(list))
		for _, p := range list {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int64{newest.ID, sameDay.ID, mid.ID, oldest.ID}, ids)
		assert.Equal(t, "Aspirin", list[0].DrugName)
		assert.Equal(t, "2024-11-01", list[0].IssueDate.String())
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i-1].IssueDate.Before(list[i].IssueDate))
		}
	})

	t.Run("Should require patient, dosage and date", func(t *testing.T) {
		repo, _ := setupRepo(t)
		drug := addDrug(t, repo, "Aspirin", 1, "1", "2025-01-01")
		_, err := repo.Issue(context.Background(), domain.NewPrescription{DrugID: drug.ID, Dosage: "  "})
		e := errs.As(err)
		require.Equal(t, errs.KindValidation, e.Kind)
		assert.Equal(t, "All fields are required", e.Message)
		assert.Len(t, e.Fields, 3)
	})

	t.Run("Should report a missing prescription", func(t *testing.T) {
		repo, _ := setupRepo(t)
		_, err := repo.GetPrescription(context.Background(), 42)
		require.ErrorIs(t, err, ErrPrescriptionNotFound)
	})
}

func TestStats(t *testing.T) {
	t.Run("Should count stock, expiry and prescriptions", func(t *testing.T) {
		repo, _ := setupRepo(t)
		expired := addDrug(t, repo, "Expired", 100, "1", "2024-01-01")
		low := addDrug(t, repo, "Low", 10, "1", "2026-01-01")
		addDrug(t, repo, "Plenty", 11, "1", "2026-01-01")
		issue(t, repo, "P1", expired.ID, "2023-06-01")
		issue(t, repo, "P2", low.ID, "2024-06-01")

		stats, err := repo.Stats(context.Background(), domain.MustParseDate("2024-06-01"), 10)
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{
			TotalDrugs:         3,
			LowStockItems:      1,
			ExpiredDrugs:       1,
			TotalPrescriptions: 2,
		}, stats)
	})
}
