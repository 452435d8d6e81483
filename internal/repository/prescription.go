package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"medtrack/m/domain"
	"medtrack/m/internal/database"
	"medtrack/m/internal/errs"
	"medtrack/m/internal/validation"
)

type PrescriptionRepository struct {
	db *database.DB
}

func NewPrescriptionRepository(db *database.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func (r *PrescriptionRepository) selectJoined() sq.SelectBuilder {
	return r.db.Builder().
		Select(
			"p.prescription_id",
			"p.patient_id",
			"p.drug_id",
			"i.name AS drug_name",
			"i.price AS drug_price",
			"p.dosage",
			"p.issue_dt",
		).
		From("prescriptions p").
		Join("inventory i ON i.id = p.drug_id")
}

// Issue records a prescription for an existing drug.
//
// The drug lookup and the insert are separate statements in one transaction.
// A drug removed between them (outside this service) is caught by the
// foreign key on prescriptions.drug_id and reported as ErrDrugNotFound.
func (r *PrescriptionRepository) Issue(ctx context.Context, in domain.NewPrescription) (domain.Prescription, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.Dosage = strings.TrimSpace(in.Dosage)
	if err := validation.Struct(in); err != nil {
		return domain.Prescription{}, err
	}

	insert, args, err := r.db.Builder().
		Insert("prescriptions").
		Columns("patient_id", "drug_id", "dosage", "issue_dt").
		Values(in.PatientID, in.DrugID, in.Dosage, in.IssueDate).
		Suffix("RETURNING prescription_id").
		ToSql()
	if err != nil {
		return domain.Prescription{}, errs.Storage("Error issuing prescription", err)
	}

	p := domain.Prescription{
		PatientID: in.PatientID,
		DrugID:    in.DrugID,
		Dosage:    in.Dosage,
		IssueDate: in.IssueDate,
	}
	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		drug, err := getDrug(ctx, tx, r.db.Dialect, in.DrugID)
		if err != nil {
			return err
		}
		p.DrugName = drug.Name
		p.DrugPrice = drug.Price
		return tx.QueryRowxContext(ctx, insert, args...).Scan(&p.ID)
	})
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrDrugNotFound) || database.IsForeignKeyViolation(err) {
		return domain.Prescription{}, ErrDrugNotFound
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return domain.Prescription{}, e
	}
	return domain.Prescription{}, errs.Storage("Error issuing prescription", err)
}

// ListPrescriptions returns every prescription, most recent issue date first.
func (r *PrescriptionRepository) ListPrescriptions(ctx context.Context) ([]domain.Prescription, error) {
	query, args, err := r.selectJoined().OrderBy("p.issue_dt DESC", "p.prescription_id DESC").ToSql()
	if err != nil {
		return nil, errs.Storage("Error fetching prescriptions", err)
	}
	out := []domain.Prescription{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errs.Storage("Error fetching prescriptions", err)
	}
	return out, nil
}

// GetPrescription returns ErrPrescriptionNotFound when no row has the id.
func (r *PrescriptionRepository) GetPrescription(ctx context.Context, id int64) (domain.Prescription, error) {
	query, args, err := r.selectJoined().Where(sq.Eq{"p.prescription_id": id}).ToSql()
	if err != nil {
		return domain.Prescription{}, errs.Storage("Error fetching prescription", err)
	}
	var p domain.Prescription
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Prescription{}, ErrPrescriptionNotFound
		}
		return domain.Prescription{}, errs.Storage("Error fetching prescription", err)
	}
	return p, nil
}
