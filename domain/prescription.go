package domain

import "github.com/shopspring/decimal"

// Prescription links a patient to an inventory drug, joined with the drug's
// name and price at read time.
type Prescription struct {
	ID        int64           `db:"prescription_id" json:"id"`
	PatientID string          `db:"patient_id" json:"patient_id"`
	DrugID    int64           `db:"drug_id" json:"drug_id"`
	DrugName  string          `db:"drug_name" json:"drug_name"`
	DrugPrice decimal.Decimal `db:"drug_price" json:"drug_price"`
	Dosage    string          `db:"dosage" json:"dosage"`
	IssueDate Date            `db:"issue_dt" json:"issue_date"`
}

type NewPrescription struct {
	PatientID string `json:"patientId" validate:"required"`
	DrugID    int64  `json:"drugId"`
	Dosage    string `json:"dosage" validate:"required"`
	IssueDate Date   `json:"issueDate" validate:"required"`
}
