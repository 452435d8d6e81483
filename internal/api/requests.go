package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"medtrack/m/domain"
	"medtrack/m/internal/errs"
)

var errNotWholeNumber = errors.New("must be a whole number")

// formValue accepts a JSON string or number. Browser forms post numeric
// inputs as strings, API clients send numbers.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*v = formValue(n.String())
	return nil
}

func (v formValue) String() string {
	return string(v)
}

// Int64 coerces the value to an integer. Floats are accepted when whole.
func (v formValue) Int64() (int64, error) {
	if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotWholeNumber
	}
	return int64(f), nil
}

func (v formValue) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(v))
}

type addDrugRequest struct {
	DrugName       string    `json:"drugName" validate:"required"`
	Quantity       formValue `json:"quantity" validate:"required"`
	Price          formValue `json:"price" validate:"required"`
	ExpirationDate string    `json:"expirationDate" validate:"required,datetime=2006-01-02"`
}

func (req addDrugRequest) Validate() error {
	_, err := req.toDomain()
	return err
}

func (req addDrugRequest) toDomain() (domain.NewDrug, error) {
	var fields []errs.FieldError
	qty, err := req.Quantity.Int64()
	if err != nil {
		fields = append(fields, errs.FieldError{Field: "quantity", Error: "must be a whole number"})
	}
	price, err := req.Price.Decimal()
	if err != nil {
		fields = append(fields, errs.FieldError{Field: "price", Error: "must be a number"})
	}
	exp, err := domain.ParseDate(req.ExpirationDate)
	if err != nil {
		fields = append(fields, errs.FieldError{Field: "expirationDate", Error: "must be a date in YYYY-MM-DD format"})
	}
	if len(fields) > 0 {
		return domain.NewDrug{}, errs.Validation("", fields...)
	}
	return domain.NewDrug{
		Name:     strings.TrimSpace(req.DrugName),
		Quantity: qty,
		Price:    price,
		ExpDate:  exp,
	}, nil
}

type issuePrescriptionRequest struct {
	PatientID formValue `json:"patientId" validate:"required"`
	DrugID    formValue `json:"drugId" validate:"required"`
	Dosage    string    `json:"dosage" validate:"required"`
	IssueDate string    `json:"issueDate" validate:"required,datetime=2006-01-02"`
}

func (req issuePrescriptionRequest) Validate() error {
	_, err := req.toDomain()
	return err
}

func (req issuePrescriptionRequest) toDomain() (domain.NewPrescription, error) {
	var fields []errs.FieldError
	drugID, err := req.DrugID.Int64()
	if err != nil {
		fields = append(fields, errs.FieldError{Field: "drugId", Error: "must be a whole number"})
	}
	issued, err := domain.ParseDate(req.IssueDate)
	if err != nil {
		fields = append(fields, errs.FieldError{Field: "issueDate", Error: "must be a date in YYYY-MM-DD format"})
	}
	if len(fields) > 0 {
		return domain.NewPrescription{}, errs.Validation("", fields...)
	}
	return domain.NewPrescription{
		PatientID: req.PatientID.String(),
		DrugID:    drugID,
		Dosage:    strings.TrimSpace(req.Dosage),
		IssueDate: issued,
	}, nil
}
