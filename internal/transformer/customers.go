package transformer

import (
	"database/sql"

	"salesetl/internal/model"
	"salesetl/internal/quality"
	"salesetl/internal/records"
	"salesetl/internal/transformer/builtin"
)

// Customer source columns.
const (
	colCustomerID       = "customer_id"
	colFirstName        = "first_name"
	colLastName         = "last_name"
	colEmail            = "email"
	colPhone            = "phone"
	colCity             = "city"
	colRegistrationDate = "registration_date"
)

// TransformCustomers cleans the customers set. email is required; phone,
// city and registration_date are normalized when present. Rows whose
// customer_id cannot be normalized are dropped and counted as MissingIDs.
func TransformCustomers(set records.Set) ([]model.Customer, quality.CustomerMetrics, error) {
	var m quality.CustomerMetrics
	if err := requireColumns(set, RequiredColumns("customers")...); err != nil {
		return nil, m, err
	}

	rows := Chain{
		builtin.Normalize{},
		builtin.IDNormalize{Fields: []string{colCustomerID}},
	}.Apply(records.CloneAll(set.Rows))

	dedup := builtin.DeDup{Keys: []string{colCustomerID}}
	m.Original = len(rows)
	m.Duplicates = dedup.Duplicates(rows)
	m.MissingEmails = builtin.CountMissing(rows, colEmail)

	rows = dedup.Apply(rows)
	rows = builtin.Require{Fields: []string{colEmail}}.Apply(rows)
	before := len(rows)
	rows = builtin.Require{Fields: []string{colCustomerID}}.Apply(rows)
	m.MissingIDs = before - len(rows)

	out := make([]model.Customer, 0, len(rows))
	for _, r := range rows {
		email, _ := r.Text(colEmail)
		c := model.Customer{
			CustomerID: r[colCustomerID].(int64),
			FirstName:  nullText(r, colFirstName),
			LastName:   nullText(r, colLastName),
			Email:      email,
		}
		if s, ok := r.Text(colPhone); ok {
			c.Phone = sql.NullString{String: builtin.NormalizePhone(s), Valid: true}
		}
		if s, ok := r.Text(colCity); ok {
			c.City = sql.NullString{String: builtin.TitleCase(s), Valid: true}
		}
		if s, ok := r.Text(colRegistrationDate); ok {
			if d, ok := builtin.ParseDate(s); ok {
				c.RegistrationDate = sql.NullString{String: d, Valid: true}
			}
		}
		out = append(out, c)
	}
	m.Final = len(out)
	return out, m, nil
}

func nullText(r records.Record, col string) sql.NullString {
	s, ok := r.Text(col)
	return sql.NullString{String: s, Valid: ok}
}
