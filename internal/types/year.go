// Package types implements special types for the care plan backend.
package types

import (
	"database/sql"
	"database/sql/driver"
	"strconv"
	"time"
)

// FiscalYear is the calendar year a budget or a transaction belongs to.
// Transactions are assigned to the UTC calendar year of their date.
type FiscalYear int

// CurrentFiscalYear returns the fiscal year for the current date.
func CurrentFiscalYear() FiscalYear {
	return FiscalYearOf(time.Now())
}

// FiscalYearOf returns the FiscalYear a time occurs in, evaluated in UTC.
func FiscalYearOf(t time.Time) FiscalYear {
	return FiscalYear(t.UTC().Year())
}

// String returns the year formatted as YYYY.
func (y FiscalYear) String() string {
	return strconv.Itoa(int(y))
}

// IsZero reports if the year is the zero value.
func (y FiscalYear) IsZero() bool {
	return y == 0
}

// IsPast reports whether the year lies before the current fiscal year.
// Budget years in the past are read-only.
func (y FiscalYear) IsPast() bool {
	return y < CurrentFiscalYear()
}

// Prev returns the fiscal year before y.
func (y FiscalYear) Prev() FiscalYear {
	return y - 1
}

// Contains reports whether the time instant is in the fiscal year.
func (y FiscalYear) Contains(t time.Time) bool {
	return FiscalYearOf(t) == y
}

// Scan reads the value from the database.
func (y *FiscalYear) Scan(value interface{}) error {
	nullInt := &sql.NullInt64{}
	err := nullInt.Scan(value)
	*y = FiscalYear(nullInt.Int64)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (y FiscalYear) Value() (driver.Value, error) {
	return int64(y), nil
}

// GormDataType defines the data type used by gorm for the type.
func (FiscalYear) GormDataType() string {
	return "integer"
}
