package models

import (
	"math"
	"strconv"
	"time"
)

// RentalPaymentRecord is one row of the rental/payment dataset. Dates carry no
// time-of-day and are in UTC.
type RentalPaymentRecord struct {
	RentalID    int64
	CustomerID  int64
	Amount      float64
	RentalDate  time.Time
	PaymentDate time.Time
	Country     string
	District    string
}

// AggregatedRow holds the metrics for a single geography key.
type AggregatedRow struct {
	GeoKey              string  `json:"geo_key"`
	Customers           int     `json:"customers"`
	Payments            float64 `json:"payments"`
	Rentals             int     `json:"rentals"`
	RentalsPerCustomer  Value   `json:"rentals_per_customer"`
	PaymentsPerCustomer Value   `json:"payments_per_customer"`
	PaymentPerRental    Value   `json:"payment_per_rental"`
}

// Value is a float64 where NaN marks a missing value. It encodes as JSON null.
type Value float64

// Missing is the Value used for undefined ratios.
var Missing = Value(math.NaN())

// Ratio returns num/den, or Missing when den is zero.
func Ratio(num, den float64) Value {
	if den == 0 {
		return Missing
	}
	return Value(num / den)
}

func (v Value) IsMissing() bool {
	return math.IsNaN(float64(v))
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsMissing() || math.IsInf(float64(v), 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(v), 'f', -1, 64), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Missing
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on or between the range's dates.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

// Day truncates t to its calendar date in UTC, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
