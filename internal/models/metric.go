package models

import (
	"errors"
	"fmt"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Metric names one of the six per-geography columns selectable for coloring
// and ranking.
type Metric string

const (
	MetricCustomers           Metric = "customers"
	MetricRentals             Metric = "rentals"
	MetricPayments            Metric = "payments"
	MetricRentalsPerCustomer  Metric = "rentals_per_customer"
	MetricPaymentsPerCustomer Metric = "payments_per_customer"
	MetricPaymentPerRental    Metric = "payment_per_rental"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	MetricCustomers,
	MetricRentals,
	MetricPayments,
	MetricRentalsPerCustomer,
	MetricPaymentsPerCustomer,
	MetricPaymentPerRental,
}

var metricLabels = map[Metric]string{
	MetricCustomers:           "Customers",
	MetricRentals:             "Total rentals",
	MetricPayments:            "Total payments",
	MetricRentalsPerCustomer:  "Rentals per customer",
	MetricPaymentsPerCustomer: "Payments per customer",
	MetricPaymentPerRental:    "Payment per rental",
}

// Option labels used by the dashboard's metric selector.
var metricOptionLabels = map[Metric]string{
	MetricCustomers:           "Number of customers",
	MetricRentals:             "Number of rentals",
	MetricPayments:            "Total payments",
	MetricRentalsPerCustomer:  "Rentals per customer",
	MetricPaymentsPerCustomer: "Payments per customer",
	MetricPaymentPerRental:    "Payment per rental",
}

func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Metric) Validate() error {
	if _, ok := metricLabels[m]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
	}
	return nil
}

// Label is the chart title label, e.g. "Total payments".
func (m Metric) Label() string {
	return metricLabels[m]
}

// OptionLabel is the text shown next to the metric in the selector.
func (m Metric) OptionLabel() string {
	return metricOptionLabels[m]
}

// Of returns the metric's value for row. Missing ratios come back as NaN.
func (m Metric) Of(row AggregatedRow) (float64, error) {
	switch m {
	case MetricCustomers:
		return float64(row.Customers), nil
	case MetricRentals:
		return float64(row.Rentals), nil
	case MetricPayments:
		return row.Payments, nil
	case MetricRentalsPerCustomer:
		return float64(row.RentalsPerCustomer), nil
	case MetricPaymentsPerCustomer:
		return float64(row.PaymentsPerCustomer), nil
	case MetricPaymentPerRental:
		return float64(row.PaymentPerRental), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
	}
}
