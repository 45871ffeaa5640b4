package services

import (
	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
)

type group struct {
	customers map[int64]struct{}
	payments  float64
	rentals   int
}

// Aggregate groups keyed records by geography key. Rows come back in the
// order their key was first seen.
func Aggregate(keyed []geo.Keyed) []models.AggregatedRow {
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, k := range keyed {
		g, ok := groups[k.Key]
		if !ok {
			g = &group{customers: make(map[int64]struct{})}
			groups[k.Key] = g
			order = append(order, k.Key)
		}
		g.customers[k.Record.CustomerID] = struct{}{}
		g.payments += k.Record.Amount
		g.rentals++
	}

	rows := make([]models.AggregatedRow, 0, len(order))
	for _, key := range order {
		g := groups[key]
		customers := float64(len(g.customers))
		rentals := float64(g.rentals)

		rows = append(rows, models.AggregatedRow{
			GeoKey:              key,
			Customers:           len(g.customers),
			Payments:            g.payments,
			Rentals:             g.rentals,
			RentalsPerCustomer:  models.Ratio(rentals, customers),
			PaymentsPerCustomer: models.Ratio(g.payments, customers),
			PaymentPerRental:    models.Ratio(g.payments, rentals),
		})
	}
	return rows
}
