package handlers

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/services"
)

const testCSV = ",rental_id,customer_id,amount,rental_date,payment_date,country,district\n" +
	"0,1,1,10.00,2005-05-24 22:53:30,2005-05-25 11:30:37,United States,California\n" +
	"1,2,2,20.00,2005-05-25 10:00:00,2005-05-28 10:35:23,United States,California\n" +
	"2,3,3,4.99,2005-05-26 09:00:00,2005-06-15 00:54:12,Canada,Ontario\n" +
	"3,4,4,5.99,2005-06-02 08:30:00,2005-06-16 15:18:57,Yugoslavia,Kragujevac\n" +
	"4,5,5,2.99,2005-06-10 18:00:00,2005-06-18 08:41:48,Japan,Osaka\n" +
	"5,6,6,7.99,2005-07-01 00:00:00,2005-07-05 10:00:00,United States,Texas\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDefaults() Defaults {
	return Defaults{
		View:    geo.World,
		Metric:  models.MetricPayments,
		MinDate: time.Date(2005, 5, 24, 0, 0, 0, 0, time.UTC),
		MaxDate: time.Date(2006, 2, 14, 0, 0, 0, 0, time.UTC),
	}
}

func createTestAnalytics(t *testing.T) *services.Analytics {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rental_payment_data.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return services.NewAnalytics(services.NewLoader(path, testLogger()), testLogger())
}

func missingAnalytics(t *testing.T) *services.Analytics {
	t.Helper()
	path := filepath.Join(t.TempDir(), "missing.csv")
	return services.NewAnalytics(services.NewLoader(path, testLogger()), testLogger())
}
