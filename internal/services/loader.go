package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"sakila-dashboard/internal/models"
)

var (
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrMalformedRecord    = errors.New("malformed record")
)

var requiredColumns = []string{
	"rental_id",
	"customer_id",
	"amount",
	"rental_date",
	"payment_date",
	"country",
	"district",
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// Loader reads the rental/payment CSV. The file is read on every call.
type Loader struct {
	path   string
	logger *slog.Logger
}

func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

func (l *Loader) Path() string {
	return l.path
}

// Load returns the records whose rental date lies within r, both ends
// inclusive. A range with Start after End yields no records.
func (l *Loader) Load(ctx context.Context, r models.DateRange) ([]models.RentalPaymentRecord, error) {
	all, err := l.readAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.RentalPaymentRecord, 0, len(all))
	for _, rec := range all {
		if r.Contains(rec.RentalDate) {
			out = append(out, rec)
		}
	}

	l.logger.DebugContext(ctx, "records loaded",
		"path", l.path,
		"range", r.String(),
		"total", len(all),
		"kept", len(out),
	)
	return out, nil
}

// DatasetSpan describes the whole file.
type DatasetSpan struct {
	Records   int       `json:"records"`
	FirstDate time.Time `json:"first_rental_date"`
	LastDate  time.Time `json:"last_rental_date"`
}

// Span reads the file and reports its size and rental date span.
func (l *Loader) Span(ctx context.Context) (DatasetSpan, error) {
	all, err := l.readAll(ctx)
	if err != nil {
		return DatasetSpan{}, err
	}

	span := DatasetSpan{Records: len(all)}
	for i, rec := range all {
		if i == 0 || rec.RentalDate.Before(span.FirstDate) {
			span.FirstDate = rec.RentalDate
		}
		if i == 0 || rec.RentalDate.After(span.LastDate) {
			span.LastDate = rec.RentalDate
		}
	}
	return span, nil
}

func (l *Loader) readAll(ctx context.Context) ([]models.RentalPaymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	// NaNValues is emptied so cells such as "NA" reach the parsers verbatim.
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		// gota refuses a frame without rows; a bare header is an empty dataset.
		if header, ok := headerOnly(data); ok {
			if err := checkColumns(header); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrDatasetUnavailable, l.path, df.Err)
	}

	if err := checkColumns(df.Names()); err != nil {
		return nil, err
	}

	return recordsFromFrame(df)
}

// headerOnly reports whether data holds a single CSV record and returns it.
func headerOnly(data []byte) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, false
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return header, true
}

func checkColumns(names []string) error {
	for _, col := range requiredColumns {
		if !slices.Contains(names, col) {
			return fmt.Errorf("%w: missing column %q", ErrDatasetUnavailable, col)
		}
	}
	return nil
}

func recordsFromFrame(df dataframe.DataFrame) ([]models.RentalPaymentRecord, error) {
	rentalIDs := df.Col("rental_id").Records()
	customerIDs := df.Col("customer_id").Records()
	amounts := df.Col("amount").Records()
	rentalDates := df.Col("rental_date").Records()
	paymentDates := df.Col("payment_date").Records()
	countries := df.Col("country").Records()
	districts := df.Col("district").Records()

	records := make([]models.RentalPaymentRecord, df.Nrow())
	for i := range records {
		// Row numbers are 1-based and count the header line.
		row := i + 2

		rentalID, err := strconv.ParseInt(strings.TrimSpace(rentalIDs[i]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: rental_id: %w", ErrMalformedRecord, row, err)
		}
		customerID, err := strconv.ParseInt(strings.TrimSpace(customerIDs[i]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: customer_id: %w", ErrMalformedRecord, row, err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(amounts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: amount: %w", ErrMalformedRecord, row, err)
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("%w: row %d: amount: not a finite number %q", ErrMalformedRecord, row, amounts[i])
		}
		rentalDate, err := parseDate(rentalDates[i])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: rental_date: %w", ErrMalformedRecord, row, err)
		}
		paymentDate, err := parseDate(paymentDates[i])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: payment_date: %w", ErrMalformedRecord, row, err)
		}

		records[i] = models.RentalPaymentRecord{
			RentalID:    rentalID,
			CustomerID:  customerID,
			Amount:      amount,
			RentalDate:  rentalDate,
			PaymentDate: paymentDate,
			Country:     strings.TrimSpace(countries[i]),
			District:    strings.TrimSpace(districts[i]),
		}
	}
	return records, nil
}

// parseDate accepts a date or timestamp and keeps only the calendar date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
