package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"sakila-dashboard/internal/models"
)

func TestLoader_Load(t *testing.T) {
	convey.Convey("Given a rental/payment CSV", t, func() {
		loader := NewLoader(writeCSV(t, sampleCSV), nil)
		ctx := context.Background()

		convey.Convey("When loading the full dataset span", func() {
			records, err := loader.Load(ctx, fullRange())

			convey.Convey("Then every row is returned with parsed fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(records, convey.ShouldHaveLength, 8)

				first := records[0]
				convey.So(first.RentalID, convey.ShouldEqual, int64(1))
				convey.So(first.CustomerID, convey.ShouldEqual, int64(1))
				convey.So(first.Amount, convey.ShouldEqual, 10.0)
				convey.So(first.RentalDate, convey.ShouldEqual, day(2005, 5, 24))
				convey.So(first.PaymentDate, convey.ShouldEqual, day(2005, 5, 25))
				convey.So(first.Country, convey.ShouldEqual, "United States")
				convey.So(first.District, convey.ShouldEqual, "California")

				convey.So(records[7].Country, convey.ShouldEqual, "Congo, The Democratic Republic of the")
			})
		})

		convey.Convey("When loading a sub-range", func() {
			r := models.DateRange{Start: day(2005, 5, 25), End: day(2005, 6, 1)}
			records, err := loader.Load(ctx, r)

			convey.Convey("Then only rentals inside the inclusive range remain", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(records, convey.ShouldHaveLength, 3)
				for _, rec := range records {
					convey.So(r.Contains(rec.RentalDate), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When the range is a single day with no rentals", func() {
			records, err := loader.Load(ctx, models.DateRange{Start: day(2005, 8, 1), End: day(2005, 8, 1)})

			convey.Convey("Then the result is empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(records, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When start is after end", func() {
			records, err := loader.Load(ctx, models.DateRange{Start: day(2006, 1, 1), End: day(2005, 1, 1)})

			convey.Convey("Then the result is empty, not an error", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(records, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{
			name:    "missing column",
			csv:     "rental_id,customer_id,amount,rental_date,payment_date,country\n1,1,1.00,2005-05-24,2005-05-24,Canada\n",
			wantErr: ErrDatasetUnavailable,
		},
		{
			name:    "bad rental date",
			csv:     header + "0,1,1,1.00,24/05/2005,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "bad payment date",
			csv:     header + "0,1,1,1.00,2005-05-24,soon,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "bad amount",
			csv:     header + "0,1,1,cheap,2005-05-24,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "NaN amount",
			csv:     header + "0,1,1,NaN,2005-05-24,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "NA amount",
			csv:     header + "0,1,1,NA,2005-05-24,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "infinite amount",
			csv:     header + "0,1,1,+Inf,2005-05-24,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "header only with missing column",
			csv:     "rental_id,customer_id,amount,rental_date,payment_date,country\n",
			wantErr: ErrDatasetUnavailable,
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: ErrDatasetUnavailable,
		},
		{
			name:    "bad customer id",
			csv:     header + "0,1,abc,1.00,2005-05-24,2005-05-25,Canada,Ontario\n",
			wantErr: ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(writeCSV(t, tt.csv), nil)
			_, err := loader.Load(context.Background(), fullRange())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_HeaderOnly(t *testing.T) {
	convey.Convey("Given a readable file with a header and no rows", t, func() {
		loader := NewLoader(writeCSV(t, header), nil)
		ctx := context.Background()

		convey.Convey("Load returns an empty result", func() {
			records, err := loader.Load(ctx, fullRange())
			convey.So(err, convey.ShouldBeNil)
			convey.So(records, convey.ShouldBeEmpty)
		})

		convey.Convey("Span reports zero records", func() {
			span, err := loader.Span(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(span.Records, convey.ShouldEqual, 0)
		})
	})
}

func TestLoader_NAKeptVerbatim(t *testing.T) {
	loader := NewLoader(writeCSV(t, header+"0,1,1,2.99,2005-05-24,2005-05-25,United States,NA\n"), nil)
	records, err := loader.Load(context.Background(), fullRange())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].District != "NA" {
		t.Errorf("records = %+v, want one record with district NA", records)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.csv"), nil)
	if _, err := loader.Load(context.Background(), fullRange()); !errors.Is(err, ErrDatasetUnavailable) {
		t.Errorf("Load() error = %v, want ErrDatasetUnavailable", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	loader := NewLoader(writeCSV(t, sampleCSV), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.Load(ctx, fullRange()); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoader_Span(t *testing.T) {
	loader := NewLoader(writeCSV(t, sampleCSV), nil)

	span, err := loader.Span(context.Background())
	if err != nil {
		t.Fatalf("Span() error = %v", err)
	}
	if span.Records != 8 {
		t.Errorf("Records = %d, want 8", span.Records)
	}
	if !span.FirstDate.Equal(day(2005, 5, 24)) || !span.LastDate.Equal(day(2005, 7, 2)) {
		t.Errorf("span = %s..%s", span.FirstDate, span.LastDate)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2005-05-24 22:53:30", "2005-05-24T22:53:30", "2005-05-24", " 2005-05-24 "} {
		got, err := parseDate(s)
		if err != nil {
			t.Errorf("parseDate(%q) error = %v", s, err)
			continue
		}
		if !got.Equal(day(2005, 5, 24)) {
			t.Errorf("parseDate(%q) = %v", s, got)
		}
	}
}
