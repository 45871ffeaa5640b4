package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sakila-dashboard/internal/models"
)

const header = ",rental_id,customer_id,amount,rental_date,payment_date,country,district\n"

const sampleCSV = header +
	"0,1,1,10.00,2005-05-24 22:53:30,2005-05-25 11:30:37,United States,California\n" +
	"1,2,2,20.00,2005-05-25 10:00:00,2005-05-28 10:35:23,United States,California\n" +
	"2,3,3,4.99,2005-05-26 09:00:00,2005-06-15 00:54:12,Canada,Ontario\n" +
	"3,4,3,0.99,2005-06-01 12:00:00,2005-06-15 21:08:46,Canada,Ontario\n" +
	"4,5,4,5.99,2005-06-02 08:30:00,2005-06-16 15:18:57,Yugoslavia,Kragujevac\n" +
	"5,6,5,2.99,2005-06-10 18:00:00,2005-06-18 08:41:48,Japan,Osaka\n" +
	"6,7,6,7.99,2005-07-01 00:00:00,2005-07-05 10:00:00,United States,Texas\n" +
	"7,8,7,3.99,2005-07-02 13:00:00,2005-07-06 10:00:00,\"Congo, The Democratic Republic of the\",Kinshasa\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rental_payment_data.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fullRange() models.DateRange {
	return models.DateRange{Start: day(2005, 5, 24), End: day(2006, 2, 14)}
}
