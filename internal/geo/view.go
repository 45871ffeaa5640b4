// Package geo maps raw country and district names onto the geography keys the
// dashboard groups by.
package geo

import (
	"errors"
	"fmt"
	"log/slog"

	"sakila-dashboard/internal/models"
)

var ErrUnknownView = errors.New("unknown view")

// View selects how records are keyed: by ISO3 country code or by US state
// abbreviation. The two variants are World and USA.
type View struct {
	// Name is the selector value, "World" or "USA".
	Name string
	// KeyColumn labels the geography key column, "country" or "state".
	KeyColumn string
	// Scope and LocationMode configure the choropleth.
	Scope        string
	LocationMode string

	resolve func(r models.RentalPaymentRecord) (key string, keep bool)
}

var (
	World = View{
		Name:         "World",
		KeyColumn:    "country",
		Scope:        "world",
		LocationMode: "ISO-3",
		resolve:      worldKey,
	}

	USA = View{
		Name:         "USA",
		KeyColumn:    "state",
		Scope:        "usa",
		LocationMode: "USA-states",
		resolve:      stateKey,
	}
)

// Views lists the selectable views in display order.
var Views = []View{World, USA}

func ParseView(s string) (View, error) {
	switch s {
	case World.Name:
		return World, nil
	case USA.Name:
		return USA, nil
	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

func (v View) String() string {
	return v.Name
}

// Keyed pairs a record with its geography key.
type Keyed struct {
	Key    string
	Record models.RentalPaymentRecord
}

// Normalize drops the records the view excludes and keys the rest. Each
// country that falls into the UnknownCountry bucket is logged once per call.
// A nil logger disables the warning.
func Normalize(records []models.RentalPaymentRecord, view View, logger *slog.Logger) []Keyed {
	if view.resolve == nil {
		return nil
	}

	var unknown map[string]struct{}
	out := make([]Keyed, 0, len(records))
	for _, r := range records {
		key, keep := view.resolve(r)
		if !keep {
			continue
		}
		if key == UnknownCountry && view.Name == World.Name {
			if unknown == nil {
				unknown = make(map[string]struct{})
			}
			if _, seen := unknown[r.Country]; !seen {
				unknown[r.Country] = struct{}{}
				if logger != nil {
					logger.Warn("country has no ISO3 code", "country", r.Country, "key", UnknownCountry)
				}
			}
		}
		out = append(out, Keyed{Key: key, Record: r})
	}
	return out
}

func worldKey(r models.RentalPaymentRecord) (string, bool) {
	if r.Country == legacyCountry {
		return "", false
	}
	return CountryISO3(r.Country), true
}

func stateKey(r models.RentalPaymentRecord) (string, bool) {
	if r.Country != unitedStates {
		return "", false
	}
	return StateAbbrev(r.District), true
}
