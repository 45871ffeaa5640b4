package geo

import (
	"strings"

	"github.com/biter777/countries"
)

const (
	// UnknownCountry is the key for country names with no ISO3 code.
	UnknownCountry = "UNK"

	legacyCountry = "Yugoslavia"
	unitedStates  = "United States"
)

// Sakila spells a few countries in ways a name lookup does not recognise.
var countryAliases = map[string]string{
	"Congo, The Democratic Republic of the": "COD",
	"Holy See (Vatican City State)":         "VAT",
	"Kazakstan":                             "KAZ",
	"Runion":                                "REU",
	"Virgin Islands, U.S.":                  "VIR",
	"Russian Federation":                    "RUS",
	"South Korea":                           "KOR",
	"North Korea":                           "PRK",
	"Taiwan":                                "TWN",
	"Iran":                                  "IRN",
	"Vietnam":                               "VNM",
	"Tanzania":                              "TZA",
	"Moldova":                               "MDA",
	"Libya":                                 "LBY",
	"Brunei":                                "BRN",
	"United States":                         "USA",
	"United Kingdom":                        "GBR",
}

// CountryISO3 converts a country name to its ISO 3166-1 alpha-3 code.
// Names that cannot be resolved return UnknownCountry.
func CountryISO3(name string) string {
	name = strings.TrimSpace(name)
	if code, ok := countryAliases[name]; ok {
		return code
	}

	code := countries.ByName(name)
	if code == countries.Unknown {
		return UnknownCountry
	}
	return code.Alpha3()
}
