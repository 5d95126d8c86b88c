package dhlparcel

import (
	"fmt"

	"golang.org/x/text/language"
)

// CountryResolver converts ISO 3166-1 alpha-2 codes to alpha-3 codes.
type CountryResolver interface {
	Alpha3(alpha2 string) (string, error)
}

// CountryResolverFunc adapts a function to CountryResolver.
type CountryResolverFunc func(alpha2 string) (string, error)

// Alpha3 calls f.
func (f CountryResolverFunc) Alpha3(alpha2 string) (string, error) {
	return f(alpha2)
}

// DefaultCountryResolver resolves codes using the CLDR region table.
var DefaultCountryResolver CountryResolver = regionResolver{}

type regionResolver struct{}

// Alpha3 rejects codes that are unknown or name a region group or
// private-use area rather than a country.
func (regionResolver) Alpha3(alpha2 string) (string, error) {
	region, err := language.ParseRegion(alpha2)
	if err != nil {
		return "", fmt.Errorf("unknown country code %q: %w", alpha2, err)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("country code %q does not denote a country", alpha2)
	}
	return region.ISO3(), nil
}
