package dhlparcel_test

import (
	"testing"

	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCountryResolver(t *testing.T) {
	tests := map[string]string{
		"DE": "DEU",
		"AT": "AUT",
		"CH": "CHE",
		"US": "USA",
		"GB": "GBR",
	}

	for alpha2, want := range tests {
		got, err := dhlparcel.DefaultCountryResolver.Alpha3(alpha2)
		require.NoError(t, err, alpha2)
		assert.Equal(t, want, got)
	}
}

func TestDefaultCountryResolver_RejectsNonCountries(t *testing.T) {
	for _, code := range []string{"ZZ", "QO", "12"} {
		_, err := dhlparcel.DefaultCountryResolver.Alpha3(code)
		assert.Error(t, err, code)
	}
}
