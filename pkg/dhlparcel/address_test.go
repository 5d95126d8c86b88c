package dhlparcel_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactParams() dhlparcel.AddressParams {
	return dhlparcel.AddressParams{
		Name:          "John Doe",
		AddressStreet: "Hauptstraße 1",
		PostalCode:    "10115",
		City:          "Berlin",
		Country:       "DE",
	}
}

func lockerParams(id int, customerNumber string) dhlparcel.AddressParams {
	return dhlparcel.AddressParams{
		Name:                      "John Doe",
		PostalCode:                "10115",
		City:                      "Berlin",
		Country:                   "DE",
		PackstationID:             &id,
		PackstationCustomerNumber: &customerNumber,
	}
}

func contactWire(t *testing.T, p dhlparcel.AddressParams) dhlparcel.ContactAddress {
	t.Helper()
	addr, err := dhlparcel.NewAddress(p)
	require.NoError(t, err)
	wire, ok := addr.WireFormat().(dhlparcel.ContactAddress)
	require.True(t, ok, "expected a contact address")
	return wire
}

func TestNewAddress_Contact(t *testing.T) {
	p := contactParams()
	p.Email = "john@example.com"
	p.Phone = "+49 30 1234567"
	p.State = "Berlin"

	addr, err := dhlparcel.NewAddress(p)

	require.NoError(t, err)
	assert.Equal(t, dhlparcel.KindContact, addr.Kind())
	assert.False(t, addr.IsPackstation())
	assert.Equal(t, "DEU", addr.Country())
	assert.Equal(t, "DE", addr.CountryAlpha2())

	_, ok := addr.PackstationID()
	assert.False(t, ok)

	wire := addr.WireFormat().(dhlparcel.ContactAddress)
	assert.Equal(t, dhlparcel.ContactAddress{
		Name1:         "John Doe",
		AddressStreet: "Hauptstraße 1",
		PostalCode:    "10115",
		City:          "Berlin",
		Country:       "DEU",
		State:         "Berlin",
		Email:         "john@example.com",
		Phone:         "+49 30 1234567",
	}, wire)
}

func TestNewAddress_Locker(t *testing.T) {
	p := lockerParams(123, "12345678")
	p.AddressStreet = "ignored for lockers"

	addr, err := dhlparcel.NewAddress(p)

	require.NoError(t, err)
	assert.Equal(t, dhlparcel.KindLocker, addr.Kind())
	assert.True(t, addr.IsPackstation())

	id, ok := addr.PackstationID()
	assert.True(t, ok)
	assert.Equal(t, 123, id)

	number, ok := addr.PackstationCustomerNumber()
	assert.True(t, ok)
	assert.Equal(t, "12345678", number)

	assert.Equal(t, dhlparcel.LockerAddress{
		Name:       "John Doe",
		LockerID:   123,
		PostNumber: "12345678",
		City:       "Berlin",
		PostalCode: "10115",
		Country:    "DEU",
	}, addr.WireFormat())
}

func TestNewAddress_LockerWithoutStreet(t *testing.T) {
	_, err := dhlparcel.NewAddress(lockerParams(100, "123456"))
	assert.NoError(t, err)
}

func TestWireFormat_LockerJSONKeys(t *testing.T) {
	addr, err := dhlparcel.NewAddress(lockerParams(999, "1234567890"))
	require.NoError(t, err)

	raw, err := json.Marshal(addr.WireFormat())
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "name")
	assert.Contains(t, keys, "lockerID")
	assert.Contains(t, keys, "postNumber")
	assert.NotContains(t, keys, "name1")
	assert.NotContains(t, keys, "addressStreet")
}

func TestWireFormat_ContactJSONOmitsEmptyOptionals(t *testing.T) {
	addr, err := dhlparcel.NewAddress(contactParams())
	require.NoError(t, err)

	raw, err := json.Marshal(addr.WireFormat())
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "name1")
	assert.Contains(t, keys, "addressStreet")
	assert.NotContains(t, keys, "name")
	assert.NotContains(t, keys, "name2")
	assert.NotContains(t, keys, "name3")
	assert.NotContains(t, keys, "email")
	assert.NotContains(t, keys, "phone")
	assert.NotContains(t, keys, "state")
}

func TestWireFormat_NamePacking(t *testing.T) {
	longInfo := strings.Repeat("a", 50) + strings.Repeat("b", 50)

	tests := []struct {
		name           string
		personName     string
		company        string
		additionalInfo string
		want           [3]string
	}{
		{
			name:       "name only",
			personName: "John Doe",
			want:       [3]string{"John Doe", "", ""},
		},
		{
			name:           "short additional info",
			personName:     "John Doe",
			additionalInfo: "c/o VAH Jager Verlagsauslieferung",
			want:           [3]string{"John Doe", "c/o VAH Jager Verlagsauslieferung", ""},
		},
		{
			name:           "additional info split across name2 and name3",
			personName:     "John Doe",
			additionalInfo: longInfo,
			want:           [3]string{"John Doe", strings.Repeat("a", 50), strings.Repeat("b", 50)},
		},
		{
			name:       "company merged into name1",
			personName: "John Doe",
			company:    "ACME",
			want:       [3]string{"John Doe, ACME", "", ""},
		},
		{
			name:           "merged name keeps additional info split",
			personName:     "John Doe",
			company:        "ACME",
			additionalInfo: longInfo,
			want:           [3]string{"John Doe, ACME", strings.Repeat("a", 50), strings.Repeat("b", 50)},
		},
		{
			name:       "combined too long falls back",
			personName: "Christopher Alexander Montgomery",
			company:    "Long Company Name GmbH & Co KG",
			want:       [3]string{"Christopher Alexander Montgomery", "Long Company Name GmbH & Co KG", ""},
		},
		{
			name:           "fallback truncates additional info into name3",
			personName:     "Christopher Alexander Montgomery",
			company:        "Long Company Name GmbH & Co KG",
			additionalInfo: longInfo,
			want: [3]string{
				"Christopher Alexander Montgomery",
				"Long Company Name GmbH & Co KG",
				strings.Repeat("a", 50),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := contactParams()
			p.Name = tt.personName
			p.Company = tt.company
			p.AdditionalInfo = tt.additionalInfo

			wire := contactWire(t, p)

			assert.Equal(t, tt.want, [3]string{wire.Name1, wire.Name2, wire.Name3})
		})
	}
}

func TestWireFormat_CombinedNameAtLimit(t *testing.T) {
	// 44 + len(", ") + 4 = 50
	p := contactParams()
	p.Name = strings.Repeat("n", 44)
	p.Company = "ACME"

	wire := contactWire(t, p)

	assert.Equal(t, strings.Repeat("n", 44)+", ACME", wire.Name1)
	assert.Empty(t, wire.Name2)
}

func TestWireFormat_CountsCharactersNotBytes(t *testing.T) {
	p := contactParams()
	p.AdditionalInfo = strings.Repeat("ä", 50) + strings.Repeat("ö", 10)

	wire := contactWire(t, p)

	assert.Equal(t, strings.Repeat("ä", 50), wire.Name2)
	assert.Equal(t, strings.Repeat("ö", 10), wire.Name3)
}

func TestNewAddress_PackstationIDBounds(t *testing.T) {
	tests := []struct {
		id    int
		valid bool
	}{
		{99, false},
		{100, true},
		{555, true},
		{999, true},
		{1000, false},
	}

	for _, tt := range tests {
		_, err := dhlparcel.NewAddress(lockerParams(tt.id, "123456"))
		if tt.valid {
			assert.NoError(t, err, "id %d", tt.id)
			continue
		}
		assert.ErrorIs(t, err, dhlparcel.ErrInvalidAddress, "id %d", tt.id)
	}
}

func TestNewAddress_PackstationCustomerNumber(t *testing.T) {
	tests := []struct {
		number string
		valid  bool
	}{
		{"123456", true},
		{"1234567890", true},
		{"12345", false},
		{"12345678901", false},
		{"12345a", false},
		{"", false},
	}

	for _, tt := range tests {
		_, err := dhlparcel.NewAddress(lockerParams(123, tt.number))
		if tt.valid {
			assert.NoError(t, err, "number %q", tt.number)
			continue
		}
		assert.ErrorIs(t, err, dhlparcel.ErrInvalidAddress, "number %q", tt.number)
	}
}

func TestNewAddress_PackstationOutsideGermany(t *testing.T) {
	p := lockerParams(123, "123456")
	p.Country = "AT"

	_, err := dhlparcel.NewAddress(p)

	require.ErrorIs(t, err, dhlparcel.ErrInvalidAddress)
	assert.Contains(t, err.Error(), `"AT"`)
}

func TestNewAddress_SinglePackstationField(t *testing.T) {
	id := 123
	number := "123456"

	withID := contactParams()
	withID.PackstationID = &id
	_, err := dhlparcel.NewAddress(withID)
	assert.ErrorIs(t, err, dhlparcel.ErrInvalidAddress)

	withNumber := contactParams()
	withNumber.PackstationCustomerNumber = &number
	_, err = dhlparcel.NewAddress(withNumber)
	assert.ErrorIs(t, err, dhlparcel.ErrInvalidAddress)
}

func TestNewAddress_Country(t *testing.T) {
	tests := []struct {
		country string
		message string
	}{
		{"DEU", "2 characters"},
		{"D", "2 characters"},
		{"", "2 characters"},
		{"de", "upper-case"},
		{"QZ", "could not be resolved"},
	}

	for _, tt := range tests {
		p := contactParams()
		p.Country = tt.country

		_, err := dhlparcel.NewAddress(p)

		require.ErrorIs(t, err, dhlparcel.ErrInvalidAddress, "country %q", tt.country)
		assert.Contains(t, err.Error(), tt.message, "country %q", tt.country)
	}
}

func TestNewAddress_RequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(p *dhlparcel.AddressParams)
	}{
		{"addressStreet", func(p *dhlparcel.AddressParams) { p.AddressStreet = "" }},
		{"name", func(p *dhlparcel.AddressParams) { p.Name = "" }},
		{"city", func(p *dhlparcel.AddressParams) { p.City = "" }},
		{"postalCode", func(p *dhlparcel.AddressParams) { p.PostalCode = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := contactParams()
			tt.mutate(&p)

			_, err := dhlparcel.NewAddress(p)

			require.ErrorIs(t, err, dhlparcel.ErrInvalidAddress)
			var validationErr *dhlparcel.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestNewAddress_Lengths(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(p *dhlparcel.AddressParams)
	}{
		{"name", func(p *dhlparcel.AddressParams) { p.Name = strings.Repeat("x", 51) }},
		{"company", func(p *dhlparcel.AddressParams) { p.Company = strings.Repeat("x", 51) }},
		{"additionalInfo", func(p *dhlparcel.AddressParams) { p.AdditionalInfo = strings.Repeat("x", 101) }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := contactParams()
			tt.mutate(&p)

			_, err := dhlparcel.NewAddress(p)

			var validationErr *dhlparcel.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	p := contactParams()
	p.Name = strings.Repeat("ü", 50)
	_, err := dhlparcel.NewAddress(p)
	assert.NoError(t, err, "50 multi-byte characters fit")
}

func TestNewAddress_FirstFailingRuleWins(t *testing.T) {
	p := dhlparcel.AddressParams{Country: "de"}

	_, err := dhlparcel.NewAddress(p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upper-case")
}

func TestNewAddressWithResolver(t *testing.T) {
	resolver := dhlparcel.CountryResolverFunc(func(alpha2 string) (string, error) {
		if alpha2 == "XK" {
			return "XKX", nil
		}
		return "", errors.New("not supported")
	})

	p := contactParams()
	p.Country = "XK"
	addr, err := dhlparcel.NewAddressWithResolver(p, resolver)
	require.NoError(t, err)
	assert.Equal(t, "XKX", addr.Country())

	_, err = dhlparcel.NewAddressWithResolver(contactParams(), resolver)
	require.ErrorIs(t, err, dhlparcel.ErrInvalidAddress)
	assert.Contains(t, err.Error(), "not supported")
}
