package dhlparcel

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength           = 50
	maxCompanyLength        = 50
	maxAdditionalInfoLength = 100

	// nameFieldLength is the capacity of each name1..name3 wire field.
	nameFieldLength = 50

	minPackstationID = 100
	maxPackstationID = 999

	// packstationCountry is the only country with parcel lockers.
	packstationCountry = "DE"
)

var customerNumberPattern = regexp.MustCompile(`^[0-9]{6,10}$`)

// AddressKind distinguishes regular postal addresses from parcel lockers.
type AddressKind int

const (
	// KindContact is a regular street address.
	KindContact AddressKind = iota
	// KindLocker is a Packstation parcel locker.
	KindLocker
)

func (k AddressKind) String() string {
	if k == KindLocker {
		return "locker"
	}
	return "contact"
}

// AddressParams is the input to NewAddress. Country is an ISO 3166-1
// alpha-2 code. An address becomes a locker address when both
// PackstationID and PackstationCustomerNumber are set.
type AddressParams struct {
	Name           string
	AddressStreet  string
	PostalCode     string
	City           string
	Country        string
	State          string
	Email          string
	Phone          string
	AdditionalInfo string
	Company        string

	PackstationID             *int
	PackstationCustomerNumber *string
}

func (p AddressParams) isLocker() bool {
	return p.PackstationID != nil && p.PackstationCustomerNumber != nil
}

// Address is a validated, immutable shipper or consignee address.
type Address struct {
	name           string
	addressStreet  string
	postalCode     string
	city           string
	country        string
	isoCountry     string
	state          string
	email          string
	phone          string
	additionalInfo string
	company        string

	kind                      AddressKind
	packstationID             int
	packstationCustomerNumber string

	guard constructorGuard
}

type addressRule struct {
	field   string
	ok      func(p AddressParams) bool
	message func(p AddressParams) string
}

// addressRules are evaluated in order; the first failure is reported.
var addressRules = []addressRule{
	{
		field: "country",
		ok:    func(p AddressParams) bool { return utf8.RuneCountInString(p.Country) == 2 },
		message: func(p AddressParams) string {
			return fmt.Sprintf("country code must be 2 characters long (ISO 3166-1 alpha-2), entered: %q", p.Country)
		},
	},
	{
		field: "country",
		ok:    func(p AddressParams) bool { return p.Country == strings.ToUpper(p.Country) },
		message: func(p AddressParams) string {
			return fmt.Sprintf("country code must be upper-case, entered: %q", p.Country)
		},
	},
	{
		field: "packstation",
		ok: func(p AddressParams) bool {
			return (p.PackstationID != nil) == (p.PackstationCustomerNumber != nil)
		},
		message: func(AddressParams) string {
			return "both packstation id and packstation customer number must be provided for packstation delivery"
		},
	},
	{
		field: "packstationId",
		ok: func(p AddressParams) bool {
			return p.PackstationID == nil ||
				(*p.PackstationID >= minPackstationID && *p.PackstationID <= maxPackstationID)
		},
		message: func(p AddressParams) string {
			return fmt.Sprintf("packstation id must be a 3-digit number between %d and %d, entered: %d",
				minPackstationID, maxPackstationID, *p.PackstationID)
		},
	},
	{
		field: "packstationCustomerNumber",
		ok: func(p AddressParams) bool {
			return p.PackstationCustomerNumber == nil || customerNumberPattern.MatchString(*p.PackstationCustomerNumber)
		},
		message: func(p AddressParams) string {
			return fmt.Sprintf("packstation customer number must be 6-10 digits, entered: %q", *p.PackstationCustomerNumber)
		},
	},
	{
		field: "country",
		ok:    func(p AddressParams) bool { return !p.isLocker() || p.Country == packstationCountry },
		message: func(p AddressParams) string {
			return fmt.Sprintf("packstation delivery is only available in Germany (country must be %s), entered: %q",
				packstationCountry, p.Country)
		},
	},
	{
		field:   "addressStreet",
		ok:      func(p AddressParams) bool { return p.isLocker() || p.AddressStreet != "" },
		message: func(AddressParams) string { return "address street is required for regular addresses" },
	},
	{
		field:   "name",
		ok:      func(p AddressParams) bool { return p.Name != "" },
		message: func(AddressParams) string { return "name is required" },
	},
	{
		field:   "city",
		ok:      func(p AddressParams) bool { return p.City != "" },
		message: func(AddressParams) string { return "city is required" },
	},
	{
		field:   "postalCode",
		ok:      func(p AddressParams) bool { return p.PostalCode != "" },
		message: func(AddressParams) string { return "postal code is required" },
	},
	{
		field: "additionalInfo",
		ok:    func(p AddressParams) bool { return utf8.RuneCountInString(p.AdditionalInfo) <= maxAdditionalInfoLength },
		message: func(p AddressParams) string {
			return fmt.Sprintf("additional info must not be longer than %d characters, entered: %q",
				maxAdditionalInfoLength, p.AdditionalInfo)
		},
	},
	{
		field: "name",
		ok:    func(p AddressParams) bool { return utf8.RuneCountInString(p.Name) <= maxNameLength },
		message: func(p AddressParams) string {
			return fmt.Sprintf("name must not be longer than %d characters, entered: %q", maxNameLength, p.Name)
		},
	},
	{
		field: "company",
		ok:    func(p AddressParams) bool { return utf8.RuneCountInString(p.Company) <= maxCompanyLength },
		message: func(p AddressParams) string {
			return fmt.Sprintf("company name must not be longer than %d characters, entered: %q", maxCompanyLength, p.Company)
		},
	},
}

// NewAddress validates p and resolves its country with DefaultCountryResolver.
func NewAddress(p AddressParams) (Address, error) {
	return NewAddressWithResolver(p, DefaultCountryResolver)
}

// NewAddressWithResolver validates p and resolves its country code with
// resolver. A nil resolver falls back to DefaultCountryResolver.
func NewAddressWithResolver(p AddressParams, resolver CountryResolver) (Address, error) {
	for _, rule := range addressRules {
		if !rule.ok(p) {
			return Address{}, invalidAddress(rule.field, "%s", rule.message(p))
		}
	}

	if resolver == nil {
		resolver = DefaultCountryResolver
	}
	isoCountry, err := resolver.Alpha3(p.Country)
	if err != nil {
		return Address{}, invalidAddress("country", "country code %q could not be resolved: %v", p.Country, err)
	}

	addr := Address{
		name:           p.Name,
		addressStreet:  p.AddressStreet,
		postalCode:     p.PostalCode,
		city:           p.City,
		country:        p.Country,
		isoCountry:     isoCountry,
		state:          p.State,
		email:          p.Email,
		phone:          p.Phone,
		additionalInfo: p.AdditionalInfo,
		company:        p.Company,
		kind:           KindContact,
		guard:          newConstructorGuard(),
	}
	if p.isLocker() {
		addr.kind = KindLocker
		addr.packstationID = *p.PackstationID
		addr.packstationCustomerNumber = *p.PackstationCustomerNumber
	}

	return addr, nil
}

// Name returns the recipient or sender name.
func (a Address) Name() string { return a.name }

// AddressStreet returns the street line. It is empty for most locker addresses.
func (a Address) AddressStreet() string { return a.addressStreet }

// PostalCode returns the postal code.
func (a Address) PostalCode() string { return a.postalCode }

// City returns the city.
func (a Address) City() string { return a.city }

// Country returns the ISO 3166-1 alpha-3 country code sent to the carrier.
func (a Address) Country() string { return a.isoCountry }

// CountryAlpha2 returns the country code as it was entered.
func (a Address) CountryAlpha2() string { return a.country }

func (a Address) State() string          { return a.state }
func (a Address) Email() string          { return a.email }
func (a Address) Phone() string          { return a.phone }
func (a Address) AdditionalInfo() string { return a.additionalInfo }
func (a Address) Company() string        { return a.company }

// Kind reports whether a is a contact or a locker address.
func (a Address) Kind() AddressKind { return a.kind }

// IsPackstation reports whether a is a locker address.
func (a Address) IsPackstation() bool { return a.kind == KindLocker }

// PackstationID returns the locker ID and whether a is a locker address.
func (a Address) PackstationID() (int, bool) {
	return a.packstationID, a.kind == KindLocker
}

// PackstationCustomerNumber returns the customer's postal number and
// whether a is a locker address.
func (a Address) PackstationCustomerNumber() (string, bool) {
	return a.packstationCustomerNumber, a.kind == KindLocker
}

// WireFormat returns the carrier payload for a: a LockerAddress for
// packstation deliveries, a ContactAddress otherwise.
func (a Address) WireFormat() WireAddress {
	if a.kind == KindLocker {
		return a.lockerAddress()
	}
	return a.contactAddress()
}

func (a Address) lockerAddress() LockerAddress {
	return LockerAddress{
		Name:       a.name,
		LockerID:   a.packstationID,
		PostNumber: a.packstationCustomerNumber,
		City:       a.city,
		PostalCode: a.postalCode,
		Country:    a.isoCountry,
	}
}

// contactAddress packs name, company and additional info into name1..name3.
// Name and company share name1 when they fit; otherwise they take name1 and
// name2 and the additional info is cut down to name3.
func (a Address) contactAddress() ContactAddress {
	addr := ContactAddress{
		AddressStreet: a.addressStreet,
		PostalCode:    a.postalCode,
		City:          a.city,
		Country:       a.isoCountry,
		State:         a.state,
		Email:         a.email,
		Phone:         a.phone,
	}

	addr.Name1 = a.name
	if a.company != "" {
		combined := a.name + ", " + a.company
		if utf8.RuneCountInString(combined) > nameFieldLength {
			addr.Name2 = a.company
			addr.Name3, _ = splitRunes(a.additionalInfo, nameFieldLength)
			return addr
		}
		addr.Name1 = combined
	}

	addr.Name2, addr.Name3 = splitRunes(a.additionalInfo, nameFieldLength)
	return addr
}

// splitRunes returns the first n characters of s and the rest.
func splitRunes(s string, n int) (head, tail string) {
	if utf8.RuneCountInString(s) <= n {
		return s, ""
	}
	r := []rune(s)
	return string(r[:n]), string(r[n:])
}
