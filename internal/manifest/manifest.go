// Package manifest decodes shipment manifests. A manifest is a YAML
// document (JSON is accepted as well) that lists the shipments to create.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for a manifest without any document.
var ErrEmpty = errors.New("manifest is empty")

// Manifest is a decoded manifest file. Profile and LabelFormat override the
// configured service options when set.
type Manifest struct {
	Profile     string     `yaml:"profile"`
	LabelFormat string     `yaml:"labelFormat"`
	Shipments   []Shipment `yaml:"shipments"`
}

// Shipment is one manifest entry.
type Shipment struct {
	Product       string  `yaml:"product"`
	BillingNumber string  `yaml:"billingNumber"`
	ReferenceNo   string  `yaml:"referenceNo"`
	CostCenter    string  `yaml:"costCenter"`
	Shipper       Address `yaml:"shipper"`
	Recipient     Address `yaml:"recipient"`
	Package       Package `yaml:"package"`
}

// Address mirrors dhlparcel.AddressParams.
type Address struct {
	Name                      string  `yaml:"name"`
	AddressStreet             string  `yaml:"addressStreet"`
	PostalCode                string  `yaml:"postalCode"`
	City                      string  `yaml:"city"`
	Country                   string  `yaml:"country"`
	State                     string  `yaml:"state"`
	Email                     string  `yaml:"email"`
	Phone                     string  `yaml:"phone"`
	AdditionalInfo            string  `yaml:"additionalInfo"`
	Company                   string  `yaml:"company"`
	PackstationID             *int    `yaml:"packstationId"`
	PackstationCustomerNumber *string `yaml:"packstationCustomerNumber"`
}

// Package holds dimensions in millimeters and weight in grams.
type Package struct {
	Height int `yaml:"height"`
	Length int `yaml:"length"`
	Width  int `yaml:"width"`
	Weight int `yaml:"weight"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest from data.
func Parse(data []byte) (*Manifest, error) {
	return Decode(bytes.NewReader(data))
}

// Decode decodes a manifest from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	return &m, nil
}

// Build validates every entry and returns the resulting shipments.
// The first invalid entry aborts with an error naming its index.
func (m *Manifest) Build() ([]dhlparcel.Shipment, error) {
	if len(m.Shipments) == 0 {
		return nil, fmt.Errorf("%w: no shipments", ErrEmpty)
	}

	shipments := make([]dhlparcel.Shipment, 0, len(m.Shipments))
	for i, entry := range m.Shipments {
		sh, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("shipment %d: %w", i, err)
		}
		shipments = append(shipments, sh)
	}
	return shipments, nil
}

// ServiceOptions returns base with the manifest's profile and label
// format applied.
func (m *Manifest) ServiceOptions(base dhlparcel.ServiceOptions) dhlparcel.ServiceOptions {
	if m.Profile != "" {
		base.Profile = m.Profile
	}
	if m.LabelFormat != "" {
		base.LabelFormat = dhlparcel.LabelFormat(m.LabelFormat)
	}
	return base
}

func (s Shipment) build() (dhlparcel.Shipment, error) {
	shipper, err := dhlparcel.NewAddress(s.Shipper.params())
	if err != nil {
		return dhlparcel.Shipment{}, fmt.Errorf("shipper: %w", err)
	}
	recipient, err := dhlparcel.NewAddress(s.Recipient.params())
	if err != nil {
		return dhlparcel.Shipment{}, fmt.Errorf("recipient: %w", err)
	}
	pkg, err := dhlparcel.NewPackage(s.Package.Height, s.Package.Length, s.Package.Width, s.Package.Weight)
	if err != nil {
		return dhlparcel.Shipment{}, err
	}

	return dhlparcel.NewShipment(dhlparcel.ShipmentParams{
		Product:       dhlparcel.ShipmentProduct(s.Product),
		BillingNumber: s.BillingNumber,
		ReferenceNo:   s.ReferenceNo,
		Shipper:       shipper,
		Recipient:     recipient,
		Package:       pkg,
		CostCenter:    s.CostCenter,
	})
}

func (a Address) params() dhlparcel.AddressParams {
	return dhlparcel.AddressParams{
		Name:                      a.Name,
		AddressStreet:             a.AddressStreet,
		PostalCode:                a.PostalCode,
		City:                      a.City,
		Country:                   a.Country,
		State:                     a.State,
		Email:                     a.Email,
		Phone:                     a.Phone,
		AdditionalInfo:            a.AdditionalInfo,
		Company:                   a.Company,
		PackstationID:             a.PackstationID,
		PackstationCustomerNumber: a.PackstationCustomerNumber,
	}
}
