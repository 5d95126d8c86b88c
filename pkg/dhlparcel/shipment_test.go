package dhlparcel_test

import (
	"strings"
	"testing"

	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBillingNumber = "33333333330101"

func shipmentParams(t *testing.T) dhlparcel.ShipmentParams {
	t.Helper()

	shipper, err := dhlparcel.NewAddress(dhlparcel.AddressParams{
		Name:          "Sonnenglas GmbH",
		AddressStreet: "Gewerbestraße 5",
		PostalCode:    "04109",
		City:          "Leipzig",
		Country:       "DE",
	})
	require.NoError(t, err)

	recipient, err := dhlparcel.NewAddress(contactParams())
	require.NoError(t, err)

	pkg, err := dhlparcel.NewPackage(100, 300, 200, 1500)
	require.NoError(t, err)

	return dhlparcel.ShipmentParams{
		Product:       dhlparcel.ProductDhlPacket,
		BillingNumber: testBillingNumber,
		ReferenceNo:   "Order-12345",
		Shipper:       shipper,
		Recipient:     recipient,
		Package:       pkg,
	}
}

func newTestShipment(t *testing.T) dhlparcel.Shipment {
	t.Helper()
	sh, err := dhlparcel.NewShipment(shipmentParams(t))
	require.NoError(t, err)
	return sh
}

func TestNewShipment(t *testing.T) {
	p := shipmentParams(t)
	p.CostCenter = "Marketing"

	sh, err := dhlparcel.NewShipment(p)

	require.NoError(t, err)
	assert.Equal(t, dhlparcel.ProductDhlPacket, sh.Product())
	assert.Equal(t, testBillingNumber, sh.BillingNumber())
	assert.Equal(t, "Order-12345", sh.ReferenceNo())
	assert.Equal(t, "Marketing", sh.CostCenter())
	assert.Equal(t, "Leipzig", sh.Shipper().City())
	assert.Equal(t, "Berlin", sh.Recipient().City())
	assert.Equal(t, 1500, sh.Package().Weight())
}

func TestNewShipment_ReferenceNoBounds(t *testing.T) {
	tests := []struct {
		referenceNo string
		valid       bool
	}{
		{strings.Repeat("r", 7), false},
		{strings.Repeat("r", 8), true},
		{strings.Repeat("r", 35), true},
		{strings.Repeat("r", 36), false},
	}

	for _, tt := range tests {
		p := shipmentParams(t)
		p.ReferenceNo = tt.referenceNo

		_, err := dhlparcel.NewShipment(p)
		if tt.valid {
			assert.NoError(t, err, "length %d", len(tt.referenceNo))
			continue
		}
		assert.ErrorIs(t, err, dhlparcel.ErrInvalidArgument, "length %d", len(tt.referenceNo))
	}
}

func TestNewShipment_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *dhlparcel.ShipmentParams)
		message string
	}{
		{"billing number too short", func(p *dhlparcel.ShipmentParams) { p.BillingNumber = "3333333333010" }, "billing number must be 14"},
		{"billing number too long", func(p *dhlparcel.ShipmentParams) { p.BillingNumber = "333333333301011" }, "billing number must be 14"},
		{"unknown product", func(p *dhlparcel.ShipmentParams) { p.Product = "V99XXX" }, "unknown shipment product"},
		{"zero shipper", func(p *dhlparcel.ShipmentParams) { p.Shipper = dhlparcel.Address{} }, "shipper must be created"},
		{"zero recipient", func(p *dhlparcel.ShipmentParams) { p.Recipient = dhlparcel.Address{} }, "recipient must be created"},
		{"zero package", func(p *dhlparcel.ShipmentParams) { p.Package = dhlparcel.Package{} }, "package must be created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := shipmentParams(t)
			tt.mutate(&p)

			_, err := dhlparcel.NewShipment(p)

			require.ErrorIs(t, err, dhlparcel.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestShipmentProduct_Valid(t *testing.T) {
	assert.True(t, dhlparcel.ProductWarenpostInternational.Valid())
	assert.False(t, dhlparcel.ShipmentProduct("").Valid())
}

func TestLabelFormat_Valid(t *testing.T) {
	assert.True(t, dhlparcel.LabelFormat910300700OZ.Valid())
	assert.True(t, dhlparcel.LabelFormat100x70mm.Valid())
	assert.False(t, dhlparcel.LabelFormat("A5").Valid())
}
