package dhlparcel

import (
	"context"
	"net/url"
)

// Transport performs authenticated calls against the Parcel DE Shipping API.
// Paths are relative to the API base URL. Implementations return the raw
// JSON body on 2xx and a *ClientError otherwise.
type Transport interface {
	// Get sends a GET with query parameters.
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)

	// Post sends body as JSON.
	Post(ctx context.Context, path string, query url.Values, body any) ([]byte, error)

	// Delete sends a DELETE with query parameters.
	Delete(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// ============================================================================
// Request types (match Parcel DE Shipping API v2)
// ============================================================================

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Profile   string          `json:"profile"`
	Shipments []ShipmentOrder `json:"shipments"`
}

// ShipmentOrder is one shipment of an OrderRequest.
type ShipmentOrder struct {
	Product       string          `json:"product"`
	BillingNumber string          `json:"billingNumber"`
	RefNo         string          `json:"refNo"`
	CostCenter    string          `json:"costCenter,omitempty"`
	Shipper       WireAddress     `json:"shipper"`
	Consignee     WireAddress     `json:"consignee"`
	Details       ShipmentDetails `json:"details"`
	Services      Services        `json:"services"`
}

// WireAddress is either a ContactAddress or a LockerAddress.
type WireAddress interface {
	wireAddress()
}

// ContactAddress is a regular postal address.
type ContactAddress struct {
	Name1         string `json:"name1"`
	Name2         string `json:"name2,omitempty"`
	Name3         string `json:"name3,omitempty"`
	AddressStreet string `json:"addressStreet"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
	Country       string `json:"country"` // ISO 3166-1 alpha-3
	State         string `json:"state,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// LockerAddress is a Packstation delivery address.
type LockerAddress struct {
	Name       string `json:"name"`
	LockerID   int    `json:"lockerID"`
	PostNumber string `json:"postNumber"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"` // ISO 3166-1 alpha-3
}

func (ContactAddress) wireAddress() {}
func (LockerAddress) wireAddress()  {}

// ShipmentDetails carries dimensions and weight.
type ShipmentDetails struct {
	Dim    Dimensions `json:"dim"`
	Weight Weight     `json:"weight"`
}

// Dimensions in millimeters.
type Dimensions struct {
	UOM    string `json:"uom"`
	Height int    `json:"height"`
	Length int    `json:"length"`
	Width  int    `json:"width"`
}

// Weight in grams.
type Weight struct {
	UOM   string `json:"uom"`
	Value int    `json:"value"`
}

// Services holds value-added services. The endorsement is required for
// international shipments.
type Services struct {
	Endorsement string `json:"endorsement,omitempty"`
}

// ============================================================================
// Response types
// ============================================================================

// apiResponse is the body returned by /orders for create, fetch and delete.
type apiResponse struct {
	Status apiStatus `json:"status"`
	Items  []apiItem `json:"items"`
}

type apiStatus struct {
	Title      string `json:"title"`
	StatusCode int    `json:"statusCode"`
	Instance   string `json:"instance,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type apiItem struct {
	ShipmentNo         string                 `json:"shipmentNo"`
	ReturnShipmentNo   string                 `json:"returnShipmentNo,omitempty"`
	Sstatus            apiStatus              `json:"sstatus"`
	Label              *apiDocument           `json:"label,omitempty"`
	ValidationMessages []apiValidationMessage `json:"validationMessages,omitempty"`
}

type apiDocument struct {
	B64         string `json:"b64,omitempty"`
	URL         string `json:"url,omitempty"`
	FileFormat  string `json:"fileFormat,omitempty"`
	PrintFormat string `json:"printFormat,omitempty"`
}

type apiValidationMessage struct {
	Property          string `json:"property"`
	ValidationMessage string `json:"validationMessage"`
	ValidationState   string `json:"validationState"`
}
