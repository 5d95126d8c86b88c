package dhlparcel

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ShipmentResponse is the typed result of a create or label fetch call.
type ShipmentResponse struct {
	StatusTitle  string
	StatusCode   int
	StatusDetail string
	Items        []ShipmentItemResponse
}

// ShipmentItemResponse is the per-shipment part of a ShipmentResponse.
type ShipmentItemResponse struct {
	ShipmentNo          string
	ReturnShipmentNo    string
	ShipmentStatusTitle string
	ShipmentStatusCode  int

	// Label holds the decoded label document. It is nil when the carrier
	// returned only a URL.
	Label       []byte
	LabelURL    string
	LabelFormat string
	PrintFormat string

	ValidationMessages []ValidationMessage
}

// ValidationMessage is a carrier-side warning or error about a field.
type ValidationMessage struct {
	Property string
	Message  string
	State    string
}

// ParseShipmentResponse decodes a raw /orders response body.
func ParseShipmentResponse(raw []byte) (*ShipmentResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode shipment response: %w", err)
	}
	return shipmentResponseFromAPI(&resp)
}

func shipmentResponseFromAPI(resp *apiResponse) (*ShipmentResponse, error) {
	items := make([]ShipmentItemResponse, len(resp.Items))
	for i, it := range resp.Items {
		item, err := itemFromAPI(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = item
	}

	return &ShipmentResponse{
		StatusTitle:  resp.Status.Title,
		StatusCode:   resp.Status.StatusCode,
		StatusDetail: resp.Status.Detail,
		Items:        items,
	}, nil
}

func itemFromAPI(it apiItem) (ShipmentItemResponse, error) {
	item := ShipmentItemResponse{
		ShipmentNo:          it.ShipmentNo,
		ReturnShipmentNo:    it.ReturnShipmentNo,
		ShipmentStatusTitle: it.Sstatus.Title,
		ShipmentStatusCode:  it.Sstatus.StatusCode,
	}

	if it.Label != nil {
		item.LabelURL = it.Label.URL
		item.LabelFormat = it.Label.FileFormat
		item.PrintFormat = it.Label.PrintFormat
		if it.Label.B64 != "" {
			label, err := base64.StdEncoding.DecodeString(it.Label.B64)
			if err != nil {
				return ShipmentItemResponse{}, fmt.Errorf("failed to decode label of shipment %s: %w", it.ShipmentNo, err)
			}
			item.Label = label
		}
	}

	for _, m := range it.ValidationMessages {
		item.ValidationMessages = append(item.ValidationMessages, ValidationMessage{
			Property: m.Property,
			Message:  m.ValidationMessage,
			State:    m.ValidationState,
		})
	}

	return item, nil
}
