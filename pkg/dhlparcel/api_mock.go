package dhlparcel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// MockLabel is the document returned by MockTransport for every label.
var MockLabel = []byte("%PDF-1.4\n% mock DHL label\n%%EOF\n")

// MockTransport is a Transport that answers with canned carrier responses.
type MockTransport struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGet    func(ctx context.Context, path string, query url.Values) ([]byte, error)
	OnPost   func(ctx context.Context, path string, query url.Values, body any) ([]byte, error)
	OnDelete func(ctx context.Context, path string, query url.Values) ([]byte, error)

	mu        sync.Mutex
	sequence  int
	lastPath  string
	lastQuery url.Values
	lastBody  any
}

// NewMockTransport creates a new mock transport with default behavior.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// LastRequest returns the path, query and body of the most recent call.
func (m *MockTransport) LastRequest() (string, url.Values, any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPath, m.lastQuery, m.lastBody
}

// Get returns the mock label of the requested shipment.
func (m *MockTransport) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := m.begin(ctx, path, query, nil); err != nil {
		return nil, err
	}
	if m.OnGet != nil {
		return m.OnGet(ctx, path, query)
	}

	shipmentNo := query.Get("shipment")
	return json.Marshal(apiResponse{
		Status: okStatus(),
		Items:  []apiItem{mockItem(shipmentNo, query.Get("printFormat"))},
	})
}

// Post accepts any OrderRequest and answers with one labelled item per shipment.
func (m *MockTransport) Post(ctx context.Context, path string, query url.Values, body any) ([]byte, error) {
	if err := m.begin(ctx, path, query, body); err != nil {
		return nil, err
	}
	if m.OnPost != nil {
		return m.OnPost(ctx, path, query, body)
	}

	count, err := countShipments(body)
	if err != nil {
		return nil, &ClientError{StatusCode: http.StatusBadRequest, Body: err.Error()}
	}

	items := make([]apiItem, count)
	for i := range items {
		items[i] = mockItem(m.nextShipmentNo(), query.Get("printFormat"))
	}

	return json.Marshal(apiResponse{Status: okStatus(), Items: items})
}

// Delete reports the requested shipment as cancelled.
func (m *MockTransport) Delete(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := m.begin(ctx, path, query, nil); err != nil {
		return nil, err
	}
	if m.OnDelete != nil {
		return m.OnDelete(ctx, path, query)
	}

	return json.Marshal(apiResponse{
		Status: okStatus(),
		Items: []apiItem{{
			ShipmentNo: query.Get("shipment"),
			Sstatus:    apiStatus{Title: "OK", StatusCode: http.StatusOK},
		}},
	})
}

func (m *MockTransport) begin(ctx context.Context, path string, query url.Values, body any) error {
	m.mu.Lock()
	m.lastPath = path
	m.lastQuery = query
	m.lastBody = body
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.SimulateLatency):
		}
	}

	if m.SimulateErrors {
		return &ClientError{
			StatusCode: http.StatusBadRequest,
			Body:       `{"title":"Bad Request","status":400,"detail":"Simulated API error"}`,
		}
	}
	return nil
}

func (m *MockTransport) nextShipmentNo() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence++
	return fmt.Sprintf("0034043431%010d", m.sequence)
}

// countShipments returns the number of shipments in an order body.
func countShipments(body any) (int, error) {
	if req, ok := body.(*OrderRequest); ok {
		return len(req.Shipments), nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	var probe struct {
		Shipments []json.RawMessage `json:"shipments"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, err
	}
	return len(probe.Shipments), nil
}

func okStatus() apiStatus {
	return apiStatus{
		Title:      "OK",
		StatusCode: http.StatusOK,
		Detail:     "The Webservice call ran successfully.",
	}
}

func mockItem(shipmentNo, printFormat string) apiItem {
	if printFormat == "" {
		printFormat = string(LabelFormat910300700)
	}
	return apiItem{
		ShipmentNo: shipmentNo,
		Sstatus:    apiStatus{Title: "OK", StatusCode: http.StatusOK},
		Label: &apiDocument{
			B64:         base64.StdEncoding.EncodeToString(MockLabel),
			FileFormat:  "PDF",
			PrintFormat: printFormat,
		},
	}
}

// Ensure MockTransport implements Transport interface
var _ Transport = (*MockTransport)(nil)
