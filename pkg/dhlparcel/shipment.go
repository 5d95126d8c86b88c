package dhlparcel

import "unicode/utf8"

const (
	billingNumberLength  = 14
	minReferenceNoLength = 8
	maxReferenceNoLength = 35
)

// ShipmentParams is the input to NewShipment.
type ShipmentParams struct {
	Product       ShipmentProduct
	BillingNumber string
	ReferenceNo   string
	Shipper       Address
	Recipient     Address
	Package       Package

	// CostCenter is printed on the label. It cannot be used to look the
	// shipment up.
	CostCenter string
}

// Shipment is a validated, immutable shipment order.
type Shipment struct {
	product       ShipmentProduct
	billingNumber string
	referenceNo   string
	shipper       Address
	recipient     Address
	pkg           Package
	costCenter    string
	guard         constructorGuard
}

// NewShipment validates p and returns a Shipment.
func NewShipment(p ShipmentParams) (Shipment, error) {
	if !p.Product.Valid() {
		return Shipment{}, invalidArgument("product", "unknown shipment product %q", p.Product)
	}
	if n := utf8.RuneCountInString(p.BillingNumber); n != billingNumberLength {
		return Shipment{}, invalidArgument("billingNumber",
			"billing number must be %d characters long, entered: %q", billingNumberLength, p.BillingNumber)
	}
	n := utf8.RuneCountInString(p.ReferenceNo)
	if n < minReferenceNoLength {
		return Shipment{}, invalidArgument("referenceNo",
			"reference number must be at least %d characters long, entered: %q", minReferenceNoLength, p.ReferenceNo)
	}
	if n > maxReferenceNoLength {
		return Shipment{}, invalidArgument("referenceNo",
			"reference number must be at most %d characters long, entered: %q", maxReferenceNoLength, p.ReferenceNo)
	}
	if err := p.Shipper.guard.validate(invalidArgument("shipper", "shipper must be created with NewAddress")); err != nil {
		return Shipment{}, err
	}
	if err := p.Recipient.guard.validate(invalidArgument("recipient", "recipient must be created with NewAddress")); err != nil {
		return Shipment{}, err
	}
	if err := p.Package.guard.validate(invalidArgument("package", "package must be created with NewPackage")); err != nil {
		return Shipment{}, err
	}

	return Shipment{
		product:       p.Product,
		billingNumber: p.BillingNumber,
		referenceNo:   p.ReferenceNo,
		shipper:       p.Shipper,
		recipient:     p.Recipient,
		pkg:           p.Package,
		costCenter:    p.CostCenter,
		guard:         newConstructorGuard(),
	}, nil
}

func (s Shipment) Product() ShipmentProduct { return s.product }
func (s Shipment) BillingNumber() string    { return s.billingNumber }
func (s Shipment) ReferenceNo() string      { return s.referenceNo }
func (s Shipment) Shipper() Address         { return s.shipper }
func (s Shipment) Recipient() Address       { return s.recipient }
func (s Shipment) Package() Package         { return s.pkg }
func (s Shipment) CostCenter() string       { return s.costCenter }

func (s Shipment) order() ShipmentOrder {
	return ShipmentOrder{
		Product:       string(s.product),
		BillingNumber: s.billingNumber,
		RefNo:         s.referenceNo,
		CostCenter:    s.costCenter,
		Shipper:       s.shipper.WireFormat(),
		Consignee:     s.recipient.WireFormat(),
		Details:       s.pkg.details(),
		Services:      Services{Endorsement: "RETURN"},
	}
}
