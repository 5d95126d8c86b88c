package dhlparcel

// ShipmentProduct is a DHL Parcel DE product code.
type ShipmentProduct string

const (
	ProductDhlPacket              ShipmentProduct = "V01PAK"
	ProductDhlPacketInternational ShipmentProduct = "V53WPAK"
	ProductDhlEuropaket           ShipmentProduct = "V54EPAK"
	ProductWarenpost              ShipmentProduct = "V62WP"
	ProductWarenpostInternational ShipmentProduct = "V66WPI"
)

// Valid reports whether p is a known product code.
func (p ShipmentProduct) Valid() bool {
	switch p {
	case ProductDhlPacket, ProductDhlPacketInternational, ProductDhlEuropaket,
		ProductWarenpost, ProductWarenpostInternational:
		return true
	}
	return false
}

// LabelFormat is a label print format accepted by the printFormat parameter.
type LabelFormat string

const (
	// LabelA4 is 210 x 297 mm.
	LabelA4 LabelFormat = "A4"

	// 103 x 199 mm.
	LabelFormat910300600   LabelFormat = "910-300-600"
	LabelFormat910300610   LabelFormat = "910-300-610"
	LabelFormat910300700   LabelFormat = "910-300-700"
	LabelFormat910300700OZ LabelFormat = "910-300-700-oz"
	LabelFormat910300710   LabelFormat = "910-300-710"

	// 103 x 150 mm.
	LabelFormat910300300   LabelFormat = "910-300-300"
	LabelFormat910300300OZ LabelFormat = "910-300-300-oz"

	// 100 x 199 mm.
	LabelFormat910300400 LabelFormat = "910-300-400"
	LabelFormat910300410 LabelFormat = "910-300-410"

	// LabelFormat100x70mm is 100 x 70 mm.
	LabelFormat100x70mm LabelFormat = "100x70mm"
)

// Valid reports whether f is a known print format.
func (f LabelFormat) Valid() bool {
	switch f {
	case LabelA4,
		LabelFormat910300600, LabelFormat910300610, LabelFormat910300700,
		LabelFormat910300700OZ, LabelFormat910300710,
		LabelFormat910300300, LabelFormat910300300OZ,
		LabelFormat910300400, LabelFormat910300410,
		LabelFormat100x70mm:
		return true
	}
	return false
}
