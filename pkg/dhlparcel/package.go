package dhlparcel

// Package holds the physical dimensions of a parcel. Dimensions are in
// millimeters and weight in grams. Create it with NewPackage.
type Package struct {
	height int
	length int
	width  int
	weight int
	guard  constructorGuard
}

// NewPackage validates the dimensions and returns a Package. Every value
// must be at least 1.
func NewPackage(height, length, width, weight int) (Package, error) {
	if height < 1 {
		return Package{}, invalidArgument("height", "package height must be at least 1 mm (entered: %d mm)", height)
	}
	if length < 1 {
		return Package{}, invalidArgument("length", "package length must be at least 1 mm (entered: %d mm)", length)
	}
	if width < 1 {
		return Package{}, invalidArgument("width", "package width must be at least 1 mm (entered: %d mm)", width)
	}
	if weight < 1 {
		return Package{}, invalidArgument("weight", "package weight must be at least 1 g (entered: %d g)", weight)
	}

	return Package{
		height: height,
		length: length,
		width:  width,
		weight: weight,
		guard:  newConstructorGuard(),
	}, nil
}

// Height returns the height in millimeters.
func (p Package) Height() int { return p.height }

// Length returns the length in millimeters.
func (p Package) Length() int { return p.length }

// Width returns the width in millimeters.
func (p Package) Width() int { return p.width }

// Weight returns the weight in grams.
func (p Package) Weight() int { return p.weight }

func (p Package) details() ShipmentDetails {
	return ShipmentDetails{
		Dim: Dimensions{
			UOM:    "mm",
			Height: p.height,
			Length: p.length,
			Width:  p.width,
		},
		Weight: Weight{
			UOM:   "g",
			Value: p.weight,
		},
	}
}
