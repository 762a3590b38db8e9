package card

// FrontCapacity returns how many digits the freely-edited front segment
// may hold for the given brand.
func FrontCapacity(brand Brand) int {
	if brand == BrandAmex {
		return 4
	}
	return 8
}

// SegmentACapacity returns the size of the first keypad segment.
func SegmentACapacity(brand Brand) int {
	if brand == BrandAmex {
		return 6
	}
	return 4
}

// SegmentBCapacity returns the size of the second keypad segment.
func SegmentBCapacity(brand Brand) int {
	if brand == BrandAmex {
		return 5
	}
	return 4
}

// MaxLength returns the full number length for the given brand.
func MaxLength(brand Brand) int {
	return FrontCapacity(brand) + SegmentACapacity(brand) + SegmentBCapacity(brand)
}
