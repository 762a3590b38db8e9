package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		digits string
		want   Brand
	}{
		{"4111111111111111", BrandVisa},
		{"4", BrandVisa},
		{"5500000000000004", BrandMastercard},
		{"51", BrandMastercard},
		{"2221000000000009", BrandMastercard},
		{"2720990000000000", BrandMastercard},
		{"2721000000000000", BrandUnknown},
		{"340000000000009", BrandAmex},
		{"37", BrandAmex},
		{"6011000000000004", BrandDiscover},
		{"6221260000000000", BrandDiscover},
		{"65", BrandDiscover},
		{"30000000000004", BrandDiners},
		{"36", BrandDiners},
		{"38", BrandDiners},
		{"3528000000000007", BrandJCB},
		{"3589", BrandJCB},
		{"6200000000000005", BrandUnionPay},
		{"", BrandUnknown},
		{"1", BrandUnknown},
		{"22", BrandUnknown},
		{"9999", BrandUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectBrand(tt.digits), "digits %q", tt.digits)
	}
}

func TestDetectBrandPriority(t *testing.T) {
	// Discover's 622126-622925 range sits inside UnionPay's 62 prefix and
	// must win.
	assert.Equal(t, BrandDiscover, DetectBrand("622126"))
	assert.Equal(t, BrandUnionPay, DetectBrand("622125"))
	assert.Equal(t, BrandUnionPay, DetectBrand("622926"))
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "", FormatForDisplay("", BrandVisa))
	assert.Equal(t, "411", FormatForDisplay("411", BrandVisa))
	assert.Equal(t, "4111", FormatForDisplay("4111", BrandVisa))
	assert.Equal(t, "4111 1", FormatForDisplay("41111", BrandVisa))
	assert.Equal(t, "4111 1111 1111 1111", FormatForDisplay("4111111111111111", BrandVisa))
	assert.Equal(t, "3400 000000 00009", FormatForDisplay("340000000000009", BrandAmex))
	assert.Equal(t, "3400 0000", FormatForDisplay("34000000", BrandAmex))
	assert.Equal(t, "3400 00", FormatForDisplay("340000", BrandAmex))
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "4111111111111111", ExtractDigits("4111 1111 1111 1111"))
	assert.Equal(t, "41111111", ExtractDigits("4111 1111 •••4 1234"))
	assert.Equal(t, "", ExtractDigits("•••• ••"))
	assert.Equal(t, "1234", ExtractDigits("Card: 12-34"))
}

func TestFormatExtractRoundTrip(t *testing.T) {
	for _, digits := range []string{
		"", "4", "41", "4111", "41111", "41111111",
		"4111111111111111", "340000000000009", "6011000000000004",
		"5500000000000004", "6200000000000005",
	} {
		brand := DetectBrand(digits)
		assert.Equal(t, digits, ExtractDigits(FormatForDisplay(digits, brand)), "digits %q", digits)
	}
}

func TestValidateLuhn(t *testing.T) {
	tests := []struct {
		digits string
		want   bool
	}{
		{"4242424242424242", true},
		{"4242424242424241", false},
		{"4111111111111111", true},
		{"378282246310005", true},
		{"6011111111111117", true},
		{"5555555555554444", true},
		{"5555555555554443", false},
		{"411111111111", false},      // 12 digits, too short
		{"41111111111111111111", false}, // 20 digits, too long
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateLuhn(tt.digits), "digits %q", tt.digits)
	}
}

func TestCapacities(t *testing.T) {
	assert.Equal(t, 4, FrontCapacity(BrandAmex))
	assert.Equal(t, 8, FrontCapacity(BrandVisa))
	assert.Equal(t, 8, FrontCapacity(BrandUnknown))
	assert.Equal(t, 6, SegmentACapacity(BrandAmex))
	assert.Equal(t, 4, SegmentACapacity(BrandMastercard))
	assert.Equal(t, 5, SegmentBCapacity(BrandAmex))
	assert.Equal(t, 4, SegmentBCapacity(BrandDiscover))
	assert.Equal(t, 15, MaxLength(BrandAmex))
	assert.Equal(t, 16, MaxLength(BrandVisa))
}

func TestGhostTemplate(t *testing.T) {
	assert.Equal(t, "1234 1234 1234 1234", GhostTemplate(BrandVisa))
	assert.Equal(t, "1234 123456 12345", GhostTemplate(BrandAmex))
}

func TestGhostSuffix(t *testing.T) {
	assert.Equal(t, "1234 1234 1234 1234", GhostSuffix("", BrandVisa))
	assert.Equal(t, "34 1234 1234", GhostSuffix("4111 11", BrandVisa))
	assert.Equal(t, "", GhostSuffix("4111 1111 1111 1111", BrandVisa))
	// Mask runes count as one consumed position each.
	assert.Equal(t, " 1234", GhostSuffix("4111 1111 ••••", BrandVisa))
}

func TestSegmentPlaceholder(t *testing.T) {
	assert.Equal(t, "1234", SegmentPlaceholder(0, 4))
	assert.Equal(t, "34", SegmentPlaceholder(2, 4))
	assert.Equal(t, "", SegmentPlaceholder(4, 4))
	assert.Equal(t, "3456", SegmentPlaceholder(2, 6))
}

func TestMaskNumber(t *testing.T) {
	assert.Equal(t, "411111******1111", MaskNumber("4111111111111111"))
	assert.Equal(t, "378282*****0005", MaskNumber("378282246310005"))
	assert.Equal(t, "41111111", MaskNumber("41111111"))
}
