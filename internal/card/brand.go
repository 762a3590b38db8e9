package card

import "regexp"

// Brand identifies a card network detected from the number prefix
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandDiners     Brand = "diners"
	BrandJCB        Brand = "jcb"
	BrandUnionPay   Brand = "unionpay"
	BrandUnknown    Brand = "unknown"
)

// brandPattern pairs a brand with its IIN prefix pattern
type brandPattern struct {
	brand   Brand
	pattern *regexp.Regexp
}

// Prefix patterns in priority order; first match wins. Discover's
// 622126-622925 range must be tested before UnionPay's generic 62.
var brandPatterns = []brandPattern{
	{BrandVisa, regexp.MustCompile(`^4`)},
	{BrandMastercard, regexp.MustCompile(`^(5[1-5]|222[1-9]|22[3-9][0-9]|2[3-6][0-9][0-9]|27[01][0-9]|2720)`)},
	{BrandAmex, regexp.MustCompile(`^3[47]`)},
	{BrandDiscover, regexp.MustCompile(`^(6011|65|64[4-9]|622(12[6-9]|1[3-9][0-9]|[2-8][0-9][0-9]|9[01][0-9]|92[0-5]))`)},
	{BrandDiners, regexp.MustCompile(`^3(0[0-5]|[689])`)},
	{BrandJCB, regexp.MustCompile(`^35(2[89]|[3-8][0-9])`)},
	{BrandUnionPay, regexp.MustCompile(`^62`)},
}

// DetectBrand identifies the card brand from a raw digit string.
// Partial prefixes that do not yet match any pattern yield BrandUnknown.
func DetectBrand(digits string) Brand {
	if digits == "" {
		return BrandUnknown
	}
	for _, bp := range brandPatterns {
		if bp.pattern.MatchString(digits) {
			return bp.brand
		}
	}
	return BrandUnknown
}
