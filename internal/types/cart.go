package types

import (
	"fmt"
	"strings"
)

// Money is a decimal amount as the commerce backend reports it. Amounts stay
// strings end to end; arithmetic happens in minor units via ParseAmountMinor.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// ProductRef is the minimal product snapshot a cart line carries so the UI
// can render it without a catalog re-fetch.
type ProductRef struct {
	ID           string `json:"id"`
	Handle       string `json:"handle"`
	Title        string `json:"title"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ImageAltText string `json:"imageAltText,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CartLine is one variant-quantity pairing in the cart. VariantID is the
// unique key within a cart; Quantity is always >= 1 for a line that exists.
type CartLine struct {
	VariantID       string           `json:"variantId"`
	Product         ProductRef       `json:"product"`
	VariantTitle    string           `json:"variantTitle"`
	Price           Money            `json:"price"`
	Quantity        int              `json:"quantity"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
}

// CartSnapshot is the normalized remote cart truth returned by every cart
// mutation and read. Lines are in the backend's display order.
type CartSnapshot struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	CheckoutURL string     `json:"checkoutUrl"`
}

// ParseAmountMinor converts a decimal amount string ("10", "10.5", "10.50")
// into minor units (cents). Amounts with more than two fraction digits are
// rejected; the storefront currencies are all two-decimal.
func ParseAmountMinor(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q: more than two fraction digits", amount)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var minor int64
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("amount %q: not a decimal number", amount)
			}
			minor = minor*10 + int64(r-'0')
		}
	}
	if neg {
		minor = -minor
	}
	return minor, nil
}

// FormatAmountMinor renders minor units back into a two-decimal string.
func FormatAmountMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
