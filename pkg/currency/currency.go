// Package currency defines the closed set of currencies an account can be
// denominated in, together with their display metadata.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amirasaad/minibank/pkg/domain"
)

// Code is an ISO 4217 currency code restricted to the supported set.
// The zero value is not a valid code; obtain values through Parse or the
// exported constants.
type Code string

const (
	// RUB represents Russian Ruble, the base currency of the rate source.
	RUB Code = "RUB"
	// USD represents US Dollar.
	USD Code = "USD"
	// EUR represents Euro.
	EUR Code = "EUR"
)

const (
	// DefaultCurrency is used when an account is opened without a currency.
	DefaultCurrency = RUB
	// DefaultDecimals is the number of decimal places balances are kept at.
	DefaultDecimals = 2
)

// Meta holds currency-specific metadata.
type Meta struct {
	Code     Code   `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

var supported = map[Code]Meta{
	RUB: {Code: RUB, Name: "Russian Ruble", Symbol: "₽", Decimals: DefaultDecimals},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", Decimals: DefaultDecimals},
	EUR: {Code: EUR, Name: "Euro", Symbol: "€", Decimals: DefaultDecimals},
}

// Parse validates s against the supported set. Surrounding whitespace is
// ignored and the comparison is case-insensitive.
func Parse(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, s)
	}
	return c, nil
}

// MustParse is like Parse but panics on an invalid code.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValid reports whether c belongs to the supported set.
func (c Code) IsValid() bool {
	_, ok := supported[c]
	return ok
}

func (c Code) String() string {
	return string(c)
}

// Get returns metadata for c.
func Get(c Code) (Meta, error) {
	meta, ok := supported[c]
	if !ok {
		return Meta{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, string(c))
	}
	return meta, nil
}

// All returns the supported codes in lexical order.
func All() []Code {
	codes := make([]Code, 0, len(supported))
	for c := range supported {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// ListMeta returns metadata for every supported currency, ordered by code.
func ListMeta() []Meta {
	codes := All()
	metas := make([]Meta, 0, len(codes))
	for _, c := range codes {
		metas = append(metas, supported[c])
	}
	return metas
}
