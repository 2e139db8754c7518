package internal

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

var ErrUnknownRegion = errors.New("unknown region")

type GatewayName string

const (
	GatewayRazorpay GatewayName = "razorpay"
	GatewayPayPal   GatewayName = "paypal"
)

// Currency amounts are quoted in INR; ExchangeRate is INR per unit.
type Currency struct {
	Code         string  `yaml:"code" json:"code"`
	Symbol       string  `yaml:"symbol" json:"symbol"`
	ExchangeRate float64 `yaml:"exchangeRate" json:"exchangeRate"`
}

type Region struct {
	Name        string      `yaml:"-" json:"name"`
	Gateway     GatewayName `yaml:"gateway" json:"gateway"`
	Countries   []string    `yaml:"countries" json:"-"`
	PhoneRegion string      `yaml:"phoneRegion" json:"-"`
	Currency    Currency    `yaml:"currency" json:"currency"`
}

type Regions struct {
	Default string            `yaml:"default"`
	Regions map[string]Region `yaml:"regions"`
}

// DefaultRegions returns the embedded region table.
func DefaultRegions() (*Regions, error) {
	return LoadRegions(regionsYAML)
}

func LoadRegions(data []byte) (*Regions, error) {
	var r Regions
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}

	for name, region := range r.Regions {
		if region.Gateway != GatewayRazorpay && region.Gateway != GatewayPayPal {
			return nil, fmt.Errorf("region %s: unsupported gateway %q", name, region.Gateway)
		}
		if region.Currency.Code == "" || region.Currency.ExchangeRate <= 0 {
			return nil, fmt.Errorf("region %s: currency code and a positive exchange rate are required", name)
		}
		region.Name = name
		r.Regions[name] = region
	}

	if _, ok := r.Regions[r.Default]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownRegion, r.Default)
	}
	return &r, nil
}

// Check fails when active names a region that does not exist. An empty
// active is fine.
func (r *Regions) Check(active string) error {
	if active == "" {
		return nil
	}
	if _, ok := r.Regions[active]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, active)
	}
	return nil
}

// Resolve picks the region for a visitor. A configured active region wins,
// then the locale's country (en-IN, hi_IN), then the default.
func (r *Regions) Resolve(active, locale string) (Region, error) {
	if active != "" {
		region, ok := r.Regions[active]
		if !ok {
			return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, active)
		}
		return region, nil
	}

	if country := localeCountry(locale); country != "" {
		for _, region := range r.Regions {
			for _, c := range region.Countries {
				if strings.EqualFold(c, country) {
					return region, nil
				}
			}
		}
	}

	return r.Regions[r.Default], nil
}

// localeCountry returns the two letter region subtag of a BCP 47 or POSIX
// style locale, or "". Only the first entry of an Accept-Language list counts.
func localeCountry(locale string) string {
	if i := strings.IndexAny(locale, ".,;"); i >= 0 {
		locale = locale[:i]
	}
	parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '-' || r == '_' })
	for _, p := range parts[min(1, len(parts)):] {
		if len(p) == 2 {
			return strings.ToUpper(p)
		}
	}
	return ""
}

// Convert turns an INR amount into the region currency, rounded to cents.
func (c Currency) Convert(amountINR int64) float64 {
	return math.Round(float64(amountINR)/c.ExchangeRate*100) / 100
}

// Format renders an INR amount in the region currency, e.g. ₹5,000 or $60.24.
func (c Currency) Format(amountINR int64) string {
	if c.ExchangeRate == 1 {
		return c.Symbol + groupThousands(strconv.FormatInt(amountINR, 10))
	}

	s := strconv.FormatFloat(c.Convert(amountINR), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	return c.Symbol + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
