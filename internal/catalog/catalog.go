// Package catalog holds the fixed list of service offerings shown on the
// site, offered in the chatbot and booked through checkout.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrServiceNotFound = errors.New("service not found")

// Service is one offering. Amounts are whole rupees; DepositAmount is zero
// for quote-only services, which cannot be booked.
type Service struct {
	Name          string   `json:"name" yaml:"name"`
	Price         string   `json:"price" yaml:"price"`
	TotalAmount   int64    `json:"totalAmount" yaml:"totalAmount"`
	DepositAmount int64    `json:"depositAmount" yaml:"depositAmount"`
	Timeline      string   `json:"timeline" yaml:"timeline"`
	Description   string   `json:"description" yaml:"description"`
	Features      []string `json:"features" yaml:"features"`
	CTAText       string   `json:"ctaText" yaml:"ctaText"`
	Popular       bool     `json:"popular,omitempty" yaml:"popular"`
}

// Bookable reports whether a deposit can be paid for s.
func (s Service) Bookable() bool {
	return s.DepositAmount > 0
}

var nonSlug = regexp.MustCompile(`\s+`)

// Slug is the lowercased name with runs of whitespace replaced by "_".
func (s Service) Slug() string {
	return nonSlug.ReplaceAllString(strings.ToLower(s.Name), "_")
}

// Catalog is an ordered, immutable list of services.
type Catalog struct {
	services []Service
}

// New checks every service and returns the catalog. Total must never be
// below the deposit.
func New(services []Service) (*Catalog, error) {
	seen := make(map[string]bool, len(services))
	for _, s := range services {
		if s.Name == "" {
			return nil, errors.New("service name must be provided")
		}
		if seen[strings.ToLower(s.Name)] {
			return nil, fmt.Errorf("duplicate service %q", s.Name)
		}
		seen[strings.ToLower(s.Name)] = true

		if s.DepositAmount < 0 || s.TotalAmount < 0 {
			return nil, fmt.Errorf("service %q: amounts must not be negative", s.Name)
		}
		if s.Bookable() && s.TotalAmount < s.DepositAmount {
			return nil, fmt.Errorf("service %q: total %d is below deposit %d", s.Name, s.TotalAmount, s.DepositAmount)
		}
	}

	cp := make([]Service, len(services))
	copy(cp, services)
	return &Catalog{services: cp}, nil
}

// All returns a copy of every service in display order.
func (c *Catalog) All() []Service {
	cp := make([]Service, len(c.services))
	copy(cp, c.services)
	return cp
}

// Lookup finds a service by name, ignoring case.
func (c *Catalog) Lookup(name string) (Service, error) {
	for _, s := range c.services {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Service{}, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
}

// Filter returns the services whose name contains any of the substrings.
func (c *Catalog) Filter(substrings ...string) []Service {
	var out []Service
	for _, s := range c.services {
		for _, sub := range substrings {
			if strings.Contains(s.Name, sub) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Default returns the catalog the site sells.
func Default() *Catalog {
	c, err := New(defaultServices)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultServices = []Service{
	{
		Name:          "Landing Page",
		Price:         "₹15,000",
		TotalAmount:   15000,
		DepositAmount: 5000,
		Timeline:      "1-2 weeks",
		Description:   "1-2 page website, modern design, mobile responsive",
		Features:      []string{"Responsive Design", "Contact Form", "Google Analytics", "SSL Certificate", "Fast Loading", "Basic SEO"},
		CTAText:       "Book Now - Pay ₹5,000 Deposit",
	},
	{
		Name:          "Portfolio Website",
		Price:         "₹20,000",
		TotalAmount:   20000,
		DepositAmount: 7000,
		Timeline:      "2-3 weeks",
		Description:   "Professional portfolio for freelancers, designers & developers",
		Features:      []string{"Project Gallery", "About & Skills", "Resume Download", "Contact Form", "Testimonials", "Mobile Responsive"},
		CTAText:       "Book Now - Pay ₹7,000 Deposit",
	},
	{
		Name:          "Business Website",
		Price:         "₹30,000",
		TotalAmount:   30000,
		DepositAmount: 10000,
		Timeline:      "3-4 weeks",
		Description:   "5-10 pages, professional design, CMS integration",
		Features:      []string{"5-10 Pages", "CMS Integration", "Blog Section", "Advanced Analytics", "SEO Optimization", "Contact Forms"},
		CTAText:       "Book Now - Pay ₹10,000 Deposit",
		Popular:       true,
	},
	{
		Name:          "Personal Brand Website",
		Price:         "₹25,000",
		TotalAmount:   25000,
		DepositAmount: 8000,
		Timeline:      "3 weeks",
		Description:   "Build your personal brand for coaches & consultants",
		Features:      []string{"About & Services", "Blog/Articles", "Email Newsletter", "Social Media Integration", "Booking/Calendar", "SEO & Analytics"},
		CTAText:       "Book Now - Pay ₹8,000 Deposit",
	},
	{
		Name:          "E-Commerce Store",
		Price:         "₹50,000",
		TotalAmount:   50000,
		DepositAmount: 15000,
		Timeline:      "4-6 weeks",
		Description:   "Complete online store with payment gateway & admin panel",
		Features:      []string{"Product Catalog", "Shopping Cart", "Razorpay/PayPal", "Inventory Management", "Order Tracking", "Admin Dashboard"},
		CTAText:       "Book Now - Pay ₹15,000 Deposit",
	},
	{
		Name:          "SaaS Product",
		Price:         "₹75,000+",
		TotalAmount:   75000,
		DepositAmount: 20000,
		Timeline:      "6-10 weeks",
		Description:   "Full-featured SaaS platform with subscriptions",
		Features:      []string{"User Authentication", "Subscription Billing", "Admin & User Dashboards", "API Integration", "Database Design", "Scalable Architecture"},
		CTAText:       "Book Now - Pay ₹20,000 Deposit",
	},
	{
		Name:          "Web Application",
		Price:         "₹60,000+",
		TotalAmount:   60000,
		DepositAmount: 18000,
		Timeline:      "5-8 weeks",
		Description:   "Custom web applications with complex features",
		Features:      []string{"Custom Requirements", "Database & Backend", "User Management", "Real-time Features", "Third-party Integrations", "Responsive Design"},
		CTAText:       "Book Now - Pay ₹18,000 Deposit",
	},
	{
		Name:        "Custom Development",
		Price:       "₹500-₹1000/hour",
		Timeline:    "Flexible",
		Description: "Hourly-based custom projects & maintenance",
		Features:    []string{"Custom Requirements", "Full-stack Development", "API Integration", "Bug Fixes & Updates", "Code Reviews", "Ongoing Support"},
		CTAText:     "Get Quote - Discuss Project",
	},
}
