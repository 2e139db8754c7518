package internal

import (
	"regexp"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

type intentRule struct {
	pattern *regexp.Regexp
	pick    func(c *catalog.Catalog) []catalog.Service
}

func filterBy(names ...string) func(c *catalog.Catalog) []catalog.Service {
	return func(c *catalog.Catalog) []catalog.Service { return c.Filter(names...) }
}

// First match wins. "show all" sits above the general pricing rule,
// otherwise "show all services" would only ever see the top four.
var intentRules = []intentRule{
	{regexp.MustCompile(`(?i)portfolio|personal.*(website|site)`), filterBy("Portfolio", "Personal Brand")},
	{regexp.MustCompile(`(?i)ecommerce|e-commerce|online store|shop`), filterBy("E-Commerce")},
	{regexp.MustCompile(`(?i)saas|software.*service|subscription`), filterBy("SaaS")},
	{regexp.MustCompile(`(?i)business.*(website|site)`), filterBy("Business")},
	{regexp.MustCompile(`(?i)landing.*page|simple.*(website|site)`), filterBy("Landing")},
	{regexp.MustCompile(`(?i)show.*all|view.*all|see.*all.*service`), func(c *catalog.Catalog) []catalog.Service { return c.All() }},
	{regexp.MustCompile(`(?i)service|what.*offer|pricing|price|cost|how much|package|plan`), func(c *catalog.Catalog) []catalog.Service {
		all := c.All()
		if len(all) > 4 {
			return all[:4]
		}
		return all
	}},
}

// detectIntent returns the service cards worth showing next to a reply to
// message, or nil when the message is not about services.
func detectIntent(c *catalog.Catalog, message string) []catalog.Service {
	for _, rule := range intentRules {
		if rule.pattern.MatchString(message) {
			return rule.pick(c)
		}
	}
	return nil
}
