package internal

import (
	"google.golang.org/genai"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/catalog"
)

// functionDeclarations lists the UI actions the model may ask the client
// to perform. Service names come from the catalog.
func functionDeclarations(cat *catalog.Catalog) []*genai.FunctionDeclaration {
	var serviceNames []string
	for _, s := range cat.All() {
		serviceNames = append(serviceNames, s.Name)
	}

	return []*genai.FunctionDeclaration{
		{
			Name:        "navigateToPage",
			Description: "Navigates to a different page on the website. Use this when user wants to visit blog, services page, FAQ page, or testimonials page (separate pages, not sections).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"page": {
						Type:        genai.TypeString,
						Description: "The page to navigate to",
						Enum:        []string{"blog", "services-page", "faq-page", "testimonials-page", "home"},
					},
				},
				Required: []string{"page"},
			},
		},
		{
			Name:        "scrollToSection",
			Description: "Scrolls the page to a specific section on the current page (usually homepage). Use this for sections like services, projects, contact, or about.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"section": {
						Type:        genai.TypeString,
						Description: "The section ID to scroll to",
						Enum:        []string{"services", "projects", "about", "contact", "testimonials", "faq", "home"},
					},
				},
				Required: []string{"section"},
			},
		},
		{
			Name:        "openContactForm",
			Description: "Opens the contact form modal. Use this when user wants to get in touch, start a project, or request a quote.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"prefillMessage": {
						Type:        genai.TypeString,
						Description: "Optional message to prefill in the contact form",
					},
				},
			},
		},
		{
			Name:        "showServiceDetails",
			Description: "Shows detailed information about a specific service. Use when user asks about a particular service type.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"serviceName": {
						Type:        genai.TypeString,
						Description: "The name of the service",
						Enum:        serviceNames,
					},
				},
				Required: []string{"serviceName"},
			},
		},
	}
}
