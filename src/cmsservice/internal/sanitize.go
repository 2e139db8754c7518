package internal

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	scriptBlock  = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	jsProtocol   = regexp.MustCompile(`(?i)javascript:`)
	eventHandler = regexp.MustCompile(`(?i)on\w+\s*=\s*["'][^"']*["']`)
	notPhone     = regexp.MustCompile(`[^0-9+\-() ]`)
)

// SanitizeText strips all markup from s and keeps the text. Entities the
// policy escapes are decoded again since the value is stored as plain text.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(strictPolicy.Sanitize(s))
	clean = scriptBlock.ReplaceAllString(clean, "")
	clean = jsProtocol.ReplaceAllString(clean, "")
	clean = eventHandler.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

// SanitizeEmail also drops CR and LF so the value cannot inject headers.
func SanitizeEmail(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(SanitizeText(s))
}

func SanitizePhone(s string) string {
	return strings.TrimSpace(notPhone.ReplaceAllString(s, ""))
}

func sanitizeAll(fields ...*string) {
	for _, f := range fields {
		*f = SanitizeText(*f)
	}
}

func sanitizeOptional(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = SanitizeText(*f)
		}
	}
}

func (p *FooterPatch) sanitize() {
	sanitizeOptional(p.CompanyName, p.AboutText, p.Location, p.GithubURL, p.LinkedinURL, p.TwitterURL, p.FooterText)
	if p.Email != nil {
		*p.Email = SanitizeEmail(*p.Email)
	}
	if p.QuickLinks != nil {
		for i := range *p.QuickLinks {
			(*p.QuickLinks)[i].sanitize()
		}
	}
	if p.Services != nil {
		for i := range *p.Services {
			(*p.Services)[i].sanitize()
		}
	}
}

func (l *QuickLink) sanitize() {
	sanitizeAll(&l.Label, &l.SectionID)
}

func (s *FooterService) sanitize() {
	sanitizeAll(&s.Name, &s.Price)
}

func (h *HeroContent) sanitize() {
	sanitizeAll(&h.Title, &h.Subtitle, &h.Description,
		&h.CTAPrimaryText, &h.CTAPrimaryLink, &h.CTASecondaryText, &h.CTASecondaryLink,
		&h.BackgroundImageURL)
}

func (s *SiteSetting) sanitize() {
	sanitizeAll(&s.SettingKey, &s.SettingValue, &s.SettingType, &s.Description)
}

func (c *ContactInfo) sanitize() {
	sanitizeAll(&c.InfoType, &c.Label)
	switch c.InfoType {
	case "email":
		c.Value = SanitizeEmail(c.Value)
	case "phone", "whatsapp":
		c.Value = SanitizePhone(c.Value)
	default:
		c.Value = SanitizeText(c.Value)
	}
}

func (l *SocialLink) sanitize() {
	sanitizeAll(&l.Platform, &l.URL)
}

func (s *Skill) sanitize() {
	sanitizeAll(&s.Name, &s.Category)
}

func (a *Achievement) sanitize() {
	sanitizeAll(&a.Label, &a.Value, &a.Description)
}
