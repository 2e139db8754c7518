package internal

import "time"

type QuickLink struct {
	Label     string `json:"label"`
	SectionID string `json:"section_id"`
}

type FooterService struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type FooterConfig struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"company_name"`
	AboutText   string          `json:"about_text"`
	Email       string          `json:"email"`
	Location    string          `json:"location"`
	GithubURL   string          `json:"github_url"`
	LinkedinURL string          `json:"linkedin_url"`
	TwitterURL  string          `json:"twitter_url"`
	QuickLinks  []QuickLink     `json:"quick_links"`
	Services    []FooterService `json:"services"`
	FooterText  string          `json:"footer_text"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FooterPatch is a partial footer update. Nil fields are left alone.
type FooterPatch struct {
	CompanyName *string          `json:"company_name"`
	AboutText   *string          `json:"about_text"`
	Email       *string          `json:"email"`
	Location    *string          `json:"location"`
	GithubURL   *string          `json:"github_url"`
	LinkedinURL *string          `json:"linkedin_url"`
	TwitterURL  *string          `json:"twitter_url"`
	QuickLinks  *[]QuickLink     `json:"quick_links"`
	Services    *[]FooterService `json:"services"`
	FooterText  *string          `json:"footer_text"`
}

type HeroContent struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Subtitle           string    `json:"subtitle"`
	Description        string    `json:"description"`
	CTAPrimaryText     string    `json:"cta_primary_text"`
	CTAPrimaryLink     string    `json:"cta_primary_link"`
	CTASecondaryText   string    `json:"cta_secondary_text"`
	CTASecondaryLink   string    `json:"cta_secondary_link"`
	BackgroundImageURL string    `json:"background_image_url"`
	IsActive           bool      `json:"is_active"`
	DisplayOrder       int       `json:"display_order"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type SiteSetting struct {
	ID           string    `json:"id"`
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	SettingType  string    `json:"setting_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ContactInfo struct {
	ID           string    `json:"id"`
	InfoType     string    `json:"info_type"`
	Label        string    `json:"label"`
	Value        string    `json:"value"`
	IsVisible    bool      `json:"is_visible"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SocialLink struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	URL          string    `json:"url"`
	IsVisible    bool      `json:"is_visible"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Skill struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Proficiency  int       `json:"proficiency"`
	IsVisible    bool      `json:"is_visible"`
	IsFeatured   bool      `json:"is_featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Achievement struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Value        string    `json:"value"`
	Description  string    `json:"description"`
	IsVisible    bool      `json:"is_visible"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *ContactInfo) recordID() string { return c.ID }
func (l *SocialLink) recordID() string  { return l.ID }
func (s *Skill) recordID() string       { return s.ID }
func (a *Achievement) recordID() string { return a.ID }

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// cmsEvent is published after every successful write.
type cmsEvent struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}
