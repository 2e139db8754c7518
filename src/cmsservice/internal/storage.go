package internal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var footerTable = &table[FooterConfig]{
	name: "footer_config",
	columns: []string{"company_name", "about_text", "email", "location", "github_url", "linkedin_url",
		"twitter_url", "quick_links", "services", "footer_text", "is_active"},
	// Footer rows are seeded by migration and only ever patched.
	order: "created_at",
	dest: func(f *FooterConfig) []any {
		return []any{&f.ID, &f.CompanyName, &f.AboutText, &f.Email, &f.Location, &f.GithubURL, &f.LinkedinURL,
			&f.TwitterURL, jsonb[[]QuickLink]{&f.QuickLinks}, jsonb[[]FooterService]{&f.Services}, &f.FooterText, &f.IsActive,
			&f.CreatedAt, &f.UpdatedAt}
	},
}

var heroTable = &table[HeroContent]{
	name: "hero_content",
	columns: []string{"title", "subtitle", "description", "cta_primary_text", "cta_primary_link",
		"cta_secondary_text", "cta_secondary_link", "background_image_url", "is_active", "display_order"},
	order: "display_order, created_at",
	values: func(h *HeroContent) []any {
		return []any{h.Title, h.Subtitle, h.Description, h.CTAPrimaryText, h.CTAPrimaryLink,
			h.CTASecondaryText, h.CTASecondaryLink, h.BackgroundImageURL, h.IsActive, h.DisplayOrder}
	},
	dest: func(h *HeroContent) []any {
		return []any{&h.ID, &h.Title, &h.Subtitle, &h.Description, &h.CTAPrimaryText, &h.CTAPrimaryLink,
			&h.CTASecondaryText, &h.CTASecondaryLink, &h.BackgroundImageURL, &h.IsActive, &h.DisplayOrder,
			&h.CreatedAt, &h.UpdatedAt}
	},
}

var settingTable = &table[SiteSetting]{
	name:    "site_settings",
	columns: []string{"setting_key", "setting_value", "setting_type", "description"},
	order:   "setting_key",
	values: func(s *SiteSetting) []any {
		return []any{s.SettingKey, s.SettingValue, s.SettingType, s.Description}
	},
	dest: func(s *SiteSetting) []any {
		return []any{&s.ID, &s.SettingKey, &s.SettingValue, &s.SettingType, &s.Description, &s.CreatedAt, &s.UpdatedAt}
	},
}

var contactTable = &table[ContactInfo]{
	name:    "contact_info",
	columns: []string{"info_type", "label", "value", "is_visible", "display_order"},
	order:   "display_order, created_at",
	values: func(c *ContactInfo) []any {
		return []any{c.InfoType, c.Label, c.Value, c.IsVisible, c.DisplayOrder}
	},
	dest: func(c *ContactInfo) []any {
		return []any{&c.ID, &c.InfoType, &c.Label, &c.Value, &c.IsVisible, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt}
	},
}

var socialTable = &table[SocialLink]{
	name:    "social_links",
	columns: []string{"platform", "url", "is_visible", "display_order"},
	order:   "display_order, created_at",
	values: func(l *SocialLink) []any {
		return []any{l.Platform, l.URL, l.IsVisible, l.DisplayOrder}
	},
	dest: func(l *SocialLink) []any {
		return []any{&l.ID, &l.Platform, &l.URL, &l.IsVisible, &l.DisplayOrder, &l.CreatedAt, &l.UpdatedAt}
	},
}

var skillTable = &table[Skill]{
	name:    "skills",
	columns: []string{"name", "category", "proficiency", "is_visible", "is_featured", "display_order"},
	order:   "display_order, created_at",
	values: func(s *Skill) []any {
		return []any{s.Name, s.Category, s.Proficiency, s.IsVisible, s.IsFeatured, s.DisplayOrder}
	},
	dest: func(s *Skill) []any {
		return []any{&s.ID, &s.Name, &s.Category, &s.Proficiency, &s.IsVisible, &s.IsFeatured, &s.DisplayOrder,
			&s.CreatedAt, &s.UpdatedAt}
	},
}

var achievementTable = &table[Achievement]{
	name:    "achievements",
	columns: []string{"label", "value", "description", "is_visible", "display_order"},
	order:   "display_order, created_at",
	values: func(a *Achievement) []any {
		return []any{a.Label, a.Value, a.Description, a.IsVisible, a.DisplayOrder}
	},
	dest: func(a *Achievement) []any {
		return []any{&a.ID, &a.Label, &a.Value, &a.Description, &a.IsVisible, &a.DisplayOrder, &a.CreatedAt, &a.UpdatedAt}
	},
}

// CMSStorage holds the single-purpose resources. The plain list resources
// go through Collection.
type CMSStorage interface {
	ActiveFooter(ctx context.Context) (*FooterConfig, error)
	UpdateFooter(ctx context.Context, id string, patch *FooterPatch) (*FooterConfig, error)

	ListHeroes(ctx context.Context) ([]*HeroContent, error)
	ActiveHero(ctx context.Context) (*HeroContent, error)
	CreateHero(ctx context.Context, h *HeroContent) (*HeroContent, error)
	UpdateHero(ctx context.Context, id string, h *HeroContent) (*HeroContent, error)
	DeleteHero(ctx context.Context, id string) error
	ActivateHero(ctx context.Context, id string) (*HeroContent, error)

	ListSettings(ctx context.Context) ([]*SiteSetting, error)
	CreateSetting(ctx context.Context, s *SiteSetting) (*SiteSetting, error)
	UpdateSetting(ctx context.Context, key, value string) (*SiteSetting, error)
	DeleteSetting(ctx context.Context, key string) error
}

type cmsStorage struct {
	db *sql.DB
}

func NewCMSStorage(db *sql.DB) CMSStorage {
	return &cmsStorage{db: db}
}

func (s *cmsStorage) ActiveFooter(ctx context.Context) (*FooterConfig, error) {
	f, err := footerTable.get(ctx, s.db, "is_active = TRUE")
	if err != nil {
		return nil, err
	}
	return normalizeFooter(f), nil
}

// UpdateFooter writes only the fields set in patch.
func (s *cmsStorage) UpdateFooter(ctx context.Context, id string, patch *FooterPatch) (*FooterConfig, error) {

	var (
		set  []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.CompanyName != nil {
		add("company_name", *patch.CompanyName)
	}
	if patch.AboutText != nil {
		add("about_text", *patch.AboutText)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.GithubURL != nil {
		add("github_url", *patch.GithubURL)
	}
	if patch.LinkedinURL != nil {
		add("linkedin_url", *patch.LinkedinURL)
	}
	if patch.TwitterURL != nil {
		add("twitter_url", *patch.TwitterURL)
	}
	if patch.QuickLinks != nil {
		links := nonNil(*patch.QuickLinks)
		add("quick_links", jsonb[[]QuickLink]{&links})
	}
	if patch.Services != nil {
		services := nonNil(*patch.Services)
		add("services", jsonb[[]FooterService]{&services})
	}
	if patch.FooterText != nil {
		add("footer_text", *patch.FooterText)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE footer_config SET %s WHERE id = $%d RETURNING %s",
		strings.Join(append(set, "updated_at = now()"), ", "), len(args), footerTable.selectList())

	f, err := footerTable.scanOne(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return normalizeFooter(f), nil
}

func normalizeFooter(f *FooterConfig) *FooterConfig {
	f.QuickLinks = nonNil(f.QuickLinks)
	f.Services = nonNil(f.Services)
	return f
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *cmsStorage) ListHeroes(ctx context.Context) ([]*HeroContent, error) {
	return heroTable.list(ctx, s.db, "")
}

func (s *cmsStorage) ActiveHero(ctx context.Context) (*HeroContent, error) {
	return heroTable.get(ctx, s.db, "is_active = TRUE")
}

func (s *cmsStorage) CreateHero(ctx context.Context, h *HeroContent) (*HeroContent, error) {
	return withTx(ctx, s.db, func(tx *sql.Tx) (*HeroContent, error) {
		if h.IsActive {
			if err := deactivateHeroes(ctx, tx, ""); err != nil {
				return nil, err
			}
		}
		return heroTable.insert(ctx, tx, h)
	})
}

func (s *cmsStorage) UpdateHero(ctx context.Context, id string, h *HeroContent) (*HeroContent, error) {
	return withTx(ctx, s.db, func(tx *sql.Tx) (*HeroContent, error) {
		if h.IsActive {
			if err := deactivateHeroes(ctx, tx, id); err != nil {
				return nil, err
			}
		}
		return heroTable.update(ctx, tx, id, h)
	})
}

func (s *cmsStorage) DeleteHero(ctx context.Context, id string) error {
	return heroTable.delete(ctx, s.db, "id = $1", id)
}

// ActivateHero makes id the only active hero.
func (s *cmsStorage) ActivateHero(ctx context.Context, id string) (*HeroContent, error) {
	return withTx(ctx, s.db, func(tx *sql.Tx) (*HeroContent, error) {
		if err := deactivateHeroes(ctx, tx, id); err != nil {
			return nil, err
		}
		query := fmt.Sprintf("UPDATE hero_content SET is_active = TRUE, updated_at = now() WHERE id = $1 RETURNING %s",
			heroTable.selectList())
		return heroTable.scanOne(tx.QueryRowContext(ctx, query, id))
	})
}

func deactivateHeroes(ctx context.Context, tx dbtx, except string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE hero_content SET is_active = FALSE, updated_at = now() WHERE is_active = TRUE AND id::text <> $1",
		except)
	return err
}

func (s *cmsStorage) ListSettings(ctx context.Context) ([]*SiteSetting, error) {
	return settingTable.list(ctx, s.db, "")
}

func (s *cmsStorage) CreateSetting(ctx context.Context, setting *SiteSetting) (*SiteSetting, error) {
	return settingTable.insert(ctx, s.db, setting)
}

func (s *cmsStorage) UpdateSetting(ctx context.Context, key, value string) (*SiteSetting, error) {
	query := fmt.Sprintf("UPDATE site_settings SET setting_value = $1, updated_at = now() WHERE setting_key = $2 RETURNING %s",
		settingTable.selectList())
	return settingTable.scanOne(s.db.QueryRowContext(ctx, query, value, key))
}

func (s *cmsStorage) DeleteSetting(ctx context.Context, key string) error {
	return settingTable.delete(ctx, s.db, "setting_key = $1", key)
}

// Collection is CRUD over one list resource with an is_visible flag.
type Collection[T any] struct {
	db    *sql.DB
	table *table[T]
}

func (c *Collection[T]) List(ctx context.Context, visibleOnly bool) ([]*T, error) {
	if visibleOnly {
		return c.table.list(ctx, c.db, "is_visible = TRUE")
	}
	return c.table.list(ctx, c.db, "")
}

func (c *Collection[T]) Create(ctx context.Context, v *T) (*T, error) {
	return c.table.insert(ctx, c.db, v)
}

func (c *Collection[T]) Update(ctx context.Context, id string, v *T) (*T, error) {
	return c.table.update(ctx, c.db, id, v)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.table.delete(ctx, c.db, "id = $1", id)
}

func NewContactStorage(db *sql.DB) *Collection[ContactInfo] {
	return &Collection[ContactInfo]{db: db, table: contactTable}
}

func NewSocialStorage(db *sql.DB) *Collection[SocialLink] {
	return &Collection[SocialLink]{db: db, table: socialTable}
}

func NewSkillStorage(db *sql.DB) *Collection[Skill] {
	return &Collection[Skill]{db: db, table: skillTable}
}

func NewAchievementStorage(db *sql.DB) *Collection[Achievement] {
	return &Collection[Achievement]{db: db, table: achievementTable}
}

func withTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	v, err := fn(tx)
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return v, nil
}
