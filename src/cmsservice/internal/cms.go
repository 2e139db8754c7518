package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

// Public cache keys, one per resource.
const (
	resourceFooter       = "footer"
	resourceHero         = "hero"
	resourceSettings     = "settings"
	resourceContact      = "contact_info"
	resourceSocial       = "social_links"
	resourceSkills       = "skills"
	resourceAchievements = "achievements"
)

// notifier runs after every successful write.
type notifier struct {
	cache  *Cache
	events platform.Publisher
	now    func() time.Time
}

func (n *notifier) changed(ctx context.Context, resource, action, id string) {
	n.cache.Invalidate(ctx, resource)

	key := fmt.Sprintf("cms.%s.%s", resource, action)
	event := &cmsEvent{Resource: resource, Action: action, ID: id, At: n.now()}
	if err := n.events.Publish(ctx, key, event); err != nil {
		slog.Error("publish cms event", "key", key, "err", err)
	}
}

type CMSService struct {
	*notifier
	store CMSStorage

	Contacts     *Resource[ContactInfo, *ContactInfo]
	Socials      *Resource[SocialLink, *SocialLink]
	Skills       *Resource[Skill, *Skill]
	Achievements *Resource[Achievement, *Achievement]
}

type Collections struct {
	Contacts     *Collection[ContactInfo]
	Socials      *Collection[SocialLink]
	Skills       *Collection[Skill]
	Achievements *Collection[Achievement]
}

func NewCMSService(store CMSStorage, collections *Collections, cache *Cache, events platform.Publisher) *CMSService {
	n := &notifier{cache: cache, events: events, now: time.Now}
	return &CMSService{
		notifier: n,
		store:    store,

		Contacts: &Resource[ContactInfo, *ContactInfo]{
			name: resourceContact, store: collections.Contacts, notifier: n,
			defaults: func(c *ContactInfo) {
				if c.InfoType == "" {
					c.InfoType = "other"
				}
			},
		},
		Socials:      &Resource[SocialLink, *SocialLink]{name: resourceSocial, store: collections.Socials, notifier: n},
		Skills:       &Resource[Skill, *Skill]{name: resourceSkills, store: collections.Skills, notifier: n},
		Achievements: &Resource[Achievement, *Achievement]{name: resourceAchievements, store: collections.Achievements, notifier: n},
	}
}

func (x *CMSService) Footer(ctx context.Context) (*FooterConfig, error) {
	return cached(ctx, x.cache, resourceFooter, x.activeFooter)
}

func (x *CMSService) activeFooter(ctx context.Context) (*FooterConfig, error) {
	f, err := x.store.ActiveFooter(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, errNoActiveFooter
	}
	return f, err
}

// UpdateFooter applies patch to the active footer.
func (x *CMSService) UpdateFooter(ctx context.Context, patch *FooterPatch) (*FooterConfig, error) {

	patch.sanitize()
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	current, err := x.activeFooter(ctx)
	if err != nil {
		return nil, err
	}

	f, err := x.store.UpdateFooter(ctx, current.ID, patch)
	if err != nil {
		slog.Error("update footer", "id", current.ID, "err", err)
		return nil, err
	}

	x.changed(ctx, resourceFooter, "updated", f.ID)
	return f, nil
}

func (x *CMSService) AddQuickLink(ctx context.Context, link QuickLink) (*FooterConfig, error) {
	current, err := x.activeFooter(ctx)
	if err != nil {
		return nil, err
	}

	links := append(current.QuickLinks, link)
	return x.UpdateFooter(ctx, &FooterPatch{QuickLinks: &links})
}

func (x *CMSService) RemoveQuickLink(ctx context.Context, sectionID string) (*FooterConfig, error) {
	current, err := x.activeFooter(ctx)
	if err != nil {
		return nil, err
	}

	links := make([]QuickLink, 0, len(current.QuickLinks))
	for _, l := range current.QuickLinks {
		if l.SectionID != sectionID {
			links = append(links, l)
		}
	}
	if len(links) == len(current.QuickLinks) {
		return nil, ErrNotFound
	}
	return x.UpdateFooter(ctx, &FooterPatch{QuickLinks: &links})
}

func (x *CMSService) AddFooterService(ctx context.Context, svc FooterService) (*FooterConfig, error) {
	current, err := x.activeFooter(ctx)
	if err != nil {
		return nil, err
	}

	services := append(current.Services, svc)
	return x.UpdateFooter(ctx, &FooterPatch{Services: &services})
}

func (x *CMSService) RemoveFooterService(ctx context.Context, name string) (*FooterConfig, error) {
	current, err := x.activeFooter(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]FooterService, 0, len(current.Services))
	for _, s := range current.Services {
		if s.Name != name {
			services = append(services, s)
		}
	}
	if len(services) == len(current.Services) {
		return nil, ErrNotFound
	}
	return x.UpdateFooter(ctx, &FooterPatch{Services: &services})
}

func (x *CMSService) Heroes(ctx context.Context) ([]*HeroContent, error) {
	return x.store.ListHeroes(ctx)
}

// ActiveHero is the hero shown on the home page.
func (x *CMSService) ActiveHero(ctx context.Context) (*HeroContent, error) {
	return cached(ctx, x.cache, resourceHero, x.store.ActiveHero)
}

func (x *CMSService) CreateHero(ctx context.Context, h *HeroContent) (*HeroContent, error) {

	h.sanitize()
	if err := validateStruct(h); err != nil {
		return nil, err
	}

	created, err := x.store.CreateHero(ctx, h)
	if err != nil {
		return nil, err
	}

	x.changed(ctx, resourceHero, "created", created.ID)
	return created, nil
}

func (x *CMSService) UpdateHero(ctx context.Context, id string, h *HeroContent) (*HeroContent, error) {

	h.sanitize()
	if err := validateStruct(h); err != nil {
		return nil, err
	}

	updated, err := x.store.UpdateHero(ctx, id, h)
	if err != nil {
		return nil, err
	}

	x.changed(ctx, resourceHero, "updated", id)
	return updated, nil
}

func (x *CMSService) DeleteHero(ctx context.Context, id string) error {
	if err := x.store.DeleteHero(ctx, id); err != nil {
		return err
	}
	x.changed(ctx, resourceHero, "deleted", id)
	return nil
}

func (x *CMSService) ActivateHero(ctx context.Context, id string) (*HeroContent, error) {
	h, err := x.store.ActivateHero(ctx, id)
	if err != nil {
		return nil, err
	}
	x.changed(ctx, resourceHero, "activated", id)
	return h, nil
}

func (x *CMSService) Settings(ctx context.Context) ([]*SiteSetting, error) {
	return cached(ctx, x.cache, resourceSettings, x.store.ListSettings)
}

func (x *CMSService) CreateSetting(ctx context.Context, s *SiteSetting) (*SiteSetting, error) {

	if s.SettingType == "" {
		s.SettingType = "text"
	}
	s.sanitize()
	if err := validateStruct(s); err != nil {
		return nil, err
	}

	created, err := x.store.CreateSetting(ctx, s)
	if err != nil {
		return nil, err
	}

	x.changed(ctx, resourceSettings, "created", created.SettingKey)
	return created, nil
}

func (x *CMSService) UpdateSetting(ctx context.Context, key, value string) (*SiteSetting, error) {
	updated, err := x.store.UpdateSetting(ctx, key, SanitizeText(value))
	if err != nil {
		return nil, err
	}
	x.changed(ctx, resourceSettings, "updated", key)
	return updated, nil
}

func (x *CMSService) DeleteSetting(ctx context.Context, key string) error {
	if err := x.store.DeleteSetting(ctx, key); err != nil {
		return err
	}
	x.changed(ctx, resourceSettings, "deleted", key)
	return nil
}

// Resource is a visible-flagged list such as skills or social links.
type Resource[T any, P interface {
	*T
	sanitize()
	recordID() string
}] struct {
	*notifier
	name     string
	store    *Collection[T]
	defaults func(P)
}

// Public lists visible entries.
func (r *Resource[T, P]) Public(ctx context.Context) ([]*T, error) {
	return cached(ctx, r.cache, r.name, func(ctx context.Context) ([]*T, error) {
		return r.store.List(ctx, true)
	})
}

func (r *Resource[T, P]) All(ctx context.Context) ([]*T, error) {
	return r.store.List(ctx, false)
}

func (r *Resource[T, P]) prepare(v P) error {
	if r.defaults != nil {
		r.defaults(v)
	}
	v.sanitize()
	return validateStruct(v)
}

func (r *Resource[T, P]) Create(ctx context.Context, v P) (*T, error) {
	if err := r.prepare(v); err != nil {
		return nil, err
	}

	created, err := r.store.Create(ctx, (*T)(v))
	if err != nil {
		return nil, err
	}

	r.changed(ctx, r.name, "created", P(created).recordID())
	return created, nil
}

func (r *Resource[T, P]) Update(ctx context.Context, id string, v P) (*T, error) {
	if err := r.prepare(v); err != nil {
		return nil, err
	}

	updated, err := r.store.Update(ctx, id, (*T)(v))
	if err != nil {
		return nil, err
	}

	r.changed(ctx, r.name, "updated", id)
	return updated, nil
}

func (r *Resource[T, P]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.changed(ctx, r.name, "deleted", id)
	return nil
}
