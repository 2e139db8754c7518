package internal

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateFooter(t *testing.T) {
	s, store, _, events := newTestService(t)
	current := testFooter()

	store.On("ActiveFooter", mock.Anything).Return(current, nil).Once()
	store.On("UpdateFooter", mock.Anything, current.ID, mock.MatchedBy(func(p *FooterPatch) bool {
		return p.AboutText != nil && *p.AboutText == "We build websites" &&
			p.Email != nil && *p.Email == "team@example.com" &&
			p.CompanyName == nil
	})).Return(current, nil).Once()

	about := `<b>We build</b> websites<script>alert(1)</script>`
	email := "team@example.com\r\n"
	_, err := s.UpdateFooter(context.Background(), &FooterPatch{AboutText: &about, Email: &email})

	require.NoError(t, err)
	store.AssertExpectations(t)
	events.AssertCalled(t, "Publish", mock.Anything, "cms.footer.updated", &cmsEvent{
		Resource: resourceFooter, Action: "updated", ID: current.ID, At: fixedTime,
	})
}

func TestUpdateFooter_Invalid(t *testing.T) {
	s, store, _, _ := newTestService(t)

	bad := "not an email"
	_, err := s.UpdateFooter(context.Background(), &FooterPatch{Email: &bad})

	var valErrs myValidatorErrs
	require.ErrorAs(t, err, &valErrs)
	assert.Equal(t, "email", valErrs[0].Field)
	store.AssertNotCalled(t, "ActiveFooter", mock.Anything)
}

func TestUpdateFooter_NoActiveFooter(t *testing.T) {
	s, store, _, _ := newTestService(t)
	store.On("ActiveFooter", mock.Anything).Return(nil, ErrNotFound)

	text := "hi"
	_, err := s.UpdateFooter(context.Background(), &FooterPatch{FooterText: &text})

	assert.ErrorIs(t, err, errNoActiveFooter)
}

func TestQuickLinks(t *testing.T) {
	t.Run("add appends", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		current := testFooter()

		store.On("ActiveFooter", mock.Anything).Return(current, nil)
		store.On("UpdateFooter", mock.Anything, current.ID, mock.MatchedBy(func(p *FooterPatch) bool {
			return p.QuickLinks != nil && len(*p.QuickLinks) == 3 && (*p.QuickLinks)[2].SectionID == "contact"
		})).Return(current, nil).Once()

		_, err := s.AddQuickLink(context.Background(), QuickLink{Label: "Contact", SectionID: "contact"})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("add rejects empty label", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		store.On("ActiveFooter", mock.Anything).Return(testFooter(), nil)

		_, err := s.AddQuickLink(context.Background(), QuickLink{SectionID: "contact"})

		var valErrs myValidatorErrs
		require.ErrorAs(t, err, &valErrs)
		store.AssertNotCalled(t, "UpdateFooter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remove filters by section", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		current := testFooter()

		store.On("ActiveFooter", mock.Anything).Return(current, nil)
		store.On("UpdateFooter", mock.Anything, current.ID, mock.MatchedBy(func(p *FooterPatch) bool {
			return p.QuickLinks != nil && len(*p.QuickLinks) == 1 && (*p.QuickLinks)[0].SectionID == "services"
		})).Return(current, nil).Once()

		_, err := s.RemoveQuickLink(context.Background(), "home")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("remove unknown section", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		store.On("ActiveFooter", mock.Anything).Return(testFooter(), nil)

		_, err := s.RemoveQuickLink(context.Background(), "nowhere")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFooterServices(t *testing.T) {
	s, store, _, _ := newTestService(t)
	current := testFooter()

	store.On("ActiveFooter", mock.Anything).Return(current, nil)
	store.On("UpdateFooter", mock.Anything, current.ID, mock.MatchedBy(func(p *FooterPatch) bool {
		return p.Services != nil && len(*p.Services) == 2
	})).Return(current, nil).Once()
	store.On("UpdateFooter", mock.Anything, current.ID, mock.MatchedBy(func(p *FooterPatch) bool {
		return p.Services != nil && len(*p.Services) == 0
	})).Return(current, nil).Once()

	_, err := s.AddFooterService(context.Background(), FooterService{Name: "SaaS Product", Price: "₹75,000+"})
	require.NoError(t, err)

	_, err = s.RemoveFooterService(context.Background(), "Landing Page")
	require.NoError(t, err)

	_, err = s.RemoveFooterService(context.Background(), "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertExpectations(t)
}

func TestCreateHero(t *testing.T) {
	s, store, _, events := newTestService(t)

	in := &HeroContent{Title: ` <i>Websites</i> that sell `, CTAPrimaryLink: "javascript:alert(1)", IsActive: true}
	store.On("CreateHero", mock.Anything, mock.MatchedBy(func(h *HeroContent) bool {
		return h.Title == "Websites that sell" && h.CTAPrimaryLink == "alert(1)"
	})).Return(&HeroContent{ID: "hero-1", Title: "Websites that sell", IsActive: true}, nil).Once()

	h, err := s.CreateHero(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "hero-1", h.ID)
	events.AssertCalled(t, "Publish", mock.Anything, "cms.hero.created", mock.Anything)
}

func TestCreateHero_TitleRequired(t *testing.T) {
	s, store, _, _ := newTestService(t)

	_, err := s.CreateHero(context.Background(), &HeroContent{Title: "<p></p>"})

	var valErrs myValidatorErrs
	require.ErrorAs(t, err, &valErrs)
	assert.Equal(t, myValidatorErr{Field: "title", Msg: "must be provided"}, valErrs[0])
	store.AssertNotCalled(t, "CreateHero", mock.Anything, mock.Anything)
}

func TestActivateHero(t *testing.T) {
	s, store, _, events := newTestService(t)

	store.On("ActivateHero", mock.Anything, "hero-2").Return(&HeroContent{ID: "hero-2", IsActive: true}, nil)
	store.On("ActivateHero", mock.Anything, "missing").Return(nil, ErrNotFound)

	h, err := s.ActivateHero(context.Background(), "hero-2")
	require.NoError(t, err)
	assert.True(t, h.IsActive)
	events.AssertCalled(t, "Publish", mock.Anything, "cms.hero.activated", mock.Anything)

	_, err = s.ActivateHero(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettings(t *testing.T) {
	t.Run("create defaults type", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		store.On("CreateSetting", mock.Anything, mock.MatchedBy(func(in *SiteSetting) bool {
			return in.SettingType == "text" && in.SettingKey == "hero_badge"
		})).Return(&SiteSetting{ID: "set-1", SettingKey: "hero_badge"}, nil)

		_, err := s.CreateSetting(context.Background(), &SiteSetting{SettingKey: "hero_badge", SettingValue: "New"})
		require.NoError(t, err)
	})

	t.Run("create rejects bad key", func(t *testing.T) {
		s, _, _, _ := newTestService(t)

		_, err := s.CreateSetting(context.Background(), &SiteSetting{SettingKey: "Hero Badge"})

		var valErrs myValidatorErrs
		require.ErrorAs(t, err, &valErrs)
		assert.Equal(t, "setting_key", valErrs[0].Field)
	})

	t.Run("duplicate key", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		store.On("CreateSetting", mock.Anything, mock.Anything).Return(nil, ErrConflict)

		_, err := s.CreateSetting(context.Background(), &SiteSetting{SettingKey: "site_title"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("update sanitises value", func(t *testing.T) {
		s, store, _, _ := newTestService(t)
		store.On("UpdateSetting", mock.Anything, "site_title", "Sudharsan Builds").
			Return(&SiteSetting{SettingKey: "site_title", SettingValue: "Sudharsan Builds"}, nil)

		got, err := s.UpdateSetting(context.Background(), "site_title", `<h1 onclick="x()">Sudharsan Builds</h1>`)

		require.NoError(t, err)
		assert.Equal(t, "Sudharsan Builds", got.SettingValue)
	})
}

func TestResource_Create(t *testing.T) {
	s, _, sqlMock, events := newTestService(t)

	rows := sqlmock.NewRows([]string{"id", "info_type", "label", "value", "is_visible", "display_order", "created_at", "updated_at"}).
		AddRow("c-1", "phone", "Phone", "+91 98765 43210", true, 0, fixedTime, fixedTime)
	sqlMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contact_info (id, info_type, label, value, is_visible, display_order) VALUES ($1, $2, $3, $4, $5, $6)")).
		WithArgs(sqlmock.AnyArg(), "phone", "Phone", "+91 98765 43210", true, 0).
		WillReturnRows(rows)

	c, err := s.Contacts.Create(context.Background(), &ContactInfo{
		InfoType: "phone", Label: "Phone", Value: "+91 98765 43210 ext.", IsVisible: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	events.AssertCalled(t, "Publish", mock.Anything, "cms.contact_info.created", &cmsEvent{
		Resource: resourceContact, Action: "created", ID: "c-1", At: fixedTime,
	})
}

func TestResource_CreateDefaultsInfoType(t *testing.T) {
	s, _, sqlMock, _ := newTestService(t)

	rows := sqlmock.NewRows([]string{"id", "info_type", "label", "value", "is_visible", "display_order", "created_at", "updated_at"}).
		AddRow("c-2", "other", "Hours", "Mon-Fri", true, 1, fixedTime, fixedTime)
	sqlMock.ExpectQuery("INSERT INTO contact_info").
		WithArgs(sqlmock.AnyArg(), "other", "Hours", "Mon-Fri", true, 1).
		WillReturnRows(rows)

	_, err := s.Contacts.Create(context.Background(), &ContactInfo{Label: "Hours", Value: "Mon-Fri", IsVisible: true, DisplayOrder: 1})

	require.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResource_Validation(t *testing.T) {
	s, _, sqlMock, _ := newTestService(t)

	_, err := s.Skills.Create(context.Background(), &Skill{Name: "Go", Category: "Backend", Proficiency: 120})

	var valErrs myValidatorErrs
	require.ErrorAs(t, err, &valErrs)
	assert.Equal(t, "proficiency", valErrs[0].Field)

	_, err = s.Socials.Create(context.Background(), &SocialLink{Platform: "GitHub", URL: "javascript:alert(1)"})
	require.ErrorAs(t, err, &valErrs)
	assert.Equal(t, "url", valErrs[0].Field)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResource_Public(t *testing.T) {
	s, _, sqlMock, _ := newTestService(t)

	rows := sqlmock.NewRows([]string{"id", "label", "value", "description", "is_visible", "display_order", "created_at", "updated_at"}).
		AddRow("a-1", "Projects", "50+", "", true, 0, fixedTime, fixedTime).
		AddRow("a-2", "Clients", "30+", "", true, 1, fixedTime, fixedTime)
	sqlMock.ExpectQuery(regexp.QuoteMeta("FROM achievements WHERE is_visible = TRUE ORDER BY display_order, created_at")).
		WillReturnRows(rows)

	items, err := s.Achievements.Public(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "50+", items[0].Value)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestResource_DeleteMissing(t *testing.T) {
	s, _, sqlMock, events := newTestService(t)

	sqlMock.ExpectExec(regexp.QuoteMeta("DELETE FROM skills WHERE id = $1")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Skills.Delete(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
	events.AssertNotCalled(t, "Publish", mock.Anything, "cms.skills.deleted", mock.Anything)
}

func TestChanged_PublishFailureIsLogged(t *testing.T) {
	s, store, _, _ := newTestService(t)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))
	s.events = events

	store.On("DeleteHero", mock.Anything, "hero-1").Return(nil)

	assert.NoError(t, s.DeleteHero(context.Background(), "hero-1"))
	events.AssertExpectations(t)
}
