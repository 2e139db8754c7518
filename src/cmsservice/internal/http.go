package internal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(s *CMSService, auth *Authenticator, allowOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), cors(allowOrigin))

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := router.Group("/api")
	{
		api.GET("/footer", s.handleFooter)
		api.GET("/hero", s.handleActiveHero)
		api.GET("/settings", s.handleSettings)
		registerPublic(api, "/contact-info", s.Contacts)
		registerPublic(api, "/social-links", s.Socials)
		registerPublic(api, "/skills", s.Skills)
		registerPublic(api, "/achievements", s.Achievements)
	}

	router.POST("/admin/login", func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		res, err := auth.Login(&req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	admin := router.Group("/admin", auth.RequireAdmin())
	{
		admin.GET("/footer", s.handleFooter)
		admin.PATCH("/footer", s.handleUpdateFooter)
		admin.POST("/footer/quick-links", s.handleAddQuickLink)
		admin.DELETE("/footer/quick-links/:sectionId", s.handleRemoveQuickLink)
		admin.POST("/footer/services", s.handleAddFooterService)
		admin.DELETE("/footer/services/:name", s.handleRemoveFooterService)

		admin.GET("/hero", s.handleListHeroes)
		admin.POST("/hero", s.handleCreateHero)
		admin.PUT("/hero/:id", s.handleUpdateHero)
		admin.DELETE("/hero/:id", s.handleDeleteHero)
		admin.POST("/hero/:id/activate", s.handleActivateHero)

		admin.GET("/settings", s.handleSettings)
		admin.POST("/settings", s.handleCreateSetting)
		admin.PUT("/settings/:key", s.handleUpdateSetting)
		admin.DELETE("/settings/:key", s.handleDeleteSetting)

		registerAdmin(admin, "/contact-info", s.Contacts)
		registerAdmin(admin, "/social-links", s.Socials)
		registerAdmin(admin, "/skills", s.Skills)
		registerAdmin(admin, "/achievements", s.Achievements)
	}

	return router
}

func cors(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Headers", "authorization, content-type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *CMSService) handleFooter(c *gin.Context) {
	f, err := s.Footer(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleUpdateFooter(c *gin.Context) {
	var patch FooterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	f, err := s.UpdateFooter(c.Request.Context(), &patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleAddQuickLink(c *gin.Context) {
	var link QuickLink
	if err := c.ShouldBindJSON(&link); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	f, err := s.AddQuickLink(c.Request.Context(), link)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleRemoveQuickLink(c *gin.Context) {
	f, err := s.RemoveQuickLink(c.Request.Context(), c.Param("sectionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleAddFooterService(c *gin.Context) {
	var svc FooterService
	if err := c.ShouldBindJSON(&svc); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	f, err := s.AddFooterService(c.Request.Context(), svc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleRemoveFooterService(c *gin.Context) {
	f, err := s.RemoveFooterService(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *CMSService) handleActiveHero(c *gin.Context) {
	h, err := s.ActiveHero(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *CMSService) handleListHeroes(c *gin.Context) {
	heroes, err := s.Heroes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, heroes)
}

func (s *CMSService) handleCreateHero(c *gin.Context) {
	var h HeroContent
	if err := c.ShouldBindJSON(&h); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	created, err := s.CreateHero(c.Request.Context(), &h)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *CMSService) handleUpdateHero(c *gin.Context) {
	var h HeroContent
	if err := c.ShouldBindJSON(&h); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	updated, err := s.UpdateHero(c.Request.Context(), c.Param("id"), &h)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *CMSService) handleDeleteHero(c *gin.Context) {
	if err := s.DeleteHero(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *CMSService) handleActivateHero(c *gin.Context) {
	h, err := s.ActivateHero(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *CMSService) handleSettings(c *gin.Context) {
	settings, err := s.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *CMSService) handleCreateSetting(c *gin.Context) {
	var setting SiteSetting
	if err := c.ShouldBindJSON(&setting); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	created, err := s.CreateSetting(c.Request.Context(), &setting)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *CMSService) handleUpdateSetting(c *gin.Context) {
	var body struct {
		Value string `json:"setting_value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, errInvalidBody)
		return
	}
	updated, err := s.UpdateSetting(c.Request.Context(), c.Param("key"), body.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *CMSService) handleDeleteSetting(c *gin.Context) {
	if err := s.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func registerPublic[T any, P interface {
	*T
	sanitize()
	recordID() string
}](g *gin.RouterGroup, path string, r *Resource[T, P]) {
	g.GET(path, func(c *gin.Context) {
		items, err := r.Public(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})
}

func registerAdmin[T any, P interface {
	*T
	sanitize()
	recordID() string
}](g *gin.RouterGroup, path string, r *Resource[T, P]) {

	g.GET(path, func(c *gin.Context) {
		items, err := r.All(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	g.POST(path, func(c *gin.Context) {
		v := P(new(T))
		if err := c.ShouldBindJSON(v); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		created, err := r.Create(c.Request.Context(), v)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	g.PUT(path+"/:id", func(c *gin.Context) {
		v := P(new(T))
		if err := c.ShouldBindJSON(v); err != nil {
			writeError(c, errInvalidBody)
			return
		}
		updated, err := r.Update(c.Request.Context(), c.Param("id"), v)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	g.DELETE(path+"/:id", func(c *gin.Context) {
		if err := r.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func writeError(c *gin.Context, err error) {
	var valErrs myValidatorErrs
	if errors.As(err, &valErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": valErrs})
		return
	}

	switch {
	case errors.Is(err, errInvalidBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, errNoActiveFooter):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		slog.Error("cms request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
