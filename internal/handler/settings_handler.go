package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fleetnavigator/internal/models"
	"fleetnavigator/internal/remote"
	"fleetnavigator/internal/services"
)

type Handler struct {
	settings  services.BackendSettingsService
	version   string
	buildTime string
	log       zerolog.Logger
	now       func() time.Time
}

func NewHandler(settings services.BackendSettingsService, version, buildTime string, log zerolog.Logger) *Handler {
	return &Handler{
		settings:  settings,
		version:   version,
		buildTime: buildTime,
		log:       log,
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET(remote.VersionPath, h.GetVersion)

	api := r.Group("/api/settings")
	{
		api.GET("/show-welcome-tiles", h.GetShowWelcomeTiles)
		api.POST("/show-welcome-tiles", h.SaveShowWelcomeTiles)

		api.GET("/show-top-bar", h.GetShowTopBar)
		api.POST("/show-top-bar", h.SaveShowTopBar)

		api.GET("/ui-theme", h.GetUITheme)
		api.POST("/ui-theme", h.SaveUITheme)

		api.GET("/model-selection", h.GetModelSelection)
		api.PUT("/model-selection", h.UpdateModelSelection)

		api.GET("/selected-model", h.GetSelectedModel)
		api.POST("/selected-model", h.SaveSelectedModel)
	}
}

func (h *Handler) GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, models.VersionInfo{
		Version:    h.version,
		BuildTime:  h.buildTime,
		ServerTime: h.now().UnixMilli(),
	})
}

// ===== booleans =====

func (h *Handler) GetShowWelcomeTiles(c *gin.Context) {
	show, err := h.settings.ShowWelcomeTiles(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

func (h *Handler) SaveShowWelcomeTiles(c *gin.Context) {
	show, ok := h.bindBool(c)
	if !ok {
		return
	}
	if err := h.settings.SaveShowWelcomeTiles(c.Request.Context(), show); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) GetShowTopBar(c *gin.Context) {
	show, err := h.settings.ShowTopBar(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

func (h *Handler) SaveShowTopBar(c *gin.Context) {
	show, ok := h.bindBool(c)
	if !ok {
		return
	}
	if err := h.settings.SaveShowTopBar(c.Request.Context(), show); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ===== text =====

func (h *Handler) GetUITheme(c *gin.Context) {
	theme, err := h.settings.UITheme(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, theme)
}

func (h *Handler) SaveUITheme(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	if err := h.settings.SaveUITheme(c.Request.Context(), body); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) GetSelectedModel(c *gin.Context) {
	model, ok, err := h.settings.SelectedModel(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.String(http.StatusOK, model)
}

func (h *Handler) SaveSelectedModel(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	model := strings.TrimSpace(body)
	if model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model name is required"})
		return
	}
	if err := h.settings.SaveSelectedModel(c.Request.Context(), model); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ===== model selection =====

func (h *Handler) GetModelSelection(c *gin.Context) {
	sel, err := h.settings.ModelSelection(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

func (h *Handler) UpdateModelSelection(c *gin.Context) {
	var in models.ModelSelectionSettings
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.settings.UpdateModelSelection(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// bindBool reads an optional JSON boolean body. An empty body or null means true.
func (h *Handler) bindBool(c *gin.Context) (bool, bool) {
	body, ok := h.readBody(c)
	if !ok {
		return false, false
	}
	if strings.TrimSpace(body) == "" {
		return true, true
	}
	var show *bool
	if err := json.Unmarshal([]byte(body), &show); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false, false
	}
	if show == nil {
		return true, true
	}
	return *show, true
}

func (h *Handler) readBody(c *gin.Context) (string, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return string(data), true
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("settings request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
