package menu

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// --------------------------------------------------
// Guest: current menu
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"loaded_at": h.service.LoadedAt(),
		"menu":      h.service.Current(),
	})
}

// --------------------------------------------------
// Admin: reload menu from the sheet
// --------------------------------------------------
func (h *AdminHandler) Reload(c *gin.Context) {
	catalog, warnings, err := h.service.Reload(c.Request.Context())
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": cfgErr.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if warnings == nil {
		warnings = []RowWarning{}
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": len(catalog.Categories()),
		"items":      catalog.Len(),
		"warnings":   warnings,
	})
}
