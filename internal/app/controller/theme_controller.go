package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vestra/vestra-backend/internal/app/service"
	apperrors "github.com/vestra/vestra-backend/internal/errors"
	"github.com/vestra/vestra-backend/internal/middleware"
)

type ThemeController struct {
	themeService service.ThemeService
}

func NewThemeController(themeService service.ThemeService) *ThemeController {
	return &ThemeController{
		themeService: themeService,
	}
}

// GetTheme returns the global theme
// GET /api/v1/theme
func (ctrl *ThemeController) GetTheme(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	theme, err := ctrl.themeService.GetTheme()
	if err != nil {
		log.Error("Failed to fetch theme", err, nil)
		apperrors.ParseAndRespond(c, err, "fetch theme")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"theme": theme,
	})
}

// UpdateTheme partially updates the theme (admin)
// PUT /api/v1/admin/theme
func (ctrl *ThemeController) UpdateTheme(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ThemeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	theme, err := ctrl.themeService.UpdateTheme(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidColor) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Colors must be hex values like #1a1a1a",
			})
			return
		}
		log.Error("Failed to update theme", err, nil)
		apperrors.ParseAndRespond(c, err, "update theme")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"theme": theme,
	})
}
