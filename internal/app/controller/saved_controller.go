package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vestra/vestra-backend/internal/app/service"
	apperrors "github.com/vestra/vestra-backend/internal/errors"
	"github.com/vestra/vestra-backend/internal/middleware"
)

type SavedController struct {
	savedService service.SavedService
}

func NewSavedController(savedService service.SavedService) *SavedController {
	return &SavedController{
		savedService: savedService,
	}
}

// GetSavedProducts lists the user's saved products
// GET /api/v1/saved
func (ctrl *SavedController) GetSavedProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	saved, err := ctrl.savedService.GetSavedProducts(userID)
	if err != nil {
		log.Error("Failed to fetch saved products", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "fetch saved products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved_products": saved,
		"count":          len(saved),
	})
}

// ToggleSaved flips saved state for a product
// POST /api/v1/saved/:productId/toggle
func (ctrl *SavedController) ToggleSaved(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	result, err := ctrl.savedService.Toggle(userID, uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		log.Error("Failed to toggle saved product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, err, "toggle saved product")
		return
	}

	c.JSON(http.StatusOK, result)
}
