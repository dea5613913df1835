package db

import (
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations and the theme bootstrap.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.SavedProduct{},
		&model.Review{},
		&model.Conversation{},
		&model.ChatMessage{},
		&model.SiteTheme{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := BootstrapTheme(DB); err != nil {
		logger.Error("Failed to bootstrap site theme", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// BootstrapTheme inserts the singleton theme row with defaults when none
// exists yet. Initialization happens here, as an explicit migration step,
// so the first GET /theme never races to create it.
func BootstrapTheme(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.SiteTheme{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("Site theme already bootstrapped, skipping", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	theme := model.DefaultTheme()
	if err := db.Create(&theme).Error; err != nil {
		return err
	}

	logger.Info("Site theme bootstrapped with defaults", map[string]interface{}{
		"theme_id": theme.ID,
	})
	return nil
}
