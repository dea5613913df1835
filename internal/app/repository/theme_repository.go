package repository

import (
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/pkg/logger"
	"gorm.io/gorm"
)

type ThemeRepository interface {
	Get() (*model.SiteTheme, error)
	Update(theme *model.SiteTheme) error
}

type themeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &themeRepository{db: db}
}

// Get returns the singleton theme row. The row is created by the migration
// bootstrap, so a missing row is a real error, not a cue to create one.
func (r *themeRepository) Get() (*model.SiteTheme, error) {
	var theme model.SiteTheme
	if err := r.db.Order("id ASC").First(&theme).Error; err != nil {
		logger.Error("Failed to load site theme", err, nil)
		return nil, err
	}
	return &theme, nil
}

func (r *themeRepository) Update(theme *model.SiteTheme) error {
	logger.Debug("Updating site theme in database", map[string]interface{}{
		"theme_id": theme.ID,
		"version":  theme.Version,
	})

	if err := r.db.Save(theme).Error; err != nil {
		logger.Error("Failed to update site theme in database", err, map[string]interface{}{
			"theme_id": theme.ID,
		})
		return err
	}
	return nil
}
