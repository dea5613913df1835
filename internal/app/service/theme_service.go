package service

import (
	"errors"
	"regexp"

	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/pkg/logger"
)

var ErrInvalidColor = errors.New("color must be a hex value like #1a1a1a")

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ThemeInput carries a partial theme update. Nil fields keep their current
// values.
type ThemeInput struct {
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	AccentColor    *string `json:"accent_color"`
	IsDarkMode     *bool   `json:"is_dark_mode"`
}

type ThemeService interface {
	GetTheme() (*model.SiteTheme, error)
	UpdateTheme(input ThemeInput) (*model.SiteTheme, error)
}

type themeService struct {
	themeRepo repository.ThemeRepository
}

func NewThemeService(themeRepo repository.ThemeRepository) ThemeService {
	return &themeService{themeRepo: themeRepo}
}

func (s *themeService) GetTheme() (*model.SiteTheme, error) {
	return s.themeRepo.Get()
}

// UpdateTheme merges the provided fields into the singleton row and bumps
// Version so clients can detect the change.
func (s *themeService) UpdateTheme(input ThemeInput) (*model.SiteTheme, error) {
	logger.Info("Updating site theme", nil)

	for _, color := range []*string{input.PrimaryColor, input.SecondaryColor, input.AccentColor} {
		if color != nil && !hexColorPattern.MatchString(*color) {
			logger.Warn("Theme update rejected: invalid color", map[string]interface{}{
				"color": *color,
			})
			return nil, ErrInvalidColor
		}
	}

	theme, err := s.themeRepo.Get()
	if err != nil {
		return nil, err
	}

	if input.PrimaryColor != nil {
		theme.PrimaryColor = *input.PrimaryColor
	}
	if input.SecondaryColor != nil {
		theme.SecondaryColor = *input.SecondaryColor
	}
	if input.AccentColor != nil {
		theme.AccentColor = *input.AccentColor
	}
	if input.IsDarkMode != nil {
		theme.IsDarkMode = *input.IsDarkMode
	}
	theme.Version++

	if err := s.themeRepo.Update(theme); err != nil {
		return nil, err
	}

	logger.Info("Site theme updated", map[string]interface{}{
		"version": theme.Version,
	})
	return theme, nil
}
