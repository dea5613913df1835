package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestra/vestra-backend/internal/app/model"
	"github.com/vestra/vestra-backend/internal/app/repository"
	"github.com/vestra/vestra-backend/internal/db"
)

func setupThemeServiceTest(t *testing.T) ThemeService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	theme := model.DefaultTheme()
	require.NoError(t, testDB.Create(&theme).Error)

	return NewThemeService(repository.NewThemeRepository(testDB))
}

func strPtr(s string) *string { return &s }

func TestThemeService_GetTheme(t *testing.T) {
	themeService := setupThemeServiceTest(t)

	theme, err := themeService.GetTheme()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPrimaryColor, theme.PrimaryColor)
	assert.Equal(t, 1, theme.Version)
}

func TestThemeService_UpdateTheme_PartialBumpsVersion(t *testing.T) {
	themeService := setupThemeServiceTest(t)

	dark := true
	updated, err := themeService.UpdateTheme(ThemeInput{
		PrimaryColor: strPtr("#112233"),
		IsDarkMode:   &dark,
	})
	require.NoError(t, err)
	assert.Equal(t, "#112233", updated.PrimaryColor)
	assert.True(t, updated.IsDarkMode)
	assert.Equal(t, 2, updated.Version)
	// Untouched colors survive
	assert.Equal(t, model.DefaultSecondaryColor, updated.SecondaryColor)

	updated, err = themeService.UpdateTheme(ThemeInput{AccentColor: strPtr("#abc")})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version)
}

func TestThemeService_UpdateTheme_InvalidColor(t *testing.T) {
	themeService := setupThemeServiceTest(t)

	_, err := themeService.UpdateTheme(ThemeInput{PrimaryColor: strPtr("red")})
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = themeService.UpdateTheme(ThemeInput{PrimaryColor: strPtr("#12")})
	assert.ErrorIs(t, err, ErrInvalidColor)

	// Rejected updates do not bump the version
	theme, err := themeService.GetTheme()
	require.NoError(t, err)
	assert.Equal(t, 1, theme.Version)
}
