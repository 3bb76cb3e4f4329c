package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/barbershop-manager/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using SQLite.
// The settings table holds at most one row.
type SettingsRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSettingsRepository creates a new SQLite settings repository
func NewSettingsRepository(pool *ConnectionPool) *SettingsRepository {
	return &SettingsRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

// GetSettings returns the stored settings or persistence.ErrNotFound when
// nothing has been saved yet
func (r *SettingsRepository) GetSettings(ctx context.Context) (persistence.Settings, error) {
	var (
		settings  persistence.Settings
		updatedAt string
	)
	err := r.helper.QueryRow(ctx, `
		SELECT shop_name, logo_data_url, primary_color, accent_color,
			opening_minutes, closing_minutes, step_minutes, updated_at
		FROM settings
		WHERE id = 1
	`).Scan(
		&settings.ShopName,
		&settings.LogoDataURL,
		&settings.PrimaryColor,
		&settings.AccentColor,
		&settings.OpeningMinutes,
		&settings.ClosingMinutes,
		&settings.StepMinutes,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Settings{}, persistence.ErrNotFound
		}
		return persistence.Settings{}, r.mapper.MapError(err)
	}
	if settings.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Settings{}, err
	}
	return settings, nil
}

// SaveSettings inserts or replaces the settings row
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings persistence.Settings) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO settings (id, shop_name, logo_data_url, primary_color, accent_color,
			opening_minutes, closing_minutes, step_minutes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			shop_name = excluded.shop_name,
			logo_data_url = excluded.logo_data_url,
			primary_color = excluded.primary_color,
			accent_color = excluded.accent_color,
			opening_minutes = excluded.opening_minutes,
			closing_minutes = excluded.closing_minutes,
			step_minutes = excluded.step_minutes,
			updated_at = excluded.updated_at
	`,
		settings.ShopName,
		settings.LogoDataURL,
		settings.PrimaryColor,
		settings.AccentColor,
		settings.OpeningMinutes,
		settings.ClosingMinutes,
		settings.StepMinutes,
		formatTime(settings.UpdatedAt),
	)
	return r.mapper.MapError(err)
}
