package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

// ErrNoValidToken means no cached courier token is usable and a fresh login
// is required.
var ErrNoValidToken = errors.New("store: no valid courier token cached")

// CurrentToken returns the most recent non-expired courier token. Multiple
// valid rows can coexist after concurrent refreshes; newest wins.
func (s *Store) CurrentToken() (*models.CourierToken, error) {
	var tok models.CourierToken
	err := s.db.
		Where("expires_at > ?", time.Now()).
		Order("created_at DESC").
		First(&tok).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoValidToken
		}
		return nil, err
	}
	return &tok, nil
}

func (s *Store) SaveToken(token string, expiresAt time.Time) error {
	return s.db.Create(&models.CourierToken{Token: token, ExpiresAt: expiresAt}).Error
}

// PurgeExpiredTokens deletes rows whose expiry has passed. Called
// opportunistically on refresh; failure is not fatal to the caller.
func (s *Store) PurgeExpiredTokens() error {
	return s.db.Where("expires_at <= ?", time.Now()).Delete(&models.CourierToken{}).Error
}
