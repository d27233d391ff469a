package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"housecleaning-backend/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns the admin password table.
type AuthService struct {
	db       *gorm.DB
	hashCost int
	logger   *zerolog.Logger
}

func NewAuthService(db *gorm.DB, hashCost int, logger *zerolog.Logger) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &AuthService{db: db, hashCost: hashCost, logger: logger}
}

// isBcryptHash reports whether stored parses as a bcrypt hash. A legacy
// plaintext that merely starts with "$2a$" does not.
func isBcryptHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// ValidatePassword reports whether candidate matches any stored password.
// Rows still holding a plaintext value from before hashing was introduced are
// compared in constant time and re-hashed on a match.
func (s *AuthService) ValidatePassword(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}

	var stored []models.AdminPassword
	if err := s.db.WithContext(ctx).Order("id").Find(&stored).Error; err != nil {
		return false, fmt.Errorf("failed to load admin passwords: %w", err)
	}

	for i := range stored {
		p := &stored[i]
		if isBcryptHash(p.Password) {
			if bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(candidate)) == nil {
				return true, nil
			}
			continue
		}

		if subtle.ConstantTimeCompare([]byte(p.Password), []byte(candidate)) == 1 {
			s.upgradeLegacy(ctx, p, candidate)
			return true, nil
		}
	}
	return false, nil
}

func (s *AuthService) upgradeLegacy(ctx context.Context, p *models.AdminPassword, plaintext string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.hashCost)
	if err != nil {
		s.logger.Warn().Err(err).Uint("password_id", p.ID).Msg("could not hash legacy admin password")
		return
	}
	if err := s.db.WithContext(ctx).Model(p).Update("password", string(hash)).Error; err != nil {
		s.logger.Warn().Err(err).Uint("password_id", p.ID).Msg("could not upgrade legacy admin password")
		return
	}
	s.logger.Info().Uint("password_id", p.ID).Msg("legacy admin password upgraded to bcrypt")
}

func (s *AuthService) ListPasswords(ctx context.Context) ([]models.AdminPassword, error) {
	passwords := []models.AdminPassword{}
	if err := s.db.WithContext(ctx).Order("id").Find(&passwords).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin passwords: %w", err)
	}
	return passwords, nil
}

func (s *AuthService) AddPassword(ctx context.Context, plaintext string) (*models.AdminPassword, error) {
	if strings.TrimSpace(plaintext) == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &models.AdminPassword{Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to add admin password: %w", err)
	}

	s.logger.Info().Uint("password_id", record.ID).Msg("admin password added")
	return record, nil
}

// DeletePassword returns false when no entry has the given id.
func (s *AuthService) DeletePassword(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.AdminPassword{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete admin password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	s.logger.Info().Uint("password_id", id).Msg("admin password deleted")
	return true, nil
}

// EnsureDefaultPassword seeds plaintext when the table is empty. A blank
// plaintext is a no-op.
func (s *AuthService) EnsureDefaultPassword(ctx context.Context, plaintext string) error {
	if plaintext == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminPassword{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin passwords: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.AddPassword(ctx, plaintext); err != nil {
		return err
	}
	s.logger.Info().Msg("default admin password seeded")
	return nil
}
