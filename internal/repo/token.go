package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Omit("User").Create(t).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// RotateRefreshToken revokes the token identified by oldJTI and stores next.
// The presented token must match the stored digest and still be live.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, presented string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RefreshToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("jti = ?", oldJTI).
			First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenRevoked
			}
			return err
		}
		if old.Revoked || old.ExpiresAt < time.Now().Unix() || old.TokenHash != tokens.Sha256Hex(presented) {
			return ErrTokenRevoked
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("id = ?", old.ID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokens.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}
