package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

// CartRef is the single-row-per-session record holding a remote cart id.
type CartRef struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (CartRef) TableName() string { return "cart_ref" }

type gormAdapter struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewGormAdapter(log *logger.Logger, db *gorm.DB) (Adapter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	if err := db.AutoMigrate(&CartRef{}); err != nil {
		return nil, fmt.Errorf("cart_ref automigrate: %w", err)
	}
	return &gormAdapter{
		log: log.With("service", "GormPersistence"),
		db:  db,
	}, nil
}

func (a *gormAdapter) Get(ctx context.Context, key string) (string, error) {
	var ref CartRef
	err := a.db.WithContext(ctx).First(&ref, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cart_ref get: %w", err)
	}
	return ref.Value, nil
}

func (a *gormAdapter) Set(ctx context.Context, key, value string) error {
	ref := CartRef{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&ref).Error
	if err != nil {
		return fmt.Errorf("cart_ref set: %w", err)
	}
	return nil
}

func (a *gormAdapter) Clear(ctx context.Context, key string) error {
	if err := a.db.WithContext(ctx).Delete(&CartRef{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("cart_ref clear: %w", err)
	}
	return nil
}
