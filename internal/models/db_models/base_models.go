package db_models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

// Hooks to manage int64 timestamps
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().Unix()
	return nil
}
