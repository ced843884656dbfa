package models

import (
	"time"

	"gorm.io/gorm"
)

// Item представляет вещь, доступную для аренды
type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	PricePerDay float64   `json:"price_per_day" gorm:"not null;default:0"`
	Stock       int       `json:"stock" gorm:"not null;default:1"`
	Available   bool      `json:"available" gorm:"default:true"`
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связи
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate хук для установки времени создания
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}
