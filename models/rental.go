package models

import (
	"time"

	"gorm.io/gorm"
)

// Rental представляет заявку на аренду вещи
type Rental struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ItemID       uint      `json:"item_id" gorm:"not null;index"`
	BorrowerID   uint      `json:"borrower_id" gorm:"not null;index"`
	BorrowerName string    `json:"borrower_name"` // Снимок имени на момент создания, не обновляется
	StartDate    time.Time `json:"start_date" gorm:"not null"`
	EndDate      time.Time `json:"end_date" gorm:"not null"`
	TotalPrice   float64   `json:"total_price"`
	Status       string    `json:"status" gorm:"not null;default:'PENDING';size:20"`
	ApprovedBy   uint      `json:"approved_by"`
	Paid         bool      `json:"paid" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связи
	Item Item `json:"item" gorm:"foreignKey:ItemID"`
}

// Payment представляет запись об оплате аренды
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RentalID   uint      `json:"rental_id" gorm:"not null;index"`
	Amount     float64   `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
	PaymentRef string    `json:"payment_ref" gorm:"size:100"`

	// Связи
	Rental Rental `json:"rental" gorm:"foreignKey:RentalID"`
}

// Константы статусов аренды
const (
	RentalStatusPending   = "PENDING"
	RentalStatusApproved  = "APPROVED"
	RentalStatusOngoing   = "ONGOING"
	RentalStatusCompleted = "COMPLETED"
	RentalStatusCancelled = "CANCELLED"
)

// IsTerminalStatus проверяет, является ли статус конечным
func IsTerminalStatus(status string) bool {
	return status == RentalStatusCompleted || status == RentalStatusCancelled
}

// BeforeCreate хук для установки времени создания
func (r *Rental) BeforeCreate(tx *gorm.DB) error {
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (r *Rental) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = time.Now()
	return nil
}

// BeforeCreate хук для Payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	return nil
}
