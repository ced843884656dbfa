package services

import (
	"errors"

	"minjemin-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentProvider представляет внешнего платежного провайдера.
// Провайдер возвращает ссылку-референс платежа и по контракту ядра
// не отказывает из-за нехватки средств
type PaymentProvider interface {
	CreatePaymentRef(rentalID, payerID uint, amount float64) (string, error)
}

// MockPaymentProvider имитирует платежный шлюз и всегда успешен
type MockPaymentProvider struct{}

// CreatePaymentRef возвращает сгенерированный референс платежа
func (p *MockPaymentProvider) CreatePaymentRef(rentalID, payerID uint, amount float64) (string, error) {
	return "MOCK-" + uuid.NewString(), nil
}

// PaymentService обрабатывает оплату аренды
type PaymentService struct {
	db       *gorm.DB
	provider PaymentProvider
}

// NewPaymentService создает новый сервис платежей
func NewPaymentService(db *gorm.DB, provider PaymentProvider) *PaymentService {
	return &PaymentService{db: db, provider: provider}
}

// Pay проводит оплату аренды: создает запись Payment и помечает аренду
// оплаченной. Флаг paid меняется только в одну сторону и не сбрасывается.
// Оплата не зависит от статуса аренды, важно лишь успеть до Start
func (s *PaymentService) Pay(rentalID, payerID uint, amount float64) (*models.Payment, error) {
	var rental models.Rental
	if err := s.db.First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if rental.BorrowerID != payerID {
		return nil, rejected("оплатить аренду может только арендатор")
	}

	if rental.Paid {
		return nil, rejected("аренда уже оплачена")
	}

	ref, err := s.provider.CreatePaymentRef(rentalID, payerID, amount)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		RentalID:   rental.ID,
		Amount:     amount,
		PaymentRef: ref,
	}

	// Запись об оплате и флаг paid фиксируются вместе
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&rental).Update("paid", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &payment, nil
}
