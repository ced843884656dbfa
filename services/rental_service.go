package services

import (
	"errors"
	"time"

	"minjemin-backend/models"

	"gorm.io/gorm"
)

// Ошибки отсутствия записей
var (
	ErrRentalNotFound = errors.New("аренда не найдена")
	ErrItemNotFound   = errors.New("вещь не найдена")
)

// RequestError представляет нарушение бизнес-правила, которое возвращается
// клиенту с кодом 400 и человекочитаемой причиной
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return e.Reason
}

func rejected(reason string) error {
	return &RequestError{Reason: reason}
}

// RentalService управляет жизненным циклом аренды:
// PENDING -> APPROVED -> ONGOING -> COMPLETED, PENDING -> CANCELLED
type RentalService struct {
	db *gorm.DB
}

// NewRentalService создает новый сервис аренды
func NewRentalService(db *gorm.DB) *RentalService {
	return &RentalService{db: db}
}

// RentalDays возвращает длительность аренды в днях, включая обе даты
func RentalDays(startDate, endDate time.Time) int64 {
	return int64(endDate.Sub(startDate)/(24*time.Hour)) + 1
}

// Create создает заявку на аренду в статусе PENDING.
// Склад на этом шаге не резервируется: единица списывается только при подтверждении,
// поэтому несколько PENDING-заявок могут претендовать на одну и ту же единицу
func (s *RentalService) Create(itemID, borrowerID uint, borrowerName string, startDate, endDate time.Time, totalPrice *float64) (*models.Rental, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, rejected("необходимо указать даты начала и окончания аренды")
	}
	if startDate.After(endDate) {
		return nil, rejected("дата начала должна быть не позже даты окончания")
	}

	var item models.Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// Владелец не может арендовать собственную вещь
	if item.OwnerID == borrowerID {
		return nil, rejected("владелец не может арендовать собственную вещь")
	}

	if item.Stock <= 0 {
		return nil, rejected("вещь отсутствует на складе")
	}

	// Считаем стоимость, если она не передана явно
	price := 0.0
	if totalPrice != nil {
		price = *totalPrice
	} else {
		price = item.PricePerDay * float64(RentalDays(startDate, endDate))
	}

	rental := models.Rental{
		ItemID:       item.ID,
		BorrowerID:   borrowerID,
		BorrowerName: borrowerName,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalPrice:   price,
		Status:       models.RentalStatusPending,
		Paid:         false,
	}

	if err := s.db.Create(&rental).Error; err != nil {
		return nil, err
	}

	rental.Item = item
	return &rental, nil
}

// Approve подтверждает заявку владельцем вещи и резервирует единицу склада.
// Списание склада и смена статуса выполняются в одной транзакции:
// либо фиксируются обе записи, либо ни одна
func (s *RentalService) Approve(rentalID, ownerID uint) (*models.Rental, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var rental models.Rental
	if err := tx.Preload("Item").First(&rental, rentalID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if rental.Item.OwnerID != ownerID {
		tx.Rollback()
		return nil, rejected("подтвердить аренду может только владелец вещи")
	}

	if rental.Status != models.RentalStatusPending {
		tx.Rollback()
		return nil, rejected("подтвердить можно только аренду в статусе PENDING")
	}

	// Условное списание: защита от гонки нескольких PENDING-заявок
	// за последнюю единицу склада
	res := tx.Model(&models.Item{}).
		Where("id = ? AND stock > 0", rental.ItemID).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, rejected("вещь отсутствует на складе")
	}

	// Если списали последнюю единицу, снимаем флаг доступности
	var item models.Item
	if err := tx.First(&item, rental.ItemID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if item.Stock == 0 {
		if err := tx.Model(&item).Update("available", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	rental.Status = models.RentalStatusApproved
	rental.ApprovedBy = ownerID
	if err := tx.Save(&rental).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Item").First(&rental, rental.ID).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// Start переводит подтвержденную и оплаченную аренду в статус ONGOING (выдача вещи)
func (s *RentalService) Start(rentalID, borrowerID uint) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.Preload("Item").First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if rental.BorrowerID != borrowerID {
		return nil, rejected("начать аренду может только арендатор")
	}

	if rental.Status != models.RentalStatusApproved {
		return nil, rejected("начать можно только аренду в статусе APPROVED")
	}

	if !rental.Paid {
		return nil, rejected("аренда должна быть оплачена до начала")
	}

	rental.Status = models.RentalStatusOngoing
	if err := s.db.Save(&rental).Error; err != nil {
		return nil, err
	}

	return &rental, nil
}

// Complete завершает аренду и возвращает единицу на склад.
// Возврат склада и смена статуса атомарны, зеркально к Approve
func (s *RentalService) Complete(rentalID, actorID uint) (*models.Rental, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var rental models.Rental
	if err := tx.Preload("Item").First(&rental, rentalID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if rental.Item.OwnerID != actorID && rental.BorrowerID != actorID {
		tx.Rollback()
		return nil, rejected("завершить аренду может только владелец или арендатор")
	}

	if rental.Status != models.RentalStatusOngoing {
		tx.Rollback()
		return nil, rejected("завершить можно только аренду в статусе ONGOING")
	}

	rental.Status = models.RentalStatusCompleted
	if err := tx.Save(&rental).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Возвращаем единицу и безусловно открываем доступность
	if err := tx.Model(&models.Item{}).
		Where("id = ?", rental.ItemID).
		Updates(map[string]interface{}{
			"stock":     gorm.Expr("stock + 1"),
			"available": true,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Item").First(&rental, rental.ID).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// Cancel отменяет заявку. Отмена разрешена только из статуса PENDING,
// проверка действующего лица не выполняется намеренно
func (s *RentalService) Cancel(rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.Preload("Item").First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if rental.Status != models.RentalStatusPending {
		return nil, rejected("отменить можно только аренду в статусе PENDING")
	}

	// Склад не трогаем: для PENDING-заявок единица еще не списывалась
	rental.Status = models.RentalStatusCancelled
	if err := s.db.Save(&rental).Error; err != nil {
		return nil, err
	}

	return &rental, nil
}

// GetByID возвращает аренду по ID
func (s *RentalService) GetByID(rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.Preload("Item").First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

// DeleteByID выполняет административное удаление записи об аренде.
// Бизнес-правила не проверяются и склад не корректируется: операция
// предназначена для ручной очистки данных оператором
func (s *RentalService) DeleteByID(rentalID uint) error {
	var rental models.Rental
	if err := s.db.First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRentalNotFound
		}
		return err
	}

	return s.db.Delete(&rental).Error
}
