package services

import (
	"strings"

	"minjemin-backend/models"

	"gorm.io/gorm"
)

// RentalPage представляет страницу списка аренды вместе с общим числом
// записей, прошедших фильтры
type RentalPage struct {
	Rentals []models.Rental `json:"rentals"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// ListingService строит отфильтрованные списки аренды для арендатора и владельца.
// Два режима постраничной выборки (полное сканирование и фильтрация на стороне
// хранилища) обязаны возвращать одинаковый результат для одинаковых параметров
type ListingService struct {
	db *gorm.DB
}

// NewListingService создает новый сервис списков
func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// normalizeFilter приводит фильтр к нижнему регистру;
// пустое значение означает отсутствие фильтра
func normalizeFilter(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// matchesFilters проверяет аренду на соответствие фильтрам по названию вещи
// и по подстроке статуса, без учета регистра
func matchesFilters(rental *models.Rental, name, status string) bool {
	if name != "" && !strings.Contains(strings.ToLower(rental.Item.Name), name) {
		return false
	}
	if status != "" && !strings.Contains(strings.ToLower(rental.Status), status) {
		return false
	}
	return true
}

// MyRentals возвращает все аренды арендатора с фильтрами, без пагинации
func (s *ListingService) MyRentals(borrowerID uint, name, status string) ([]models.Rental, error) {
	rentals, err := s.fetchByBorrower(borrowerID)
	if err != nil {
		return nil, err
	}
	return filterRentals(rentals, name, status), nil
}

// MyRentalsPage возвращает страницу списка аренды в режиме полного сканирования:
// загружаем все аренды арендатора, фильтруем в памяти и нарезаем страницу
func (s *ListingService) MyRentalsPage(borrowerID uint, name, status string, page, size int) (*RentalPage, error) {
	rentals, err := s.fetchByBorrower(borrowerID)
	if err != nil {
		return nil, err
	}

	filtered := filterRentals(rentals, name, status)

	// Нарезаем [page*size, page*size+size), пустая страница при выходе за границу
	start := page * size
	pageList := []models.Rental{}
	if start < len(filtered) {
		end := start + size
		if end > len(filtered) {
			end = len(filtered)
		}
		pageList = filtered[start:end]
	}

	return &RentalPage{
		Rentals: pageList,
		Total:   int64(len(filtered)),
		Page:    page,
		Size:    size,
	}, nil
}

// MyRentalsPageDB возвращает ту же страницу, но фильтрация и пагинация
// выполняются хранилищем: конъюнкция равенства по арендатору и необязательных
// LIKE-условий по названию вещи и статусу
func (s *ListingService) MyRentalsPageDB(borrowerID uint, name, status string, page, size int) (*RentalPage, error) {
	name = normalizeFilter(name)
	status = normalizeFilter(status)

	// LOWER + LIKE вместо ILIKE, чтобы SQLite и PostgreSQL вели себя одинаково
	query := s.db.Model(&models.Rental{}).
		Joins("JOIN items ON items.id = rentals.item_id").
		Where("rentals.borrower_id = ?", borrowerID)

	if name != "" {
		query = query.Where("LOWER(items.name) LIKE ?", "%"+name+"%")
	}
	if status != "" {
		query = query.Where("LOWER(rentals.status) LIKE ?", "%"+status+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rentals []models.Rental
	if err := query.Preload("Item").
		Order("rentals.id ASC").
		Offset(page * size).
		Limit(size).
		Find(&rentals).Error; err != nil {
		return nil, err
	}

	if rentals == nil {
		rentals = []models.Rental{}
	}

	return &RentalPage{
		Rentals: rentals,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}

// RequestRentals возвращает входящие заявки на вещи владельца с фильтрами
func (s *ListingService) RequestRentals(ownerID uint, name, status string) ([]models.Rental, error) {
	var rentals []models.Rental
	err := s.db.Preload("Item").
		Joins("JOIN items ON items.id = rentals.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("rentals.id ASC").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return filterRentals(rentals, name, status), nil
}

// fetchByBorrower загружает все аренды арендатора в порядке создания
func (s *ListingService) fetchByBorrower(borrowerID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	err := s.db.Preload("Item").
		Where("borrower_id = ?", borrowerID).
		Order("id ASC").
		Find(&rentals).Error
	return rentals, err
}

// filterRentals применяет фильтры к списку в памяти
func filterRentals(rentals []models.Rental, name, status string) []models.Rental {
	name = normalizeFilter(name)
	status = normalizeFilter(status)

	filtered := []models.Rental{}
	for i := range rentals {
		if matchesFilters(&rentals[i], name, status) {
			filtered = append(filtered, rentals[i])
		}
	}
	return filtered
}
