package main

import (
	"fmt"
	"testing"

	"minjemin-backend/models"
	"minjemin-backend/services"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedListingData создает арендатора с набором аренд в разных статусах
func seedListingData(db *gorm.DB) (models.User, models.User) {
	owner, borrower := createTestUsers(db)

	camera := createTestItem(db, owner.ID, "Canon Camera", 100, 3)
	tent := createTestItem(db, owner.ID, "Camping Tent", 150, 2)
	bike := createTestItem(db, owner.ID, "Mountain Bike", 80, 1)

	rentals := []models.Rental{
		{ItemID: camera.ID, Status: models.RentalStatusPending},
		{ItemID: tent.ID, Status: models.RentalStatusApproved},
		{ItemID: bike.ID, Status: models.RentalStatusOngoing},
		{ItemID: camera.ID, Status: models.RentalStatusCompleted},
		{ItemID: tent.ID, Status: models.RentalStatusCancelled},
		{ItemID: camera.ID, Status: models.RentalStatusPending},
		{ItemID: bike.ID, Status: models.RentalStatusPending},
	}

	for i := range rentals {
		rentals[i].BorrowerID = borrower.ID
		rentals[i].BorrowerName = borrower.Name
		rentals[i].StartDate = rentalDate("2026-01-01")
		rentals[i].EndDate = rentalDate("2026-01-03")
		rentals[i].TotalPrice = 300
		db.Create(&rentals[i])
	}

	return owner, borrower
}

// rentalIDs извлекает последовательность ID из списка аренды
func rentalIDs(rentals []models.Rental) []uint {
	ids := make([]uint, 0, len(rentals))
	for i := range rentals {
		ids = append(ids, rentals[i].ID)
	}
	return ids
}

func TestListingModesEquivalence(t *testing.T) {
	db := setupTestDB()
	_, borrower := seedListingData(db)
	service := services.NewListingService(db)

	filters := []struct {
		name   string
		status string
	}{
		{"", ""},
		{"cam", ""},
		{"CAM", ""},
		{"", "pend"},
		{"", "PENDING"},
		{"cam", "pend"},
		{"tent", ""},
		{"bike", "ongoing"},
		{"nosuchitem", ""},
	}

	// Оба режима обязаны возвращать одинаковые страницы
	// для любых комбинаций фильтров и параметров пагинации
	for _, f := range filters {
		for _, size := range []int{2, 3, 10} {
			for page := 0; page < 4; page++ {
				label := fmt.Sprintf("name=%q status=%q page=%d size=%d", f.name, f.status, page, size)

				memPage, err := service.MyRentalsPage(borrower.ID, f.name, f.status, page, size)
				assert.NoError(t, err, label)
				dbPage, err := service.MyRentalsPageDB(borrower.ID, f.name, f.status, page, size)
				assert.NoError(t, err, label)

				assert.Equal(t, memPage.Total, dbPage.Total, label)
				assert.Equal(t, rentalIDs(memPage.Rentals), rentalIDs(dbPage.Rentals), label)
				assert.Equal(t, memPage.Page, dbPage.Page, label)
				assert.Equal(t, memPage.Size, dbPage.Size, label)
			}
		}
	}
}

func TestMyRentalsPage(t *testing.T) {
	db := setupTestDB()
	_, borrower := seedListingData(db)
	service := services.NewListingService(db)

	t.Run("Первая страница", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "", "", 0, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.Len(t, page.Rentals, 3)
	})

	t.Run("Последняя неполная страница", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "", "", 2, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.Len(t, page.Rentals, 1)
	})

	t.Run("Страница за границей пуста", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "", "", 10, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.NotNil(t, page.Rentals)
		assert.Len(t, page.Rentals, 0)
	})

	t.Run("Фильтр по подстроке статуса", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "", "pend", 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		for _, rental := range page.Rentals {
			assert.Equal(t, models.RentalStatusPending, rental.Status)
		}
	})

	t.Run("Конъюнкция фильтров", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "camera", "pend", 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("Порядок стабилен по возрастанию ID", func(t *testing.T) {
		page, err := service.MyRentalsPage(borrower.ID, "", "", 0, 10)
		assert.NoError(t, err)
		ids := rentalIDs(page.Rentals)
		for i := 1; i < len(ids); i++ {
			assert.Less(t, ids[i-1], ids[i])
		}
	})
}

func TestMyRentals(t *testing.T) {
	db := setupTestDB()
	_, borrower := seedListingData(db)
	service := services.NewListingService(db)

	rentals, err := service.MyRentals(borrower.ID, "", "")
	assert.NoError(t, err)
	assert.Len(t, rentals, 7)

	// Вещь подгружена для каждой аренды
	for _, rental := range rentals {
		assert.NotEmpty(t, rental.Item.Name)
	}

	rentals, err = service.MyRentals(borrower.ID, "bike", "")
	assert.NoError(t, err)
	assert.Len(t, rentals, 2)

	// Пустой результат, а не nil
	rentals, err = service.MyRentals(borrower.ID, "nosuchitem", "")
	assert.NoError(t, err)
	assert.NotNil(t, rentals)
	assert.Len(t, rentals, 0)
}

func TestRequestRentals(t *testing.T) {
	db := setupTestDB()
	owner, _ := seedListingData(db)
	service := services.NewListingService(db)

	// Владелец видит все заявки на свои вещи
	rentals, err := service.RequestRentals(owner.ID, "", "")
	assert.NoError(t, err)
	assert.Len(t, rentals, 7)

	rentals, err = service.RequestRentals(owner.ID, "", "approved")
	assert.NoError(t, err)
	assert.Len(t, rentals, 1)

	// У постороннего пользователя заявок нет
	rentals, err = service.RequestRentals(9999, "", "")
	assert.NoError(t, err)
	assert.Len(t, rentals, 0)
}
