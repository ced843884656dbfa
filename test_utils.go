package main

import (
	"time"

	"minjemin-backend/models"
	"minjemin-backend/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.User{}, &models.Item{}, &models.Rental{}, &models.Payment{})
	return db
}

// createTestUsers создает владельца и арендатора
func createTestUsers(db *gorm.DB) (models.User, models.User) {
	owner := models.User{
		Name:         "Test Owner",
		Email:        "owner@test.com",
		PasswordHash: "hash1",
		IsActive:     true,
	}
	borrower := models.User{
		Name:         "Test Borrower",
		Email:        "borrower@test.com",
		PasswordHash: "hash2",
		IsActive:     true,
	}

	db.Create(&owner)
	db.Create(&borrower)

	return owner, borrower
}

// createTestItem создает вещь с указанной ценой и запасом
func createTestItem(db *gorm.DB, ownerID uint, name string, pricePerDay float64, stock int) models.Item {
	item := models.Item{
		Name:        name,
		Description: "test item",
		PricePerDay: pricePerDay,
		Stock:       stock,
		Available:   true,
		OwnerID:     ownerID,
	}
	db.Create(&item)
	return item
}

// generateTestToken создает JWT токен для пользователя
func generateTestToken(user models.User) string {
	token, _ := utils.GenerateJWT(user.ID, user.Email, user.Name)
	return token
}

// rentalDate парсит дату аренды из строки
func rentalDate(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}
