package services

import (
	"minjemin-backend/models"

	"gorm.io/gorm"
)

// ProductStats представляет сводку по вещам
type ProductStats struct {
	TotalProducts int           `json:"total_products"`
	DataProducts  []models.Item `json:"data_products"`
}

// RentalStats представляет сводку по арендам с разбивкой по статусам
type RentalStats struct {
	TotalRentals int              `json:"total_rentals"`
	DataRentals  []models.Rental  `json:"data_rentals"`
	Statuses     map[string]int64 `json:"statuses"`
}

// StatsService считает агрегаты по текущему содержимому хранилища
type StatsService struct {
	db *gorm.DB
}

// NewStatsService создает новый сервис статистики
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// TotalProducts возвращает количество вещей и их полный список
func (s *StatsService) TotalProducts() (*ProductStats, error) {
	var items []models.Item
	if err := s.db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}

	return &ProductStats{
		TotalProducts: len(items),
		DataProducts:  items,
	}, nil
}

// TotalRentals возвращает количество аренд, их список и разбивку по статусам
func (s *StatsService) TotalRentals() (*RentalStats, error) {
	var rentals []models.Rental
	if err := s.db.Preload("Item").Order("id ASC").Find(&rentals).Error; err != nil {
		return nil, err
	}
	if rentals == nil {
		rentals = []models.Rental{}
	}

	statuses := make(map[string]int64)
	for i := range rentals {
		statuses[rentals[i].Status]++
	}

	return &RentalStats{
		TotalRentals: len(rentals),
		DataRentals:  rentals,
		Statuses:     statuses,
	}, nil
}
