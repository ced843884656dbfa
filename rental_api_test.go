package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"minjemin-backend/controllers"
	"minjemin-backend/models"
	"minjemin-backend/routes"
	"minjemin-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupRentalTestApp() (*fiber.App, *gorm.DB) {
	db := setupTestDB()

	app := fiber.New()

	hub := services.NewRentalHub(db)
	rentalService := services.NewRentalService(db)
	listingService := services.NewListingService(db)
	paymentService := services.NewPaymentService(db, &services.MockPaymentProvider{})
	statsService := services.NewStatsService(db)

	routes.SetupRentalRoutes(app, controllers.NewRentalController(rentalService, listingService, hub))
	routes.SetupPaymentRoutes(app, controllers.NewPaymentController(paymentService, rentalService, hub))
	routes.SetupStatsRoutes(app, controllers.NewStatsController(statsService))

	return app, db
}

func TestRentalLifecycleAPI(t *testing.T) {
	app, db := setupRentalTestApp()
	owner, borrower := createTestUsers(db)
	item := createTestItem(db, owner.ID, "Camera", 100, 1)

	ownerToken := generateTestToken(owner)
	borrowerToken := generateTestToken(borrower)

	send := func(method, url, token string, body interface{}) (*controllers.RentalResponse, int) {
		var reader *bytes.Buffer
		if body != nil {
			jsonData, _ := json.Marshal(body)
			reader = bytes.NewBuffer(jsonData)
		} else {
			reader = bytes.NewBuffer(nil)
		}

		req := httptest.NewRequest(method, url, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := app.Test(req)
		assert.NoError(t, err)

		var response controllers.RentalResponse
		json.NewDecoder(resp.Body).Decode(&response)
		return &response, resp.StatusCode
	}

	// Без токена заявку создать нельзя
	_, status := send("POST", "/rentals", "", controllers.CreateRentalRequest{ItemID: item.ID})
	assert.Equal(t, 401, status)

	// Создаем заявку от имени арендатора
	response, status := send("POST", "/rentals", borrowerToken, controllers.CreateRentalRequest{
		ItemID:    item.ID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-03",
	})
	assert.Equal(t, 201, status)
	assert.True(t, response.Success)
	assert.Equal(t, models.RentalStatusPending, response.Rental.Status)
	assert.Equal(t, 300.0, response.Rental.TotalPrice)
	rentalID := response.Rental.ID

	// Неверный формат даты
	_, status = send("POST", "/rentals", borrowerToken, controllers.CreateRentalRequest{
		ItemID:    item.ID,
		StartDate: "01.01.2026",
		EndDate:   "2026-01-03",
	})
	assert.Equal(t, 400, status)

	// Подтвердить может только владелец
	response, status = send("POST", fmt.Sprintf("/rentals/%d/approve", rentalID), borrowerToken, nil)
	assert.Equal(t, 400, status)
	assert.False(t, response.Success)

	response, status = send("POST", fmt.Sprintf("/rentals/%d/approve", rentalID), ownerToken, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, models.RentalStatusApproved, response.Rental.Status)

	// Начать без оплаты нельзя
	_, status = send("POST", fmt.Sprintf("/rentals/%d/start", rentalID), borrowerToken, nil)
	assert.Equal(t, 400, status)

	// Оплатить может только арендатор
	payReq := httptest.NewRequest("POST", fmt.Sprintf("/payments/rental/%d", rentalID),
		bytes.NewBufferString(`{"amount": 300}`))
	payReq.Header.Set("Content-Type", "application/json")
	payReq.Header.Set("Authorization", "Bearer "+ownerToken)
	payResp, err := app.Test(payReq)
	assert.NoError(t, err)
	assert.Equal(t, 400, payResp.StatusCode)

	payReq = httptest.NewRequest("POST", fmt.Sprintf("/payments/rental/%d", rentalID),
		bytes.NewBufferString(`{"amount": 300}`))
	payReq.Header.Set("Content-Type", "application/json")
	payReq.Header.Set("Authorization", "Bearer "+borrowerToken)
	payResp, err = app.Test(payReq)
	assert.NoError(t, err)
	assert.Equal(t, 201, payResp.StatusCode)

	var paymentResponse controllers.PaymentResponse
	json.NewDecoder(payResp.Body).Decode(&paymentResponse)
	assert.True(t, paymentResponse.Success)
	assert.True(t, strings.HasPrefix(paymentResponse.Payment.PaymentRef, "MOCK-"))

	// Выдача и возврат вещи
	response, status = send("POST", fmt.Sprintf("/rentals/%d/start", rentalID), borrowerToken, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, models.RentalStatusOngoing, response.Rental.Status)

	response, status = send("POST", fmt.Sprintf("/rentals/%d/complete", rentalID), ownerToken, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, models.RentalStatusCompleted, response.Rental.Status)

	// Единица вернулась на склад
	var freshItem models.Item
	db.First(&freshItem, item.ID)
	assert.Equal(t, 1, freshItem.Stock)
	assert.True(t, freshItem.Available)

	// Завершенную аренду отменить нельзя
	_, status = send("POST", fmt.Sprintf("/rentals/%d/cancel", rentalID), borrowerToken, nil)
	assert.Equal(t, 400, status)

	// Несуществующая аренда и неверный ID
	_, status = send("POST", "/rentals/9999/approve", ownerToken, nil)
	assert.Equal(t, 404, status)
	_, status = send("GET", "/rentals/abc", "", nil)
	assert.Equal(t, 400, status)

	// Административное удаление записи
	_, status = send("DELETE", fmt.Sprintf("/rentals/%d", rentalID), ownerToken, nil)
	assert.Equal(t, 200, status)
	_, status = send("GET", fmt.Sprintf("/rentals/%d", rentalID), "", nil)
	assert.Equal(t, 404, status)
}

func TestRentalListingAPI(t *testing.T) {
	app, db := setupRentalTestApp()
	_, borrower := seedListingData(db)
	borrowerToken := generateTestToken(borrower)

	get := func(url string) (*controllers.RentalPageResponse, int) {
		req := httptest.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", "Bearer "+borrowerToken)

		resp, err := app.Test(req)
		assert.NoError(t, err)

		var response controllers.RentalPageResponse
		json.NewDecoder(resp.Body).Decode(&response)
		return &response, resp.StatusCode
	}

	// Оба режима выдают одинаковую страницу
	memPage, status := get("/rentals/my/page?name=cam&status=pend&page=0&size=2")
	assert.Equal(t, 200, status)
	dbPage, status := get("/rentals/my/pagedb?name=cam&status=pend&page=0&size=2")
	assert.Equal(t, 200, status)
	assert.Equal(t, memPage.Page.Total, dbPage.Page.Total)
	assert.Equal(t, rentalIDs(memPage.Page.Rentals), rentalIDs(dbPage.Page.Rentals))

	// Завышенный размер страницы ограничивается максимумом
	page, status := get("/rentals/my/page?size=500")
	assert.Equal(t, 200, status)
	assert.Equal(t, 100, page.Page.Size)

	// Недопустимый размер сбрасывается на значение по умолчанию
	page, status = get("/rentals/my/page?size=0")
	assert.Equal(t, 200, status)
	assert.Equal(t, 10, page.Page.Size)

	// Отрицательная страница трактуется как первая
	page, status = get("/rentals/my/page?page=-5&size=3")
	assert.Equal(t, 200, status)
	assert.Equal(t, 0, page.Page.Page)
	assert.Len(t, page.Page.Rentals, 3)

	// Список без пагинации
	req := httptest.NewRequest("GET", "/rentals/my", nil)
	req.Header.Set("Authorization", "Bearer "+borrowerToken)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var listResponse controllers.RentalsResponse
	json.NewDecoder(resp.Body).Decode(&listResponse)
	assert.Len(t, listResponse.Rentals, 7)

	// Без токена списки недоступны
	req = httptest.NewRequest("GET", "/rentals/my", nil)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestStatsAPI(t *testing.T) {
	app, db := setupRentalTestApp()
	seedListingData(db)

	req := httptest.NewRequest("GET", "/stats/rentals", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var rentalStats controllers.RentalStatsResponse
	json.NewDecoder(resp.Body).Decode(&rentalStats)
	assert.True(t, rentalStats.Success)
	assert.Equal(t, 7, rentalStats.Stats.TotalRentals)
	assert.Equal(t, int64(3), rentalStats.Stats.Statuses[models.RentalStatusPending])

	req = httptest.NewRequest("GET", "/stats/products", nil)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var productStats controllers.ProductStatsResponse
	json.NewDecoder(resp.Body).Decode(&productStats)
	assert.True(t, productStats.Success)
	assert.Equal(t, 3, productStats.Stats.TotalProducts)
}
