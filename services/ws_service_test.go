package services

import (
	"sync"
	"testing"

	"minjemin-backend/models"

	"github.com/stretchr/testify/assert"
)

// staleClient создает клиента без читателя: небуферизованный канал
// сразу считается переполненным и клиент подлежит удалению
func staleClient(hub *RentalHub, userID uint) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan WSMessage),
		Hub:    hub,
	}
}

func TestNotifyRentalUpdateConcurrent(t *testing.T) {
	hub := NewRentalHub(nil)

	// Несколько подключений арендатора и владельца с переполненными буферами
	for i := 0; i < 64; i++ {
		hub.clients[staleClient(hub, uint(i%2+1))] = true
	}

	rental := &models.Rental{
		ID:         1,
		ItemID:     1,
		BorrowerID: 1,
		Status:     models.RentalStatusApproved,
		Item:       models.Item{ID: 1, Name: "Camera", OwnerID: 2},
	}

	// Переходы статусов уведомляют стороны параллельно из разных запросов
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				hub.NotifyRentalUpdate(rental)
			}
		}()
	}
	wg.Wait()

	// Все отставшие клиенты удалены ровно один раз
	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	assert.Len(t, hub.clients, 0)
}

func TestBroadcastAndSendConcurrent(t *testing.T) {
	hub := NewRentalHub(nil)
	go hub.Run()

	for i := 0; i < 32; i++ {
		hub.register <- staleClient(hub, uint(i%4+1))
	}

	message := WSMessage{Type: "rental_status"}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			hub.broadcast <- message
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			hub.SendToUser(uint(i%4+1), message)
		}
	}()
	wg.Wait()

	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	assert.Len(t, hub.clients, 0)
}
