package services

import (
	"log"
	"os"
	"sync"
	"time"

	"minjemin-backend/models"

	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// WSMessage представляет сообщение WebSocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RentalEventPayload представляет payload события по аренде
type RentalEventPayload struct {
	RentalID uint      `json:"rental_id"`
	ItemID   uint      `json:"item_id"`
	ItemName string    `json:"item_name"`
	Status   string    `json:"status"`
	Paid     bool      `json:"paid"`
	SentAt   time.Time `json:"sent_at"`
}

// Client представляет подключенного клиента
type Client struct {
	ID       uint
	UserID   uint
	Conn     *websocket.Conn
	Send     chan WSMessage
	Hub      *RentalHub
	LastPing time.Time
}

// RentalHub рассылает события жизненного цикла аренды арендатору и владельцу вещи.
// Доставка не гарантируется и не влияет на сами переходы статусов
type RentalHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan WSMessage
	mutex      sync.RWMutex
	db         *gorm.DB
}

// NewRentalHub создает новый хаб событий аренды
func NewRentalHub(db *gorm.DB) *RentalHub {
	return &RentalHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan WSMessage),
		db:         db,
	}
}

// Run запускает хаб
func (h *RentalHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			log.Printf("Client %d connected. Total clients: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()

			log.Printf("Client %d disconnected. Total clients: %d", client.UserID, len(h.clients))

		case message := <-h.broadcast:
			// Отставшие клиенты удаляются из карты, нужна полная блокировка
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// SendToUser отправляет сообщение конкретному пользователю.
// Отставшие клиенты удаляются из карты, нужна полная блокировка
func (h *RentalHub) SendToUser(userID uint, message WSMessage) {
	h.mutex.Lock()
	for client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.Unlock()
}

// NotifyRentalUpdate уведомляет стороны аренды об изменении ее состояния.
// Вызывается контроллерами после успешного перехода
func (h *RentalHub) NotifyRentalUpdate(rental *models.Rental) {
	if h == nil || rental == nil {
		return
	}

	message := WSMessage{
		Type: "rental_status",
		Payload: RentalEventPayload{
			RentalID: rental.ID,
			ItemID:   rental.ItemID,
			ItemName: rental.Item.Name,
			Status:   rental.Status,
			Paid:     rental.Paid,
			SentAt:   time.Now(),
		},
	}

	h.SendToUser(rental.BorrowerID, message)
	if rental.Item.OwnerID != rental.BorrowerID {
		h.SendToUser(rental.Item.OwnerID, message)
	}
}

// HandleWebSocket обрабатывает WebSocket соединение
func (h *RentalHub) HandleWebSocket(c *websocket.Conn) {
	// Получаем JWT токен из query параметров
	tokenString := c.Query("token")
	if tokenString == "" {
		c.Close()
		return
	}

	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		secretKey = "minjemin-secret-key-change-in-production"
	}

	// Парсим JWT токен
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})

	if err != nil || !token.Valid {
		c.Close()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.Close()
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.Close()
		return
	}

	userID := uint(userIDFloat)

	// Создаем клиента
	client := &Client{
		ID:       uint(time.Now().UnixNano()),
		UserID:   userID,
		Conn:     c,
		Send:     make(chan WSMessage, 256),
		Hub:      h,
		LastPing: time.Now(),
	}

	// Регистрируем клиента
	h.register <- client

	// Запускаем горутины для чтения и записи
	go client.writePump()
	go client.readPump()
}

// readPump читает сообщения из WebSocket
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		var message WSMessage
		err := c.Conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump записывает сообщения в WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage обрабатывает входящие сообщения
func (c *Client) handleMessage(message WSMessage) {
	switch message.Type {
	case "ping":
		c.handlePing(message)
	}
}

// handlePing обрабатывает ping сообщения
func (c *Client) handlePing(message WSMessage) {
	pongMessage := WSMessage{
		Type: "pong",
		Payload: map[string]interface{}{
			"timestamp": time.Now().Unix(),
		},
	}

	c.Hub.SendToUser(c.UserID, pongMessage)
}
