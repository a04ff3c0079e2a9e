package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 2048
)

// Client represents a WebSocket client connection
type Client struct {
	UserID   string
	UserRole string // "driver" or "admin"
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
	db       *sqlx.DB
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewClient creates a new WebSocket client
func NewClient(userID string, userRole string, conn *websocket.Conn, hub *Hub, db *sqlx.DB) *Client {
	return &Client{
		UserID:   userID,
		UserRole: userRole,
		conn:     conn,
		hub:      hub,
		send:     make(chan []byte, 256),
		db:       db,
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		// Mark the driver's vehicle as disconnected when the socket closes
		c.markAsDisconnected()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Invalid message format: %v", err)
			continue
		}

		switch msg.Type {
		case "ping":
			response := map[string]interface{}{
				"type":      "pong",
				"timestamp": time.Now().Format(time.RFC3339),
			}
			responseData, _ := json.Marshal(response)
			c.send <- responseData

		case "location_update":
			c.handleLocationUpdate(msg.Data)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleLocationUpdate stores the latest position of a vehicle and relays it
// to connected dashboard users
func (c *Client) handleLocationUpdate(data map[string]interface{}) {
	vehicleID, ok := data["vehicle_id"].(string)
	if !ok || vehicleID == "" {
		log.Printf("❌ Missing vehicle_id in location update from %s", c.UserID)
		return
	}

	latitude, ok := data["latitude"].(float64)
	if !ok {
		log.Printf("❌ Invalid latitude in location update")
		return
	}

	longitude, ok := data["longitude"].(float64)
	if !ok {
		log.Printf("❌ Invalid longitude in location update")
		return
	}

	var heading, speed *float64
	if h, ok := data["heading"].(float64); ok {
		heading = &h
	}
	if s, ok := data["speed"].(float64); ok {
		speed = &s
	}

	timestamp, ok := data["timestamp"].(float64)
	if !ok {
		log.Printf("❌ Invalid timestamp in location update")
		return
	}

	if c.db == nil {
		log.Printf("❌ Database connection not available")
		return
	}

	// Keep only the latest position per vehicle; live tracking rides on the
	// broadcast, the row is the fallback after a disconnect
	query := `
		INSERT INTO vehicle_current_location (
			vehicle_id, driver_id, latitude, longitude, heading, speed, timestamp, is_connected, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, EXTRACT(EPOCH FROM NOW())::BIGINT)
		ON CONFLICT (vehicle_id)
		DO UPDATE SET
			driver_id = EXCLUDED.driver_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			heading = EXCLUDED.heading,
			speed = EXCLUDED.speed,
			timestamp = EXCLUDED.timestamp,
			is_connected = TRUE,
			updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
		RETURNING updated_at
	`

	var updatedAt int64
	err := c.db.QueryRow(query, vehicleID, c.UserID, latitude, longitude, heading, speed, int64(timestamp)).Scan(&updatedAt)
	if err != nil {
		log.Printf("❌ Error saving location to database: %v", err)
		return
	}

	locationUpdate := map[string]interface{}{
		"type": "vehicle_location_update",
		"data": map[string]interface{}{
			"vehicle_id": vehicleID,
			"driver_id":  c.UserID,
			"latitude":   latitude,
			"longitude":  longitude,
			"heading":    heading,
			"speed":      speed,
			"timestamp":  int64(timestamp),
			"updated_at": updatedAt,
		},
	}

	c.hub.BroadcastToRole("admin", locationUpdate)
}

// markAsDisconnected flags the driver's vehicle as offline in the location
// table so the dashboard keeps showing the last known position
func (c *Client) markAsDisconnected() {
	// Only drivers feed locations; nothing to flag for admins
	if c.UserRole != "driver" {
		return
	}
	if c.db == nil {
		return
	}

	query := `
		UPDATE vehicle_current_location
		SET is_connected = FALSE,
		    updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
		WHERE driver_id = $1
	`

	if _, err := c.db.Exec(query, c.UserID); err != nil {
		log.Printf("❌ Error marking vehicle as disconnected: %v", err)
		return
	}

	log.Printf("🔴 Driver %s disconnected (last position preserved)", c.UserID)
}
