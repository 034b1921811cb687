package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aymen12m12-coder/sareeone1/models"
)

// Event types pushed to connected clients.
const (
	EventOrderUpdate  = "order_update"
	EventOrderClaimed = "order_claimed"
	EventDriverUpdate = "driver_update"
	EventAdminNotif   = "admin_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard/driver-app client keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate pushes a changed order to every client.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastOrderClaimed announces a successful driver claim. Driver apps
// refresh their available-order lists on this event.
func BroadcastOrderClaimed(order models.Order) {
	broadcast(Message{
		Event: EventOrderClaimed,
		Data:  order,
	})
}

// BroadcastDriverUpdate pushes a driver availability/profile change.
func BroadcastDriverUpdate(driver models.Driver) {
	broadcast(Message{
		Event: EventDriverUpdate,
		Data:  driver,
	})
}

// BroadcastAdminNotification sends a plain message to admin dashboards.
func BroadcastAdminNotification(message string) {
	broadcast(Message{
		Event: EventAdminNotif,
		Data:  message,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s event to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
