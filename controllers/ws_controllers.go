package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/aymen12m12-coder/sareeone1/events"
	"github.com/aymen12m12-coder/sareeone1/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler upgrades the connection and streams order/driver events
// until the client disconnects.
func EventsHandler(c *gin.Context) {
	userTypeInterface, exists := c.Get("user_type")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userType := userTypeInterface.(string)

	if userType != models.UserTypeAdmin && userType != models.UserTypeDriver {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, userType)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
