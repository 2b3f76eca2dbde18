package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	ID     string
	UserID uint
	Role   string
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
}

// clientMessage is what the browser sends: authenticate first, then join or
// leave order rooms.
type clientMessage struct {
	Action  string `json:"action"`
	Token   string `json:"token"`
	OrderID uint   `json:"orderId"`
}

// Handler upgrades the connection and services one client until it drops.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			return
		}

		client := &Client{
			ID:    uuid.NewString(),
			conn:  conn,
			send:  make(chan []byte, 16),
			rooms: make(map[string]bool),
		}
		h.add(client)

		go client.writeLoop()
		client.readLoop(h)
	}
}

func (c *Client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (c *Client) readLoop(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Action {
		case "authenticate":
			c.authenticate(h, msg.Token)
		case "join-order":
			if c.UserID != 0 && msg.OrderID != 0 {
				h.join(c, fmt.Sprintf("order:%d", msg.OrderID))
			}
		case "leave-order":
			if msg.OrderID != 0 {
				h.leave(c, fmt.Sprintf("order:%d", msg.OrderID))
			}
		}
	}
}

func (c *Client) authenticate(h *Hub, tokenString string) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.sendEvent(Event{Type: "error", Payload: gin.H{"message": "Authentication failed"}})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	userID, _ := claims["user_id"].(float64)
	role, _ := claims["role"].(string)
	if userID == 0 {
		return
	}

	c.UserID = uint(userID)
	c.Role = strings.ToUpper(role)
	h.join(c, fmt.Sprintf("user:%d", c.UserID))
	h.join(c, "role:"+c.Role)
	c.sendEvent(Event{Type: "authenticated", Payload: gin.H{"userId": c.UserID, "role": c.Role}})
}

func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
