package ws

import (
	"encoding/json"
	"sync"
	"time"

	"GroupLink/pkg/zlog"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Hub 在线连接表，同一用户可以有多个连接（多端登录）
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil || c.userID <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.userID]
	if set == nil {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	if c == nil || c.userID <= 0 {
		return
	}
	h.mu.Lock()
	set := h.clients[c.userID]
	if set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.Close()
}

func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Send 发送缓冲区满的连接视为已失效，直接踢掉
func (h *Hub) Send(userID int64, payload []byte) bool {
	if userID <= 0 || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	ok := false
	for _, c := range targets {
		if c.enqueue(payload) {
			ok = true
			continue
		}
		h.Unregister(c)
	}
	return ok
}

func (h *Hub) SendJSON(userID int64, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Send(userID, b)
	return nil
}

type Client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID int64, conn *websocket.Conn) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) UserID() int64 {
	return c.userID
}

func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// WritePump 独占连接的写端，定时发送 ping 保活
func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Warn("ws write failed", zap.Int64("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump 只处理控制帧，客户端发来的业务消息直接丢弃；连接断开时返回
func (c *Client) ReadPump() {
	if c.conn == nil {
		return
	}
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
