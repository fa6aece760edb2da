package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Type int

const (
	INFO Type = iota
	ERROR
	PROGRESS
)

const (
	pingPeriod   = 30 * time.Second
	writeTimeout = 40 * time.Second
	sendQueue    = 32
)

type Status struct {
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
	Type     Type      `json:"type"`
	Progress float32   `json:"progress"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames until the peer goes away.
func (c *client) readPump() {
	defer c.close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) close() {
	globalLock.Lock()
	defer globalLock.Unlock()
	if broadcastList[c] {
		delete(broadcastList, c)
		close(c.send)
	}
}

// NewClient subscribes conn to status messages. The last message is
// replayed so a fresh page shows the current state.
func NewClient(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}

	globalLock.Lock()
	broadcastList[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()

	go c.writePump()
	go c.readPump()
}

var (
	statusBroadcast = make(chan *Status, 16)
	broadcastList   = make(map[*client]bool)
	globalLock      sync.Mutex
	lastMessage     []byte
)

func unregisterClient(c *client) {
	c.close()
}

func broadcast(s *Status) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("[status] marshal error: %v", err)
		return
	}

	globalLock.Lock()
	defer globalLock.Unlock()
	lastMessage = data
	for c := range broadcastList {
		select {
		case c.send <- data:
		default:
			// slow reader, writePump will close the connection
			delete(broadcastList, c)
			close(c.send)
		}
	}
}

func init() {
	go func() {
		for s := range statusBroadcast {
			broadcast(s)
		}
	}()
}

func Clients() int {
	globalLock.Lock()
	defer globalLock.Unlock()
	return len(broadcastList)
}

func Send(msg string, _type Type, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	statusBroadcast <- &Status{
		Message:  msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress,
	}
}

func Info(format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(progress float32, format string, a ...interface{}) {
	Send(fmt.Sprintf(format, a...), PROGRESS, progress)
}
