package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Command is a client request such as {"type": "replay"}.
type Command struct {
	Type string `json:"type"`
}

type client struct {
	ws        *websocket.Conn
	send      <-chan *Message
	onCommand func(Command)
}

// reader consumes client messages until the connection fails. Text messages
// are decoded as commands; everything else is ignored.
func (c *client) reader() {
	defer c.ws.Close()
	for {
		messageType, r, err := c.ws.NextReader()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var cmd Command
		if err := json.NewDecoder(r).Decode(&cmd); err != nil {
			log.Printf("stream: bad command from %s: %v", c.ws.RemoteAddr(), err)
			continue
		}
		if c.onCommand != nil {
			c.onCommand(cmd)
		}
	}
}

// writer forwards broker messages until the subscription closes or a write
// fails.
func (c *client) writer() {
	defer c.ws.Close()
	for m := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteJSON(m); err != nil {
			log.Printf("stream: write to %s: %v", c.ws.RemoteAddr(), err)
			return
		}
	}
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// Handler upgrades requests to websockets subscribed to a broker.
type Handler struct {
	Broker *Broker
	// OnCommand receives decoded client commands. It may be nil.
	OnCommand func(Command)
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade: %v", err)
		return
	}
	send, leave, err := h.Broker.Subscribe()
	if err != nil {
		ws.Close()
		return
	}
	defer leave()

	c := &client{ws: ws, send: send, onCommand: h.OnCommand}
	go c.writer()
	c.reader()
}
