package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/medifront/frontdesk-backend/pkg/logger"
)

var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Client is one connected queue display.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans queue updates out to every connected display client.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// BroadcastQueueUpdate pushes a queue change to every display. Marshal or
// delivery problems are logged and never surfaced to the caller.
func (h *Hub) BroadcastQueueUpdate(payload interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		log := logger.L()
		log.Error().Err(err).Msg("ws: marshal queue update")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log := logger.L()
		log.Warn().Msg("ws: broadcast buffer full, dropping queue update")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			log := logger.L()
			log.Debug().Int("clients", len(h.Clients)).Msg("ws: display client connected")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log := logger.L()
				log.Debug().Int("clients", len(h.Clients)).Msg("ws: display client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
