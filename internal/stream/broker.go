// Package stream broadcasts animation frames to websocket clients.
package stream

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopped is returned when subscribing to a broker that is no longer
// running.
var ErrStopped = errors.New("stream: broker stopped")

const clientBuffer = 64

// A Message is one frame or lifecycle event.
type Message struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	Seq    uint64    `json:"seq"`
	Time   float64   `json:"time"`
	Values []float64 `json:"values,omitempty"`
	Phase  string    `json:"phase,omitempty"`
	Loops  uint32    `json:"loops,omitempty"`
	Hex    string    `json:"hex,omitempty"`
}

// A Broker broadcasts messages to multiple clients. Clients that fall behind
// lose messages instead of stalling the broadcast.
type Broker struct {
	joining  chan chan *Message
	leaving  chan chan *Message
	messages chan *Message
	done     chan struct{}

	clients atomic.Int64
	dropped atomic.Uint64
}

func NewBroker() *Broker {
	return &Broker{
		joining:  make(chan chan *Message),
		leaving:  make(chan chan *Message),
		messages: make(chan *Message),
		done:     make(chan struct{}),
	}
}

// Run manages client connections and broadcasts until ctx is done. New
// clients receive the latest message first.
func (b *Broker) Run(ctx context.Context) {
	clients := make(map[chan *Message]bool)
	var last *Message
	defer func() {
		close(b.done)
		for c := range clients {
			close(c)
		}
		b.clients.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-b.joining:
			clients[c] = true
			b.clients.Store(int64(len(clients)))
			if last != nil {
				c <- last
			}
		case c := <-b.leaving:
			if clients[c] {
				delete(clients, c)
				close(c)
				b.clients.Store(int64(len(clients)))
			}
		case m := <-b.messages:
			last = m
			for c := range clients {
				select {
				case c <- m:
				default:
					b.dropped.Add(1)
				}
			}
		}
	}
}

// Publish hands m to the broadcast loop. It is a no-op once the broker has
// stopped.
func (b *Broker) Publish(m *Message) {
	select {
	case b.messages <- m:
	case <-b.done:
	}
}

// Subscribe registers a client. The channel is closed when leave is called
// or the broker stops.
func (b *Broker) Subscribe() (<-chan *Message, func(), error) {
	c := make(chan *Message, clientBuffer)
	select {
	case b.joining <- c:
	case <-b.done:
		return nil, nil, ErrStopped
	}
	leave := func() {
		select {
		case b.leaving <- c:
		case <-b.done:
		}
	}
	return c, leave, nil
}

func (b *Broker) Clients() int { return int(b.clients.Load()) }

// Dropped counts messages not delivered to slow clients.
func (b *Broker) Dropped() uint64 { return b.dropped.Load() }
