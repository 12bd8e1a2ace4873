package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GroupConn is the write side of a connected viewer.
type GroupConn interface {
	WriteMessage(messageType int, data []byte) error
}

// CollectionHub tracks which local connections belong to which collection
// group. Cross-process fan-out goes through the Redis channel layer; the
// hub only ever delivers to connections in this process.
type CollectionHub struct {
	mu     sync.RWMutex
	groups map[string]map[GroupConn]bool
}

var Hub = NewCollectionHub()

func NewCollectionHub() *CollectionHub {
	return &CollectionHub{groups: make(map[string]map[GroupConn]bool)}
}

func (h *CollectionHub) Join(group string, conn GroupConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[group] == nil {
		h.groups[group] = make(map[GroupConn]bool)
	}

	h.groups[group][conn] = true
}

func (h *CollectionHub) Leave(group string, conn GroupConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.groups[group], conn)

	if len(h.groups[group]) == 0 {
		delete(h.groups, group)
	}
}

// BroadcastLocal delivers a payload to every local member of a group.
// Write failures are logged and swallowed; delivery is at most once.
func (h *CollectionHub) BroadcastLocal(group string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.groups[group] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write failed for group %s: %s", group, err)
		}
	}
}

// ChannelLayer carries group events between processes.
type ChannelLayer interface {
	Publish(channel string, payload []byte) error
}

var Channels ChannelLayer

type redisChannelLayer struct{}

func (redisChannelLayer) Publish(channel string, payload []byte) error {
	return RedisConnection.Publish(ctx, channel, payload).Err()
}

// InitChannelLayer wires Redis pub/sub into the local hub. Every process
// subscribes to all collection channels and relays to its own viewers.
func InitChannelLayer() {
	Channels = redisChannelLayer{}

	pubsub := RedisConnection.PSubscribe(ctx, "collection_*")

	go func() {
		for msg := range pubsub.Channel() {
			Hub.BroadcastLocal(msg.Channel, []byte(msg.Payload))
		}
	}()
}

func collectionGroup(categoryId uint) string {
	return fmt.Sprintf("collection_%d", categoryId)
}

// PublishCollectionEvent tells connected viewers that catalog content
// changed. Fire and forget: failures are logged, never surfaced.
func PublishCollectionEvent(categoryId uint, message any) {
	if Channels == nil {
		return
	}

	payload, err := sonic.Marshal(fiber.Map{"message": message})

	if err != nil {
		log.Printf("failed to marshal collection event: %s", err)
		return
	}

	if err := Channels.Publish(collectionGroup(categoryId), payload); err != nil {
		log.Printf("failed to publish collection event: %s", err)
	}
}

type inboundWsMessage struct {
	Message any `json:"message"`
}

func websocketRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}

		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/collections/:id", websocket.New(handleCollectionSocket))
}

func handleCollectionSocket(c *websocket.Conn) {
	group := "collection_" + c.Params("id")

	Hub.Join(group, c)
	defer Hub.Leave(group, c)

	welcome, _ := sonic.Marshal(fiber.Map{
		"message": fiber.Map{
			"action":        "connected",
			"collection_id": c.Params("id"),
		},
	})

	if err := c.WriteMessage(websocket.TextMessage, welcome); err != nil {
		return
	}

	for {
		_, data, err := c.ReadMessage()

		if err != nil {
			return
		}

		var inbound inboundWsMessage

		if err := sonic.Unmarshal(data, &inbound); err != nil || inbound.Message == nil {
			reply, _ := sonic.Marshal(fiber.Map{"error": "Invalid message."})
			_ = c.WriteMessage(websocket.TextMessage, reply)
			continue
		}

		// Relay through the channel layer so every process, including
		// this one, fans the message out to its viewers.
		payload, err := sonic.Marshal(fiber.Map{"message": inbound.Message})

		if err != nil {
			continue
		}

		if err := Channels.Publish(group, payload); err != nil {
			log.Printf("failed to relay message for %s: %s", group, err)
		}
	}
}
