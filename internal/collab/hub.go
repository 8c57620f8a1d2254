package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/typeid"
)

// Loader reads a board's canvas and its snapshot version.
type Loader func(ctx context.Context, boardID string) (*canvas.Canvas, int, error)

// Saver persists a board's canvas as a new snapshot.
type Saver func(ctx context.Context, boardID string, c *canvas.Canvas) error

const (
	saveInterval = 30 * time.Second
	ioTimeout    = 10 * time.Second
)

type Room struct {
	boardID  string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *DocumentState
}

func NewRoom(boardID string, state *DocumentState) *Room {
	return &Room{
		boardID:  boardID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

// Hub owns the rooms of all boards with connected clients. Joins and
// leaves are serialized through Run; messages are handled on the
// clients' read goroutines.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room // boardID -> room

	load Loader
	save Saver

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(load Loader, save Saver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		load:       load,
		save:       save,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run processes joins and leaves and saves changed rooms periodically
// until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop ends Run after saving every changed room. Run must be running.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) getRoom(boardID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[boardID]
	return room, ok
}

// openRoom returns the board's room, loading its canvas on first use.
func (h *Hub) openRoom(boardID string) (*Room, error) {
	if room, ok := h.getRoom(boardID); ok {
		return room, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	c, version, err := h.load(ctx, boardID)
	if err != nil {
		return nil, err
	}

	room := NewRoom(boardID, NewDocumentState(c, version))
	h.mu.Lock()
	h.rooms[boardID] = room
	h.mu.Unlock()
	return room, nil
}

func (h *Hub) addClient(client *Client) {
	room, err := h.openRoom(client.BoardID)
	if err != nil {
		slog.Error("load board", "error", err, "board", client.BoardID)
		client.Send(errorMessage("failed to load board"))
		client.closeSend()
		return
	}

	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, UserID: client.UserID})
	client.Send(&Message{Type: TypeWelcome, BoardID: client.BoardID, Payload: welcome})

	doc, version, seq, err := room.state.Snapshot()
	if err != nil {
		slog.Error("snapshot board", "error", err, "board", client.BoardID)
	} else {
		payload, _ := json.Marshal(DocSyncPayload{Version: version, ServerSeq: seq, Document: doc})
		client.Send(&Message{Type: TypeDocSync, BoardID: client.BoardID, Seq: seq, Payload: payload})
	}

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.BoardID, &Message{
		Type:     TypePresenceJoin,
		UserID:   client.UserID,
		ClientID: client.ClientID,
		Payload:  joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	client.closeSend()
	room.presence.Remove(client.ClientID)

	if empty {
		h.saveRoom(room)
	} else {
		leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
		h.broadcastToRoom(client.BoardID, &Message{
			Type:     TypePresenceLeave,
			UserID:   client.UserID,
			ClientID: client.ClientID,
			Payload:  leavePayload,
		}, "")
	}

	slog.Info("client left", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) saveRoom(room *Room) {
	err := room.state.Save(func(c *canvas.Canvas) error {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return h.save(ctx, room.boardID, c)
	})
	if err != nil {
		slog.Error("save board", "error", err, "board", room.boardID)
	}
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room, ok := h.getRoom(sender.BoardID)
	if !ok {
		return
	}

	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(room, sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(room, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(errorMessage("unknown message type " + msg.Type))
	}
}

func (h *Hub) handlePresenceUpdate(room *Room, sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	presence.HoverTarget = ""
	if presence.Cursor != nil {
		presence.HoverTarget = room.state.HoverTarget(geom.Pt(presence.Cursor.X, presence.Cursor.Y))
	}

	room.presence.Update(sender.ClientID, &presence)
	h.broadcastPresence(room, sender.ClientID, sender.UserID, &presence)
}

func (h *Hub) broadcastPresence(room *Room, clientID, userID string, p *PresencePayload) {
	payload, _ := json.Marshal(p)
	h.broadcastToRoom(room.boardID, &Message{
		Type:     TypePresenceUpdate,
		UserID:   userID,
		ClientID: clientID,
		Payload:  payload,
	}, clientID)
}

func (h *Hub) handleOpSubmit(room *Room, sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid operation payload", "error", err, "user", sender.UserID)
		sender.Send(errorMessage("invalid operation payload"))
		return
	}
	op := submit.Operation
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	seq, err := room.state.ApplyOperation(&op)
	if err != nil {
		slog.Debug("operation rejected", "op", op.Type, "error", err, "user", sender.UserID)
		nack, _ := json.Marshal(OperationNackPayload{OperationID: op.ID, Reason: err.Error()})
		sender.Send(&Message{Type: TypeOpNack, BoardID: room.boardID, Payload: nack})
		return
	}

	now := time.Now().UnixMilli()
	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ObjectID:        op.ObjectID,
		ServerSeq:       seq,
		ServerTimestamp: now,
	})
	sender.Send(&Message{Type: TypeOpAck, BoardID: room.boardID, Seq: seq, Payload: ack})

	op.Timestamp = now
	broadcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	h.broadcastToRoom(room.boardID, &Message{
		Type:     TypeOpBroadcast,
		BoardID:  room.boardID,
		UserID:   sender.UserID,
		ClientID: sender.ClientID,
		Seq:      seq,
		Payload:  broadcast,
	}, sender.ClientID)

	if op.Type == OpObjectRemove {
		for _, clientID := range room.presence.DropSelected(op.ObjectID) {
			if p, ok := room.presence.Get(clientID); ok {
				h.broadcastPresence(room, clientID, h.userOf(room, clientID), p)
			}
		}
	}
}

func (h *Hub) userOf(room *Room, clientID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := room.clients[clientID]; ok {
		return c.UserID
	}
	return ""
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
