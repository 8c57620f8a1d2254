package collab

import (
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// PresenceManager tracks the live state of each connected client.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(clientID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[clientID] = p
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

// DropSelected removes id from every selection and returns the clients
// whose selection changed.
func (pm *PresenceManager) DropSelected(id string) []string {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var changed []string
	for clientID, p := range pm.presences {
		if !slices.Contains(p.Selection, id) {
			continue
		}
		next := *p
		next.Selection = slices.DeleteFunc(slices.Clone(p.Selection), func(s string) bool { return s == id })
		pm.presences[clientID] = &next
		changed = append(changed, clientID)
	}
	slices.Sort(changed)
	return changed
}

func (pm *PresenceManager) Get(clientID string) (*PresencePayload, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.presences[clientID]
	return p, ok
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return maps.Clone(pm.presences)
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
