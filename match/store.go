package match

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Nirajsah/microchess/rules"
)

// Match is one game between two players together with its clock.
type Match struct {
	ID string `json:"id"`
	// Players by color: Players[rules.White] plays White.
	Players [2]string   `json:"players"`
	Game    *rules.Game `json:"game"`
	Clock   Clock       `json:"clock"`
	// Loser is set when the game ended by resignation or on time.
	Loser string `json:"loser,omitempty"`
}

// ColorOf returns the color player plays.
func (m *Match) ColorOf(player string) (rules.Color, bool) {
	switch player {
	case m.Players[rules.White]:
		return rules.White, true
	case m.Players[rules.Black]:
		return rules.Black, true
	}
	return 0, false
}

// Opponent returns the other player.
func (m *Match) Opponent(player string) string {
	if c, ok := m.ColorOf(player); ok {
		return m.Players[c.Opposite()]
	}
	return ""
}

// Store persists matches.
type Store interface {
	Load(ctx context.Context, id string) (*Match, error)
	Save(ctx context.Context, m *Match) error
	IDs(ctx context.Context) ([]string, error)
}

// MemoryStore keeps serialized matches in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	m := &Match{Game: &rules.Game{}}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemoryStore) Save(ctx context.Context, m *Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[m.ID] = data
	s.mu.Unlock()
	return nil
}

// IDs lists the stored match ids in sorted order.
func (s *MemoryStore) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := maps.Keys(s.records)
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}
