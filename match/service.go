// Package match runs chess games between registered players: it checks who
// may act, keeps the clocks, stores games and answers queries about them.
package match

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nirajsah/microchess/render"
	"github.com/Nirajsah/microchess/rules"
)

// Service executes operations against stored matches. Calls are serialized.
type Service struct {
	mu    sync.Mutex
	cfg   Config
	store Store
	log   *zap.Logger
	now   func() time.Time
	stats map[string]*PlayerStats
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService returns a service backed by store. A nil logger discards logs.
func NewService(cfg Config, store Store, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cfg:   cfg,
		store: store,
		log:   logger,
		now:   time.Now,
		stats: make(map[string]*PlayerStats),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGame creates a match with white to move and returns its id.
func (s *Service) StartGame(ctx context.Context, white, black string) (string, error) {
	if white == black {
		return "", ErrSamePlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &Match{
		ID:      uuid.New().String(),
		Players: [2]string{white, black},
		Game:    rules.NewGame(),
		Clock:   NewClock(s.now(), s.cfg),
	}
	if err := s.store.Save(ctx, m); err != nil {
		return "", err
	}
	s.log.Info("game started",
		zap.String("game_id", m.ID),
		zap.String("white", white),
		zap.String("black", black),
		zap.Duration("start_time", s.cfg.StartTime))
	return m.ID, nil
}

// Execute runs op for actor. at is when the request was issued; requests
// older than the block delay are refused. The returned state is the game
// state after the call.
func (s *Service) Execute(ctx context.Context, gameID, actor string, at time.Time, op Operation) (rules.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.With(zap.String("game_id", gameID), zap.String("actor", actor), zap.String("op", string(op.Kind)))
	m, err := s.store.Load(ctx, gameID)
	if err != nil {
		return rules.InPlay, err
	}
	color, ok := m.ColorOf(actor)
	if !ok {
		log.Warn("operation rejected", zap.Error(ErrUnknownPlayer))
		return m.Game.State(), ErrUnknownPlayer
	}
	if m.Game.State() != rules.InPlay {
		return m.Game.State(), ErrGameOver
	}
	now := s.now()
	if s.cfg.BlockDelay > 0 && now.Sub(at) > s.cfg.BlockDelay {
		log.Warn("operation rejected", zap.Error(ErrStaleRequest), zap.Time("issued", at))
		return m.Game.State(), ErrStaleRequest
	}

	if op.Kind == OpResign {
		if err := m.Game.Resign(); err != nil {
			return m.Game.State(), err
		}
		m.Loser = actor
		return s.finish(ctx, log, m)
	}

	if color != m.Game.Active() {
		log.Warn("operation rejected", zap.Error(ErrNotYourTurn))
		return m.Game.State(), ErrNotYourTurn
	}
	if m.Clock.TimedOut(now, color) {
		if err := m.Game.Resign(); err != nil {
			return m.Game.State(), err
		}
		m.Loser = actor
		log.Info("flag fell", zap.Stringer("color", color))
		state, err := s.finish(ctx, log, m)
		if err != nil {
			return state, err
		}
		return state, ErrTimeout
	}

	board := m.Game.Board()
	md, err := op.decode(&board, color)
	if err != nil {
		log.Warn("operation rejected", zap.Error(err))
		return m.Game.State(), err
	}
	state, err := playTurn(m.Game, md)
	if err != nil {
		log.Warn("move rejected", zap.Stringer("move", md), zap.Error(err))
		return state, fmt.Errorf("%s %s: %w", op.Kind, md, err)
	}
	m.Clock.MakeMove(now, color)
	log.Info("move played",
		zap.Stringer("move", md),
		zap.Stringer("state", state),
		zap.Duration("time_left", m.Clock.TimeLeft[color.Index()]))

	if state != rules.InPlay {
		return s.finish(ctx, log, m)
	}
	if err := s.store.Save(ctx, m); err != nil {
		return state, err
	}
	return state, nil
}

// finish records the result of a match that just ended and stores it.
func (s *Service) finish(ctx context.Context, log *zap.Logger, m *Match) (rules.GameState, error) {
	winner, loser := outcome(m)
	for _, p := range m.Players {
		ps, ok := s.stats[p]
		if !ok {
			ps = &PlayerStats{PlayerID: p}
			s.stats[p] = ps
		}
		ps.record(p == winner && winner != "", p == loser && loser != "")
	}
	log.Info("game over",
		zap.Stringer("state", m.Game.State()),
		zap.String("winner", winner),
		zap.String("loser", loser))
	return m.Game.State(), s.store.Save(ctx, m)
}

// GameData is the view of a match from one player's seat.
type GameData struct {
	// Board is the FEN, followed by " ;wK" or " ;bK" when that king is in
	// check.
	Board       string             `json:"board"`
	PlayerTurn  rules.Color        `json:"player_turn"`
	Player      string             `json:"player"`
	PlayerColor rules.Color        `json:"player_color"`
	Moves       []rules.MoveRecord `json:"moves"`
	Opponent    string             `json:"opponent"`
	GameState   rules.GameState    `json:"game_state"`
}

// GameData returns the match as seen by player.
func (s *Service) GameData(ctx context.Context, gameID, player string) (GameData, error) {
	m, err := s.load(ctx, gameID)
	if err != nil {
		return GameData{}, err
	}
	color, ok := m.ColorOf(player)
	if !ok {
		return GameData{}, ErrUnknownPlayer
	}
	return GameData{
		Board:       annotatedFEN(m.Game),
		PlayerTurn:  m.Game.Active(),
		Player:      player,
		PlayerColor: color,
		Moves:       m.Game.Moves(),
		Opponent:    m.Opponent(player),
		GameState:   m.Game.State(),
	}, nil
}

func annotatedFEN(g *rules.Game) string {
	fen := g.FEN()
	b := g.Board()
	if b.InCheck(rules.White) {
		fen += " ;wK"
	}
	if b.InCheck(rules.Black) {
		fen += " ;bK"
	}
	return fen
}

// CapturedPieces lists the pieces taken so far, in order.
func (s *Service) CapturedPieces(ctx context.Context, gameID string) ([]rules.Piece, error) {
	m, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return m.Game.CapturedPieces(), nil
}

// TimeLeft returns both players' clocks as of now.
func (s *Service) TimeLeft(ctx context.Context, gameID string) (PlayerTime, error) {
	m, err := s.load(ctx, gameID)
	if err != nil {
		return PlayerTime{}, err
	}
	if m.Game.State() != rules.InPlay {
		return m.Clock.Left(), nil
	}
	now := s.now()
	active := m.Game.Active()
	return PlayerTime{
		White: m.Clock.Remaining(now, rules.White, active),
		Black: m.Clock.Remaining(now, rules.Black, active),
	}, nil
}

// BoardSVG draws the match from player's side. An empty player draws from
// White's side.
func (s *Service) BoardSVG(ctx context.Context, gameID, player string, w io.Writer) error {
	m, err := s.load(ctx, gameID)
	if err != nil {
		return err
	}
	color, _ := m.ColorOf(player)
	b := m.Game.Board()
	return render.Board(w, &b, render.Options{
		Flip:        color == rules.Black,
		CheckedKing: true,
		Active:      m.Game.Active(),
		Title:       m.Players[rules.White] + " vs " + m.Players[rules.Black],
	})
}

// Leaderboard returns every player with a finished game, best first.
func (s *Service) Leaderboard() []PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return leaderboard(s.stats)
}

// LegalMoves lists the moves available to the side to move.
func (s *Service) LegalMoves(ctx context.Context, gameID string) ([]rules.MoveData, error) {
	m, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return m.Game.LegalMoves(), nil
}

func (s *Service) load(ctx context.Context, gameID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx, gameID)
}
