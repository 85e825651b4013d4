package rules

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// boardRecord is the stored form of a Board: raw bitboards in Piece order.
type boardRecord struct {
	Pieces         [pieceCount]uint64 `json:"pieces"`
	CastlingRights [2]bool            `json:"castling_rights"`
	EnPassant      uint64             `json:"en_passant"`
}

type positionRecord struct {
	Hash  uint64 `json:"hash"`
	Count uint32 `json:"count"`
}

// gameRecord is the flat stored form of a Game.
type gameRecord struct {
	Board          boardRecord      `json:"board"`
	Active         Color            `json:"active"`
	Moves          []MoveRecord     `json:"moves"`
	CapturedPieces []Piece          `json:"captured_pieces"`
	State          GameState        `json:"state"`
	CurrentHash    uint64           `json:"current_hash"`
	PositionCount  []positionRecord `json:"position_count"`
	HalfmoveClock  uint32           `json:"halfmove_clock"`
	FullmoveCount  uint32           `json:"fullmove_count"`
}

func (g *Game) MarshalJSON() ([]byte, error) {
	rec := gameRecord{
		Active:         g.active,
		Moves:          g.moves,
		CapturedPieces: g.capturedPieces,
		State:          g.state,
		CurrentHash:    g.currentHash,
		HalfmoveClock:  g.halfmoveClock,
		FullmoveCount:  g.fullmoveCount,
	}
	for p, bb := range g.board.pieces {
		rec.Board.Pieces[p] = uint64(bb)
	}
	rec.Board.CastlingRights = g.board.castlingRights
	rec.Board.EnPassant = uint64(g.board.enPassant)

	hashes := maps.Keys(g.positionCount)
	slices.Sort(hashes)
	rec.PositionCount = make([]positionRecord, 0, len(hashes))
	for _, h := range hashes {
		rec.PositionCount = append(rec.PositionCount, positionRecord{Hash: h, Count: g.positionCount[h]})
	}
	return json.Marshal(rec)
}

// UnmarshalJSON restores a game written by MarshalJSON. The board is
// validated and the stored hash must match the position.
func (g *Game) UnmarshalJSON(data []byte) error {
	var rec gameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	var b Board
	for p, bb := range rec.Board.Pieces {
		b.pieces[p] = Bitboard(bb)
	}
	b.castlingRights = rec.Board.CastlingRights
	b.enPassant = Bitboard(rec.Board.EnPassant)
	if err := b.Validate(); err != nil {
		return fmt.Errorf("stored board: %w", err)
	}
	if h := ComputeHash(&b, rec.Active); h != rec.CurrentHash {
		return fmt.Errorf("stored hash %016x does not match position %016x", rec.CurrentHash, h)
	}

	restored := Game{
		board:          b,
		active:         rec.Active,
		moves:          rec.Moves,
		capturedPieces: rec.CapturedPieces,
		state:          rec.State,
		currentHash:    rec.CurrentHash,
		positionCount:  make(map[uint64]uint32, len(rec.PositionCount)),
		halfmoveClock:  rec.HalfmoveClock,
		fullmoveCount:  rec.FullmoveCount,
	}
	restored.board.tables = g.board.tables
	for _, pc := range rec.PositionCount {
		restored.positionCount[pc.Hash] = pc.Count
	}
	*g = restored
	return nil
}
