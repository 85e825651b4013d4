package rules

// Perft counts leaf nodes (move sequences) of the given depth from the
// position with side to move.
func Perft(b *Board, side Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := LegalMoves(b, side)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, md := range moves {
		child := *b
		if _, _, err := child.Apply(md); err != nil {
			continue
		}
		nodes += Perft(&child, side.Opposite(), depth-1)
	}
	return nodes
}

// PerftDivide returns the leaf count below each legal root move.
func PerftDivide(b *Board, side Color, depth int) map[MoveData]uint64 {
	result := make(map[MoveData]uint64)
	if depth <= 0 {
		return result
	}
	for _, md := range LegalMoves(b, side) {
		child := *b
		if _, _, err := child.Apply(md); err != nil {
			continue
		}
		result[md] = Perft(&child, side.Opposite(), depth-1)
	}
	return result
}
