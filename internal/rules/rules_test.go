package rules

import (
	"errors"
	"strings"
	"testing"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestApplyMove_Opening(t *testing.T) {
	res, err := ApplyMove(startFEN, "e2", "e4", "")
	if err != nil {
		t.Fatalf("ApplyMove e2e4: %v", err)
	}
	if res.Classification != Ongoing {
		t.Fatalf("expected ongoing, got %s", res.Classification)
	}
	if !strings.Contains(res.NewFEN, " b ") {
		t.Fatalf("side to move should be black after e4, fen=%q", res.NewFEN)
	}
	if res.SAN != "e4" || res.UCI != "e2e4" {
		t.Fatalf("unexpected notation: san=%q uci=%q", res.SAN, res.UCI)
	}
}

func TestApplyMove_Illegal(t *testing.T) {
	cases := [][2]string{
		{"e2", "e5"}, // pawn cannot jump three
		{"e1", "e2"}, // own pawn on target
		{"b8", "c6"}, // black piece on white's turn
	}
	for _, c := range cases {
		if _, err := ApplyMove(startFEN, c[0], c[1], ""); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("%s%s: expected ErrIllegalMove, got %v", c[0], c[1], err)
		}
	}
}

func TestApplyMove_BadSquares(t *testing.T) {
	if _, err := ApplyMove(startFEN, "z9", "e4", ""); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
	if _, err := ApplyMove(startFEN, "e2", "", ""); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare for empty to-square, got %v", err)
	}
}

func TestApplyMove_Promotion(t *testing.T) {
	// White pawn on a7 ready to promote.
	fen := "8/P6k/8/8/8/8/8/K7 w - - 0 1"

	if _, err := ApplyMove(fen, "a7", "a8", ""); !errors.Is(err, ErrMissingPromotion) {
		t.Fatalf("expected ErrMissingPromotion, got %v", err)
	}
	if _, err := ApplyMove(fen, "a7", "a8", "x"); !errors.Is(err, ErrInvalidPromotion) {
		t.Fatalf("expected ErrInvalidPromotion, got %v", err)
	}
	// A last-rank capture with nothing to take stays a plain illegal move,
	// even though the queen retry also reaches the eighth rank.
	if _, err := ApplyMove(fen, "a7", "b8", ""); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for empty-square capture, got %v", err)
	}
	res, err := ApplyMove(fen, "a7", "a8", "q")
	if err != nil {
		t.Fatalf("promotion to queen: %v", err)
	}
	if !strings.HasPrefix(res.NewFEN, "Q7/") {
		t.Fatalf("expected queen on a8, fen=%q", res.NewFEN)
	}
}

func TestApplyMove_Check(t *testing.T) {
	// After 1.e4 e5 2.f4, Qh4+ checks along the open diagonal.
	fen := "rnbqkbnr/pppp1ppp/8/4p3/4PP2/8/PPPP2PP/RNBQKBNR b KQkq f3 0 2"
	res, err := ApplyMove(fen, "d8", "h4", "")
	if err != nil {
		t.Fatalf("Qh4+: %v", err)
	}
	if res.Classification != Check {
		t.Fatalf("expected check, got %s", res.Classification)
	}
}

func TestApplyMove_Checkmate(t *testing.T) {
	// Scholar's mate, final position before Qxf7#.
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	res, err := ApplyMove(fen, "f3", "f7", "")
	if err != nil {
		t.Fatalf("Qxf7#: %v", err)
	}
	if res.Classification != Checkmate {
		t.Fatalf("expected checkmate, got %s", res.Classification)
	}
}

func TestApplyMove_Stalemate(t *testing.T) {
	// Qg6 stalemates the cornered black king.
	fen := "7k/8/6Q1/8/8/8/8/K7 w - - 0 1"
	res, err := ApplyMove(fen, "g6", "g6", "")
	if err == nil {
		t.Fatalf("expected error for null move")
	}
	res, err = ApplyMove(fen, "g6", "f7", "")
	if err != nil {
		t.Fatalf("Qf7: %v", err)
	}
	if res.Classification != Stalemate {
		t.Fatalf("expected stalemate, got %s", res.Classification)
	}
}

func TestApplyMove_CheckEvasionRequired(t *testing.T) {
	// White king in check from the rook; a quiet pawn move is illegal.
	fen := "4r2k/8/8/8/8/8/P7/4K3 w - - 0 1"
	if _, err := ApplyMove(fen, "a2", "a3", ""); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove while in check, got %v", err)
	}
	if _, err := ApplyMove(fen, "e1", "d1", ""); err != nil {
		t.Fatalf("king step out of check: %v", err)
	}
}

func TestApplyMove_Deterministic(t *testing.T) {
	a, err := ApplyMove(startFEN, "g1", "f3", "")
	if err != nil {
		t.Fatalf("Nf3: %v", err)
	}
	b, err := ApplyMove(startFEN, "g1", "f3", "")
	if err != nil {
		t.Fatalf("Nf3 repeat: %v", err)
	}
	if a != b {
		t.Fatalf("same input produced different results: %+v vs %+v", a, b)
	}
}
