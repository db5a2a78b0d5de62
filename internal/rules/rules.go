// Package rules adapts the chess library into the pure move-validation
// contract used by the match engine: position in, position out, no state.
package rules

import (
	"errors"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var (
	ErrInvalidFEN       = errors.New("invalid position")
	ErrInvalidSquare    = errors.New("invalid square")
	ErrIllegalMove      = errors.New("illegal move")
	ErrMissingPromotion = errors.New("missing promotion piece")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
)

// Classification describes the position after a legal move was applied.
type Classification string

const (
	Ongoing   Classification = "ongoing"
	Check     Classification = "check"
	Checkmate Classification = "checkmate"
	Stalemate Classification = "stalemate"
)

// Result is the outcome of a successful ApplyMove.
type Result struct {
	NewFEN         string
	Classification Classification
	SAN            string
	UCI            string
}

// ApplyMove validates from/to (+ optional promotion piece) against the
// position encoded in fen and returns the resulting position. Identical
// inputs always produce identical outputs; the function has no side effects.
func ApplyMove(fen, from, to, promotion string) (Result, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if !validSquare(from) || !validSquare(to) {
		return Result{}, ErrInvalidSquare
	}
	promo, err := normalizePromotion(promotion)
	if err != nil {
		return Result{}, err
	}

	fenOpt, err := nchess.FEN(fen)
	if err != nil {
		return Result{}, ErrInvalidFEN
	}
	game := nchess.NewGame(fenOpt)
	pos := game.Position()

	notation := nchess.UCINotation{}
	move, err := notation.Decode(pos, from+to+promo)
	if err != nil {
		return Result{}, ErrIllegalMove
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, move)
	if err := game.Move(move, nil); err != nil {
		// The UCI decode is syntactic, so a pawn push to the last rank
		// without a piece choice only fails here. Distinguish it from a
		// plainly illegal move by retrying with a queen on a fresh game.
		if promo == "" {
			retry := nchess.NewGame(fenOpt)
			if qm, qerr := notation.Decode(retry.Position(), from+to+"q"); qerr == nil {
				if retry.Move(qm, nil) == nil {
					return Result{}, ErrMissingPromotion
				}
			}
		}
		return Result{}, ErrIllegalMove
	}

	res := Result{
		NewFEN:         game.FEN(),
		Classification: classify(game, san),
		SAN:            san,
		UCI:            from + to + promo,
	}
	return res, nil
}

// classify computes the post-move classification from the opponent's
// legal-move set, as reported by the library's outcome tracking. The SAN
// check marker covers the check-but-not-mate case.
func classify(game *nchess.Game, san string) Classification {
	switch game.Outcome() {
	case nchess.WhiteWon, nchess.BlackWon:
		if game.Method() == nchess.Checkmate {
			return Checkmate
		}
	case nchess.Draw:
		// Stalemate proper, plus the library's automatic draws
		// (seventy-five moves, fivefold repetition). All split the pot.
		return Stalemate
	}
	if strings.HasSuffix(san, "+") {
		return Check
	}
	return Ongoing
}

func normalizePromotion(p string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "":
		return "", nil
	case "q":
		return "q", nil
	case "r":
		return "r", nil
	case "b":
		return "b", nil
	case "n":
		return "n", nil
	}
	return "", ErrInvalidPromotion
}

func validSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}
