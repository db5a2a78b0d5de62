// Package server exposes the engine over HTTP using the host's tagged
// message convention: POST /v1/execute for actions, POST /v1/query for reads.
// Payloads are validated here; malformed or ambiguous shapes never reach the
// state machine.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/castlebot/chess-escrow/internal/domain"
	"github.com/castlebot/chess-escrow/internal/escrow"
	"github.com/castlebot/chess-escrow/internal/match"
	"github.com/castlebot/chess-escrow/internal/obslog"
	"github.com/castlebot/chess-escrow/internal/rules"
	"github.com/castlebot/chess-escrow/pkg/gamedto"
)

type Server struct {
	mgr  *match.Manager
	http *fasthttp.Server
}

func New(mgr *match.Manager) *Server {
	s := &Server{mgr: mgr}
	s.http = &fasthttp.Server{
		Handler:            s.route,
		Name:               "chess-escrow",
		MaxRequestBodySize: 1 << 16,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	return s.http.ListenAndServe(addr)
}

func (s *Server) Shutdown() error {
	return s.http.Shutdown()
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/v1/execute":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, gamedto.CodeValidation, "POST required")
			return
		}
		s.handleExecute(ctx)
	case "/v1/query":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, gamedto.CodeValidation, "POST required")
			return
		}
		s.handleQuery(ctx)
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	default:
		writeError(ctx, fasthttp.StatusNotFound, gamedto.CodeNotFound, "unknown path")
	}
}

func (s *Server) handleExecute(ctx *fasthttp.RequestCtx) {
	reqID := uuid.NewString()

	var req gamedto.ExecuteRequest
	if err := decodeStrict(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeValidation, err.Error())
		return
	}
	if err := exactlyOneAction(&req.Msg); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeValidation, err.Error())
		return
	}

	funds := toCoin(req.Funds)
	var (
		resp gamedto.ExecuteResponse
		err  error
	)
	switch {
	case req.Msg.CreateGame != nil:
		var g *domain.Game
		g, err = s.mgr.CreateGame(ctx, req.Sender, funds)
		if err == nil {
			resp = gamedto.ExecuteResponse{GameID: g.ID, Game: match.ToState(g)}
		}
	case req.Msg.JoinGame != nil:
		var (
			g      *domain.Game
			joined bool
		)
		g, joined, err = s.mgr.JoinGame(ctx, req.Sender, req.Msg.JoinGame.GameID, funds)
		if err == nil {
			resp = gamedto.ExecuteResponse{GameID: g.ID, Game: match.ToState(g), Joined: &joined}
		}
	case req.Msg.MakeMove != nil:
		mv := req.Msg.MakeMove
		var (
			g         *domain.Game
			transfers []domain.Transfer
		)
		g, transfers, err = s.mgr.MakeMove(ctx, req.Sender, mv.GameID, mv.MoveFrom, mv.MoveTo, mv.Promotion)
		if err == nil {
			resp = gamedto.ExecuteResponse{GameID: g.ID, Game: match.ToState(g), Payouts: match.ToPayouts(transfers)}
		}
	case req.Msg.Resign != nil:
		var (
			g         *domain.Game
			transfers []domain.Transfer
		)
		g, transfers, err = s.mgr.Resign(ctx, req.Sender, req.Msg.Resign.GameID)
		if err == nil {
			resp = gamedto.ExecuteResponse{GameID: g.ID, Game: match.ToState(g), Payouts: match.ToPayouts(transfers)}
		}
	}
	if err != nil {
		status, code := mapError(err)
		obslog.L().Info("execute_rejected",
			zap.String("request_id", reqID),
			zap.String("code", code),
			zap.String("reason", err.Error()),
		)
		writeError(ctx, status, code, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleQuery(ctx *fasthttp.RequestCtx) {
	var req gamedto.QueryRequest
	if err := decodeStrict(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeValidation, err.Error())
		return
	}

	switch {
	case req.GetGame != nil && req.ListGames == nil:
		g, err := s.mgr.GetGame(ctx, req.GetGame.GameID)
		if err != nil {
			status, code := mapError(err)
			writeError(ctx, status, code, err.Error())
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, gamedto.QueryResponse{Game: match.ToState(g)})
	case req.ListGames != nil && req.GetGame == nil:
		games, err := s.mgr.ListGames(ctx)
		if err != nil {
			status, code := mapError(err)
			writeError(ctx, status, code, err.Error())
			return
		}
		states := make([]*gamedto.GameState, 0, len(games))
		for _, g := range games {
			states = append(states, match.ToState(g))
		}
		writeJSON(ctx, fasthttp.StatusOK, gamedto.QueryResponse{Games: states})
	default:
		writeError(ctx, fasthttp.StatusBadRequest, gamedto.CodeValidation, "query must set exactly one of get_game, list_games")
	}
}

// decodeStrict rejects unknown fields and trailing content so unrecognized
// message shapes fail loudly instead of partially matching.
func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("malformed request: trailing content")
	}
	return nil
}

func exactlyOneAction(msg *gamedto.ExecuteMsg) error {
	n := 0
	if msg.CreateGame != nil {
		n++
	}
	if msg.JoinGame != nil {
		n++
	}
	if msg.MakeMove != nil {
		n++
	}
	if msg.Resign != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("msg must set exactly one of create_game, join_game, make_move, resign")
	}
	return nil
}

func toCoin(f *gamedto.Funds) *domain.Coin {
	if f == nil {
		return nil
	}
	return &domain.Coin{Denom: f.Denom, Amount: f.Amount}
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, match.ErrNotFound):
		return fasthttp.StatusNotFound, gamedto.CodeNotFound
	case errors.Is(err, match.ErrZeroWager):
		return fasthttp.StatusBadRequest, gamedto.CodeZeroWager
	case errors.Is(err, match.ErrSelfJoin):
		return fasthttp.StatusForbidden, gamedto.CodeSelfJoin
	case errors.Is(err, match.ErrNotParticipant):
		return fasthttp.StatusForbidden, gamedto.CodeNotParticipant
	case errors.Is(err, match.ErrNotYourTurn):
		return fasthttp.StatusConflict, gamedto.CodeNotYourTurn
	case errors.Is(err, match.ErrGameNotActive):
		return fasthttp.StatusConflict, gamedto.CodeGameNotActive
	case errors.Is(err, match.ErrInvalidSender):
		return fasthttp.StatusBadRequest, gamedto.CodeValidation
	case errors.Is(err, match.ErrSpectatorDeposit), errors.Is(err, escrow.ErrWagerMismatch), errors.Is(err, escrow.ErrNoFunds):
		return fasthttp.StatusBadRequest, gamedto.CodeWagerMismatch
	case errors.Is(err, escrow.ErrWrongDenom):
		return fasthttp.StatusBadRequest, gamedto.CodeWrongDenom
	case errors.Is(err, escrow.ErrInsufficientPot):
		return fasthttp.StatusConflict, gamedto.CodeInsufficientPot
	case errors.Is(err, rules.ErrMissingPromotion):
		return fasthttp.StatusBadRequest, gamedto.CodeNoPromotion
	case errors.Is(err, rules.ErrInvalidPromotion):
		return fasthttp.StatusBadRequest, gamedto.CodeBadPromotion
	case errors.Is(err, rules.ErrIllegalMove), errors.Is(err, rules.ErrInvalidSquare), errors.Is(err, rules.ErrInvalidFEN):
		return fasthttp.StatusBadRequest, gamedto.CodeIllegalMove
	}
	return fasthttp.StatusInternalServerError, gamedto.CodeInternal
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, gamedto.CodeInternal, "encode response")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, message string) {
	raw, _ := json.Marshal(gamedto.ErrorResponse{Error: gamedto.DomainError{Code: code, Message: message}})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}
