package gamedto

// Funds is a fund transfer attached to an action. A nil Funds means no
// transfer was attached.
type Funds struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}

// ExecuteRequest is the envelope for state-changing actions: the sender
// identity, an optional fund transfer, and exactly one tagged message.
type ExecuteRequest struct {
	Sender string     `json:"sender"`
	Funds  *Funds     `json:"funds,omitempty"`
	Msg    ExecuteMsg `json:"msg"`
}

// ExecuteMsg is a tagged union; exactly one field must be set or the request
// is rejected before it reaches the state machine.
type ExecuteMsg struct {
	CreateGame *CreateGameMsg `json:"create_game,omitempty"`
	JoinGame   *JoinGameMsg   `json:"join_game,omitempty"`
	MakeMove   *MakeMoveMsg   `json:"make_move,omitempty"`
	Resign     *ResignMsg     `json:"resign,omitempty"`
}

type CreateGameMsg struct{}

type JoinGameMsg struct {
	GameID uint64 `json:"game_id"`
}

type MakeMoveMsg struct {
	GameID    uint64 `json:"game_id"`
	MoveFrom  string `json:"move_from"`
	MoveTo    string `json:"move_to"`
	Promotion string `json:"promotion,omitempty"`
}

type ResignMsg struct {
	GameID uint64 `json:"game_id"`
}

// ExecuteResponse reports the committed result of an action. GameID is always
// set so callers of create_game learn the id they were assigned without
// scraping logs.
type ExecuteResponse struct {
	GameID uint64     `json:"game_id"`
	Game   *GameState `json:"game"`
	// Joined is present on join_game answers: false marks the
	// spectator/reconnect no-op.
	Joined *bool `json:"joined,omitempty"`
	// Payouts is non-empty only when the action settled the game.
	Payouts []Payout `json:"payouts,omitempty"`
}

// QueryRequest is the tagged union of read-only queries.
type QueryRequest struct {
	GetGame   *GetGameMsg   `json:"get_game,omitempty"`
	ListGames *ListGamesMsg `json:"list_games,omitempty"`
}

type GetGameMsg struct {
	GameID uint64 `json:"game_id"`
}

type ListGamesMsg struct{}

type QueryResponse struct {
	Game  *GameState   `json:"game,omitempty"`
	Games []*GameState `json:"games,omitempty"`
}

// ErrorResponse wraps a DomainError for the wire.
type ErrorResponse struct {
	Error DomainError `json:"error"`
}
