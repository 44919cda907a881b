package core

// Request types

type CreateGameRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=pvp pvai"`
	Layout string `json:"layout,omitempty" validate:"omitempty,max=100"`
}

type Coord struct {
	Row int `json:"row" validate:"min=0,max=7"`
	Col int `json:"col" validate:"min=0,max=7"`
}

type SelectRequest struct {
	Coord
}

type MoveRequest struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

type ResetRequest struct {
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=pvp pvai"` // Keeps the current mode if empty
}

// Response types

type GameResponse struct {
	GameID      string    `json:"gameId"`
	Mode        string    `json:"mode"`
	Layout      string    `json:"layout"`
	Turn        string    `json:"turn"`  // "red" or "black"
	State       string    `json:"state"` // "ongoing", "pending", "red wins", ...
	Winner      string    `json:"winner,omitempty"`
	PendingJump *Coord    `json:"pendingJump,omitempty"`
	MoveCount   int       `json:"moveCount"`
	Pieces      Pieces    `json:"pieces"`
	LastMove    *MoveInfo `json:"lastMove,omitempty"`
}

type Pieces struct {
	Red        int `json:"red"`
	RedKings   int `json:"redKings"`
	Black      int `json:"black"`
	BlackKings int `json:"blackKings"`
}

type MoveInfo struct {
	From     Coord  `json:"from"`
	To       Coord  `json:"to"`
	Capture  *Coord `json:"capture,omitempty"`
	Player   string `json:"player"`
	Promoted bool   `json:"promoted,omitempty"`
}

type MovesResponse struct {
	From  Coord      `json:"from"`
	Moves []MoveInfo `json:"moves"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
}

type ResultsResponse struct {
	Games     int            `json:"games"`
	RedWins   int            `json:"redWins"`
	BlackWins int            `json:"blackWins"`
	ByMode    map[string]int `json:"byMode"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
