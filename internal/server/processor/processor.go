package processor

import (
	"errors"
	"fmt"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/server/service"

	"github.com/rs/zerolog/log"
)

// Options configures the computer opponent
type Options struct {
	Workers   int
	Seed      uint64
	TurnDelay time.Duration // Before the computer's first move of a turn
	JumpDelay time.Duration // Between jumps of a computer capture chain
}

// Processor handles command execution and schedules computer moves
type Processor struct {
	svc       *service.Service
	queue     *AIQueue
	turnDelay time.Duration
	jumpDelay time.Duration
}

// New creates a processor with its own computer worker pool
func New(svc *service.Service, opts Options) *Processor {
	return &Processor{
		svc:       svc,
		queue:     NewAIQueue(opts.Workers, opts.Seed),
		turnDelay: opts.TurnDelay,
		jumpDelay: opts.JumpDelay,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdSelect:
		return p.handleSelect(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetResults:
		return p.handleGetResults()
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame creates a new game and schedules the computer if it moves first
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	mode, ok := core.ParseMode(args.Mode)
	if !ok {
		return p.errorResponse(fmt.Sprintf("unknown mode: %q", args.Mode), core.ErrInvalidRequest)
	}

	g := game.New(mode)
	if args.Layout != "" {
		var err error
		if g, err = game.FromLayout(args.Layout, mode); err != nil {
			return p.errorResponse(fmt.Sprintf("invalid layout: %v", err), core.ErrInvalidLayout)
		}
	}

	gameID := p.svc.GenerateGameID()
	if err := p.svc.CreateGame(gameID, g); err != nil {
		if errors.Is(err, service.ErrComputerGameLimit) {
			return p.errorResponse("too many games against the computer, try again later", core.ErrResourceLimit)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	view, err := p.svc.Snapshot(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return p.gameResponse(gameID, view)
}

// handleGetGame retrieves game state
func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Pending: view.State == core.StatePending,
		Data:    p.buildGameResponse(cmd.GameID, view),
	}
}

// handleSelect lists the legal destinations of a piece
func (p *Processor) handleSelect(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SelectRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	sq := board.Sq(args.Row, args.Col)
	if !sq.Inside() {
		return p.errorResponse("square outside the board", core.ErrInvalidRequest)
	}

	moves, err := p.svc.LegalMoves(cmd.GameID, sq)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	resp := core.MovesResponse{
		From:  args.Coord,
		Moves: make([]core.MoveInfo, 0, len(moves)),
	}
	for _, m := range moves {
		resp.Moves = append(resp.Moves, moveInfo(m, view.Turn, false))
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleMakeMove processes human moves and hands the turn to the computer
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	switch {
	case view.State == core.StatePending:
		return p.errorResponse("computer move in progress", core.ErrComputerThinking)
	case view.State == core.StateStuck:
		return p.errorResponse("computer could not move, reset the game", core.ErrInvalidRequest)
	case view.State.IsOver():
		return p.errorResponse(fmt.Sprintf("game is over: %s", view.State), core.ErrGameOver)
	}

	from := board.Sq(args.From.Row, args.From.Col)
	to := board.Sq(args.To.Row, args.To.Col)

	if _, view, err = p.svc.ApplyMove(cmd.GameID, core.ActorHuman, from, to); err != nil {
		return p.moveError(err)
	}

	return p.gameResponse(cmd.GameID, view)
}

// handleResetGame restarts a game, optionally in a different mode
func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	args, _ := cmd.Args.(core.ResetRequest)

	var mode core.Mode
	if args.Mode != "" {
		var ok bool
		if mode, ok = core.ParseMode(args.Mode); !ok {
			return p.errorResponse(fmt.Sprintf("unknown mode: %q", args.Mode), core.ErrInvalidRequest)
		}
	}

	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if view.State == core.StatePending {
		return p.errorResponse("cannot reset while computer move is in progress", core.ErrComputerThinking)
	}

	view, err = p.svc.ResetGame(cmd.GameID, mode)
	switch {
	case errors.Is(err, service.ErrComputerGameLimit):
		return p.errorResponse("too many games against the computer, try again later", core.ErrResourceLimit)
	case err != nil:
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return p.gameResponse(cmd.GameID, view)
}

// handleDeleteGame removes a game
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if view.State == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrComputerThinking)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	view, err := p.svc.Snapshot(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Layout: view.Layout(),
			Board:  view.Board.ToASCII(),
		},
	}
}

// handleGetResults summarizes recorded outcomes
func (p *Processor) handleGetResults() ProcessorResponse {
	sum, err := p.svc.Results()
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		return p.errorResponse("results are not recorded, storage is disabled", core.ErrStorageDisabled)
	case err != nil:
		log.Error().Err(err).Msg("results query failed")
		return p.errorResponse("failed to read results", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.ResultsResponse{
			Games:     sum.Games,
			RedWins:   sum.RedWins,
			BlackWins: sum.BlackWins,
			ByMode:    sum.ByMode,
		},
	}
}

// gameResponse answers with the game state, scheduling the computer when
// the game is waiting on it
func (p *Processor) gameResponse(gameID string, view game.View) ProcessorResponse {
	pending := view.State == core.StatePending
	if pending {
		p.scheduleComputer(gameID, p.turnDelay)
	}

	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    p.buildGameResponse(gameID, view),
	}
}

// scheduleComputer queues one computer step after delay
func (p *Processor) scheduleComputer(gameID string, delay time.Duration) {
	task := AITask{
		GameID:  gameID,
		Run:     func(policy *ai.Policy) { p.playComputerStep(gameID, policy) },
		Dropped: func(err error) { p.markStuck(gameID, err) },
	}

	if err := p.queue.SubmitAfter(delay, task); err != nil {
		p.markStuck(gameID, err)
	}
}

// playComputerStep plays one computer move, requeueing itself while a
// capture chain continues
func (p *Processor) playComputerStep(gameID string, policy *ai.Policy) {
	res, view, err := p.svc.PlayComputerStep(gameID, policy)
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrNotPending):
		return // Deleted or reset meanwhile
	case err != nil:
		p.markStuck(gameID, err)
		return
	}

	log.Debug().
		Str("game", gameID).
		Str("from", res.Move.From.String()).
		Str("to", res.Move.To.String()).
		Bool("capture", res.Move.IsCapture()).
		Str("state", view.State.String()).
		Msg("computer moved")

	if res.ContinueJump {
		p.scheduleComputer(gameID, p.jumpDelay)
	}
}

// markStuck parks a game whose computer move was lost until it is reset.
// The game may have been deleted in the meantime.
func (p *Processor) markStuck(gameID string, err error) {
	log.Error().Err(err).Str("game", gameID).Msg("computer move failed")
	if uerr := p.svc.UpdateGameState(gameID, core.StateStuck); uerr != nil && !errors.Is(uerr, service.ErrGameNotFound) {
		log.Debug().Err(uerr).Str("game", gameID).Msg("could not mark game stuck")
	}
}

// moveError maps a rejected move to its error code
func (p *Processor) moveError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse(err.Error(), core.ErrGameOver)
	case errors.Is(err, game.ErrNotYourTurn):
		return p.errorResponse(err.Error(), core.ErrNotYourTurn)
	case errors.Is(err, game.ErrJumpPending):
		return p.errorResponse(err.Error(), core.ErrJumpPending)
	case errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrNoPiece),
		errors.Is(err, game.ErrIllegalMove):
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	default:
		return p.errorResponse(fmt.Sprintf("failed to apply move: %v", err), core.ErrInternalError)
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, view game.View) core.GameResponse {
	redMen, redKings := view.Board.Count(core.Red)
	blackMen, blackKings := view.Board.Count(core.Black)

	resp := core.GameResponse{
		GameID:    gameID,
		Mode:      view.Mode.String(),
		Layout:    view.Layout(),
		Turn:      view.Turn.String(),
		State:     view.State.String(),
		MoveCount: view.MoveCount,
		Pieces: core.Pieces{
			Red:        redMen + redKings,
			RedKings:   redKings,
			Black:      blackMen + blackKings,
			BlackKings: blackKings,
		},
	}

	if view.State.IsOver() {
		resp.Winner = view.Winner.String()
	}
	if view.PendingJump != nil {
		c := coord(*view.PendingJump)
		resp.PendingJump = &c
	}
	if r := view.LastResult; r != nil {
		info := moveInfo(r.Move, r.Player, r.Promoted)
		resp.LastMove = &info
	}

	return resp
}

func coord(sq board.Square) core.Coord {
	return core.Coord{Row: sq.Row, Col: sq.Col}
}

func moveInfo(m rules.Move, player core.Player, promoted bool) core.MoveInfo {
	info := core.MoveInfo{
		From:     coord(m.From),
		To:       coord(m.To),
		Player:   player.String(),
		Promoted: promoted,
	}
	if m.Capture != nil {
		c := coord(*m.Capture)
		info.Capture = &c
	}
	return info
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the computer workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
