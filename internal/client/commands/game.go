package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkers/internal/board"
	"checkers/internal/client/display"
	"checkers/internal/core"
	"checkers/internal/game"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Start a new game",
		Usage:       "new [pvp|pvai]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "select",
		ShortName:   "s",
		Description: "Select a piece and list its moves",
		Usage:       "select <row,col>",
		Handler:     selectHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Move a piece; the source defaults to the selection",
		Usage:       "move [<row,col>] <row,col>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "b",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showHandler,
	})

	r.Register(&Command{
		Name:        "reset",
		ShortName:   "r",
		Description: "Restart the current game",
		Usage:       "reset",
		Handler:     resetHandler,
	})

	r.Register(&Command{
		Name:        "layout",
		ShortName:   "l",
		Description: "Print the position, or load one",
		Usage:       "layout [<rows> <r|b>]",
		Handler:     layoutHandler,
	})
}

func newGameHandler(s *Session, args []string) error {
	mode := s.Game.Mode()
	if len(args) > 0 {
		var ok bool
		if mode, ok = core.ParseMode(strings.ToLower(args[0])); !ok {
			return fmt.Errorf("unknown mode %q, use pvp or pvai", args[0])
		}
	}

	s.Game = game.New(mode)
	s.clearSelection()
	s.printf("%s\n", display.Paint(display.Cyan, fmt.Sprintf("New %s game", mode)))
	if mode == core.ModePvAI {
		s.printf("You play %s, the computer plays %s\n",
			display.ColorForTurn(core.ComputerSide.Opponent()), display.ColorForTurn(core.ComputerSide))
	}
	s.show()
	return nil
}

func resetHandler(s *Session, args []string) error {
	s.Game.Reset(s.Game.Mode())
	s.clearSelection()
	s.printf("%s\n", display.Paint(display.Cyan, "Game reset"))
	s.show()
	return nil
}

func showHandler(s *Session, args []string) error {
	s.show()
	return nil
}

func layoutHandler(s *Session, args []string) error {
	if len(args) == 0 {
		s.printf("%s\n", s.Game.Layout())
		return nil
	}

	g, err := game.FromLayout(strings.Join(args, " "), s.Game.Mode())
	if err != nil {
		return err
	}
	s.Game = g
	s.clearSelection()
	s.show()
	return s.playComputer()
}

func selectHandler(s *Session, args []string) error {
	squares, err := parseSquares(args)
	if err != nil {
		return err
	}
	if len(squares) != 1 {
		return fmt.Errorf("usage: select <row,col>")
	}
	return s.selectSquare(squares[0])
}

func moveHandler(s *Session, args []string) error {
	squares, err := parseSquares(args)
	if err != nil {
		return err
	}

	var from, to board.Square
	switch len(squares) {
	case 1:
		if s.selected == nil {
			return fmt.Errorf("no piece selected, use 'select' or give both squares")
		}
		from, to = *s.selected, squares[0]
	case 2:
		from, to = squares[0], squares[1]
	default:
		return fmt.Errorf("usage: move [<row,col>] <row,col>")
	}

	return s.move(from, to)
}

// selectSquare records the selection and shows where the piece can go
func (s *Session) selectSquare(sq board.Square) error {
	if !sq.Inside() {
		return game.ErrOutOfBounds
	}
	if s.Game.State().IsOver() {
		return game.ErrGameOver
	}

	moves := s.Game.LegalMoves(sq)
	if len(moves) == 0 {
		s.clearSelection()
		return fmt.Errorf("no moves from %s", sq)
	}

	s.selected = &sq
	s.targets = moves
	s.show()

	dests := make([]string, len(moves))
	for i, m := range moves {
		dests[i] = m.To.String()
		if m.IsCapture() {
			dests[i] += "x"
		}
	}
	s.printf("Moves from %s: %s\n", sq, strings.Join(dests, " "))
	return nil
}

// move applies a human move and lets the computer answer
func (s *Session) move(from, to board.Square) error {
	res, err := s.Game.Apply(core.ActorHuman, from, to)
	if err != nil {
		return err
	}

	s.printf("%s\n", display.FormatResult(res))
	s.clearSelection()

	if res.ContinueJump {
		return s.selectSquare(res.Move.To)
	}

	s.show()
	return s.playComputer()
}

// playComputer plays the computer's whole turn if it is to move, pausing
// before the turn and between jumps
func (s *Session) playComputer() error {
	if !s.Game.ComputerTurn() || s.Game.State().IsOver() {
		return nil
	}

	s.printf("%s\n", display.Paint(display.Cyan, "Computer is thinking..."))
	s.pause(s.TurnDelay)

	_, err := s.Policy.PlayTurn(s.Game, func(res game.Result) {
		s.printf("%s\n", display.FormatResult(res))
		if res.ContinueJump {
			s.pause(s.JumpDelay)
		}
	})
	if err != nil {
		return fmt.Errorf("computer move failed: %w", err)
	}

	s.show()
	return nil
}

func (s *Session) pause(d time.Duration) {
	if d > 0 && s.sleep != nil {
		s.sleep(d)
	}
}

// show renders the board with the selection and last capture highlighted
func (s *Session) show() {
	hl := display.Highlights{Selected: s.selected}
	for _, m := range s.targets {
		hl.Targets = append(hl.Targets, m.To)
	}
	if last := s.Game.LastResult(); last != nil && last.Move.Capture != nil {
		hl.Captured = last.Move.Capture
	}

	s.printf("\n")
	display.RenderBoard(s.Out, s.Game.Board(), hl)
	s.printf("%s\n\n", display.StatusLine(s.Game.Snapshot()))
}

// parseSquares reads "r,c" or "r c" pairs
func parseSquares(args []string) ([]board.Square, error) {
	fields := strings.Fields(strings.ReplaceAll(strings.Join(args, " "), ",", " "))
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("squares are written row,col")
	}

	squares := make([]board.Square, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		row, err1 := strconv.Atoi(fields[i])
		col, err2 := strconv.Atoi(fields[i+1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid square %s,%s", fields[i], fields[i+1])
		}
		squares = append(squares, board.Sq(row, col))
	}
	return squares, nil
}
