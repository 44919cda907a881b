package commands

import (
	"bytes"
	"testing"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/client/display"
	"checkers/internal/core"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, mode core.Mode) (*Registry, *Session, *bytes.Buffer) {
	t.Helper()
	display.Enabled = false
	t.Cleanup(func() { display.Enabled = true })

	var out bytes.Buffer
	s := NewSession(&out, mode, ai.New(5))
	return NewRegistry(s), s, &out
}

func TestParseSquares(t *testing.T) {
	sq, err := parseSquares([]string{"5,0", "4,1"})
	require.NoError(t, err)
	require.Equal(t, []board.Square{board.Sq(5, 0), board.Sq(4, 1)}, sq)

	sq, err = parseSquares([]string{"5", "0"})
	require.NoError(t, err)
	require.Equal(t, []board.Square{board.Sq(5, 0)}, sq)

	_, err = parseSquares([]string{"5"})
	require.Error(t, err)
	_, err = parseSquares([]string{"a,b"})
	require.Error(t, err)
}

func TestSelectThenMove(t *testing.T) {
	r, s, out := newTestRegistry(t, core.ModePvP)

	require.NoError(t, r.Execute("select 5,2"))
	require.Contains(t, out.String(), "Moves from 5,2: 4,3 4,1")
	require.NotNil(t, s.selected)

	out.Reset()
	require.NoError(t, r.Execute("m 4,3"))
	require.Contains(t, out.String(), "Red 5,2 -> 4,3")
	require.Nil(t, s.selected)
	require.Equal(t, core.Black, s.Game.Turn())
	require.Equal(t, 1, s.Game.MoveCount())
}

func TestRejectedMovesArePrinted(t *testing.T) {
	r, s, out := newTestRegistry(t, core.ModePvP)

	require.NoError(t, r.Execute("move 4,1"))
	require.Contains(t, out.String(), "no piece selected")

	out.Reset()
	require.NoError(t, r.Execute("move 2,1 3,0"))
	require.Contains(t, out.String(), "Error: not your turn")
	require.Zero(t, s.Game.MoveCount())

	out.Reset()
	require.NoError(t, r.Execute("select 4,4"))
	require.Contains(t, out.String(), "no moves from 4,4")

	out.Reset()
	require.NoError(t, r.Execute("bogus"))
	require.Contains(t, out.String(), "Unknown command: bogus")
}

func TestMultiJumpKeepsSelection(t *testing.T) {
	r, s, out := newTestRegistry(t, core.ModePvP)
	require.NoError(t, r.Execute("layout 7b/8/8/4b3/8/2b5/1r6/r7 r"))

	out.Reset()
	require.NoError(t, r.Execute("move 6,1 4,3"))
	require.Contains(t, out.String(), "must jump again")
	require.Equal(t, board.Sq(4, 3), *s.selected)

	require.NoError(t, r.Execute("move 2,5"))
	require.Equal(t, core.Black, s.Game.Turn())
}

func TestComputerAnswers(t *testing.T) {
	r, s, out := newTestRegistry(t, core.ModePvAI)
	var slept []time.Duration
	s.TurnDelay = 800 * time.Millisecond
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, r.Execute("move 5,0 4,1"))
	require.Contains(t, out.String(), "Computer is thinking")
	require.Contains(t, out.String(), "Black ")
	require.Equal(t, core.Red, s.Game.Turn())
	require.Equal(t, 2, s.Game.MoveCount())
	require.Equal(t, []time.Duration{800 * time.Millisecond}, slept)
}

func TestComputerChainFromLayout(t *testing.T) {
	r, s, _ := newTestRegistry(t, core.ModePvAI)
	var slept []time.Duration
	s.JumpDelay = 600 * time.Millisecond
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, r.Execute("layout 8/2b5/3r4/8/5r2/8/8/r7 b"))
	require.Equal(t, 2, s.Game.MoveCount())
	require.Equal(t, core.Red, s.Game.Turn())
	require.Equal(t, []time.Duration{600 * time.Millisecond}, slept)
}

func TestNewResetAndExit(t *testing.T) {
	r, s, out := newTestRegistry(t, core.ModePvP)

	require.NoError(t, r.Execute("new pvai"))
	require.Equal(t, core.ModePvAI, s.Game.Mode())
	require.Contains(t, out.String(), "the computer plays Black")

	require.NoError(t, r.Execute("new chess"))
	require.Contains(t, out.String(), "unknown mode")

	s.Game.Apply(core.ActorHuman, board.Sq(5, 0), board.Sq(4, 1))
	require.NoError(t, r.Execute("reset"))
	require.Zero(t, s.Game.MoveCount())
	require.Equal(t, core.ModePvAI, s.Game.Mode())

	out.Reset()
	require.NoError(t, r.Execute("layout"))
	require.Contains(t, out.String(), board.StartingLayout)

	out.Reset()
	require.NoError(t, r.Execute("b"))
	require.Contains(t, out.String(), "0 1 2 3 4 5 6 7")

	out.Reset()
	require.NoError(t, r.Execute("help"))
	require.Contains(t, out.String(), "select")

	require.ErrorIs(t, r.Execute("exit"), ErrExit)
}
