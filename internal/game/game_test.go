package game

import (
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"

	"github.com/stretchr/testify/require"
)

func mustGame(t *testing.T, layout string, mode core.Mode) *Game {
	t.Helper()
	g, err := FromLayout(layout, mode)
	require.NoError(t, err)
	return g
}

func pieceCount(g *Game, p core.Player) int {
	men, kings := g.board.Count(p)
	return men + kings
}

func TestNewGame(t *testing.T) {
	g := New(core.ModePvP)
	require.Equal(t, core.Red, g.Turn())
	require.Equal(t, core.StateOngoing, g.State())
	require.Equal(t, board.StartingLayout, g.Layout())

	_, over := g.Winner()
	require.False(t, over)

	moves := g.LegalMoves(board.Sq(5, 0))
	require.Equal(t, []rules.Move{{From: board.Sq(5, 0), To: board.Sq(4, 1)}}, moves)
	require.Empty(t, g.LegalMoves(board.Sq(2, 1)), "black pieces are not selectable on red's turn")
}

func TestApplyStep(t *testing.T) {
	g := New(core.ModePvP)

	res, err := g.Apply(core.ActorHuman, board.Sq(5, 0), board.Sq(4, 1))
	require.NoError(t, err)
	require.True(t, res.TurnSwitched)
	require.False(t, res.ContinueJump)
	require.Equal(t, core.Red, res.Player)
	require.Equal(t, core.Black, g.Turn())
	require.Equal(t, 1, g.MoveCount())
	require.True(t, g.board.At(5, 0).IsEmpty())
	require.Equal(t, board.Piece{Owner: core.Red}, g.board.At(4, 1))
	require.Equal(t, &res, g.LastResult())
}

func TestApplyRejections(t *testing.T) {
	g := New(core.ModePvP)
	before := g.Layout()

	cases := []struct {
		name     string
		from, to board.Square
		err      error
	}{
		{"off board", board.Sq(8, 0), board.Sq(7, 1), ErrOutOfBounds},
		{"empty square", board.Sq(4, 1), board.Sq(3, 2), ErrNoPiece},
		{"opponent piece", board.Sq(2, 1), board.Sq(3, 2), ErrNotYourTurn},
		{"occupied destination", board.Sq(6, 1), board.Sq(5, 2), ErrIllegalMove},
		{"backward step", board.Sq(5, 0), board.Sq(6, 1), ErrIllegalMove},
		{"two squares without capture", board.Sq(5, 2), board.Sq(3, 4), ErrIllegalMove},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Apply(core.ActorHuman, tc.from, tc.to)
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, before, g.Layout(), "rejected move must not mutate the board")
			require.Equal(t, core.Red, g.Turn())
			require.Zero(t, g.MoveCount())
		})
	}
}

func TestCapture(t *testing.T) {
	g := mustGame(t, "7b/8/8/8/3b4/2r5/8/8 r", core.ModePvP)
	redBefore, blackBefore := pieceCount(g, core.Red), pieceCount(g, core.Black)

	res, err := g.Apply(core.ActorHuman, board.Sq(5, 2), board.Sq(3, 4))
	require.NoError(t, err)
	require.True(t, res.Move.IsCapture())
	require.Equal(t, board.Sq(4, 3), *res.Move.Capture)

	require.True(t, g.board.At(4, 3).IsEmpty(), "captured cell is cleared")
	require.Equal(t, core.Red, g.board.At(3, 4).Owner)
	require.Equal(t, redBefore, pieceCount(g, core.Red))
	require.Equal(t, blackBefore-1, pieceCount(g, core.Black))
	require.True(t, res.TurnSwitched)
}

func TestMultiJump(t *testing.T) {
	g := mustGame(t, "7b/8/8/4b3/8/2b5/1r6/r7 r", core.ModePvP)

	res, err := g.Apply(core.ActorHuman, board.Sq(6, 1), board.Sq(4, 3))
	require.NoError(t, err)
	require.True(t, res.ContinueJump)
	require.False(t, res.TurnSwitched)
	require.Equal(t, core.Red, g.Turn(), "turn must not change while captures remain")

	pending, ok := g.PendingJump()
	require.True(t, ok)
	require.Equal(t, board.Sq(4, 3), pending)

	t.Run("only the jumping piece may move", func(t *testing.T) {
		require.Empty(t, g.LegalMoves(board.Sq(7, 0)))
		_, err := g.Apply(core.ActorHuman, board.Sq(7, 0), board.Sq(6, 1))
		require.ErrorIs(t, err, ErrJumpPending)
	})

	t.Run("steps are not allowed mid-chain", func(t *testing.T) {
		moves := g.LegalMoves(board.Sq(4, 3))
		require.Len(t, moves, 1)
		require.True(t, moves[0].IsCapture())
		_, err := g.Apply(core.ActorHuman, board.Sq(4, 3), board.Sq(3, 2))
		require.ErrorIs(t, err, ErrJumpPending)
	})

	res, err = g.Apply(core.ActorHuman, board.Sq(4, 3), board.Sq(2, 5))
	require.NoError(t, err)
	require.False(t, res.ContinueJump)
	require.True(t, res.TurnSwitched)
	require.Equal(t, core.Black, g.Turn())
	_, ok = g.PendingJump()
	require.False(t, ok)
	require.Equal(t, 1, pieceCount(g, core.Black))
}

func TestHumanMayIgnoreAvailableCapture(t *testing.T) {
	g := mustGame(t, "7b/8/8/8/3b4/2r5/8/r7 r", core.ModePvP)
	require.NotEmpty(t, rules.Captures(g.board, board.Sq(5, 2)))

	_, err := g.Apply(core.ActorHuman, board.Sq(7, 0), board.Sq(6, 1))
	require.NoError(t, err)
	require.Equal(t, core.Black, g.Turn())
}

func TestPromotion(t *testing.T) {
	g := mustGame(t, "8/8/8/8/8/6r1/1b6/8 b", core.ModePvP)

	res, err := g.Apply(core.ActorHuman, board.Sq(6, 1), board.Sq(7, 2))
	require.NoError(t, err)
	require.True(t, res.Promoted)
	king := g.board.At(7, 2)
	require.True(t, king.King)
	require.Len(t, rules.Directions(king), 4)

	_, err = g.Apply(core.ActorHuman, board.Sq(5, 6), board.Sq(4, 5))
	require.NoError(t, err)

	moves := g.LegalMoves(board.Sq(7, 2))
	require.Contains(t, moves, rules.Move{From: board.Sq(7, 2), To: board.Sq(6, 3)},
		"a black king may move toward row 0")

	res, err = g.Apply(core.ActorHuman, board.Sq(7, 2), board.Sq(6, 3))
	require.NoError(t, err)
	require.False(t, res.Promoted, "promotion happens once")
	require.True(t, g.board.At(6, 3).King, "kings never revert")
}

func TestCrownedManKeepsJumping(t *testing.T) {
	g := mustGame(t, "8/4b1b1/3r4/8/8/8/8/6b1 r", core.ModePvP)

	res, err := g.Apply(core.ActorHuman, board.Sq(2, 3), board.Sq(0, 5))
	require.NoError(t, err)
	require.True(t, res.Promoted)
	require.True(t, res.ContinueJump, "the new king can capture backwards")
	require.False(t, res.TurnSwitched)
	require.Equal(t, core.Red, g.Turn())

	sq, ok := g.PendingJump()
	require.True(t, ok)
	require.Equal(t, board.Sq(0, 5), sq)

	res, err = g.Apply(core.ActorHuman, board.Sq(0, 5), board.Sq(2, 7))
	require.NoError(t, err)
	require.False(t, res.Promoted, "already a king")
	require.True(t, res.TurnSwitched)
	require.True(t, g.board.At(2, 7).King)

	// Black's last man is blocked on its back row
	require.Equal(t, core.Red, res.Winner)
	require.Equal(t, core.StateRedWins, g.State())
}

func TestGameOver(t *testing.T) {
	t.Run("capturing the last piece wins", func(t *testing.T) {
		g := mustGame(t, "8/8/8/8/3b4/2r5/8/8 r", core.ModePvP)

		res, err := g.Apply(core.ActorHuman, board.Sq(5, 2), board.Sq(3, 4))
		require.NoError(t, err)
		require.Equal(t, core.Red, res.Winner)
		require.Equal(t, core.StateRedWins, g.State())

		winner, over := g.Winner()
		require.True(t, over)
		require.Equal(t, core.Red, winner)

		_, err = g.Apply(core.ActorHuman, board.Sq(3, 4), board.Sq(2, 5))
		require.ErrorIs(t, err, ErrGameOver)
		require.Empty(t, g.LegalMoves(board.Sq(3, 4)))
	})

	t.Run("blocked side to move loses", func(t *testing.T) {
		g := mustGame(t, "8/8/8/8/8/2b5/1b6/r7 r", core.ModePvP)
		winner, over := g.Winner()
		require.True(t, over)
		require.Equal(t, core.Black, winner)
		require.Equal(t, core.StateBlackWins, g.State())
	})

	t.Run("terminal state is sticky", func(t *testing.T) {
		g := mustGame(t, "8/8/8/8/8/2b5/1b6/r7 r", core.ModePvP)
		g.SetState(core.StatePending)
		require.Equal(t, core.StateBlackWins, g.State())
	})
}

func TestPvAITurnOwnership(t *testing.T) {
	g := New(core.ModePvAI)

	_, err := g.Apply(core.ActorComputer, board.Sq(5, 0), board.Sq(4, 1))
	require.ErrorIs(t, err, ErrNotYourTurn, "computer cannot move for the human side")

	_, err = g.Apply(core.ActorHuman, board.Sq(5, 0), board.Sq(4, 1))
	require.NoError(t, err)
	require.True(t, g.ComputerTurn())

	_, err = g.Apply(core.ActorHuman, board.Sq(2, 1), board.Sq(3, 2))
	require.ErrorIs(t, err, ErrNotYourTurn, "human cannot move during the computer's turn")

	_, err = g.Apply(core.ActorComputer, board.Sq(2, 1), board.Sq(3, 2))
	require.NoError(t, err)
	require.False(t, g.ComputerTurn())
}

func TestResetAndSnapshot(t *testing.T) {
	g := New(core.ModePvP)
	_, err := g.Apply(core.ActorHuman, board.Sq(5, 0), board.Sq(4, 1))
	require.NoError(t, err)

	v := g.Snapshot()
	require.Equal(t, 1, v.MoveCount)
	require.NotNil(t, v.LastResult)
	v.Board.Clear(board.Sq(4, 1))
	require.False(t, g.board.At(4, 1).IsEmpty(), "snapshot must not alias the live board")

	g.Reset(core.ModePvAI)
	require.Equal(t, core.ModePvAI, g.Mode())
	require.Equal(t, board.StartingLayout, g.Layout())
	require.Zero(t, g.MoveCount())
	require.Nil(t, g.LastResult())
}

func TestFromLayoutError(t *testing.T) {
	_, err := FromLayout("not a layout", core.ModePvP)
	require.Error(t, err)
}
