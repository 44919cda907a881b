package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"checkers/internal/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, turnDelay time.Duration) *fiber.App {
	t.Helper()
	svc := service.New(nil, service.Options{MaxComputerGames: 1, WaitTimeout: 300 * time.Millisecond})
	proc := processor.New(svc, processor.Options{Workers: 1, Seed: 3, TurnDelay: turnDelay})
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return NewFiberApp(proc, svc, true)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, 0)
	status, body := do(t, app, fiber.MethodGet, "/health", "")
	require.Equal(t, fiber.StatusOK, status)
	health := decode[map[string]any](t, body)
	require.Equal(t, "healthy", health["status"])
	require.Equal(t, "disabled", health["storage"])
}

func TestCreateSelectMove(t *testing.T) {
	app := newTestApp(t, 0)

	status, body := do(t, app, fiber.MethodPost, "/api/v1/games", `{"mode":"pvp"}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	g := decode[core.GameResponse](t, body)
	require.Equal(t, "red", g.Turn)
	require.Equal(t, "pvp", g.Mode)
	base := "/api/v1/games/" + g.GameID

	status, body = do(t, app, fiber.MethodPost, base+"/select", `{"row":5,"col":2}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	moves := decode[core.MovesResponse](t, body)
	require.Len(t, moves.Moves, 2)

	status, body = do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":5,"col":2},"to":{"row":4,"col":3}}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	after := decode[core.GameResponse](t, body)
	require.Equal(t, "black", after.Turn)
	require.Equal(t, core.Coord{Row: 4, Col: 3}, after.LastMove.To)

	status, body = do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":5,"col":0},"to":{"row":4,"col":1}}`)
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, core.ErrNotYourTurn, decode[core.ErrorResponse](t, body).Code)

	status, body = do(t, app, fiber.MethodGet, base+"/board", "")
	require.Equal(t, fiber.StatusOK, status)
	board := decode[core.BoardResponse](t, body)
	require.True(t, strings.HasSuffix(board.Layout, " b"))
	require.Contains(t, board.Board, "0 1 2 3 4 5 6 7")

	status, body = do(t, app, fiber.MethodPost, base+"/reset", "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.Equal(t, 0, decode[core.GameResponse](t, body).MoveCount)

	status, _ = do(t, app, fiber.MethodDelete, base, "")
	require.Equal(t, fiber.StatusNoContent, status)

	status, body = do(t, app, fiber.MethodGet, base, "")
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, core.ErrGameNotFound, decode[core.ErrorResponse](t, body).Code)
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t, 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown mode", fiber.MethodPost, "/api/v1/games", `{"mode":"chess"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"missing mode", fiber.MethodPost, "/api/v1/games", `{}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad layout", fiber.MethodPost, "/api/v1/games", `{"mode":"pvp","layout":"8/8 r"}`, fiber.StatusBadRequest, core.ErrInvalidLayout},
		{"malformed json", fiber.MethodPost, "/api/v1/games", `{"mode":`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad game id", fiber.MethodGet, "/api/v1/games/not-a-uuid", "", fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"unknown game", fiber.MethodGet, "/api/v1/games/5f0c1a2e-3b4d-4c5e-8f60-718293a4b5c6", "", fiber.StatusNotFound, core.ErrGameNotFound},
		{"coordinate off board", fiber.MethodPost, "/api/v1/games/5f0c1a2e-3b4d-4c5e-8f60-718293a4b5c6/select", `{"row":8,"col":0}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"results without storage", fiber.MethodGet, "/api/v1/results", "", fiber.StatusNotImplemented, core.ErrStorageDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, status, string(body))
			require.Equal(t, tt.code, decode[core.ErrorResponse](t, body).Code)
		})
	}
}

func TestWrongContentType(t *testing.T) {
	app := newTestApp(t, 0)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", strings.NewReader("mode=pvp"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestComputerGameLongPoll(t *testing.T) {
	app := newTestApp(t, 150*time.Millisecond)

	status, body := do(t, app, fiber.MethodPost, "/api/v1/games", `{"mode":"pvai"}`)
	require.Equal(t, fiber.StatusCreated, status)
	base := "/api/v1/games/" + decode[core.GameResponse](t, body).GameID

	// Only one computer game fits
	status, body = do(t, app, fiber.MethodPost, "/api/v1/games", `{"mode":"pvai"}`)
	require.Equal(t, fiber.StatusServiceUnavailable, status)
	require.Equal(t, core.ErrResourceLimit, decode[core.ErrorResponse](t, body).Code)

	status, body = do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":5,"col":6},"to":{"row":4,"col":7}}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.Equal(t, "pending", decode[core.GameResponse](t, body).State)

	status, body = do(t, app, fiber.MethodPost, base+"/moves", `{"from":{"row":5,"col":0},"to":{"row":4,"col":1}}`)
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, core.ErrComputerThinking, decode[core.ErrorResponse](t, body).Code)

	status, body = do(t, app, fiber.MethodGet, base+"?wait=true&moveCount=1", "")
	require.Equal(t, fiber.StatusOK, status)
	g := decode[core.GameResponse](t, body)
	require.Equal(t, 2, g.MoveCount)
	require.Equal(t, "red", g.Turn)
	require.Equal(t, "ongoing", g.State)
	require.Equal(t, "black", g.LastMove.Player)
}

func TestLongPollTimesOut(t *testing.T) {
	app := newTestApp(t, 0)

	_, body := do(t, app, fiber.MethodPost, "/api/v1/games", `{"mode":"pvp"}`)
	base := "/api/v1/games/" + decode[core.GameResponse](t, body).GameID

	start := time.Now()
	status, body := do(t, app, fiber.MethodGet, base+"?wait=true&moveCount=0", "")
	require.Equal(t, fiber.StatusOK, status)
	require.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
	require.Equal(t, 0, decode[core.GameResponse](t, body).MoveCount)
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, 0)

	limited := false
	for i := 0; i < 2*rateLimitRate+5; i++ {
		status, _ := do(t, app, fiber.MethodGet, "/api/v1/games/not-a-uuid", "")
		if status == fiber.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited)
}
