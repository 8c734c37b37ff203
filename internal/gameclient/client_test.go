package gameclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mapwalker/internal/core"
	"mapwalker/pkg"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   string
}

func newTestServer(t *testing.T, status int, response any) (*Client, *recorded) {
	t.Helper()
	data, err := sonic.Marshal(response)
	require.NoError(t, err)

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.body = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	return New(core.GameConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: time.Second}), rec
}

func TestInitConvertsRoomResponse(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, pkg.RoomResponse{
		RoomID:      0,
		Title:       "A brightly lit room",
		Description: "You are standing in the center of a brightly lit room.",
		Coordinates: "(60,60)",
		Elevation:   0,
		Terrain:     "NORMAL",
		Exits:       []string{"n", "s", "e", "w"},
		Cooldown:    1.5,
		Messages:    []string{"hello"},
	})

	report, err := c.Init(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/adv/init/", rec.path)
	assert.Equal(t, "Token secret", rec.auth)

	assert.Equal(t, core.RoomID(0), report.ID)
	assert.Equal(t, []core.Direction{core.North, core.South, core.East, core.West}, report.Exits)
	assert.Equal(t, 1500*time.Millisecond, report.Cooldown)
	assert.Equal(t, "A brightly lit room", report.Meta.Title)
	assert.Equal(t, "(60,60)", report.Meta.Coordinates)
	assert.Equal(t, []string{}, report.Meta.Items)
	assert.Equal(t, []string{"hello"}, report.Messages)
}

func TestUnmodelledFieldsPassThroughAsExtra(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, map[string]any{
		"room_id":  461,
		"title":    "Linh's Shrine",
		"exits":    []string{"w"},
		"cooldown": 1,
		"players":  []string{"someone"},
		"errors":   []string{},
		"weather":  "stormy",
		"shrine":   map[string]any{"blessing": "flight"},
	})

	report, err := c.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.RoomID(461), report.ID)
	assert.Equal(t, map[string]any{
		"weather": "stormy",
		"shrine":  map[string]any{"blessing": "flight"},
	}, report.Meta.Extra)
}

func TestModelledFieldsLeaveExtraEmpty(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, pkg.RoomResponse{RoomID: 3, Exits: []string{"n"}})

	report, err := c.Init(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.Meta.Extra)
}

func TestMoveSendsDirectionAndHint(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, pkg.RoomResponse{RoomID: 10, Exits: []string{"s"}, Cooldown: 7.5})

	hint := core.RoomID(10)
	report, err := c.Move(context.Background(), core.North, &hint)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/adv/move/", rec.path)
	assert.JSONEq(t, `{"direction":"n","next_room_id":"10"}`, rec.body)
	assert.Equal(t, core.RoomID(10), report.ID)
	assert.Equal(t, 7500*time.Millisecond, report.Cooldown)
}

func TestFlyWithoutHint(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, pkg.RoomResponse{RoomID: 2, Exits: []string{"w"}})

	_, err := c.Fly(context.Background(), core.East, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/adv/fly/", rec.path)
	assert.JSONEq(t, `{"direction":"e"}`, rec.body)
}

func TestSellConfirms(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, pkg.RoomResponse{RoomID: 1, Exits: []string{"e"}})

	_, err := c.Sell(context.Background(), "tiny treasure")
	require.NoError(t, err)
	assert.Equal(t, "/api/adv/sell/", rec.path)
	assert.JSONEq(t, `{"name":"tiny treasure","confirm":"yes"}`, rec.body)
}

func TestServerErrorsAreNetworkErrors(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, pkg.RoomResponse{
		RoomID:   0,
		Exits:    []string{"n"},
		Cooldown: 20,
		Errors:   []string{"You cannot move that way: +5s CD"},
	})

	_, err := c.Move(context.Background(), core.West, nil)
	require.ErrorIs(t, err, core.ErrNetwork)
	assert.Contains(t, err.Error(), "You cannot move that way")
}

func TestNon2xxIsNetworkError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadRequest, map[string]any{"cooldown": 30, "errors": []string{"Cooldown in effect"}})

	_, err := c.Take(context.Background(), "small treasure")
	require.ErrorIs(t, err, core.ErrNetwork)
	assert.Contains(t, err.Error(), "status 400")
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(core.GameConfig{BaseURL: url, Token: "secret", Timeout: time.Second})
	_, err := c.Init(context.Background())
	require.ErrorIs(t, err, core.ErrNetwork)
}

func TestStatusAndExamine(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, pkg.StatusResponse{
		Name:        "player",
		Cooldown:    1,
		Encumbrance: 2,
		Strength:    10,
		Speed:       10,
		Gold:        400,
		Inventory:   []string{"small treasure", "tiny treasure"},
	})

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/adv/status/", rec.path)
	assert.Equal(t, 400, status.Gold)
	assert.Equal(t, []string{"small treasure", "tiny treasure"}, status.Inventory)
	assert.Equal(t, time.Second, status.Cooldown)

	c, rec = newTestServer(t, http.StatusOK, pkg.ExamineResponse{Name: "Wishing Well", Description: "10000010\n00000001", Cooldown: 2})
	exam, err := c.Examine(context.Background(), "well")
	require.NoError(t, err)
	assert.Equal(t, "/api/adv/examine/", rec.path)
	assert.JSONEq(t, `{"name":"well"}`, rec.body)
	assert.Equal(t, "Wishing Well", exam.Name)
	assert.Equal(t, 2*time.Second, exam.Cooldown)
}
