// Package gameclient talks to the treasure hunt adventure API.
package gameclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mapwalker/internal/core"
	"mapwalker/pkg"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

const apiPrefix = "/api/adv/"

// Client is a thin HTTP client for the adventure endpoints. It does not
// wait out cooldowns; it only reports them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the configured server
func New(cfg core.GameConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init reports the room the player currently stands in
func (c *Client) Init(ctx context.Context) (core.RoomReport, error) {
	report, err := c.room(ctx, http.MethodGet, "init/", nil)
	if err != nil {
		return core.RoomReport{}, fmt.Errorf("init request failed: %w", err)
	}
	return report, nil
}

// Move walks one exit. A non-nil hint is sent as next_room_id.
func (c *Client) Move(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error) {
	return c.travel(ctx, "move/", dir, hint)
}

// Fly is Move for players that have the flight ability
func (c *Client) Fly(ctx context.Context, dir core.Direction, hint *core.RoomID) (core.RoomReport, error) {
	return c.travel(ctx, "fly/", dir, hint)
}

func (c *Client) travel(ctx context.Context, endpoint string, dir core.Direction, hint *core.RoomID) (core.RoomReport, error) {
	req := pkg.MoveRequest{Direction: string(dir)}
	if hint != nil {
		req.NextRoomID = hint.String()
	}
	report, err := c.room(ctx, http.MethodPost, endpoint, req)
	if err != nil {
		return core.RoomReport{}, fmt.Errorf("%s %s failed: %w", strings.TrimSuffix(endpoint, "/"), dir, err)
	}
	return report, nil
}

// Take picks up an item in the current room
func (c *Client) Take(ctx context.Context, item string) (core.RoomReport, error) {
	report, err := c.room(ctx, http.MethodPost, "take/", pkg.ItemRequest{Name: item})
	if err != nil {
		return core.RoomReport{}, fmt.Errorf("take %q failed: %w", item, err)
	}
	return report, nil
}

// Sell sells an inventory item at the shop, confirming the sale
func (c *Client) Sell(ctx context.Context, item string) (core.RoomReport, error) {
	report, err := c.room(ctx, http.MethodPost, "sell/", pkg.SellRequest{Name: item, Confirm: "yes"})
	if err != nil {
		return core.RoomReport{}, fmt.Errorf("sell %q failed: %w", item, err)
	}
	return report, nil
}

func (c *Client) Status(ctx context.Context) (core.PlayerStatus, error) {
	var res pkg.StatusResponse
	if _, err := c.do(ctx, http.MethodPost, "status/", struct{}{}, &res); err != nil {
		return core.PlayerStatus{}, fmt.Errorf("status request failed: %w", err)
	}
	if err := serverErrors(res.Errors); err != nil {
		return core.PlayerStatus{}, fmt.Errorf("status request failed: %w", err)
	}
	return core.PlayerStatus{
		Name:        res.Name,
		Gold:        res.Gold,
		Encumbrance: res.Encumbrance,
		Strength:    res.Strength,
		Speed:       res.Speed,
		Inventory:   res.Inventory,
		Cooldown:    seconds(res.Cooldown),
		Messages:    res.Messages,
	}, nil
}

func (c *Client) Examine(ctx context.Context, name string) (core.Examination, error) {
	var res pkg.ExamineResponse
	if _, err := c.do(ctx, http.MethodPost, "examine/", pkg.ItemRequest{Name: name}, &res); err != nil {
		return core.Examination{}, fmt.Errorf("examine %q failed: %w", name, err)
	}
	if err := serverErrors(res.Errors); err != nil {
		return core.Examination{}, fmt.Errorf("examine %q failed: %w", name, err)
	}
	return core.Examination{
		Name:        res.Name,
		Description: res.Description,
		Cooldown:    seconds(res.Cooldown),
	}, nil
}

// room calls an endpoint that answers with a room response. Fields the
// client does not model are kept in the report's Meta.Extra.
func (c *Client) room(ctx context.Context, method, endpoint string, body any) (core.RoomReport, error) {
	var res pkg.RoomResponse
	data, err := c.do(ctx, method, endpoint, body, &res)
	if err != nil {
		return core.RoomReport{}, err
	}
	var fields map[string]any
	if err := sonic.Unmarshal(data, &fields); err != nil {
		return core.RoomReport{}, fmt.Errorf("%w: failed to decode response: %v", core.ErrNetwork, err)
	}
	for _, key := range roomFields {
		delete(fields, key)
	}
	report := toReport(res)
	if len(fields) > 0 {
		report.Meta.Extra = fields
	}
	return report, nil
}

// roomFields are the room response keys decoded into pkg.RoomResponse.
// players is dropped: it changes on every visit.
var roomFields = []string{
	"room_id", "title", "description", "coordinates", "elevation", "terrain",
	"players", "items", "exits", "cooldown", "errors", "messages",
}

// do sends one request, decodes the JSON body into out and returns the raw
// body. Transport failures, non-2xx responses and undecodable bodies are
// ErrNetwork.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", core.ErrNetwork, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", core.ErrNetwork, err)
	}
	if res, ok := out.(*pkg.RoomResponse); ok {
		if err := serverErrors(res.Errors); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func serverErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", core.ErrNetwork, strings.Join(errs, "; "))
}

func toReport(res pkg.RoomResponse) core.RoomReport {
	exits := make([]core.Direction, 0, len(res.Exits))
	for _, e := range res.Exits {
		exits = append(exits, core.Direction(e))
	}
	meta := core.RoomMeta{
		Title:       res.Title,
		Description: res.Description,
		Terrain:     res.Terrain,
		Coordinates: res.Coordinates,
		Elevation:   res.Elevation,
		Items:       res.Items,
	}
	if res.Items == nil {
		meta.Items = []string{}
	}
	return core.RoomReport{
		ID:       core.RoomID(res.RoomID),
		Exits:    exits,
		Cooldown: seconds(res.Cooldown),
		Messages: res.Messages,
		Meta:     meta,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
