package pkg

// Wire types for the treasure hunt adventure API

// RoomResponse is returned by init, move, fly, take and sell
type RoomResponse struct {
	RoomID      int      `json:"room_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Coordinates string   `json:"coordinates"`
	Elevation   int      `json:"elevation"`
	Terrain     string   `json:"terrain"`
	Players     []string `json:"players"`
	Items       []string `json:"items"`
	Exits       []string `json:"exits"`
	Cooldown    float64  `json:"cooldown"` // seconds
	Errors      []string `json:"errors"`
	Messages    []string `json:"messages"`
}

// MoveRequest moves (or flies) the player one exit. NextRoomID is the
// wise-explorer hint; the server grants a cooldown bonus when it is right.
type MoveRequest struct {
	Direction  string `json:"direction"`
	NextRoomID string `json:"next_room_id,omitempty"`
}

// ItemRequest names an item to take, drop or examine
type ItemRequest struct {
	Name string `json:"name"`
}

// SellRequest sells an item at the shop. Confirm must be "yes" for the
// sale to go through; without it the server only quotes a price.
type SellRequest struct {
	Name    string `json:"name"`
	Confirm string `json:"confirm,omitempty"`
}

// StatusResponse is the player status
type StatusResponse struct {
	Name        string   `json:"name"`
	Cooldown    float64  `json:"cooldown"`
	Encumbrance int      `json:"encumbrance"`
	Strength    int      `json:"strength"`
	Speed       int      `json:"speed"`
	Gold        int      `json:"gold"`
	Inventory   []string `json:"inventory"`
	Status      []string `json:"status"`
	Errors      []string `json:"errors"`
	Messages    []string `json:"messages"`
}

// ExamineResponse describes an examined item or player
type ExamineResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Weight      int      `json:"weight,omitempty"`
	Cooldown    float64  `json:"cooldown"`
	Errors      []string `json:"errors"`
	Messages    []string `json:"messages"`
}
