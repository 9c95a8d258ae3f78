package protocol

import "encoding/json"

// InboundMessage is the generic shape of a client-to-server message on
// the per-match socket: a name and an opaque payload decoded according to
// that name (auth, sync, or one of the Action names).
type InboundMessage struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// AuthPayload is the auth message payload: an opaque write-token.
type AuthPayload struct {
	WriteToken string `json:"write_token"`
}

// SyncPayload is the sync message payload: a resync watermark.
type SyncPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// OutboundMessage is the generic shape of a server-to-client message.
type OutboundMessage struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// ErrorMessage is sent as the "error" event payload.
type ErrorMessage struct {
	Error string `json:"error"`
}

// TimeoutMessage is sent as the "timeout" event payload.
type TimeoutMessage struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// TimeoutThreatMessage is sent as the "timeout_threat" event payload.
type TimeoutThreatMessage struct {
	Timeout int `json:"timeout"`
}

// CreateMatch is the broker's inbound match-creation request.
type CreateMatch struct {
	Game       string   `json:"game"`
	Mode       string   `json:"mode"`
	Players    [2]string `json:"players"`
	AIPlayers  []string `json:"ai_players,omitempty"`
	AI         bool     `json:"ai"`
}

// CreatedMatch is published once a match has been created and its
// namespace opened.
type CreatedMatch struct {
	PlayerWrite map[string]string `json:"player_write"`
	Game        string            `json:"game"`
	Mode        string            `json:"mode"`
	Read        string            `json:"read"`
	URLPub      string            `json:"url_pub"`
	URLPriv     string            `json:"url_priv"`
	Region      string            `json:"region"`
	AI          bool              `json:"ai"`
	AIPlayers   []string          `json:"ai_players,omitempty"`
}

// Performance is a single per-player outcome label.
type Performance struct {
	Performances []string `json:"performances"`
}

// MatchResult is the terminal outcome published on natural match
// completion.
type MatchResult struct {
	MatchID  string                 `json:"match_id"`
	Winners  map[string]int         `json:"winners"`
	Losers   map[string]int         `json:"losers"`
	Ranking  map[string]Performance `json:"ranking"`
	EventLog []any                  `json:"event_log"`
}

// AbruptCloseReason is the closed set of reasons a match can end
// abnormally.
type AbruptCloseReason string

const (
	AllPlayersDisconnected AbruptCloseReason = "AllPlayersDisconnected"
	PlayerDidNotJoin       AbruptCloseReason = "PlayerDidNotJoin"
)

// MatchAbruptClose is published when a match ends without a natural
// result.
type MatchAbruptClose struct {
	MatchID string            `json:"match_id"`
	Reason  AbruptCloseReason `json:"reason"`
	PlayerID string           `json:"player_id,omitempty"`
}

// RankingPerformance describes one scorable performance category at game
// registration.
type RankingPerformance struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// RankingConf is the ranking configuration sent at game registration.
type RankingConf struct {
	MaxStars     int                  `json:"max_stars"`
	Description  string               `json:"description"`
	Performances []RankingPerformance `json:"performances"`
}

// GameServerCreate registers this server with the fleet controller at
// startup.
type GameServerCreate struct {
	Region      string      `json:"region"`
	Game        string      `json:"game"`
	Mode        string      `json:"mode"`
	ServerPub   string      `json:"server_pub"`
	ServerPriv  string      `json:"server_priv"`
	MinPlayers  int         `json:"min_players"`
	MaxPlayers  int         `json:"max_players"`
	RankingConf RankingConf `json:"ranking_conf"`
}
