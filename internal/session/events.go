// internal/session/events.go
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jason-s-yu/fodinha/internal/models"
)

var (
	ErrUnknownRequest = errors.New("unknown request type")
	ErrBadPayload     = errors.New("invalid request payload")
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound request types.
const (
	TypeCreateRoom = "createRoom"
	TypeJoinRoom   = "joinRoom"
	TypeStartGame  = "startGame"
	TypePlaceBet   = "placeBet"
	TypePlayCard   = "playCard"
)

// Request is a decoded inbound message. Validate runs before dispatch and
// normalises string fields in place.
type Request interface {
	Type() string
	Validate() error
}

// CreateRoomRequest carries the host's display name (data is a bare string).
type CreateRoomRequest struct {
	PlayerName string
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// StartGameRequest carries the room code (data is a bare string).
type StartGameRequest struct {
	RoomID string
}

type PlaceBetRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Bet      *int   `json:"bet"`
}

type PlayCardRequest struct {
	RoomID    string `json:"roomId"`
	PlayerID  string `json:"playerId"`
	CardIndex *int   `json:"cardIndex"`
}

func (CreateRoomRequest) Type() string { return TypeCreateRoom }
func (JoinRoomRequest) Type() string   { return TypeJoinRoom }
func (StartGameRequest) Type() string  { return TypeStartGame }
func (PlaceBetRequest) Type() string   { return TypePlaceBet }
func (PlayCardRequest) Type() string   { return TypePlayCard }

func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrBadPayload, field)
	}
	return v, nil
}

func nonNegative(field string, v *int) error {
	if v == nil {
		return fmt.Errorf("%w: %s is required", ErrBadPayload, field)
	}
	if *v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrBadPayload, field)
	}
	return nil
}

func (r *CreateRoomRequest) Validate() (err error) {
	r.PlayerName, err = required("playerName", r.PlayerName)
	return err
}

func (r *JoinRoomRequest) Validate() (err error) {
	if r.RoomID, err = required("roomId", r.RoomID); err != nil {
		return err
	}
	r.PlayerName, err = required("playerName", r.PlayerName)
	return err
}

func (r *StartGameRequest) Validate() (err error) {
	r.RoomID, err = required("roomId", r.RoomID)
	return err
}

func (r *PlaceBetRequest) Validate() (err error) {
	if r.RoomID, err = required("roomId", r.RoomID); err != nil {
		return err
	}
	if r.PlayerID, err = required("playerId", r.PlayerID); err != nil {
		return err
	}
	return nonNegative("bet", r.Bet)
}

func (r *PlayCardRequest) Validate() (err error) {
	if r.RoomID, err = required("roomId", r.RoomID); err != nil {
		return err
	}
	if r.PlayerID, err = required("playerId", r.PlayerID); err != nil {
		return err
	}
	return nonNegative("cardIndex", r.CardIndex)
}

// DecodeRequest parses and validates one inbound frame.
func DecodeRequest(raw []byte) (Request, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	var req Request
	switch env.Type {
	case TypeCreateRoom:
		r := &CreateRoomRequest{}
		if err := unmarshalData(env.Data, &r.PlayerName); err != nil {
			return nil, err
		}
		req = r
	case TypeJoinRoom:
		r := &JoinRoomRequest{}
		if err := unmarshalData(env.Data, r); err != nil {
			return nil, err
		}
		req = r
	case TypeStartGame:
		r := &StartGameRequest{}
		if err := unmarshalData(env.Data, &r.RoomID); err != nil {
			return nil, err
		}
		req = r
	case TypePlaceBet:
		r := &PlaceBetRequest{}
		if err := unmarshalData(env.Data, r); err != nil {
			return nil, err
		}
		req = r
	case TypePlayCard:
		r := &PlayCardRequest{}
		if err := unmarshalData(env.Data, r); err != nil {
			return nil, err
		}
		req = r
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequest, env.Type)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrBadPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

// Outbound event types.
const (
	EventConnected        = "connected"
	EventRoomCreated      = "roomCreated"
	EventRoomUpdated      = "roomUpdated"
	EventError            = "error"
	EventGameStarted      = "gameStarted"
	EventGameStateUpdated = "gameStateUpdated"
	EventGameFinished     = "gameFinished"
)

// Event is an outbound message before encoding.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type GameFinishedPayload struct {
	Winner *models.GamePlayer `json:"winner"`
}
