package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// PlayerID is a value object representing a player's unique identifier
type PlayerID struct {
	value string
}

// NewPlayerID creates a new PlayerID value object from a uuid string
func NewPlayerID(id string) (PlayerID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return PlayerID{}, fmt.Errorf("player_id must be a uuid: %w", err)
	}
	return PlayerID{value: parsed.String()}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewPlayerID(id string) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// GeneratePlayerID returns a fresh random PlayerID
func GeneratePlayerID() PlayerID {
	return PlayerID{value: uuid.NewString()}
}

// Value returns the string value of the PlayerID
func (p PlayerID) Value() string {
	return p.value
}

// String returns a string representation of the PlayerID
func (p PlayerID) String() string {
	return p.value
}

// Equals checks if two PlayerIDs are equal
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}

// IsZero checks if the PlayerID is the zero value (uninitialized)
func (p PlayerID) IsZero() bool {
	return p.value == ""
}
