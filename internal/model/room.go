package model

// Mode is the kind of match a session was created for
type Mode string

const (
	ModeSolo    Mode = "solo"
	ModeOneVOne Mode = "1v1"
	ModeFour    Mode = "4player"
	ModeRandom  Mode = "random"
	ModeFriends Mode = "friends"
)

// Friends rooms accept between two and four players
const (
	FriendsMinCapacity = 2
	FriendsMaxCapacity = 4
)

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	switch m {
	case ModeSolo, ModeOneVOne, ModeFour, ModeRandom, ModeFriends:
		return true
	}
	return false
}

// Capacity returns the player capacity for the mode. requested is only
// consulted for friends rooms and is clamped to 2..4 (0 means the maximum).
func (m Mode) Capacity(requested int) int {
	switch m {
	case ModeSolo:
		return 1
	case ModeFour:
		return 4
	case ModeOneVOne, ModeRandom:
		return 2
	case ModeFriends:
		if requested <= 0 {
			return FriendsMaxCapacity
		}
		if requested < FriendsMinCapacity {
			return FriendsMinCapacity
		}
		if requested > FriendsMaxCapacity {
			return FriendsMaxCapacity
		}
		return requested
	}
	return 0
}

// RoomReservation is returned when a friends room code is reserved
type RoomReservation struct {
	RoomCode string `json:"roomCode"`
	MatchID  string `json:"matchId"`
	JoinURL  string `json:"joinUrl,omitempty"`
}
