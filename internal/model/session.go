package model

import "time"

// Session is the single login record kept per device. The user is a
// snapshot, not a reference.
type Session struct {
	User    User      `json:"usuario"`
	LoginAt time.Time `json:"dataLogin"`
	Active  bool      `json:"ativo"`
}

// SessionInfo describes the stored session regardless of expiry.
type SessionInfo struct {
	User          *User      `json:"usuario"`
	LoginAt       *time.Time `json:"dataLogin"`
	MinutesLogged *int64     `json:"tempoLogado"`
}
