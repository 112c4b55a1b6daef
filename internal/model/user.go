package model

import (
	"strings"
	"time"
)

const (
	RoleClient = "cliente"
	RoleAdmin  = "admin"
)

// User is a registered account. Field names on the wire match the records
// already persisted by the mobile app.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Password  string    `json:"senha,omitempty"`
	Role      string    `json:"tipo"`
	CreatedAt time.Time `json:"dataCriacao"`
}

func (u *User) Identity() (string, time.Time) { return u.ID, u.CreatedAt }

func (u *User) SetIdentity(id string, createdAt time.Time) {
	u.ID = id
	u.CreatedAt = createdAt
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Public returns a copy without the password, for responses.
func (u User) Public() User {
	u.Password = ""
	return u
}

// UserInput is the payload validated before a user is stored.
type UserInput struct {
	Name     string `json:"nome" validate:"trimmin=2"`
	Email    string `json:"email" validate:"required,simpleemail"`
	Password string `json:"senha" validate:"required,password"`
	Role     string `json:"tipo" validate:"required,oneof=cliente admin"`
}

// RegisterRequest is what the sign-up screen submits.
type RegisterRequest struct {
	Name            string `json:"nome"`
	Email           string `json:"email"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmarSenha"`
	Role            string `json:"tipo"`
}

// ResetPasswordRequest redeems a token issued by password recovery.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmarSenha"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// UserPatch carries a partial profile update. Nil fields are left alone.
type UserPatch struct {
	Name     *string `json:"nome,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"senha,omitempty"`
	Role     *string `json:"tipo,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
