package service

import (
	"context"
	"errors"

	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrAccessDenied       = errors.New("access denied: administrators only")
	ErrNotAuthenticated   = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInternal           = errors.New("internal server error")
)

// Kind classifies a failed Result so transports can pick a status code.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindAccessDenied
	KindNotFound
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindInternal
)

// Result is the envelope every service call returns. Callers never get a raw
// error: Error holds a message safe to show.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Kind    Kind   `json:"-"`
}

type UserResult struct {
	Result
	User *model.User `json:"user,omitempty"`
}

type RestaurantResult struct {
	Result
	Restaurant *model.Restaurant `json:"restaurant,omitempty"`
}

type RestaurantsResult struct {
	Result
	Restaurants []model.Restaurant `json:"restaurants"`
}

type ProductResult struct {
	Result
	Product *model.Product `json:"product,omitempty"`
}

type ProductsResult struct {
	Result
	Products []model.Product `json:"products"`
}

// SessionStatus answers whether someone is logged in.
type SessionStatus struct {
	Result
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(kind Kind, msg string) Result {
	return Result{Error: msg, Kind: kind}
}

// known maps domain errors that may be shown as-is to their kind.
func known(err error) (Kind, bool) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRestaurantNotFound),
		errors.Is(err, repository.ErrProductNotFound):
		return KindNotFound, true
	case errors.Is(err, repository.ErrEmailAlreadyRegistered),
		errors.Is(err, repository.ErrEmailInUse),
		errors.Is(err, repository.ErrTaxIDAlreadyRegistered),
		errors.Is(err, repository.ErrTaxIDInUse):
		return KindConflict, true
	case errors.Is(err, repository.ErrNoActiveSession), errors.Is(err, ErrNotAuthenticated):
		return KindUnauthenticated, true
	case errors.Is(err, ErrAccessDenied):
		return KindAccessDenied, true
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials, true
	case errors.Is(err, utils.ErrPasswordTooLong), errors.Is(err, ErrInvalidResetToken):
		return KindValidation, true
	}
	return KindNone, false
}

// failure turns err into an envelope. Unknown errors are logged and replaced
// by ErrInternal.
func failure(log *zap.SugaredLogger, op string, err error) Result {
	if kind, ok := known(err); ok {
		return failed(kind, err.Error())
	}
	log.Errorw(op+" failed", "error", err)
	return failed(KindInternal, ErrInternal.Error())
}

// adminGate resolves the session on every call; nothing is cached.
type adminGate struct {
	sessions repository.SessionRepository
	log      *zap.SugaredLogger
}

// require returns a failed Result unless an admin is logged in.
func (g adminGate) require(ctx context.Context, op string) (Result, bool) {
	isAdmin, err := g.sessions.IsAdmin(ctx)
	if err != nil {
		return failure(g.log, op, err), false
	}
	if !isAdmin {
		return failed(KindAccessDenied, ErrAccessDenied.Error()), false
	}
	return succeeded(), true
}
