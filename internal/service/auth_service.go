package service

import (
	"context"
	"strings"

	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/utils"
	"cardapio/internal/validator"

	"go.uber.org/zap"
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, email, password string) UserResult
	Register(ctx context.Context, req model.RegisterRequest) UserResult
	Logout(ctx context.Context) Result
	CheckSession(ctx context.Context) SessionStatus
	CurrentUser(ctx context.Context) UserResult
	IsAdmin(ctx context.Context) bool
	UpdateProfile(ctx context.Context, patch model.UserPatch) UserResult
	RenewSession(ctx context.Context) Result
	RecoverPassword(ctx context.Context, email string) Result
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) Result
}

// ResetNotifier hands a freshly issued reset token to its owner.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, user model.User, token string) error
}

// LogResetNotifier is used when no delivery channel is configured. It records
// that a token was issued; the token itself is never logged.
type LogResetNotifier struct {
	Log *zap.SugaredLogger
}

func (n LogResetNotifier) NotifyReset(_ context.Context, user model.User, _ string) error {
	n.Log.Infow("password reset token issued, no delivery channel configured", "user_id", user.ID)
	return nil
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   utils.PasswordHasher
	resets   *utils.ResetTokenIssuer
	notifier ResetNotifier
	log      *zap.SugaredLogger
}

// NewAuthService creates a new AuthService. A nil notifier falls back to
// LogResetNotifier.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher utils.PasswordHasher,
	resets *utils.ResetTokenIssuer,
	notifier ResetNotifier,
	log *zap.SugaredLogger,
) AuthService {
	if notifier == nil {
		notifier = LogResetNotifier{Log: log}
	}
	return &authService{users: users, sessions: sessions, hasher: hasher, resets: resets, notifier: notifier, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkEmail returns a failed Result when email is empty or malformed.
func checkEmail(email string) (Result, bool) {
	if email == "" {
		return failed(KindValidation, ErrEmailRequired.Error()), false
	}
	if !validator.ValidEmail(email) {
		return failed(KindValidation, ErrInvalidEmail.Error()), false
	}
	return succeeded(), true
}

// Login authenticates a user and opens a session
func (s *authService) Login(ctx context.Context, email, password string) UserResult {
	email = normalizeEmail(email)
	if res, ok := checkEmail(email); !ok {
		return UserResult{Result: res}
	}
	if password == "" {
		return UserResult{Result: failed(KindValidation, ErrPasswordRequired.Error())}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return UserResult{Result: failure(s.log, "login", err)}
	}
	if user == nil || !s.hasher.Matches(password, user.Password) {
		return UserResult{Result: failed(KindInvalidCredentials, ErrInvalidCredentials.Error())}
	}

	if _, err := s.sessions.Save(ctx, *user); err != nil {
		return UserResult{Result: failure(s.log, "login", err)}
	}
	s.log.Infow("user logged in", "user_id", user.ID)
	return UserResult{Result: succeeded(), User: user}
}

// Register creates a new user account and logs it in
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) UserResult {
	if req.Password != req.ConfirmPassword {
		return UserResult{Result: failed(KindValidation, ErrPasswordMismatch.Error())}
	}

	in := model.UserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: req.Password,
		Role:     req.Role,
	}
	if report := validator.ValidateUser(in); !report.Valid {
		return UserResult{Result: failed(KindValidation, report.Message())}
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return UserResult{Result: failure(s.log, "register", err)}
	}
	if exists {
		return UserResult{Result: failed(KindConflict, repository.ErrEmailAlreadyRegistered.Error())}
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		return UserResult{Result: failure(s.log, "register", err)}
	}
	user, err := s.users.Save(ctx, model.User{Name: in.Name, Email: in.Email, Password: stored, Role: in.Role})
	if err != nil {
		return UserResult{Result: failure(s.log, "register", err)}
	}

	if _, err := s.sessions.Save(ctx, *user); err != nil {
		return UserResult{Result: failure(s.log, "register", err)}
	}
	s.log.Infow("user registered", "user_id", user.ID, "role", user.Role)
	return UserResult{Result: succeeded(), User: user}
}

func (s *authService) Logout(ctx context.Context) Result {
	if err := s.sessions.Clear(ctx); err != nil {
		return failure(s.log, "logout", err)
	}
	return succeeded()
}

func (s *authService) CheckSession(ctx context.Context) SessionStatus {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return SessionStatus{Result: failure(s.log, "check session", err)}
	}
	if session == nil {
		return SessionStatus{Result: succeeded()}
	}
	user := session.User
	return SessionStatus{Result: succeeded(), Authenticated: true, User: &user}
}

func (s *authService) CurrentUser(ctx context.Context) UserResult {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return UserResult{Result: failure(s.log, "current user", err)}
	}
	if session == nil {
		return UserResult{Result: failed(KindUnauthenticated, ErrNotAuthenticated.Error())}
	}
	user := session.User
	return UserResult{Result: succeeded(), User: &user}
}

// IsAdmin reports false on any storage failure.
func (s *authService) IsAdmin(ctx context.Context) bool {
	ok, err := s.sessions.IsAdmin(ctx)
	if err != nil {
		s.log.Errorw("is admin failed", "error", err)
		return false
	}
	return ok
}

// UpdateProfile edits the logged-in user. The role cannot be changed here.
func (s *authService) UpdateProfile(ctx context.Context, patch model.UserPatch) UserResult {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return UserResult{Result: failure(s.log, "update profile", err)}
	}
	if session == nil {
		return UserResult{Result: failed(KindUnauthenticated, ErrNotAuthenticated.Error())}
	}

	current, err := s.users.FindByID(ctx, session.User.ID)
	if err != nil {
		return UserResult{Result: failure(s.log, "update profile", err)}
	}
	if current == nil {
		return UserResult{Result: failed(KindNotFound, repository.ErrUserNotFound.Error())}
	}

	patch.Role = nil
	merged := *current
	patch.Apply(&merged)
	in := model.UserInput{Name: merged.Name, Email: merged.Email, Password: merged.Password, Role: merged.Role}
	if report := validator.ValidateUser(in); !report.Valid {
		return UserResult{Result: failed(KindValidation, report.Message())}
	}

	if patch.Password != nil {
		stored, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return UserResult{Result: failure(s.log, "update profile", err)}
		}
		patch.Password = &stored
	}

	updated, err := s.users.Update(ctx, current.ID, patch)
	if err != nil {
		return UserResult{Result: failure(s.log, "update profile", err)}
	}
	if err := s.sessions.UpdateUser(ctx, *updated); err != nil {
		return UserResult{Result: failure(s.log, "update profile", err)}
	}
	return UserResult{Result: succeeded(), User: updated}
}

func (s *authService) RenewSession(ctx context.Context) Result {
	if err := s.sessions.Renew(ctx); err != nil {
		return failure(s.log, "renew session", err)
	}
	return succeeded()
}

// RecoverPassword answers the same way whether or not the email is known.
// Known users get a reset token through the notifier.
func (s *authService) RecoverPassword(ctx context.Context, email string) Result {
	email = normalizeEmail(email)
	if res, ok := checkEmail(email); !ok {
		return res
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return failure(s.log, "recover password", err)
	}
	if user == nil {
		s.log.Infow("password recovery requested for unknown email")
		return succeeded()
	}

	token, err := s.resets.Issue(user.ID, user.Email)
	if err != nil {
		return failure(s.log, "recover password", err)
	}
	if err := s.notifier.NotifyReset(ctx, *user, token); err != nil {
		return failure(s.log, "recover password", err)
	}
	s.log.Infow("password recovery requested", "user_id", user.ID)
	return succeeded()
}

// ResetPassword sets a new password for the user a reset token was issued
// to. The token must still name the user's current email.
func (s *authService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) Result {
	claims, err := s.resets.Verify(req.Token)
	if err != nil {
		s.log.Infow("rejected password reset token", "error", err)
		return failed(KindValidation, ErrInvalidResetToken.Error())
	}
	if req.Password != req.ConfirmPassword {
		return failed(KindValidation, ErrPasswordMismatch.Error())
	}
	if ok, msg := validator.CheckPassword(req.Password); !ok {
		return failed(KindValidation, msg)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return failure(s.log, "reset password", err)
	}
	if user == nil || user.Email != claims.Email {
		return failed(KindValidation, ErrInvalidResetToken.Error())
	}

	stored, err := s.hasher.Hash(req.Password)
	if err != nil {
		return failure(s.log, "reset password", err)
	}
	updated, err := s.users.Update(ctx, user.ID, model.UserPatch{Password: &stored})
	if err != nil {
		return failure(s.log, "reset password", err)
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		return failure(s.log, "reset password", err)
	}
	if session != nil && session.User.ID == updated.ID {
		if err := s.sessions.UpdateUser(ctx, *updated); err != nil {
			return failure(s.log, "reset password", err)
		}
	}
	s.log.Infow("password reset", "user_id", updated.ID)
	return succeeded()
}
