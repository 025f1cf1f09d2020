package service

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/session"
)

// AuthService signs users in and out and keeps the session in sync with the
// credentials file.
type AuthService struct {
	backend Backend
	sess    *session.Session
	store   *session.Store
}

// NewAuthService wires the auth flows. store may be nil to skip persistence.
func NewAuthService(backend Backend, sess *session.Session, store *session.Store) *AuthService {
	return &AuthService{backend: backend, sess: sess, store: store}
}

func (s *AuthService) Session() *session.Session { return s.sess }

// SignIn authenticates and fills the session. Server errors are returned
// with their own message.
func (s *AuthService) SignIn(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fail(MsgFillAll, nil)
	}
	token, err := s.backend.SignIn(ctx, username, password)
	if err != nil {
		log.Info().Err(err).Str("username", username).Msg("sign in rejected")
		return fail(err.Error(), err)
	}
	if err := s.sess.Set(token, username); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("sign in returned no token")
		return fail(MsgNotSignedIn, err)
	}
	if s.store != nil {
		if _, err := s.store.Save(token, username); err != nil {
			log.Warn().Err(err).Msg("credentials not persisted")
		}
	}
	log.Info().Str("username", username).Msg("signed in")
	return nil
}

// SignUp registers a user and returns the confirmation message.
func (s *AuthService) SignUp(ctx context.Context, username, password, confirm string) (string, error) {
	if username == "" || password == "" || confirm == "" {
		return "", fail(MsgFillAll, nil)
	}
	if password != confirm {
		return "", fail(MsgPasswordMismatch, nil)
	}
	if _, err := s.backend.SignUp(ctx, username, password); err != nil {
		return "", fail(err.Error(), err)
	}
	log.Info().Str("username", username).Msg("signed up")
	return MsgSignUpOK, nil
}

// ResetPassword changes the password of username.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) (string, error) {
	if username == "" || newPassword == "" {
		return "", fail(MsgFillAllReset, nil)
	}
	if _, err := s.backend.ResetPassword(ctx, username, newPassword); err != nil {
		log.Info().Err(err).Str("username", username).Msg("password reset rejected")
		return "", fail(MsgUnknownUser, err)
	}
	return MsgResetOK, nil
}

// SignOut clears the session and the credentials file. The session is
// cleared even when the file cannot be removed; that error is returned so the
// caller can warn that the next start may sign the user back in.
func (s *AuthService) SignOut() error {
	s.sess.Clear()
	log.Info().Msg("signed out")
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(); err != nil {
		log.Error().Err(err).Msg("credentials file not removed")
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Restore loads persisted credentials into the session.
func (s *AuthService) Restore() (*session.Credentials, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Restore(s.sess)
}
