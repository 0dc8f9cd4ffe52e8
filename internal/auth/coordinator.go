package auth

import (
	"context"
	"errors"

	"github.com/Chat-Global/accounts-service/internal/captcha"
	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/identity/federated"
	"github.com/Chat-Global/accounts-service/internal/logger"
)

// Coordinator drives each request through the fixed pipeline
// validate -> captcha -> backend. Any stage failure ends the request;
// nothing is retried.
type Coordinator struct {
	captcha  captcha.Verifier
	backend  identity.Backend
	redirect string
}

func NewCoordinator(verifier captcha.Verifier, backend identity.Backend, redirect string) *Coordinator {
	return &Coordinator{
		captcha:  verifier,
		backend:  backend,
		redirect: redirect,
	}
}

// Result is the success variant for register and login.
type Result struct {
	ID       string
	Token    string
	Redirect string
	Session  *identity.SessionArtifact
}

func (c *Coordinator) Register(ctx context.Context, creds RegisterCredentials) (*Result, *Error) {
	if vErr := ValidateRegister(creds); vErr != nil {
		return nil, c.reject("register", "validate", vErr)
	}

	if cErr := c.checkCaptcha(ctx, creds.CaptchaToken); cErr != nil {
		return nil, c.reject("register", "captcha", cErr)
	}

	issued, err := c.backend.Register(ctx, identity.NewIdentity{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return nil, c.reject("register", "backend", backendError(err))
	}

	return &Result{
		ID:       issued.ID,
		Token:    issued.Token,
		Redirect: c.redirect,
		Session:  issued.Session,
	}, nil
}

func (c *Coordinator) Login(ctx context.Context, creds LoginCredentials) (*Result, *Error) {
	if vErr := ValidateLogin(creds); vErr != nil {
		return nil, c.reject("login", "validate", vErr)
	}

	if cErr := c.checkCaptcha(ctx, creds.CaptchaToken); cErr != nil {
		return nil, c.reject("login", "captcha", cErr)
	}

	issued, err := c.backend.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, c.reject("login", "backend", backendError(err))
	}

	return &Result{
		ID:       issued.ID,
		Token:    issued.Token,
		Redirect: c.redirect,
		Session:  issued.Session,
	}, nil
}

// Authorize skips validation and captcha: it is a pure token-equality
// check against the stored record.
func (c *Coordinator) Authorize(ctx context.Context, id, presentedToken string) (*identity.Identity, *Error) {
	ident, err := c.backend.Authorize(ctx, id, presentedToken)
	if err != nil {
		return nil, c.reject("authorize", "backend", backendError(err))
	}
	return ident, nil
}

func (c *Coordinator) checkCaptcha(ctx context.Context, token string) *Error {
	err := c.captcha.Verify(ctx, token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, captcha.ErrRejected):
		return badRequest(KindCaptchaRejected, MsgCaptchaRejected)
	default:
		return internal(KindCaptchaUnavailable, MsgCaptchaUnavailable)
	}
}

func backendError(err error) *Error {
	switch {
	case errors.Is(err, identity.ErrExists):
		return badRequest(KindConflict, MsgUserExists)
	case errors.Is(err, identity.ErrInvalidLogin):
		return badRequest(KindUnauthenticated, MsgInvalidLogin)
	case errors.Is(err, identity.ErrNotFound):
		return notFound(MsgUserNotFound)
	case errors.Is(err, identity.ErrInvalidToken):
		return unauthenticated(MsgInvalidToken)
	case errors.Is(err, identity.ErrTokenLost):
		return unauthenticated(MsgDatabaseError)
	case errors.Is(err, federated.ErrSessionUnavailable):
		return unauthenticated(MsgSessionFailed)
	default:
		return internal(KindBackendFailure, MsgDatabaseError)
	}
}

func (c *Coordinator) reject(flow, stage string, e *Error) *Error {
	logger.Warn("request rejected", map[string]any{
		"flow":   flow,
		"stage":  stage,
		"status": e.Status,
	})
	return e
}
