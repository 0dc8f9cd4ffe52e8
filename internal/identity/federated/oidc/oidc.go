package oidc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/identity/federated"
	"github.com/Chat-Global/accounts-service/internal/logger"
)

// Provider implements federated.Provider against an OIDC identity
// provider that supports the resource-owner password grant and a
// Keycloak-style admin REST API for user creation.
type Provider struct {
	oauthConfig  *oauth2.Config
	verifier     *gooidc.IDTokenVerifier
	adminBaseURL string
	adminClient  *http.Client
}

// New initializes the provider using OIDC discovery. issuer must be the
// realm issuer URL; adminBaseURL the realm admin API root, e.g.
// http://localhost:8081/admin/realms/accounts
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	clientSecret string,
	adminBaseURL string,
) (*Provider, error) {

	if issuer == "" || clientID == "" || clientSecret == "" || adminBaseURL == "" {
		return nil, errors.New("oidc provider config missing required fields")
	}

	oidcProvider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&gooidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			gooidc.ScopeOpenID,
			"email",
			"profile",
		},
	}

	adminCfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     oidcProvider.Endpoint().TokenURL,
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		verifier:     verifier,
		adminBaseURL: adminBaseURL,
		adminClient:  adminCfg.Client(ctx),
	}, nil
}

type createUserRequest struct {
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	Enabled     bool               `json:"enabled"`
	Credentials []createCredential `json:"credentials"`
}

type createCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

func (p *Provider) CreateUser(ctx context.Context, username, email, password string) (string, error) {
	body, err := json.Marshal(createUserRequest{
		Username: username,
		Email:    email,
		Enabled:  true,
		Credentials: []createCredential{
			{Type: "password", Value: password, Temporary: false},
		},
	})
	if err != nil {
		return "", fmt.Errorf("oidc: encode create request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.adminBaseURL+"/users",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("oidc: build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.adminClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oidc: provider create call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", errors.New("oidc: provider returned no user location")
		}
		return path.Base(loc), nil
	case http.StatusConflict:
		return "", federated.ErrUserExists
	default:
		return "", fmt.Errorf("oidc: provider create status %d", resp.StatusCode)
	}
}

func (p *Provider) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	tok, err := p.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) &&
			(retrieveErr.Response.StatusCode == http.StatusBadRequest ||
				retrieveErr.Response.StatusCode == http.StatusUnauthorized) {
			return "", federated.ErrBadCredentials
		}
		return "", fmt.Errorf("oidc: password grant: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", errors.New("oidc: provider did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("oidc: id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("oidc: id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("oidc: id_token missing subject")
	}

	logger.Info("oidc password verified", map[string]any{
		"issuer":      idToken.Issuer,
		"expiry_unix": idToken.Expiry.Unix(),
	})

	return claims.Subject, nil
}

func (p *Provider) MintSession(ctx context.Context, email, password string, ttl time.Duration) (*identity.SessionArtifact, error) {
	tok, err := p.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", federated.ErrSessionUnavailable, err)
	}

	// The refresh token is the long-lived provider credential; it backs
	// the session cookie handed to the client.
	value := tok.RefreshToken
	if value == "" {
		value = tok.AccessToken
	}
	if value == "" {
		return nil, federated.ErrSessionUnavailable
	}

	return &identity.SessionArtifact{
		Value:  value,
		MaxAge: int(ttl.Seconds()),
	}, nil
}
