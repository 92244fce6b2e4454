package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/logger"
)

// Client talks to the hosted identity provider's auth REST API. Credentials,
// OTP dispatch and token issuance all live on the provider side; this client
// only exchanges requests and classifies rejections.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

var _ domain.IdentityGateway = (*Client)(nil)

// gatewayUser is the provider's user representation.
type gatewayUser struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	UserMetadata map[string]string `json:"user_metadata"`
}

func (u *gatewayUser) toIdentity() *domain.Identity {
	identity := &domain.Identity{ID: u.ID, Email: u.Email}
	if u.Phone != "" {
		phone := u.Phone
		identity.Phone = &phone
	}
	if role, ok := domain.RoleFromAccountType(u.UserMetadata["account_type"]); ok {
		identity.Role = role
	}
	return identity
}

type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         gatewayUser `json:"user"`
}

func (s *sessionResponse) toSession() *domain.GatewaySession {
	return &domain.GatewaySession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		Identity:     *s.User.toIdentity(),
	}
}

// errorResponse covers the provider's two error envelope shapes.
type errorResponse struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (c *Client) SignUp(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*domain.Identity, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"first_name":   meta.FirstName,
			"last_name":    meta.LastName,
			"account_type": meta.AccountType,
		},
	}
	var user gatewayUser
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &user); err != nil {
		return nil, err
	}
	return user.toIdentity(), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.GatewaySession, error) {
	body := map[string]string{"email": email, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

func (c *Client) SendOTP(ctx context.Context, email, phone string) error {
	body := map[string]string{}
	if email != "" {
		body["email"] = email
	} else {
		body["phone"] = phone
	}
	return c.do(ctx, http.MethodPost, "/auth/v1/otp", "", body, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, phone, token string) (*domain.GatewaySession, error) {
	body := map[string]string{"token": token}
	if email != "" {
		body["type"] = "email"
		body["email"] = email
	} else {
		body["type"] = "sms"
		body["phone"] = phone
	}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/verify", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toSession(), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, body, nil)
}

func (c *Client) CurrentIdentity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	var user gatewayUser
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return user.toIdentity(), nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return classifyError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
	}
	return nil
}

// classifyError maps provider rejections onto the closed AuthErrorCode set.
// Unrecognized failures are logged and surfaced as unknown so callers never
// leak raw provider messages to clients.
func classifyError(status int, raw []byte) *domain.AuthError {
	var envelope errorResponse
	_ = json.Unmarshal(raw, &envelope)

	message := envelope.Msg
	if message == "" {
		message = envelope.ErrorDescription
	}
	lower := strings.ToLower(envelope.ErrorCode + " " + message)

	switch {
	case strings.Contains(lower, "already registered") || strings.Contains(lower, "user_already_exists") || strings.Contains(lower, "email_exists"):
		return &domain.AuthError{Code: domain.AuthErrDuplicateEmail, Message: "An account with this email already exists"}
	case strings.Contains(lower, "weak_password") || strings.Contains(lower, "password should be"):
		return &domain.AuthError{Code: domain.AuthErrWeakPassword, Message: "Password does not meet the minimum requirements"}
	case strings.Contains(lower, "invalid login credentials") || strings.Contains(lower, "invalid_credentials") || strings.Contains(lower, "invalid_grant"):
		return &domain.AuthError{Code: domain.AuthErrInvalidCredentials, Message: "Invalid email or password"}
	case strings.Contains(lower, "otp_expired") || strings.Contains(lower, "expired"):
		return &domain.AuthError{Code: domain.AuthErrExpiredCode, Message: "The code has expired, request a new one"}
	case strings.Contains(lower, "otp") || strings.Contains(lower, "token"):
		return &domain.AuthError{Code: domain.AuthErrInvalidCode, Message: "The code is invalid"}
	}

	logger.Log.Warn("unclassified gateway rejection", "status", status, "error_code", envelope.ErrorCode)
	return &domain.AuthError{Code: domain.AuthErrUnknown, Message: "Authentication service rejected the request"}
}
