package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-workwise-backend/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "anon-key")
}

func TestSignUpResolvesRoleFromMetadata(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data := body["data"].(map[string]any)
		assert.Equal(t, "worker", data["account_type"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":    "6f1c9f2e-0000-4000-8000-000000000001",
			"email": "jane@example.com",
			"user_metadata": map[string]string{
				"first_name":   "Jane",
				"last_name":    "Dlamini",
				"account_type": "worker",
			},
		})
	})

	identity, err := client.SignUp(context.Background(), "jane@example.com", "s3cretpass", domain.SignUpMetadata{
		FirstName: "Jane", LastName: "Dlamini", AccountType: "worker",
	})
	require.NoError(t, err)
	assert.Equal(t, "6f1c9f2e-0000-4000-8000-000000000001", identity.ID)
	assert.Equal(t, domain.RoleWorker, identity.Role)
}

func TestSignInWithPassword(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "jwt-abc",
			"refresh_token": "refresh-xyz",
			"expires_in":    3600,
			"user": map[string]any{
				"id":            "u-1",
				"email":         "jane@example.com",
				"user_metadata": map[string]string{"account_type": "employer"},
			},
		})
	})

	session, err := client.SignInWithPassword(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", session.AccessToken)
	assert.Equal(t, domain.RoleEmployer, session.Identity.Role)
}

func TestSignInInvalidCredentials(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_code": "invalid_credentials",
			"msg":        "Invalid login credentials",
		})
	})

	_, err := client.SignInWithPassword(context.Background(), "jane@example.com", "wrong")
	var authErr *domain.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, domain.AuthErrInvalidCredentials, authErr.Code)
	assert.Equal(t, "Invalid email or password", authErr.Message)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	})

	_, err := client.SignUp(context.Background(), "dup@example.com", "pw123456", domain.SignUpMetadata{AccountType: "worker"})
	var authErr *domain.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, domain.AuthErrDuplicateEmail, authErr.Code)
}

func TestVerifyOTPExpired(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"error_code": "otp_expired",
			"msg":        "Token has expired or is invalid",
		})
	})

	_, err := client.VerifyOTP(context.Background(), "jane@example.com", "", "123456")
	var authErr *domain.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, domain.AuthErrExpiredCode, authErr.Code)
}

func TestVerifyOTPDestinationTypes(t *testing.T) {
	var got map[string]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "jwt-abc",
			"refresh_token": "refresh-xyz",
			"expires_in":    3600,
			"user": map[string]any{
				"id":            "u-1",
				"email":         "jane@example.com",
				"user_metadata": map[string]string{"account_type": "worker"},
			},
		})
	})

	t.Run("emailed codes verify as type email", func(t *testing.T) {
		got = nil
		_, err := client.VerifyOTP(context.Background(), "jane@example.com", "", "123456")
		require.NoError(t, err)
		assert.Equal(t, "email", got["type"])
		assert.Equal(t, "jane@example.com", got["email"])
		assert.NotContains(t, got, "phone")
	})

	t.Run("SMS codes verify as type sms", func(t *testing.T) {
		got = nil
		session, err := client.VerifyOTP(context.Background(), "", "+27821234567", "654321")
		require.NoError(t, err)
		assert.Equal(t, "sms", got["type"])
		assert.Equal(t, "+27821234567", got["phone"])
		assert.NotContains(t, got, "email")
		assert.Equal(t, "jwt-abc", session.AccessToken)
	})
}

func TestUnknownRejectionIsSanitized(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"msg":"database connection refused at 10.0.3.7"}`))
	})

	_, err := client.SignInWithPassword(context.Background(), "jane@example.com", "pw")
	var authErr *domain.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, domain.AuthErrUnknown, authErr.Code)
	assert.NotContains(t, authErr.Message, "10.0.3.7")
}

func TestCurrentIdentityUsesBearerToken(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "u-9",
			"email":         "sam@example.com",
			"phone":         "+27821234567",
			"user_metadata": map[string]string{"account_type": "worker"},
		})
	})

	identity, err := client.CurrentIdentity(context.Background(), "user-jwt")
	require.NoError(t, err)
	require.NotNil(t, identity.Phone)
	assert.Equal(t, "+27821234567", *identity.Phone)
}
