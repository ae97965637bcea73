package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elite-customer/internal/common/config"
	"elite-customer/internal/common/database"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/supabase"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedisStore(t *testing.T) Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, 0)
}

func setupProvider(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := supabase.New(supabase.Config{
		ProjectURL: server.URL,
		AnonKey:    "anon-key",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

// ==========================
// Session Lifecycle Tests
// ==========================

func TestSignInWithEmail_PersistsSession(t *testing.T) {
	provider := setupProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{
			"access_token":"tok-1","refresh_token":"ref-1",
			"user":{"id":"u-1","email":"asha@example.com","user_metadata":{"name":"Asha"}}
		}`))
	})
	store := setupRedisStore(t)

	svc := NewService(context.Background(), provider, store, logger.NewTestLogger(t))
	session, err := svc.SignInWithEmail(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "Asha", session.User.Name)
	assert.Equal(t, "tok-1", svc.Token())
	assert.True(t, svc.IsLoggedIn())

	// The session must survive a restart through the store.
	restored := NewService(context.Background(), provider, store, logger.NewTestLogger(t))
	assert.True(t, restored.IsLoggedIn())
	assert.Equal(t, "tok-1", restored.Token())
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, "u-1", restored.CurrentUser().ID)
}

func TestSignInWithEmail_AuthFailure(t *testing.T) {
	provider := setupProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	svc := NewService(context.Background(), provider, NewMemoryStore(), logger.NewTestLogger(t))
	_, err := svc.SignInWithEmail(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, svc.IsLoggedIn())
	assert.Empty(t, svc.Token())
}

func TestLogout_ClearsStoreAndState(t *testing.T) {
	var signedOut bool
	provider := setupProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/logout":
			signedOut = true
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Write([]byte(`{"access_token":"tok-2","user":{"id":"u-2"}}`))
		}
	})
	store := setupRedisStore(t)

	svc := NewService(context.Background(), provider, store, logger.NewTestLogger(t))
	_, err := svc.SignInWithEmail(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	svc.Logout(context.Background())
	assert.True(t, signedOut)
	assert.False(t, svc.IsLoggedIn())
	assert.Nil(t, svc.CurrentUser())

	_, err = store.Get(context.Background(), "elite_customer_user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginDemo_NoProviderNeeded(t *testing.T) {
	svc := NewService(context.Background(), nil, NewMemoryStore(), logger.NewNoOpLogger())

	session, err := svc.LoginDemo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo-user", session.User.ID)
	assert.True(t, svc.IsLoggedIn())
}

func TestSignInWithEmail_NoProvider(t *testing.T) {
	svc := NewService(context.Background(), nil, NewMemoryStore(), logger.NewNoOpLogger())
	_, err := svc.SignInWithEmail(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRestore_CorruptUserDiscarded(t *testing.T) {
	store := setupRedisStore(t)
	require.NoError(t, store.Set(context.Background(), "elite_customer_user", "{not json"))
	require.NoError(t, store.Set(context.Background(), "elite_customer_token", "tok"))

	svc := NewService(context.Background(), nil, store, logger.NewTestLogger(t))
	assert.False(t, svc.IsLoggedIn())

	_, err := store.Get(context.Background(), "elite_customer_user")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==========================
// Phone OTP Tests
// ==========================

func TestPhoneOTPFlow(t *testing.T) {
	provider := setupProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/otp":
			w.Write([]byte(`{}`))
		case "/auth/v1/verify":
			w.Write([]byte(`{"access_token":"tok-3","user":{"id":"u-3","phone":"+911234"}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	svc := NewService(context.Background(), provider, NewMemoryStore(), logger.NewTestLogger(t))
	require.NoError(t, svc.RequestPhoneOTP(context.Background(), "+911234"))

	session, err := svc.ConfirmPhoneOTP(context.Background(), "+911234", "123456")
	require.NoError(t, err)
	assert.Equal(t, "+911234", session.User.Phone)
}

// ==========================
// Preference Tests
// ==========================

func TestDarkModeRoundTrip(t *testing.T) {
	svc := NewService(context.Background(), nil, setupRedisStore(t), logger.NewNoOpLogger())

	assert.False(t, svc.DarkMode(context.Background()))
	require.NoError(t, svc.SetDarkMode(context.Background(), true))
	assert.True(t, svc.DarkMode(context.Background()))
}
