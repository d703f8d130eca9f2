package api

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mymedialist/medialist-server/internal/auth"
	"github.com/mymedialist/medialist-server/internal/service"
	"github.com/mymedialist/medialist-server/internal/store"
)

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

// setupTestServer creates a test server backed by temporary storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := store.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)

	services := &Services{
		Auth:    authService,
		List:    service.NewListService(st, logger),
		Stats:   service.NewStatsService(st, logger),
		Profile: service.NewProfileService(st, logger),
		Session: sessionService,
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("MyMediaList API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}
	t.Cleanup(s.Close)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerListRoutes()
	s.registerProfileRoutes()

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
	}
}

// registerUser creates an account via the API and returns the auth response.
func (ts *testServer) registerUser(t *testing.T, username string) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"password": "TestPassword123!",
		"device_info": map[string]any{
			"device_type": "web",
			"platform":    "Web",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var auth AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &auth))
	return auth
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}
