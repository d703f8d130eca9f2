package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mymedialist/medialist-server/internal/auth"
	"github.com/mymedialist/medialist-server/internal/domain"
	"github.com/mymedialist/medialist-server/internal/id"
	"github.com/mymedialist/medialist-server/internal/store"
)

// setupAuthTest creates services with temporary storage for testing.
func setupAuthTest(t *testing.T) (*AuthService, *auth.TokenService, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)

	return authService, tokenService, s
}

func testDevice() auth.DeviceInfo {
	return auth.DeviceInfo{
		DeviceType: "web",
		Platform:   "Web",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, RegisterRequest{
		Username:   "Alice42",
		Password:   "SecurePassword123!",
		DeviceInfo: testDevice(),
		IPAddress:  "192.168.1.1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Username is stored normalized
	assert.Equal(t, "alice42", resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.SessionID)
	assert.Greater(t, resp.ExpiresIn, 0)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Username: "alice",
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)

	// Same username with different casing collides
	_, err = authService.Register(ctx, RegisterRequest{
		Username: "Alice",
		Password: "AnotherPassword456!",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name:    "missing username",
			req:     RegisterRequest{Username: "", Password: "SecurePassword123!"},
			wantErr: "username",
		},
		{
			name:    "username too short",
			req:     RegisterRequest{Username: "ab", Password: "SecurePassword123!"},
			wantErr: "username",
		},
		{
			name:    "username with spaces",
			req:     RegisterRequest{Username: "not valid", Password: "SecurePassword123!"},
			wantErr: "username",
		},
		{
			name:    "password too short",
			req:     RegisterRequest{Username: "alice", Password: "short"},
			wantErr: "password",
		},
		{
			name:    "password too long",
			req:     RegisterRequest{Username: "alice", Password: string(make([]byte, 1025))},
			wantErr: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(ctx, tt.req)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _, s := setupAuthTest(t)
	ctx := context.Background()

	password := "SecurePassword123!"
	user := createServiceTestUser(t, s, "alice", password)

	resp, err := authService.Login(ctx, LoginRequest{
		Username:   "alice",
		Password:   password,
		DeviceInfo: testDevice(),
		IPAddress:  "192.168.1.1",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAuthService_Login_CaseInsensitiveUsername(t *testing.T) {
	authService, _, s := setupAuthTest(t)
	ctx := context.Background()

	user := createServiceTestUser(t, s, "alice", "SecurePassword123!")

	resp, err := authService.Login(ctx, LoginRequest{
		Username:   "  ALICE  ",
		Password:   "SecurePassword123!",
		DeviceInfo: testDevice(),
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _, s := setupAuthTest(t)
	ctx := context.Background()

	createServiceTestUser(t, s, "alice", "CorrectPassword123!")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{
			name:     "unknown username",
			username: "nobody",
			password: "CorrectPassword123!",
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "WrongPassword123!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Login(ctx, LoginRequest{
				Username:   tt.username,
				Password:   tt.password,
				DeviceInfo: testDevice(),
			})
			assert.Error(t, err)
			// The same message in both cases so usernames cannot be probed
			assert.Contains(t, err.Error(), "invalid username or password")
		})
	}
}

func TestAuthService_RefreshTokens_Success(t *testing.T) {
	authService, _, s := setupAuthTest(t)
	ctx := context.Background()

	createServiceTestUser(t, s, "alice", "SecurePassword123!")

	loginResp, err := authService.Login(ctx, LoginRequest{
		Username:   "alice",
		Password:   "SecurePassword123!",
		DeviceInfo: testDevice(),
	})
	require.NoError(t, err)

	// Wait a moment to ensure new tokens will have different timestamps
	time.Sleep(10 * time.Millisecond)

	refreshResp, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
		DeviceInfo:   testDevice(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, loginResp.AccessToken, refreshResp.AccessToken)
	assert.NotEqual(t, loginResp.RefreshToken, refreshResp.RefreshToken)
	assert.Equal(t, loginResp.SessionID, refreshResp.SessionID) // Same session

	// Old refresh token should be invalidated
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestAuthService_RefreshTokens_InvalidToken(t *testing.T) {
	authService, _, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: "invalid-token-12345",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestAuthService_Logout_Success(t *testing.T) {
	authService, _, s := setupAuthTest(t)
	ctx := context.Background()

	createServiceTestUser(t, s, "alice", "SecurePassword123!")

	loginResp, err := authService.Login(ctx, LoginRequest{
		Username:   "alice",
		Password:   "SecurePassword123!",
		DeviceInfo: testDevice(),
	})
	require.NoError(t, err)

	err = authService.Logout(ctx, loginResp.SessionID)
	assert.NoError(t, err)

	// Refresh token should no longer work
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	assert.Error(t, err)
}

func TestAuthService_Logout_NonExistentSession(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	// Logout of non-existent session should not error
	err := authService.Logout(context.Background(), "session-nonexistent")
	assert.NoError(t, err)
}

func TestAuthService_VerifyAccessToken_Success(t *testing.T) {
	authService, tokenService, s := setupAuthTest(t)
	ctx := context.Background()

	user := createServiceTestUser(t, s, "alice", "SecurePassword123!")

	token, err := tokenService.GenerateAccessToken(user)
	require.NoError(t, err)

	verifiedUser, claims, err := authService.VerifyAccessToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, verifiedUser.ID)
	assert.Equal(t, user.Username, verifiedUser.Username)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
}

func TestAuthService_VerifyAccessToken_InvalidToken(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	_, _, err := authService.VerifyAccessToken(context.Background(), "invalid-token")
	assert.Error(t, err)
}

func TestAuthService_VerifyAccessToken_DeletedUser(t *testing.T) {
	authService, tokenService, s := setupAuthTest(t)
	ctx := context.Background()

	user := createServiceTestUser(t, s, "alice", "SecurePassword123!")

	token, err := tokenService.GenerateAccessToken(user)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, _, err = authService.VerifyAccessToken(ctx, token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

// Helper function to create a test user
func createServiceTestUser(t *testing.T, s *store.Store, username, password string) *domain.User {
	t.Helper()

	passwordHash, err := auth.HashPassword(password)
	require.NoError(t, err)

	userID, err := id.Generate("user")
	require.NoError(t, err)

	user := &domain.User{
		ID:           userID,
		Username:     username,
		PasswordHash: passwordHash,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}
