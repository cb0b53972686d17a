package jwt

import (
	"testing"
	"time"

	"physioward/backend/config"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:              "test-secret-at-least-16-chars",
		AccessTokenTTL:         accessTTL,
		RefreshTokenTTLDefault: refreshTTL,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("worker-1", "leader", "team-1")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	if claims.WorkerID != "worker-1" {
		t.Errorf("WorkerID 期望 worker-1, 实际 %s", claims.WorkerID)
	}
	if claims.Role != "leader" {
		t.Errorf("Role 期望 leader, 实际 %s", claims.Role)
	}
	if claims.TeamID != "team-1" {
		t.Errorf("TeamID 期望 team-1, 实际 %s", claims.TeamID)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType 期望 access, 实际 %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestGenerateRefreshToken_Type(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)

	token, err := m.GenerateRefreshToken("worker-2", "worker", "team-1")
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType 期望 refresh, 实际 %s", claims.TokenType)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-1*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("worker-1", "worker", "team-1")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired, 实际 %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager(15*time.Minute, 24*time.Hour)
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:              "another-secret-16-chars-long",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: 24 * time.Hour,
	})

	token, err := m1.GenerateAccessToken("worker-1", "worker", "team-1")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	if _, err := m2.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid, 实际 %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager(15*time.Minute, 24*time.Hour)

	if _, err := m.ParseToken("not-a-jwt"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid, 实际 %v", err)
	}
}
