package jwt

import (
	"testing"
	"time"

	"github.com/Almightyluccas/NSWG1-Website-sub000/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: ttl,
	})
}

func TestManager_GenerateAndParse(t *testing.T) {
	mgr := newTestManager(15 * time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("期望 user_id=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望 role=admin，实际=%s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际=%s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("JWT ID 不应为空")
	}
}

func TestManager_ParseExpiredToken(t *testing.T) {
	mgr := newTestManager(-1 * time.Minute) // 已过期

	token, err := mgr.GenerateAccessToken("user-1", "member")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	_, err = mgr.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际=%v", err)
	}
}

func TestManager_ParseInvalidToken(t *testing.T) {
	mgr := newTestManager(15 * time.Minute)

	if _, err := mgr.ParseToken("not-a-jwt"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际=%v", err)
	}

	// 不同密钥签发的 Token 应校验失败
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-16-chars!",
		AccessTokenTTL: 15 * time.Minute,
	})
	token, err := other.GenerateAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}
	if _, err := mgr.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际=%v", err)
	}
}
