package cache

import (
	"strings"
	"testing"
)

func TestBlacklistKey_Deterministic(t *testing.T) {
	k1 := blacklistKey("some.jwt.token")
	k2 := blacklistKey("some.jwt.token")

	if k1 != k2 {
		t.Errorf("expected deterministic keys, got %q and %q", k1, k2)
	}
}

func TestBlacklistKey_NeverEmbedsToken(t *testing.T) {
	token := "header.payload.signature"
	key := blacklistKey(token)

	if strings.Contains(key, token) {
		t.Error("blacklist key must not contain the raw token")
	}

	if !strings.HasPrefix(key, blacklistKeyPrefix) {
		t.Errorf("expected prefix %q, got %q", blacklistKeyPrefix, key)
	}
}

func TestBlacklistKey_DistinctTokens(t *testing.T) {
	if blacklistKey("token-a") == blacklistKey("token-b") {
		t.Error("expected distinct keys for distinct tokens")
	}
}

func TestHashIP(t *testing.T) {
	h := hashIP("203.0.113.7")

	if len(h) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(h))
	}

	if h == hashIP("203.0.113.8") {
		t.Error("expected distinct hashes for distinct IPs")
	}
}
