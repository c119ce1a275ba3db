package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewPendingNotification(t *testing.T) {
	details := json.RawMessage(`{"modelId":42}`)

	p := NewPendingNotification("milestone:42:100", "download-milestone", "", []int64{1, 2}, details)
	if p.Key != "milestone:42:100" {
		t.Fatalf("explicit key not kept: %q", p.Key)
	}
	if p.Category != CategoryMilestone {
		t.Fatalf("category not derived from type: %q", p.Category)
	}

	// 显式给出的合法分类优先于类型推导。
	p = NewPendingNotification("k", "download-milestone", CategorySystem, nil, nil)
	if p.Category != CategorySystem {
		t.Fatalf("explicit category overridden: %q", p.Category)
	}

	// 非法分类按类型重新推导。
	p = NewPendingNotification("k", "new-comment", "Bogus", nil, nil)
	if p.Category != CategoryComment {
		t.Fatalf("invalid category should fall back to type mapping, got %q", p.Category)
	}
}

func TestDerivePendingKey(t *testing.T) {
	details := json.RawMessage(`{"modelId":42,"count":100}`)

	k1 := DerivePendingKey("download-milestone", details)
	k2 := DerivePendingKey("download-milestone", details)
	if k1 != k2 {
		t.Fatalf("derived key not stable: %q vs %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "download-milestone:") {
		t.Fatalf("derived key missing type prefix: %q", k1)
	}

	// 同负载不同类型必须派生出不同 key。
	if k1 == DerivePendingKey("favorite-milestone", details) {
		t.Fatal("keys for different types collided")
	}
	// 同类型不同负载同理。
	if k1 == DerivePendingKey("download-milestone", json.RawMessage(`{"modelId":42,"count":200}`)) {
		t.Fatal("keys for different payloads collided")
	}
}

func TestNewPendingNotificationDerivesKeyWhenEmpty(t *testing.T) {
	details := json.RawMessage(`{"modelId":7}`)
	p := NewPendingNotification("", "new-comment", "", []int64{5}, details)
	if p.Key == "" {
		t.Fatal("empty key should be derived")
	}
	if p.Key != DerivePendingKey("new-comment", details) {
		t.Fatalf("derived key mismatch: %q", p.Key)
	}
}
