package cache

import (
	"testing"
	"time"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRedis_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := NewRedis(ctx, "redis://localhost:59999")
	if err == nil {
		t.Fatal("NewRedis() should return error for unreachable host")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := t.Context()
	c := NewMemory()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = hit, want miss")
	}

	c.Set(ctx, "explain:oop:Beginner", "الشرح", time.Hour)
	value, ok := c.Get(ctx, "explain:oop:Beginner")
	if !ok || value != "الشرح" {
		t.Errorf("Get() = %q, %v", value, ok)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := t.Context()
	c := NewMemory()

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set(ctx, "k", "v", time.Minute)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry expired immediately")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("entry survived past its TTL")
	}

	// TTL zero means no expiry.
	c.Set(ctx, "forever", "v", 0)
	current = current.Add(1000 * time.Hour)
	if _, ok := c.Get(ctx, "forever"); !ok {
		t.Error("zero-TTL entry must not expire")
	}
}
