package cache

import (
	"errors"
	"testing"
	"time"
)

func testCache(t *testing.T) *Cache[string] {
	t.Helper()
	c := New[string]("test")
	if err := c.SetDir(t.TempDir()); err != nil {
		t.Fatalf("SetDir failed: %v", err)
	}
	return c
}

func TestGetOrSetCaches(t *testing.T) {
	c := testCache(t)

	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet("key", fn, false)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got != "value" {
			t.Errorf("got %q, want %q", got, "value")
		}
	}

	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
}

func TestGetOrSetForceUpdate(t *testing.T) {
	c := testCache(t)

	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	if _, err := c.GetOrSet("key", fn, false); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if _, err := c.GetOrSet("key", fn, true); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("fetch ran %d times, want 2", calls)
	}
}

func TestGetOrSetExpiry(t *testing.T) {
	c := testCache(t)
	c.SetTTL(1 * time.Nanosecond)

	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	if _, err := c.GetOrSet("key", fn, false); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.GetOrSet("key", fn, false); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("fetch ran %d times, want 2", calls)
	}
}

func TestGetOrSetError(t *testing.T) {
	c := testCache(t)

	wantErr := errors.New("fetch failed")
	_, err := c.GetOrSet("key", func() (string, error) {
		return "", wantErr
	}, false)
	if !errors.Is(err, wantErr) {
		t.Errorf("got error %v, want %v", err, wantErr)
	}

	// A failed fetch must not poison the cache
	got, err := c.GetOrSet("key", func() (string, error) {
		return "recovered", nil
	}, false)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if got != "recovered" {
		t.Errorf("got %q, want %q", got, "recovered")
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "countries", want: "countries"},
		{in: "nl", want: "nl"},
		{in: "a b:c", want: "a_b_c"},
		{in: "..hidden", want: ".hidden"},
	}

	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
