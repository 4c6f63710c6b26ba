package storage

import (
	"testing"
	"time"
)

// TestKVRoundTrip verifies set/get/remove on a fresh store.
func TestKVRoundTrip(t *testing.T) {
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	if err := kv.Set("session", []byte(`{"id":"s1"}`)); err != nil {
		t.Fatalf("set error: %v", err)
	}

	value, ok, err := kv.Get("session")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !ok {
		t.Fatal("key missing after set")
	}
	if string(value) != `{"id":"s1"}` {
		t.Errorf("value = %s, want {\"id\":\"s1\"}", value)
	}

	if err := kv.Remove("session"); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if _, ok, _ := kv.Get("session"); ok {
		t.Error("key present after remove")
	}
}

// TestKVMissingKey verifies a missing key reports absent without error.
func TestKVMissingKey(t *testing.T) {
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	value, ok, err := kv.Get("nope")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if ok || value != nil {
		t.Errorf("got (%q, %v), want absent", value, ok)
	}
}

// TestKVOverwrite verifies the last write wins for a key.
func TestKVOverwrite(t *testing.T) {
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	kv.Set("k", []byte("first"))  //nolint:errcheck
	kv.Set("k", []byte("second")) //nolint:errcheck

	value, _, _ := kv.Get("k")
	if string(value) != "second" {
		t.Errorf("value = %s, want second", value)
	}
}

// TestKVReopen verifies values survive a close/reopen cycle.
func TestKVReopen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("k", []byte("durable")); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	kv2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer kv2.Close()

	value, ok, err := kv2.Get("k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: value=%q ok=%v err=%v", value, ok, err)
	}
	if string(value) != "durable" {
		t.Errorf("value = %s, want durable", value)
	}
}

// TestTimezoneSyncRoundTrip verifies the diagnostics record round-trips and
// does not collide with other keys.
func TestTimezoneSyncRoundTrip(t *testing.T) {
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	if err := RecordTimezoneSync(kv, now); err != nil {
		t.Fatalf("record error: %v", err)
	}

	rec, err := LastTimezoneSync(kv)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if rec == nil {
		t.Fatal("record missing")
	}
	if rec.Name != "UTC" || rec.OffsetMinutes != 0 {
		t.Errorf("zone = %s/%d, want UTC/0", rec.Name, rec.OffsetMinutes)
	}
	if rec.SyncedAt != now.UnixMilli() {
		t.Errorf("syncedAt = %d, want %d", rec.SyncedAt, now.UnixMilli())
	}

	// Disjoint key: untouched by other tenants.
	if _, ok, _ := kv.Get("active_workout_session"); ok {
		t.Error("unexpected session key")
	}
}

// TestLastTimezoneSyncEmpty verifies absence reports nil without error.
func TestLastTimezoneSyncEmpty(t *testing.T) {
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	rec, err := LastTimezoneSync(kv)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}
