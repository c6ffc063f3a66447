package channel

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/AlexandreRouma/vhf-framing/internal/frame"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCreateAndGetSession(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	s, err := mgr.CreateSession("vhf-1", frame.TypeA)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	if s == nil {
		t.Fatal("CreateSession returned nil session")
	}
	if mgr.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions = %d, want 1", mgr.ActiveSessions())
	}

	// Creating the same channel again returns the existing session.
	again, err := mgr.CreateSession("vhf-1", frame.TypeA)
	if err != nil {
		t.Fatalf("second CreateSession error: %v", err)
	}
	if again != s {
		t.Error("second CreateSession returned a different session")
	}
	if mgr.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions = %d, want 1", mgr.ActiveSessions())
	}

	if got := mgr.GetSession("vhf-1"); got != s {
		t.Error("GetSession returned a different session")
	}
	if got := mgr.GetSession("missing"); got != nil {
		t.Errorf("GetSession(missing) = %v, want nil", got)
	}
}

func TestCreateSessionUnsupportedType(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	if _, err := mgr.CreateSession("bad", frame.FrameType(9)); err == nil {
		t.Error("CreateSession with unsupported frame type succeeded, want error")
	}
	if mgr.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", mgr.ActiveSessions())
	}
}

func TestPushTracksCounters(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	if _, err := mgr.CreateSession("vhf-1", frame.TypeA); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	payload := [frame.PayloadBytes]byte{0xA5, 0x5A, 0x0F, 0xF0, 0x3C, 0xC3, 0x70}
	fb, err := frame.Assemble(frame.TypeA, payload, nil, nil)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	fields, extracted, err := mgr.Push("vhf-1", fb)
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if !extracted {
		t.Fatal("no extraction from clean frame")
	}
	if fields.Payload != payload {
		t.Errorf("payload = %#v, want %#v", fields.Payload, payload)
	}

	stats := mgr.GetSession("vhf-1").Stats()
	if stats.BitsPushed != 96 {
		t.Errorf("BitsPushed = %d, want 96", stats.BitsPushed)
	}
	if stats.FramesExtracted != 1 {
		t.Errorf("FramesExtracted = %d, want 1", stats.FramesExtracted)
	}
	if stats.SyncAcquired != 1 {
		t.Errorf("SyncAcquired = %d, want 1", stats.SyncAcquired)
	}
	if !stats.Synchronized {
		t.Error("Synchronized = false, want true")
	}
}

func TestPushUnknownChannel(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	if _, _, err := mgr.Push("nope", nil); err == nil {
		t.Error("Push to unknown channel succeeded, want error")
	}
}

func TestAllStatsOrdered(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := mgr.CreateSession(name, frame.TypeA); err != nil {
			t.Fatalf("CreateSession(%s) error: %v", name, err)
		}
	}

	stats := mgr.AllStats()
	if len(stats) != 3 {
		t.Fatalf("len(AllStats) = %d, want 3", len(stats))
	}
	want := []string{"alpha", "mike", "zulu"}
	for i, w := range want {
		if stats[i].Name != w {
			t.Errorf("stats[%d].Name = %q, want %q", i, stats[i].Name, w)
		}
	}
}

func TestReapIdleSessions(t *testing.T) {
	mgr := NewManager(testLogger(), time.Hour, nil)
	defer mgr.Stop()

	s, err := mgr.CreateSession("stale", frame.TypeA)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	// Age the session well past the timeout, then force one reap pass.
	s.mu.Lock()
	s.lastActivity = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()
	mgr.reapOnce(time.Now())

	if mgr.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d after reap, want 0", mgr.ActiveSessions())
	}
}

func TestRemoveSession(t *testing.T) {
	mgr := NewManager(testLogger(), 0, nil)
	defer mgr.Stop()

	if _, err := mgr.CreateSession("vhf-1", frame.TypeA); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	mgr.RemoveSession("vhf-1")
	if mgr.GetSession("vhf-1") != nil {
		t.Error("session still present after RemoveSession")
	}
	// Removing a missing session is a no-op.
	mgr.RemoveSession("vhf-1")
}
