package session

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/models"
	"github.com/lazarspasic96/clip2fit-sub001/internal/storage"
)

// sessionKey is the single fixed key the session record lives under.
const sessionKey = "active_workout_session"

// Store persists the active session to the on-device store. Persistence is
// best-effort: a lost write must never surface to the UI, so every storage
// failure is logged and swallowed. The in-memory session stays authoritative
// for the life of the process.
type Store struct {
	kv  *storage.KV
	log *slog.Logger
	now func() time.Time
}

// NewStore creates a session store on top of the key-value store.
func NewStore(kv *storage.KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log, now: time.Now}
}

// Save serializes the session under the fixed key.
func (st *Store) Save(s models.WorkoutSession) {
	data, err := json.Marshal(s)
	if err != nil {
		st.log.Warn("session serialize failed", "error", err)
		return
	}
	if err := st.kv.Set(sessionKey, data); err != nil {
		st.log.Warn("session save failed", "error", err)
	}
}

// Load returns the persisted session, or nil when there is none. A record
// that fails to parse or is structurally invalid is removed and nil is
// returned, so one corrupt write can never wedge every subsequent launch.
//
// Staleness rule: a completed session whose completedAt does not fall on the
// current local calendar day is discarded — yesterday's finished workout
// must not resurface as today's. An in-progress session is never stale;
// resuming an old one is intentional.
func (st *Store) Load() *models.WorkoutSession {
	data, ok, err := st.kv.Get(sessionKey)
	if err != nil {
		st.log.Warn("session load failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var s models.WorkoutSession
	if err := json.Unmarshal(data, &s); err != nil {
		st.log.Warn("discarding corrupt session record", "error", err)
		st.Clear()
		return nil
	}
	if s.ID == "" || !s.Valid() {
		st.log.Warn("discarding structurally invalid session record")
		st.Clear()
		return nil
	}

	if s.Status == models.SessionCompleted {
		if s.CompletedAt == nil || !sameLocalDay(time.UnixMilli(*s.CompletedAt), st.now()) {
			st.Clear()
			return nil
		}
	}

	return &s
}

// Clear removes the persisted session unconditionally.
func (st *Store) Clear() {
	if err := st.kv.Remove(sessionKey); err != nil {
		st.log.Warn("session clear failed", "error", err)
	}
}

// sameLocalDay compares calendar days in local time, not elapsed seconds: a
// session finished at 23:59 is stale one minute later.
func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
