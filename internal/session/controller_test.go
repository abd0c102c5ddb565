// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package session

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/store"
)

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	cat, err := recommend.NewCatalog(
		[]recommend.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}, {ID: 4, Title: "The Matrix"}},
		[][]float64{
			{1, 0.9, 0.2, 0.1},
			{0.9, 1, 0.5, 0.3},
			{0.2, 0.5, 1, 0.4},
			{0.1, 0.3, 0.4, 1},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	cfg := recommend.DefaultConfig()
	cfg.CacheSize = 0
	e, err := recommend.NewEngine(cfg, cat, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// flakyStore fails writes while failWrites is set.
type flakyStore struct {
	*store.Memory
	mu         sync.Mutex
	failWrites bool
	getValues  int
}

var errDisk = errors.New("disk full")

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	f.failWrites = v
	f.mu.Unlock()
}

func (f *flakyStore) failing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failWrites
}

func (f *flakyStore) UpdateFeedback(ctx context.Context, u string, fn store.FeedbackFunc) error {
	if f.failing() {
		return errDisk
	}
	return f.Memory.UpdateFeedback(ctx, u, fn)
}

func (f *flakyStore) GetValueTable(ctx context.Context, u string) (recommend.ValueTable, error) {
	f.mu.Lock()
	f.getValues++
	f.mu.Unlock()
	return f.Memory.GetValueTable(ctx, u)
}

func newTestController(t *testing.T) (*Controller, *flakyStore) {
	t.Helper()

	st := &flakyStore{Memory: store.NewMemory()}
	return NewController(st, testEngine(t), nil, zerolog.Nop()), st
}

func loggedIn(t *testing.T, c *Controller, username string) *Session {
	t.Helper()

	ctx := context.Background()
	if err := c.Register(ctx, username, "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	sess, err := c.Login(ctx, username, "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return sess
}

func TestRegister(t *testing.T) {
	t.Parallel()

	c, st := newTestController(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"blank username", "  ", "pw", ErrInvalidInput},
		{"blank password", "ana", "", ErrInvalidInput},
		{"ok", "ana", "pw", nil},
		{"duplicate", "ana", "other", ErrDuplicateUser},
		{"existing user, blank password", "ana", "   ", ErrDuplicateUser},
		{"new user, blank password", "bea", "   ", ErrInvalidInput},
	}
	for _, tt := range tests {
		err := c.Register(ctx, tt.username, tt.password)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Register() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	// The first registration's hash is retained.
	cred, err := st.GetCredential(ctx, "ana")
	if err != nil {
		t.Fatalf("GetCredential() error = %v", err)
	}
	want := "30c952fab122c3f9759f02a6d95c3758b246b4fee239957b2d4fee46e26170c4"
	if cred.PasswordHash != want {
		t.Errorf("stored hash = %s, want sha256(pw) %s", cred.PasswordHash, want)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	c, st := newTestController(t)
	ctx := context.Background()
	if err := c.Register(ctx, "ana", "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := c.Login(ctx, "ana", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login(wrong password) error = %v, want ErrAuthenticationFailed", err)
	}
	if _, err := c.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login(unknown user) error = %v, want ErrAuthenticationFailed", err)
	}
	if st.getValues != 0 {
		t.Errorf("value table loaded %d times on failed logins, want 0", st.getValues)
	}

	sess, err := c.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.ID == "" || sess.Username != "ana" {
		t.Errorf("session = %+v", sess)
	}
	liked, _ := c.Liked(sess)
	values, _ := c.Values(sess)
	if len(liked) != 0 || values.Len() != 0 {
		t.Errorf("new user liked = %v, values = %v; want empty", liked, values)
	}
}

func TestRecordFeedback_Scenario(t *testing.T) {
	t.Parallel()

	c, st := newTestController(t)
	ctx := context.Background()
	sess := loggedIn(t, c, "ana")

	for _, step := range []struct {
		movie  string
		signal Signal
	}{
		{"A", Like},
		{"B", Like},
		{"C", Dislike},
	} {
		if err := c.RecordFeedback(ctx, sess, step.movie, step.signal); err != nil {
			t.Fatalf("RecordFeedback(%s, %s) error = %v", step.movie, step.signal, err)
		}
	}

	liked, _ := c.Liked(sess)
	if !reflect.DeepEqual(liked, []string{"A", "B"}) {
		t.Errorf("liked = %v, want [A B]", liked)
	}
	values, _ := c.Values(sess)
	if got := values.Get("B", "C"); math.Abs(got-(-0.1)) > 1e-12 {
		t.Errorf("table[B][C] = %v, want -0.1", got)
	}
	if got := values.Get("A", "B"); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("table[A][B] = %v, want 0.1", got)
	}

	// Persisted state matches the snapshot.
	p, err := st.GetProfile(ctx, "ana")
	if err != nil || !reflect.DeepEqual(p.Liked, []string{"A", "B"}) {
		t.Errorf("persisted profile = %+v, %v", p, err)
	}
	persisted, err := st.GetValueTable(ctx, "ana")
	if err != nil || !reflect.DeepEqual(persisted, values) {
		t.Errorf("persisted table = %v, want %v", persisted, values)
	}

	// A fresh login sees the same state.
	again, err := c.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if l, _ := c.Liked(again); !reflect.DeepEqual(l, []string{"A", "B"}) {
		t.Errorf("liked after relogin = %v", l)
	}
}

func TestRecordFeedback_EdgeCases(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t)
	ctx := context.Background()
	sess := loggedIn(t, c, "ana")

	// Dislike with no likes is a no-op.
	if err := c.RecordFeedback(ctx, sess, "C", Dislike); err != nil {
		t.Fatalf("Dislike() error = %v", err)
	}
	if v, _ := c.Values(sess); v.Len() != 0 {
		t.Errorf("table after dislike with no likes = %v, want empty", v)
	}

	// First like has no previous like, so nothing is learned.
	if err := c.RecordFeedback(ctx, sess, "A", Like); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if v, _ := c.Values(sess); v.Len() != 0 {
		t.Errorf("table after first like = %v, want empty", v)
	}

	// Liking again changes nothing.
	if err := c.RecordFeedback(ctx, sess, "A", Like); err != nil {
		t.Fatalf("repeat Like() error = %v", err)
	}
	if l, _ := c.Liked(sess); !reflect.DeepEqual(l, []string{"A"}) {
		t.Errorf("liked after repeat = %v, want [A]", l)
	}

	if err := c.RecordFeedback(ctx, sess, "Unknown Film", Like); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown movie error = %v, want ErrInvalidInput", err)
	}
	if err := c.RecordFeedback(ctx, sess, "B", Signal(9)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad signal error = %v, want ErrInvalidInput", err)
	}
	if err := c.RecordFeedback(ctx, nil, "B", Like); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("nil session error = %v, want ErrNotAuthenticated", err)
	}
}

func TestRecordFeedback_StoreFailureKeepsState(t *testing.T) {
	t.Parallel()

	c, st := newTestController(t)
	ctx := context.Background()
	sess := loggedIn(t, c, "ana")
	if err := c.RecordFeedback(ctx, sess, "A", Like); err != nil {
		t.Fatalf("Like() error = %v", err)
	}

	st.setFail(true)
	if err := c.RecordFeedback(ctx, sess, "B", Like); !errors.Is(err, ErrStoreIO) {
		t.Fatalf("Like() with failing store error = %v, want ErrStoreIO", err)
	}
	if err := c.RecordFeedback(ctx, sess, "C", Dislike); !errors.Is(err, ErrStoreIO) {
		t.Fatalf("Dislike() with failing store error = %v, want ErrStoreIO", err)
	}

	if l, _ := c.Liked(sess); !reflect.DeepEqual(l, []string{"A"}) {
		t.Errorf("snapshot liked = %v, want [A]", l)
	}
	if v, _ := c.Values(sess); v.Len() != 0 {
		t.Errorf("snapshot table = %v, want empty", v)
	}
	p, _ := st.GetProfile(ctx, "ana")
	if !reflect.DeepEqual(p.Liked, []string{"A"}) {
		t.Errorf("persisted liked = %v, want [A]", p.Liked)
	}

	st.setFail(false)
	if err := c.RecordFeedback(ctx, sess, "B", Like); err != nil {
		t.Fatalf("Like() after recovery error = %v", err)
	}
	if v, _ := c.Values(sess); v.Get("A", "B") == 0 {
		t.Error("expected table[A][B] after recovery")
	}
}

func TestRecordFeedback_ConcurrentSameUser(t *testing.T) {
	t.Parallel()

	c, st := newTestController(t)
	ctx := context.Background()

	// Two sessions for one user; every like must survive.
	s1 := loggedIn(t, c, "ana")
	s2, err := c.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	var wg sync.WaitGroup
	for i, m := range []string{"A", "B", "C", "The Matrix"} {
		sess := s1
		if i%2 == 1 {
			sess = s2
		}
		wg.Add(1)
		go func(sess *Session, movie string) {
			defer wg.Done()
			if err := c.RecordFeedback(ctx, sess, movie, Like); err != nil {
				t.Errorf("RecordFeedback(%s) error = %v", movie, err)
			}
		}(sess, m)
	}
	wg.Wait()

	p, err := st.GetProfile(ctx, "ana")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if len(p.Liked) != 4 {
		t.Errorf("liked = %v, want 4 titles", p.Liked)
	}
	table, _ := st.GetValueTable(ctx, "ana")
	if table.Len() != 3 {
		t.Errorf("table has %d entries, want 3 (one per consecutive pair)", table.Len())
	}
	if c.locks.size() != 0 {
		t.Errorf("%d user locks left after feedback, want 0", c.locks.size())
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t)
	ctx := context.Background()
	sess := loggedIn(t, c, "ana")

	// No likes: seeded by The Matrix, which is excluded.
	resp, err := c.Recommend(ctx, sess, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(resp.Seeds, []string{"The Matrix"}) {
		t.Errorf("seeds = %v, want [The Matrix]", resp.Seeds)
	}
	if got := titles(resp); !reflect.DeepEqual(got, []string{"C", "B"}) {
		t.Errorf("titles = %v, want [C B]", got)
	}

	if err := c.RecordFeedback(ctx, sess, "A", Like); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	resp, err = c.Recommend(ctx, sess, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := titles(resp); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("titles after liking A = %v, want [B C]", got)
	}

	if _, err := c.Recommend(ctx, nil, 2); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Recommend(nil) error = %v, want ErrNotAuthenticated", err)
	}
}

func TestResume(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t)
	ctx := context.Background()
	sess := loggedIn(t, c, "ana")
	if err := c.RecordFeedback(ctx, sess, "A", Like); err != nil {
		t.Fatalf("Like() error = %v", err)
	}

	resumed, err := c.Resume(ctx, "sid-1", "ana")
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if resumed.ID != "sid-1" {
		t.Errorf("resumed ID = %q, want sid-1", resumed.ID)
	}
	if l, _ := c.Liked(resumed); !reflect.DeepEqual(l, []string{"A"}) {
		t.Errorf("resumed liked = %v, want [A]", l)
	}
	if _, err := c.Resume(ctx, "", "ana"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Resume(empty id) error = %v, want ErrNotAuthenticated", err)
	}
}

func TestRefresh_SeesOtherSessionFeedback(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t)
	ctx := context.Background()
	first := loggedIn(t, c, "ana")
	second, err := c.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	for _, m := range []string{"B", "A"} {
		if err := c.RecordFeedback(ctx, second, m, Like); err != nil {
			t.Fatalf("RecordFeedback(%s) error = %v", m, err)
		}
	}

	// Recommend refreshes on its own: seeds come from the other session's likes.
	resp, err := c.Recommend(ctx, first, 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(resp.Seeds, []string{"B", "A"}) {
		t.Errorf("seeds = %v, want [B A]", resp.Seeds)
	}

	if err := c.RecordFeedback(ctx, second, "C", Dislike); err != nil {
		t.Fatalf("Dislike() error = %v", err)
	}
	if err := c.Refresh(ctx, first); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if l, _ := c.Liked(first); !reflect.DeepEqual(l, []string{"B", "A"}) {
		t.Errorf("liked after refresh = %v, want [B A]", l)
	}
	if v, _ := c.Values(first); math.Abs(v.Get("A", "C")-(-0.1)) > 1e-12 {
		t.Errorf("table[A][C] after refresh = %v, want -0.1", v.Get("A", "C"))
	}

	if err := c.Refresh(ctx, nil); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Refresh(nil) error = %v, want ErrNotAuthenticated", err)
	}
}

func TestRecordFeedback_SharedStoreAcrossControllers(t *testing.T) {
	t.Parallel()

	// Two controllers stand in for two server processes: their per-user locks
	// are independent, so only the store keeps the likes from clobbering each other.
	shared := store.NewMemory()
	c1 := NewController(shared, testEngine(t), nil, zerolog.Nop())
	c2 := NewController(shared, testEngine(t), nil, zerolog.Nop())
	ctx := context.Background()

	s1 := loggedIn(t, c1, "ana")
	s2, err := c2.Login(ctx, "ana", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	var wg sync.WaitGroup
	for i, m := range []string{"A", "B", "C", "The Matrix"} {
		c, sess := c1, s1
		if i%2 == 1 {
			c, sess = c2, s2
		}
		wg.Add(1)
		go func(c *Controller, sess *Session, movie string) {
			defer wg.Done()
			if err := c.RecordFeedback(ctx, sess, movie, Like); err != nil {
				t.Errorf("RecordFeedback(%s) error = %v", movie, err)
			}
		}(c, sess, m)
	}
	wg.Wait()

	p, err := shared.GetProfile(ctx, "ana")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if len(p.Liked) != 4 {
		t.Errorf("liked = %v, want 4 titles", p.Liked)
	}
	table, _ := shared.GetValueTable(ctx, "ana")
	if table.Len() != 3 {
		t.Errorf("table has %d entries, want 3", table.Len())
	}
}

func TestParseSignal(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Signal{"like": Like, "LIKE": Like, " dislike ": Dislike} {
		if got, err := ParseSignal(in); err != nil || got != want {
			t.Errorf("ParseSignal(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSignal("meh"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseSignal(meh) error = %v, want ErrInvalidInput", err)
	}
}

func titles(resp *recommend.Response) []string {
	out := make([]string, len(resp.Items))
	for i, it := range resp.Items {
		out[i] = it.Title
	}
	return out
}
