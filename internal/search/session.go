package search

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	// SelectedCityKey is the preference key the committed city is stored under.
	SelectedCityKey = "selectedCity"

	// DefaultDelay is how long input must stay quiet before a fetch fires.
	DefaultDelay = time.Second

	// minQueryLen is the longest query that never triggers a fetch.
	minQueryLen = 3
)

// ErrNothingToSelect is returned by Select when there is no result on screen.
var ErrNothingToSelect = errors.New("no result to select")

// Timers schedules cancellable one-shot tasks.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (scheduler.Handle, error)
}

// View is a consistent copy of the session's published state.
type View struct {
	State    State                    `json:"state"`
	Query    string                   `json:"query"`
	Snapshot *weather.WeatherSnapshot `json:"snapshot,omitempty"`
}

// ticket tags an in-flight fetch with the sequence number it was started under.
type ticket struct {
	seq   uint64
	id    uuid.UUID
	query string
}

// Session owns the search query, debounces edits into fetches and drives the
// view state. All mutation happens under mu; fetch goroutines and timer
// callbacks re-enter through it.
type Session struct {
	provider weather.Provider
	prefs    weather.Preferences
	timers   Timers
	delay    time.Duration
	observer func(Event)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	query    string
	state    State
	snapshot *weather.WeatherSnapshot
	// resultQuery is the query the on-screen snapshot was fetched for.
	resultQuery string
	// seq advances on every query change and every fetch start. A timer or
	// fetch result only takes effect if seq has not moved since it was issued.
	seq     uint64
	pending scheduler.Handle
	stats   Stats
	closed  bool
}

// Option configures a Session.
type Option func(*Session)

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithObserver registers fn to receive every Event. fn runs with the session
// lock held and must not call back into the Session.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// New creates a Session in the NoCity state. Call Start to restore the
// persisted city.
func New(provider weather.Provider, prefs weather.Preferences, timers Timers, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		provider: provider,
		prefs:    prefs,
		timers:   timers,
		delay:    DefaultDelay,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateNoCity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the persisted city. With one present the session goes straight
// to Loading and fetches it without waiting for the debounce delay.
func (s *Session) Start() {
	city, err := s.prefs.Get(SelectedCityKey)
	if err != nil && !errors.Is(err, weather.ErrNotFound) {
		log.Printf("WARN: search: could not load %s: %v", SelectedCityKey, err)
		city = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = city
	if common.RuneLen(city) <= minQueryLen {
		s.setStateLocked(StateNoCity)
		return
	}

	log.Printf("INFO: search: restoring persisted city %q", city)
	s.startFetchLocked()
}

// SetQuery records a new query. Queries of three characters or fewer clear the
// result at once; longer ones are fetched after the debounce delay unless
// another edit arrives first.
func (s *Session) SetQuery(q string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || q == s.query {
		return nil
	}

	s.query = q
	s.seq++
	s.cancelPendingLocked()

	if common.RuneLen(q) <= minQueryLen {
		s.snapshot = nil
		s.resultQuery = ""
		s.setStateLocked(StateNoCity)
		return nil
	}

	token := s.seq
	h, err := s.timers.AfterFunc(s.delay, func() { s.fire(token) })
	if err != nil {
		log.Printf("ERROR: search: could not schedule fetch for %q: %v", q, err)
		return err
	}
	s.pending = h
	return nil
}

// fire runs when a debounce timer expires.
func (s *Session) fire(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || token != s.seq {
		return
	}
	s.pending = nil
	s.startFetchLocked()
}

func (s *Session) startFetchLocked() {
	s.seq++
	t := ticket{seq: s.seq, id: uuid.New(), query: s.query}
	s.stats.Started++

	s.setStateLocked(StateLoading)
	s.emitLocked(Event{Kind: EventFetchStarted, State: s.state, Query: t.query, Seq: t.seq})
	log.Printf("DEBUG: search: fetch %s started for %q (seq %d)", t.id, t.query, t.seq)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		snap, err := s.provider.Current(s.ctx, t.query)
		s.complete(t, snap, err)
	}()
}

// complete applies a fetch result unless a newer query or fetch superseded it.
func (s *Session) complete(t ticket, snap weather.WeatherSnapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.seq != s.seq {
		s.stats.Discarded++
		s.emitLocked(Event{Kind: EventDiscarded, State: s.state, Query: t.query, Seq: t.seq, Err: err})
		log.Printf("DEBUG: search: discarding stale result %s for %q (seq %d, current %d)", t.id, t.query, t.seq, s.seq)
		return
	}

	s.stats.Applied++
	if err != nil {
		log.Printf("WARN: search: fetch %s for %q failed (%s): %v", t.id, t.query, weather.ErrorKind(err), err)
		s.snapshot = nil
		s.resultQuery = ""
		s.emitLocked(Event{Kind: EventApplied, State: StateNoData, Query: t.query, Seq: t.seq, Err: err})
		s.setStateLocked(StateNoData)
		return
	}

	s.snapshot = &snap
	s.resultQuery = t.query
	s.emitLocked(Event{Kind: EventApplied, State: StateResultsReady, Query: t.query, Seq: t.seq})
	s.setStateLocked(StateResultsReady)
}

// Select commits the current result: the query it was fetched for is
// persisted as the selected city and the session moves to Detail.
func (s *Session) Select() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResultsReady && s.state != StateDetail {
		return ErrNothingToSelect
	}

	if err := s.prefs.Set(SelectedCityKey, s.resultQuery); err != nil {
		log.Printf("ERROR: search: could not persist %q: %v", s.resultQuery, err)
		s.setStateLocked(StateError)
		return err
	}

	s.setStateLocked(StateDetail)
	return nil
}

// ClearSelection forgets the persisted city. The current view is untouched.
func (s *Session) ClearSelection() error {
	return s.prefs.Delete(SelectedCityKey)
}

// View returns the current state, query and snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{State: s.state, Query: s.query, Snapshot: s.snapshot}
}

// Stats returns the fetch counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Close cancels the pending timer and in-flight fetches and waits for the
// fetch goroutines to finish.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelPendingLocked()
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Session) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
}

func (s *Session) setStateLocked(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.emitLocked(Event{Kind: EventStateChanged, State: st, Query: s.query, Seq: s.seq})
}

func (s *Session) emitLocked(ev Event) {
	if s.observer != nil {
		s.observer(ev)
	}
}
