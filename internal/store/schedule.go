package store

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// ScheduleKind discriminates a Schedule row's cadence (§3.1, §6.1).
type ScheduleKind int

const (
	ScheduleOneShot ScheduleKind = iota
	ScheduleInterval
)

// ScheduleRow is a single scheduled-reducer row. PK is the row's
// primary key (e.g. a campfire ID for its per-entity fuel-burn
// schedule). The projectile, animal-AI and resource-respawn ticks do
// not use rows; cmd/server drives them from ticker loops.
type ScheduleRow struct {
	PK          uint64
	Kind        ScheduleKind
	At          time.Time     // next fire time for OneShot, or next-due for Interval
	Interval    time.Duration // only meaningful for ScheduleInterval
	ReducerName string
}

// SystemIdentity is the caller identity the scheduler uses to invoke
// reducers, so reducer authentication (§5 "Scheduler authentication")
// can reject any call whose caller isn't this value.
const SystemIdentity = "system"

// ReducerContext is passed to every reducer invocation, player- or
// scheduler-triggered (§6.1).
type ReducerContext struct {
	Caller    string
	Now       time.Time
	Rng       *rand.Rand
	Scheduler *Scheduler
}

// IsSystemCall reports whether the context's caller is the scheduler
// itself, used by scheduled reducers to reject direct player
// invocation (§5 "Scheduler authentication").
func (c *ReducerContext) IsSystemCall() bool { return c.Caller == SystemIdentity }

// ReducerFunc is a scheduled reducer: it receives the row that fired
// and a context authenticated as the system identity.
type ReducerFunc func(ctx *ReducerContext, row ScheduleRow) error

// Scheduler runs scheduled reducers from a single logical driving
// loop, preserving the spec's "single-threaded cooperative at the
// reducer level" model (§5, §9): rows are scanned and fired serially,
// never concurrently, by one goroutine — the Go equivalent of the
// teacher's single time.Ticker loop in Engine.Start(), generalized
// from one fixed cadence to N independently registered rows.
type Scheduler struct {
	mu        sync.Mutex
	rows      map[uint64]ScheduleRow
	reducers  map[string]ReducerFunc
	nextPK    uint64
	pollEvery time.Duration

	stop    chan struct{}
	running bool
	wg      sync.WaitGroup

	rngSeed int64
}

// NewScheduler creates a scheduler that polls for due rows every
// pollEvery. pollEvery should be smaller than the fastest registered
// cadence (the campfire fuel burn at 1s) to keep jitter low.
func NewScheduler(pollEvery time.Duration, seed int64) *Scheduler {
	return &Scheduler{
		rows:      make(map[uint64]ScheduleRow),
		reducers:  make(map[string]ReducerFunc),
		pollEvery: pollEvery,
		stop:      make(chan struct{}),
		rngSeed:   seed,
	}
}

// Register binds a reducer name to its implementation. Call before Start.
func (s *Scheduler) Register(name string, fn ReducerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reducers[name] = fn
}

// ScheduleOnce inserts a one-shot row that fires at `at`. Returns its PK.
func (s *Scheduler) ScheduleOnce(pk uint64, at time.Time, reducerName string) uint64 {
	return s.insert(ScheduleRow{PK: pk, Kind: ScheduleOneShot, At: at, ReducerName: reducerName})
}

// ScheduleEvery inserts (or replaces) a repeating row at the given PK,
// firing every interval starting now+interval. Used for per-entity
// schedules like a campfire's fuel-burn row (PK = campfire_id).
func (s *Scheduler) ScheduleEvery(pk uint64, interval time.Duration, reducerName string) uint64 {
	return s.insert(ScheduleRow{PK: pk, Kind: ScheduleInterval, Interval: interval, At: time.Now().Add(interval), ReducerName: reducerName})
}

func (s *Scheduler) insert(row ScheduleRow) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.PK == 0 {
		s.nextPK++
		row.PK = s.nextPK
	}
	s.rows[row.PK] = row
	return row.PK
}

// Cancel removes a schedule row by PK. Idempotent.
func (s *Scheduler) Cancel(pk uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, pk)
}

// Exists reports whether a schedule row with the given PK is present
// — used to verify the "schedule row exists iff is_burning ∧ has_fuel"
// invariant (§8 property 6) in tests.
func (s *Scheduler) Exists(pk uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[pk]
	return ok
}

// Start begins the driving loop in a background goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.pollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.poll()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the driving loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
}

// poll scans due rows and fires their reducers serially — this is the
// single point of reducer invocation, preserving the "no two reducers
// run concurrently" guarantee.
func (s *Scheduler) poll() {
	now := time.Now()

	s.mu.Lock()
	due := make([]ScheduleRow, 0, 4)
	for pk, row := range s.rows {
		if !row.At.After(now) {
			due = append(due, row)
			if row.Kind == ScheduleInterval {
				row.At = now.Add(row.Interval)
				s.rows[pk] = row
			} else {
				delete(s.rows, pk)
			}
		}
	}
	s.rngSeed++
	seed := s.rngSeed
	reducers := s.reducers
	s.mu.Unlock()

	for _, row := range due {
		fn, ok := reducers[row.ReducerName]
		if !ok {
			log.Printf("scheduler: no reducer registered for %q (pk=%d)", row.ReducerName, row.PK)
			continue
		}
		ctx := &ReducerContext{
			Caller:    SystemIdentity,
			Now:       now,
			Rng:       rand.New(rand.NewSource(seed)),
			Scheduler: s,
		}
		if err := fn(ctx, row); err != nil {
			log.Printf("scheduler: reducer %q (pk=%d) failed: %v", row.ReducerName, row.PK, err)
		}
	}
}

// Tick runs one synchronous poll pass without the background goroutine,
// for callers that want deterministic, manually-driven ticks instead of
// wall-clock scheduling.
func (s *Scheduler) Tick(at time.Time) {
	s.mu.Lock()
	due := make([]ScheduleRow, 0, 4)
	for pk, row := range s.rows {
		if !row.At.After(at) {
			due = append(due, row)
			if row.Kind == ScheduleInterval {
				row.At = at.Add(row.Interval)
				s.rows[pk] = row
			} else {
				delete(s.rows, pk)
			}
		}
	}
	s.rngSeed++
	seed := s.rngSeed
	reducers := s.reducers
	s.mu.Unlock()

	for _, row := range due {
		fn, ok := reducers[row.ReducerName]
		if !ok {
			continue
		}
		ctx := &ReducerContext{
			Caller:    SystemIdentity,
			Now:       at,
			Rng:       rand.New(rand.NewSource(seed)),
			Scheduler: s,
		}
		if err := fn(ctx, row); err != nil {
			log.Printf("scheduler: reducer %q (pk=%d) failed: %v", row.ReducerName, row.PK, err)
		}
	}
}
