package feed

import (
	"sync"
	"time"
)

const (
	DefaultMaxAge        = 24 * time.Hour
	DefaultMaxFutureSkew = 2 * time.Hour
)

// Rejection names why an entry was dropped. The empty value means accepted.
type Rejection string

const (
	Accepted          Rejection = ""
	RejectNoLink      Rejection = "no_link"
	RejectSeen        Rejection = "seen"
	RejectNoTimestamp Rejection = "no_timestamp"
	RejectStale       Rejection = "stale"
	RejectFuture      Rejection = "future"
	RejectDuplicate   Rejection = "duplicate"
	RejectNoMatch     Rejection = "no_match"
	RejectError       Rejection = "error"
)

// Filterer applies the recency window and in-run duplicate-title checks.
// Title keys live only in memory and are forgotten on restart.
type Filterer struct {
	now           func() time.Time
	loc           *time.Location
	maxAge        time.Duration
	maxFutureSkew time.Duration

	mu         sync.Mutex
	seenTitles map[string]struct{}
}

// NewFilterer builds a filter with the default window. A nil clock means
// time.Now. Zone-less timestamps are read as time.Local until SetLocation.
func NewFilterer(now func() time.Time) *Filterer {
	if now == nil {
		now = time.Now
	}
	return &Filterer{
		now:           now,
		loc:           time.Local,
		maxAge:        DefaultMaxAge,
		maxFutureSkew: DefaultMaxFutureSkew,
		seenTitles:    make(map[string]struct{}),
	}
}

// SetLocation sets the zone used for feed timestamps that carry none.
func (f *Filterer) SetLocation(loc *time.Location) {
	if loc != nil {
		f.loc = loc
	}
}

// CheckRecency returns the entry timestamp and whether it falls inside the
// window. Entries without any parseable timestamp are rejected: unknown age
// counts as stale.
func (f *Filterer) CheckRecency(e Entry) (time.Time, Rejection) {
	ts, err := EntryTimeIn(e, f.loc)
	if err != nil {
		return time.Time{}, RejectNoTimestamp
	}

	now := f.now()
	if now.Sub(ts) > f.maxAge {
		return ts, RejectStale
	}
	if ts.After(now.Add(f.maxFutureSkew)) {
		return ts, RejectFuture
	}
	return ts, Accepted
}

// CheckDuplicate records the normalized title and reports a duplicate if the
// key was already seen in this run. Titles that normalize to nothing are
// never duplicates.
func (f *Filterer) CheckDuplicate(title string) Rejection {
	key := NormalizeTitle(title)
	if key == "" {
		return Accepted
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seenTitles[key]; ok {
		return RejectDuplicate
	}
	f.seenTitles[key] = struct{}{}
	return Accepted
}

// Run applies the recency check and then the duplicate check, so stale
// entries never occupy a title key.
func (f *Filterer) Run(e Entry) (time.Time, Rejection) {
	ts, reason := f.CheckRecency(e)
	if reason != Accepted {
		return ts, reason
	}
	return ts, f.CheckDuplicate(e.Title)
}

func (f *Filterer) SeenTitles() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.seenTitles)
}

func (f *Filterer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seenTitles = make(map[string]struct{})
}
