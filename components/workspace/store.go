package workspace

import "sync"

// Snapshot is the full workspace state committed as one unit. Readers never
// observe a dataset without its matching dashboards, profile, and messages.
type Snapshot struct {
	UserID int64

	Datasets []DatasetListItem
	Dataset  *Dataset
	Profile  *AIProfile
	Messages []Message

	Dashboards []Dashboard
	Dashboard  *Dashboard
	Title      string
	Widgets    []DashboardWidget

	Candidate *QueryResult
	Teams     []Team
	Comments  []DashboardComment

	CompareDateColumn  string
	CompareValueColumn string
}

// Subscriber receives the snapshot after every commit.
type Subscriber func(Snapshot)

// Store is the process-wide reactive holder for workspace state. All
// mutation goes through Commit or Update so observers see whole snapshots,
// never intermediate states.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	// hydration sequencing: commits tagged with a stale sequence are dropped
	// so a superseded hydration cannot overwrite a newer one.
	issuedSeq    uint64
	committedSeq uint64

	subMu  sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// NewStore creates an empty store for the given user identity.
func NewStore(userID int64) *Store {
	return &Store{
		snap: Snapshot{UserID: userID, Title: DefaultDashboardTitle},
		subs: map[int]Subscriber{},
	}
}

// Snapshot returns a copy of the current workspace state. Slices are cloned
// so callers cannot mutate store internals.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snap)
}

// Subscribe registers an observer and returns an unsubscribe function. The
// observer is called with a snapshot copy after every commit.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Commit atomically replaces the workspace snapshot.
func (s *Store) Commit(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	out := cloneSnapshot(s.snap)
	s.mu.Unlock()
	s.notify(out)
}

// Update applies fn to a copy of the snapshot and commits the result. The
// mutation runs under the store lock, so it must not block.
func (s *Store) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	snap := cloneSnapshot(s.snap)
	fn(&snap)
	s.snap = snap
	out := cloneSnapshot(s.snap)
	s.mu.Unlock()
	s.notify(out)
}

// PushMessage appends one chat message to the transcript.
func (s *Store) PushMessage(msg Message) {
	s.Update(func(snap *Snapshot) {
		snap.Messages = append(snap.Messages, msg)
	})
}

// beginHydration issues a new hydration sequence number. Only the latest
// issued sequence may commit.
func (s *Store) beginHydration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issuedSeq++
	return s.issuedSeq
}

// commitHydration commits the snapshot only when seq is still the latest
// issued hydration. Returns false for stale commits, which are discarded.
func (s *Store) commitHydration(seq uint64, snap Snapshot) bool {
	s.mu.Lock()
	if seq != s.issuedSeq || seq < s.committedSeq {
		s.mu.Unlock()
		return false
	}
	s.committedSeq = seq
	s.snap = snap
	out := cloneSnapshot(s.snap)
	s.mu.Unlock()
	s.notify(out)
	return true
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func cloneSnapshot(snap Snapshot) Snapshot {
	out := snap
	out.Datasets = append([]DatasetListItem(nil), snap.Datasets...)
	out.Messages = append([]Message(nil), snap.Messages...)
	out.Dashboards = append([]Dashboard(nil), snap.Dashboards...)
	out.Widgets = append([]DashboardWidget(nil), snap.Widgets...)
	out.Teams = append([]Team(nil), snap.Teams...)
	out.Comments = append([]DashboardComment(nil), snap.Comments...)
	if snap.Dataset != nil {
		ds := *snap.Dataset
		out.Dataset = &ds
	}
	if snap.Profile != nil {
		p := *snap.Profile
		out.Profile = &p
	}
	if snap.Dashboard != nil {
		d := *snap.Dashboard
		out.Dashboard = &d
	}
	if snap.Candidate != nil {
		c := *snap.Candidate
		out.Candidate = &c
	}
	return out
}
