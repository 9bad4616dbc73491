// Package memstore keeps catalog records in memory.
//
// All three record kinds live in one state value guarded by one lock, so a
// cascade (ecosystem rename or delete) and a conditional write are a single
// atomic step. Writes work on a copy of the state and swap it in only after
// the commit hook accepted it; a failed write leaves nothing behind.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	contributionmodel "wildlife-catalog-backend/internal/domains/contribution/model"
	ecosystemmodel "wildlife-catalog-backend/internal/domains/ecosystem/model"
	speciesmodel "wildlife-catalog-backend/internal/domains/species/model"
)

// Snapshot is a point-in-time copy of the whole store, each list in
// insertion order
type Snapshot struct {
	Ecosystems    []*ecosystemmodel.Ecosystem       `json:"ecosystems"`
	Species       []*speciesmodel.Species           `json:"species"`
	Contributions []*contributionmodel.Contribution `json:"contributions"`
}

// CommitHook runs before a write becomes visible. Returning an error
// aborts the write.
type CommitHook func(Snapshot) error

type state struct {
	contributions map[uuid.UUID]*contributionmodel.Contribution
	species       map[uuid.UUID]*speciesmodel.Species
	ecosystems    map[uuid.UUID]*ecosystemmodel.Ecosystem
	order         map[uuid.UUID]uint64
	seq           uint64
}

func newState() *state {
	return &state{
		contributions: make(map[uuid.UUID]*contributionmodel.Contribution),
		species:       make(map[uuid.UUID]*speciesmodel.Species),
		ecosystems:    make(map[uuid.UUID]*ecosystemmodel.Ecosystem),
		order:         make(map[uuid.UUID]uint64),
	}
}

// clone copies the maps. Stored records are never modified in place, so
// sharing the pointers is safe.
func (st *state) clone() *state {
	next := &state{
		contributions: make(map[uuid.UUID]*contributionmodel.Contribution, len(st.contributions)),
		species:       make(map[uuid.UUID]*speciesmodel.Species, len(st.species)),
		ecosystems:    make(map[uuid.UUID]*ecosystemmodel.Ecosystem, len(st.ecosystems)),
		order:         make(map[uuid.UUID]uint64, len(st.order)),
		seq:           st.seq,
	}
	for k, v := range st.contributions {
		next.contributions[k] = v
	}
	for k, v := range st.species {
		next.species[k] = v
	}
	for k, v := range st.ecosystems {
		next.ecosystems[k] = v
	}
	for k, v := range st.order {
		next.order[k] = v
	}
	return next
}

func (st *state) track(id uuid.UUID) {
	if _, ok := st.order[id]; ok {
		return
	}
	st.seq++
	st.order[id] = st.seq
}

func (st *state) forget(id uuid.UUID) {
	delete(st.order, id)
}

// sortedIDs returns ids by insertion sequence
func sortedIDs[V any](st *state, items map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return st.order[ids[i]] < st.order[ids[j]]
	})
	return ids
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Ecosystems:    make([]*ecosystemmodel.Ecosystem, 0, len(st.ecosystems)),
		Species:       make([]*speciesmodel.Species, 0, len(st.species)),
		Contributions: make([]*contributionmodel.Contribution, 0, len(st.contributions)),
	}
	for _, id := range sortedIDs(st, st.ecosystems) {
		snap.Ecosystems = append(snap.Ecosystems, st.ecosystems[id].Clone())
	}
	for _, id := range sortedIDs(st, st.species) {
		snap.Species = append(snap.Species, st.species[id].Clone())
	}
	for _, id := range sortedIDs(st, st.contributions) {
		snap.Contributions = append(snap.Contributions, st.contributions[id].Clone())
	}
	return snap
}

// =====================================================
// STORE
// =====================================================

// Store is the in-memory record store
type Store struct {
	mu   sync.RWMutex
	st   *state
	hook CommitHook
}

// New creates an empty store
func New() *Store {
	return &Store{st: newState()}
}

// SetCommitHook installs the hook run on every write
func (s *Store) SetCommitHook(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

// update applies fn to a copy of the state and publishes it when both fn
// and the commit hook succeed
func (s *Store) update(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	if s.hook != nil {
		if err := s.hook(next.snapshot()); err != nil {
			return fmt.Errorf("commit snapshot: %w", err)
		}
	}
	s.st = next
	return nil
}

func (s *Store) view(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// Export returns a deep copy of the current state
func (s *Store) Export() Snapshot {
	var snap Snapshot
	s.view(func(st *state) {
		snap = st.snapshot()
	})
	return snap
}

// Import replaces the whole state with snap. Species must reference an
// ecosystem present in snap; their name copy is refreshed from it.
func (s *Store) Import(snap Snapshot) error {
	next := newState()
	for _, e := range snap.Ecosystems {
		next.ecosystems[e.ID] = e.Clone()
		next.track(e.ID)
	}
	for _, sp := range snap.Species {
		eco, ok := next.ecosystems[sp.EcosystemID]
		if !ok {
			return fmt.Errorf("import species %s: %w", sp.ID, speciesmodel.ErrEcosystemNotFound)
		}
		stored := sp.Clone()
		stored.EcosystemName = eco.Name
		next.species[sp.ID] = stored
		next.track(sp.ID)
	}
	for _, c := range snap.Contributions {
		next.contributions[c.ID] = c.Clone()
		next.track(c.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = next
	return nil
}

// Contributions returns the contribution repository view
func (s *Store) Contributions() *ContributionRepository {
	return &ContributionRepository{store: s}
}

// Species returns the species repository view
func (s *Store) Species() *SpeciesRepository {
	return &SpeciesRepository{store: s}
}

// Ecosystems returns the ecosystem repository view
func (s *Store) Ecosystems() *EcosystemRepository {
	return &EcosystemRepository{store: s}
}
