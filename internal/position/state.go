package position

import (
	"sync"

	"lenderScope/internal/model"
)

// State is the session-scoped view of one lender's pool standing: the
// displayed position/statistics pair plus the wallet allowance in base
// units. Position and statistics are replaced whole, never mutated
// field by field; the allowance additionally supports one optimistic
// decrement between authoritative refreshes.
//
// Every synchronization pass carries a generation token. A completed
// fetch is applied only while its token is still current, so results
// arriving after the session changed or a newer pass started are
// discarded rather than applied.
type State struct {
	mu         sync.RWMutex
	generation uint64
	position   model.LenderPosition
	statistics model.PoolStatistics
	allowance  int64
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{}
}

// NextGeneration starts a new synchronization pass and returns its
// token. Any still-running older pass is superseded from this point.
func (s *State) NextGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Invalidate supersedes all in-flight passes without starting a new
// one. Used on session change and teardown.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// SetPosition replaces the position if gen is still current.
func (s *State) SetPosition(gen uint64, p model.LenderPosition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.position = p
	return true
}

// SetStatistics replaces the statistics if gen is still current.
func (s *State) SetStatistics(gen uint64, stats model.PoolStatistics) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.statistics = stats
	return true
}

// SetAllowance applies an authoritative re-queried allowance if gen is
// still current.
func (s *State) SetAllowance(gen uint64, amount int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.allowance = amount
	return true
}

// ReplaceAllowance adopts an authoritative allowance unconditionally,
// as returned by a successful grant call.
func (s *State) ReplaceAllowance(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowance = amount
}

// DecrementAllowance applies the optimistic post-deposit estimate,
// floored at zero. The authoritative value arrives with the refresh
// that follows every deposit.
func (s *State) DecrementAllowance(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowance -= amount
	if s.allowance < 0 {
		s.allowance = 0
	}
}

// ResetAllowance zeroes the allowance, used when no wallet session is
// active.
func (s *State) ResetAllowance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowance = 0
}

// Position returns the last synchronized lender position.
func (s *State) Position() model.LenderPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Statistics returns the last synchronized pool statistics.
func (s *State) Statistics() model.PoolStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statistics
}

// Allowance returns the current allowance in base units.
func (s *State) Allowance() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowance
}

// View returns a consistent position/statistics/allowance triple.
func (s *State) View() (model.LenderPosition, model.PoolStatistics, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position, s.statistics, s.allowance
}
