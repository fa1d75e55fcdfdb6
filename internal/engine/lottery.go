package engine

import (
	"math/rand"
	"slices"
)

// shuffleOrder runs a Fisher–Yates pass over the slice. Variable so tests
// can pin the permutation.
var shuffleOrder = func(order []string) {
	for i := len(order) - 1; i >= 1; i-- {
		j := rand.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
}

// Register adds a participant to the lottery pool and returns the new count.
func Register(l *League, participantID string) (int, error) {
	if !l.Lottery.RegistrationOpen {
		return 0, ErrRegistrationClosed
	}
	if slices.Contains(l.Lottery.Registered, participantID) {
		return 0, ErrAlreadyRegistered
	}
	if len(l.Lottery.Registered) >= l.Config.FranchiseSlots {
		return 0, ErrLotteryFull
	}
	l.Lottery.Registered = append(l.Lottery.Registered, participantID)
	return len(l.Lottery.Registered), nil
}

// Unregister withdraws a participant. Once the order is drawn, withdrawal
// is no longer meaningful and fails closed.
func Unregister(l *League, participantID string) error {
	if len(l.Lottery.Order) > 0 {
		return ErrRegistrationClosed
	}
	idx := slices.Index(l.Lottery.Registered, participantID)
	if idx < 0 {
		return ErrNotRegistered
	}
	l.Lottery.Registered = slices.Delete(l.Lottery.Registered, idx, idx+1)
	return nil
}

// Draw computes a uniform random permutation of the registered participants,
// stores it as the selection order, and closes registration.
func Draw(l *League) ([]string, error) {
	if len(l.Lottery.Registered) == 0 {
		return nil, ErrNoRegistrants
	}
	if len(l.Lottery.Order) > 0 {
		return nil, ErrInvalidState
	}
	order := slices.Clone(l.Lottery.Registered)
	shuffleOrder(order)
	l.Lottery.Order = order
	l.Lottery.RegistrationOpen = false
	return order, nil
}

// CurrentPicker is the first participant in the drawn order who does not yet
// own a franchise. Derived by scan so it can never desynchronize from the
// claim state.
func CurrentPicker(l *League) (string, bool) {
	for _, pid := range l.Lottery.Order {
		if l.FranchiseOwnedBy(pid) == nil {
			return pid, true
		}
	}
	return "", false
}

// ClaimFranchise lets the current picker take an unclaimed franchise.
func ClaimFranchise(l *League, participantID, franchiseID string) error {
	picker, ok := CurrentPicker(l)
	if !ok || picker != participantID {
		return ErrNotYourTurn
	}
	f := l.Franchise(franchiseID)
	if f == nil {
		return ErrFranchiseNotFound
	}
	if f.GMID != "" {
		return ErrFranchiseTaken
	}
	f.GMID = participantID
	return nil
}

// AssignFranchise is the administrative path around the lottery. The same
// uniqueness rules apply, minus the turn check.
func AssignFranchise(l *League, participantID, franchiseID string) error {
	f := l.Franchise(franchiseID)
	if f == nil {
		return ErrFranchiseNotFound
	}
	if f.GMID != "" {
		return ErrFranchiseTaken
	}
	if l.FranchiseOwnedBy(participantID) != nil {
		return ErrFranchiseTaken
	}
	f.GMID = participantID
	return nil
}
