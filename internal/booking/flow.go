// Package booking implements the seat-picker state machine behind the
// reservation dialog: seat selection against the known reserved set,
// automatic price computation with manual override, local validation
// and submission through the showtime repository.
package booking

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/cinefront/cinefront/internal/model"
	"github.com/cinefront/cinefront/internal/repository"
)

// State is the dialog's position in its lifecycle.
type State int

const (
	// StateIdle: no seats selected, amount zero.
	StateIdle State = iota
	// StateSelecting: at least one interaction has happened.
	StateSelecting
	// StateSubmitting: a create call is in flight; further submits
	// are rejected until it settles.
	StateSubmitting
)

var (
	// ErrSubmitInFlight rejects re-entrant submits while one is pending.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrAmountBelowTotal is the field-level price-floor violation; it
	// blocks submission locally and never reaches the network.
	ErrAmountBelowTotal = errors.New("amount paid must be at least seats × price")
	// ErrNoSeatsSelected blocks submission of an empty selection.
	ErrNoSeatsSelected = errors.New("select at least one seat")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// intent is the validated shape of a submission.
type intent struct {
	ShowtimeID string   `validate:"required"`
	SeatIDs    []string `validate:"min=1"`
	AmountPaid float64  `validate:"min=0"`
}

// Flow is the state machine for one open booking dialog, scoped to a
// snapshot of one showtime.  It never mutates repository state
// directly: Submit issues a create intent and the repository
// reconciles the cache.  A Flow is not safe for concurrent use; it
// belongs to a single dialog instance.
type Flow struct {
	repo     *repository.ShowtimeRepo
	showtime model.Showtime
	reserved map[string]struct{}

	state    State
	selected []string
	amount   float64
	lastAuto float64
}

// NewFlow opens a booking flow over the given showtime snapshot.
func NewFlow(repo *repository.ShowtimeRepo, showtime model.Showtime) *Flow {
	return &Flow{
		repo:     repo,
		showtime: showtime,
		reserved: repository.ReservedSeatIDs(showtime),
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (f *Flow) State() State { return f.state }

// SelectedSeats returns the selection in click order.
func (f *Flow) SelectedSeats() []string {
	out := make([]string, len(f.selected))
	copy(out, f.selected)
	return out
}

// Amount returns the current amount-paid value.
func (f *Flow) Amount() float64 { return f.amount }

// ToggleSeat adds or removes a seat from the selection.  Toggling a
// seat that appears in any existing reservation is a no-op: reserved
// seats are not selectable.  Selection changes recompute the amount
// under the auto-price rule.
func (f *Flow) ToggleSeat(seatID string) {
	if f.state == StateSubmitting {
		return
	}
	if _, taken := f.reserved[seatID]; taken {
		return
	}
	removed := false
	for i, id := range f.selected {
		if id == seatID {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		f.selected = append(f.selected, seatID)
	}
	f.state = StateSelecting
	f.recomputeAmount()
}

// SetAmount records a manual edit of the amount.  A hand-edited value
// survives later selection changes until the selection empties.
func (f *Flow) SetAmount(amount float64) {
	if f.state == StateSubmitting {
		return
	}
	f.state = StateSelecting
	f.amount = amount
}

// recomputeAmount applies the auto-price rule: when the current
// amount is still the auto-computed value of the previous selection
// (or zero), it tracks |selection| × price; a manual override sticks.
// Emptying the selection always resets the amount to zero.
func (f *Flow) recomputeAmount() {
	auto := float64(len(f.selected)) * f.showtime.Price
	if len(f.selected) == 0 {
		f.amount = 0
		f.lastAuto = 0
		return
	}
	if f.amount == f.lastAuto || f.amount == 0 {
		f.amount = auto
	}
	f.lastAuto = auto
}

// Validate applies the local submission rules: a non-empty selection
// and an amount meeting the price floor.  Violations are field-level
// errors that block Submit before any network call.
func (f *Flow) Validate() error {
	in := intent{ShowtimeID: f.showtime.ID, SeatIDs: f.selected, AmountPaid: f.amount}
	if err := validate.Struct(in); err != nil {
		if len(in.SeatIDs) == 0 {
			return ErrNoSeatsSelected
		}
		return err
	}
	if f.amount < float64(len(f.selected))*f.showtime.Price {
		return ErrAmountBelowTotal
	}
	return nil
}

// Submit validates and sends the reservation intent through the
// repository.  While the call is in flight the flow is in
// StateSubmitting and re-entrant submits fail fast.  On success the
// flow resets to Idle (the dialog closes); on failure it returns to
// Selecting with the user's selection intact — a failed submit loses
// no local state.
func (f *Flow) Submit(ctx context.Context) (*model.Reservation, error) {
	if f.state == StateSubmitting {
		return nil, ErrSubmitInFlight
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f.state = StateSubmitting
	created, err := f.repo.Create(ctx, f.showtime.ID, f.selected, f.amount)
	if err != nil {
		f.state = StateSelecting
		return nil, err
	}
	f.reset()
	return created, nil
}

// Dismiss discards all local dialog state.  It never touches the
// repository, and an in-flight request it already issued is left to
// settle on its own: the cache update is keyed by showtime and
// reservation id, not by this dialog instance.
func (f *Flow) Dismiss() { f.reset() }

func (f *Flow) reset() {
	f.state = StateIdle
	f.selected = nil
	f.amount = 0
	f.lastAuto = 0
}
