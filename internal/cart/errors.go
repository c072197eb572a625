package cart

import "errors"

var (
	// ErrBusy reports a mutation attempted while another mutation or the
	// startup hydration was still in flight. At most one write per cart.
	ErrBusy = errors.New("cart busy")
	// ErrLineGone reports a line that vanished remotely; the store has
	// already dropped it locally.
	ErrLineGone = errors.New("cart line gone")
	// ErrCartExpired reports a remote cart that no longer exists; the store
	// has cleared its state and the next mutation creates a fresh cart.
	ErrCartExpired = errors.New("cart expired")
	// ErrItemAddFailed wraps any failure during AddItem; state is unchanged.
	ErrItemAddFailed = errors.New("item add failed")
	// ErrMixedCurrency reports lines priced in more than one currency.
	ErrMixedCurrency = errors.New("mixed currency cart")
)
