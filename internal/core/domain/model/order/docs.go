// Package order contains the delivery order aggregate and its lifecycle
// state machine.
//
// An order enters the system either directly claimable (Unclaimed) or, for
// manually settled payment methods, gated behind an employee review
// (PendingReview). A driver then claims it exclusively and walks it through
// fulfillment to completion, attaching proof-of-delivery evidence at the end.
//
// The Status type is the single source of truth for which transitions exist;
// the Order aggregate adds the actor guards (assigned driver, reviewer) and
// records timestamps and audit notes as each transition fires. All mutation
// goes through aggregate methods so invalid states cannot be constructed.
package order
