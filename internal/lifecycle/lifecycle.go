package lifecycle

import (
	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/models"
)

// Party identifies which side of a job request an actor is on.
type Party int

const (
	PartyNone Party = iota
	PartyWorker
	PartyOrganizer
)

// transitions is the full reachability table. paid is reachable only via
// payment confirmation; there is deliberately no edge out of paid other than
// completed, and none at all out of the terminal states.
var transitions = map[models.JobRequestStatus][]models.JobRequestStatus{
	models.JobRequestPending:   {models.JobRequestAccepted, models.JobRequestCancelled},
	models.JobRequestAccepted:  {models.JobRequestPaid, models.JobRequestCancelled},
	models.JobRequestPaid:      {models.JobRequestCompleted},
	models.JobRequestCompleted: {},
	models.JobRequestCancelled: {},
}

// actorRules maps each user-initiated transition to the party allowed to
// perform it. accepted→paid is absent: only the payment callback moves a
// request to paid.
var actorRules = map[[2]models.JobRequestStatus]Party{
	{models.JobRequestPending, models.JobRequestAccepted}:   PartyWorker,    // accept
	{models.JobRequestPending, models.JobRequestCancelled}:  PartyWorker,    // reject
	{models.JobRequestAccepted, models.JobRequestCancelled}: PartyOrganizer, // withdraw before paying
	{models.JobRequestPaid, models.JobRequestCompleted}:     PartyOrganizer, // mark done
}

// PaymentAction is the resolution of a gateway confirmation against the
// request's current state.
type PaymentAction int

const (
	PaymentApply     PaymentAction = iota // flip accepted to paid, store the reference
	PaymentDuplicate                      // same confirmation delivered again, change nothing
)

// DecidePayment resolves a payment confirmation. Callbacks are at-least-once:
// a repeat delivery of the reference already stored on a paid request is a
// duplicate, any other state but accepted rejects.
func DecidePayment(status models.JobRequestStatus, storedRef, incomingRef string) (PaymentAction, error) {
	if incomingRef == "" {
		return 0, apperr.Validation("payment reference is required")
	}
	if status == models.JobRequestPaid && storedRef == incomingRef {
		return PaymentDuplicate, nil
	}
	if status != models.JobRequestAccepted {
		return 0, apperr.InvalidTransition("payment confirmed for request in status " + string(status))
	}
	return PaymentApply, nil
}

func IsTerminal(s models.JobRequestStatus) bool {
	return s == models.JobRequestCompleted || s == models.JobRequestCancelled
}

func IsValidStatus(s models.JobRequestStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether to is reachable from from.
func CanTransition(from, to models.JobRequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Authorize validates a user-initiated transition for the given party.
// Reachability is checked first so callers get INVALID_TRANSITION for edges
// that do not exist and AUTHORIZATION_ERROR only for real edges attempted by
// the wrong side.
func Authorize(from, to models.JobRequestStatus, actor Party) error {
	if !IsValidStatus(to) {
		return apperr.Validation("unknown status " + string(to))
	}
	if !CanTransition(from, to) {
		return apperr.InvalidTransition("cannot move from " + string(from) + " to " + string(to))
	}
	allowed, ok := actorRules[[2]models.JobRequestStatus{from, to}]
	if !ok {
		// Reachable only by the payment callback (accepted→paid).
		return apperr.InvalidTransition("status " + string(to) + " is set by payment confirmation only")
	}
	if actor == PartyNone {
		return apperr.Authorization("not a party to this job request")
	}
	if actor != allowed {
		return apperr.Authorization("this transition is not yours to make")
	}
	return nil
}
