package rules

// Reason is the closed taxonomy of rule failures. Every reason is safe
// to unicast back to the acting player; none of them mutate state.
type Reason string

const (
	ReasonItemNotFound          Reason = "item_not_found"
	ReasonItemNotOwned          Reason = "item_not_owned"
	ReasonInsufficientResources Reason = "insufficient_resources"
	ReasonPrerequisiteNotMet    Reason = "prerequisite_not_met"
	ReasonAlreadyPresent        Reason = "already_present"
	ReasonCooldownActive        Reason = "cooldown_active"
	ReasonCapacityExceeded      Reason = "capacity_exceeded"
	ReasonQuestNotActive        Reason = "quest_not_active"
	ReasonQuestIncomplete       Reason = "quest_incomplete"
	ReasonNotInGuild            Reason = "not_in_guild"
	ReasonUnknownCommand        Reason = "unknown_command"
	ReasonBadPayload            Reason = "bad_payload"
)

// Error is a rule violation. These are player-facing outcomes, not
// system failures - the session layer unicasts them and moves on.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a rule violation with the given reason.
func NewError(reason Reason, msg string) *Error {
	return &Error{Reason: reason, Message: msg}
}
