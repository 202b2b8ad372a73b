package enums

type ModerationAction string

const (
	ModerationActionApproved ModerationAction = "approved"
	ModerationActionFlagged  ModerationAction = "flagged"
	ModerationActionRejected ModerationAction = "rejected"
)

func (a ModerationAction) Valid() bool {
	switch a {
	case ModerationActionApproved, ModerationActionFlagged, ModerationActionRejected:
		return true
	default:
		return false
	}
}
