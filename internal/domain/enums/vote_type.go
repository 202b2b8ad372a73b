package enums

type VoteType string

const (
	VoteTypeUp   VoteType = "up"
	VoteTypeDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteTypeUp || v == VoteTypeDown
}
