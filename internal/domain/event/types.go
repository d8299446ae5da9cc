package event

import "errors"

var ErrInvalidGender = errors.New("invalid gender")

// Gender selects one of the two fungible seat pools of an event.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	default:
		return "", ErrInvalidGender
	}
}

func (g Gender) String() string {
	return string(g)
}

// ExternalID is the video-conferencing registry's identifier for an event.
// It is never interchangeable with the ledger's local uuid key; lookups
// between the two go through the events table, never string comparison.
type ExternalID string

func (id ExternalID) String() string {
	return string(id)
}
