package enums

import "fmt"

// ProposalStatus tracks the lifecycle of a trade proposal.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusDeclined ProposalStatus = "declined"
	ProposalStatusCounter  ProposalStatus = "counter"
)

var validProposalStatuses = []ProposalStatus{
	ProposalStatusPending,
	ProposalStatusAccepted,
	ProposalStatusDeclined,
	ProposalStatusCounter,
}

// String implements fmt.Stringer.
func (s ProposalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProposalStatus.
func (s ProposalStatus) IsValid() bool {
	for _, candidate := range validProposalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProposalStatus converts raw input into a ProposalStatus.
func ParseProposalStatus(value string) (ProposalStatus, error) {
	for _, candidate := range validProposalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proposal status %q", value)
}
