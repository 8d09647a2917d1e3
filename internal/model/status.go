package model

// ApprovalStatus is the state of a solution on one review track.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
	StatusResubmit ApprovalStatus = "resubmit"
)

// Valid reports whether s is one of the four known review states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusResubmit:
		return true
	}
	return false
}

// User roles
const (
	RoleUser      = "User"
	RoleEvaluator = "Evaluator"
)

// Interest statuses. This service only ever writes InterestNew.
const (
	InterestNew           = "New Interest"
	InterestLeadInitiated = "Lead Initiated"
)
