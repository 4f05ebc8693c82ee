package schedule

// Status is the lifecycle state of a lesson.
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Active reports whether a lesson in this status occupies its time slot
// for conflict detection. Cancelled lessons free their slot immediately.
func (s Status) Active() bool {
	return s == StatusPlanned || s == StatusConfirmed
}

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a lesson may move from one status to
// another. PLANNED confirms; PLANNED and CONFIRMED complete or cancel;
// COMPLETED and CANCELLED are terminal.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusConfirmed:
		return from == StatusPlanned
	case StatusCompleted, StatusCancelled:
		return from == StatusPlanned || from == StatusConfirmed
	default:
		return false
	}
}

// Role identifies who performs an action on a lesson.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleStaff      Role = "staff"
)

// RequestStatus is the lifecycle state of a lesson request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)
