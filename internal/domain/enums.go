package domain

// ProcessRole distinguishes the reserved sentinel processes from ordinary
// work processes.
type ProcessRole int

const (
	RoleWork ProcessRole = iota
	RoleDelivery
	RolePND
)

func (r ProcessRole) String() string {
	switch r {
	case RoleDelivery:
		return "delivery"
	case RolePND:
		return "pnd"
	default:
		return "work"
	}
}

// DateKind tags which fields of a ProcessDates value are meaningful.
type DateKind string

const (
	DatesSpan      DateKind = "span"
	DatesMilestone DateKind = "milestone"
)

// Reserved process names.
const (
	ProcessDelivery = "Delivery"
	ProcessPND      = "PND"
)

// DefaultDurationDays is applied when a block carries no usable duration
// for a Duration process.
const DefaultDurationDays = 5
