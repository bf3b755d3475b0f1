package reservation

type Status string

const (
	// StatusActive: reservation made, slots held, awaiting check-in.
	StatusActive Status = "active"
	// StatusCompleted: check-in happened; terminal.
	StatusCompleted Status = "completed"
	// StatusCancelled: reservation was cancelled; terminal.
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
