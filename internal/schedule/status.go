package schedule

type Status string

const (
	StatusPast   Status = "past"
	StatusActive Status = "active"
	StatusFuture Status = "future"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPast, StatusActive, StatusFuture:
		return true
	default:
		return false
	}
}
