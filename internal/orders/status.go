package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentDone    PaymentStatus = "done"
	PaymentFailed  PaymentStatus = "failed"
)

// A pickup order only moves forward through the kitchen lifecycle.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPreparing: true},
	StatusPreparing: {StatusReady: true},
	StatusReady:     {StatusCompleted: true},
	StatusCompleted: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted:
		return Status(s), true
	}
	return "", false
}
