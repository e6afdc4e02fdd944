package scheduler

// Kind identifies one of the output triggers.
type Kind int

// Trigger kinds, in the order they fire when due at the same time.
const (
	Report Kind = iota
	Plot
	Save
)

// Kinds lists every trigger kind in firing order.
var Kinds = [...]Kind{Report, Plot, Save}

func (k Kind) String() string {
	switch k {
	case Report:
		return "report"
	case Plot:
		return "plot"
	case Save:
		return "save"
	default:
		return "unknown"
	}
}

// Scheduler tracks when the output triggers fire next.
type Scheduler interface {
	// NextPause returns the earliest pending trigger time, or stop if that is
	// sooner.
	NextPause(stop float64) float64
	// Due returns the triggers whose time has been reached at now, in firing
	// order.
	Due(now float64) []Kind
	// Advance moves a fired trigger to its next time after now.
	Advance(k Kind, now float64)
}
