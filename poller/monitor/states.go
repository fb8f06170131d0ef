package monitor

type state int

const (
	stopped  state = iota // The monitor service has not been started, or has fully shut down.
	running               // The monitor service is polling a round every interval.
	stopping              // The monitor service has been told to stop and is finishing its current round.
)

func (o state) String() string {
	return [...]string{"stopped", "running", "stopping"}[o]
}
