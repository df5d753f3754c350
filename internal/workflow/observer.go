package workflow

// Observer receives checkpoints from a run. Implementations must not block.
type Observer interface {
	// Transition is called on every state change, including the final move to StateClosed.
	Transition(from, to State)
	// Attempt is called after each bounded retry attempt; err is nil on success.
	Attempt(stage State, step string, attempt, max int, err error)
	// Strategy is called after each click strategy in a fallback chain.
	Strategy(stage State, name string, err error)
	Info(stage State, msg string)
	Warn(stage State, msg string, err error)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Transition(State, State) {}
func (NopObserver) Attempt(State, string, int, int, error) {}
func (NopObserver) Strategy(State, string, error) {}
func (NopObserver) Info(State, string) {}
func (NopObserver) Warn(State, string, error) {}
