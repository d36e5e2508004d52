package shell

// State is a step of the order flow. Transitions only move forward.
type State int

const (
	StateStart State = iota
	StateAuthChoice
	StateRegister
	StateLogin
	StateItemSelect
	StateSugarSelect
	StateMilkSelect
	StateCreamSelect
	StateSummary
	StateConfirm
	StatePaymentHandoff
	StatePersist
	StateCancelled
	StateEnd
)

var stateNames = map[State]string{
	StateStart:          "START",
	StateAuthChoice:     "AUTH_CHOICE",
	StateRegister:       "REGISTER",
	StateLogin:          "LOGIN",
	StateItemSelect:     "ITEM_SELECT",
	StateSugarSelect:    "SUGAR_SELECT",
	StateMilkSelect:     "MILK_SELECT",
	StateCreamSelect:    "CREAM_SELECT",
	StateSummary:        "SUMMARY",
	StateConfirm:        "CONFIRM",
	StatePaymentHandoff: "PAYMENT_HANDOFF",
	StatePersist:        "PERSIST",
	StateCancelled:      "CANCELLED",
	StateEnd:            "END",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// transitions lists every allowed next state. A failed external call jumps to END.
var transitions = map[State][]State{
	StateStart:          {StateAuthChoice},
	StateAuthChoice:     {StateRegister, StateLogin},
	StateRegister:       {StateItemSelect, StateEnd},
	StateLogin:          {StateItemSelect, StateEnd},
	StateItemSelect:     {StateSugarSelect},
	StateSugarSelect:    {StateMilkSelect},
	StateMilkSelect:     {StateCreamSelect},
	StateCreamSelect:    {StateSummary},
	StateSummary:        {StateConfirm},
	StateConfirm:        {StatePaymentHandoff, StateCancelled},
	StatePaymentHandoff: {StatePersist, StateEnd},
	StatePersist:        {StateEnd},
	StateCancelled:      {StateEnd},
}

// CanTransition reports whether the flow may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCompleted
	OutcomeCancelled
	// OutcomeFailed means an external call failed; the message was shown and the run stopped.
	OutcomeFailed
	// OutcomeAborted means the prompt itself failed (closed input, interrupt).
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	default:
		return "none"
	}
}
