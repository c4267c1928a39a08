package agent

import "time"

// Step identifies the current workflow stage. Steps only ever advance;
// a state never moves backwards.
type Step string

const (
	StepInit       Step = "init"
	StepResearch   Step = "research"
	StepSummarizer Step = "summarizer"
	StepAnalyst    Step = "analyst"
	StepComplete   Step = "complete"
	StepError      Step = "error"
)

// Turn is one persisted conversation message.
type Turn struct {
	SessionID      string
	Role           string
	Content        string
	AgentType      string
	Sources        []string
	ProcessingTime float64
	Timestamp      time.Time
}

// State is the single mutable record threaded through the workflow.
// Each stage reads the fields produced by earlier stages and writes
// exactly its own outputs.
type State struct {
	Query               string
	SessionID           string
	ConversationHistory []Turn

	Retrieval         *Bundle
	ResearchSynthesis string
	Summary           string
	FinalAnswer       string
	Sources           []string

	CurrentStep    Step
	StartedAt      time.Time
	ProcessingTime float64
	Err            error
}

func NewState(query, sessionID string) *State {
	return &State{
		Query:       query,
		SessionID:   sessionID,
		CurrentStep: StepInit,
		StartedAt:   time.Now(),
	}
}

// Advance moves the state to the next step. It panics on a backwards
// transition since that indicates a controller bug, not a runtime
// condition.
func (s *State) Advance(next Step) {
	if stepRank(next) < stepRank(s.CurrentStep) {
		panic("agent: workflow step moved backwards")
	}
	s.CurrentStep = next
}

// Fail records a fatal stage error and moves the state to the terminal
// error step.
func (s *State) Fail(err error) {
	s.Err = err
	s.CurrentStep = StepError
}

func stepRank(step Step) int {
	switch step {
	case StepInit:
		return 0
	case StepResearch:
		return 1
	case StepSummarizer:
		return 2
	case StepAnalyst:
		return 3
	case StepComplete, StepError:
		return 4
	}
	return -1
}
