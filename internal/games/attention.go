package games

import (
	"errors"
	"math"
	"time"

	"synapse-go/internal/scoring"
)

// Focus Detective / Brain Switch: a timed vigilance session where the sorting
// rule flips exactly once partway through. Stimuli are judged target or
// distractor against the active rule; every presentation and response is kept
// for the final report.

type AttentionState string

const (
	AttentionRunning AttentionState = "running"
	AttentionEnded   AttentionState = "ended"
)

// Rule is the active sorting rule.
type Rule string

const (
	RuleColor Rule = "color"
	RuleShape Rule = "shape"
)

// Stimulus is one on-screen object. It exists only for its display window;
// target/distractor status is derived from the rule active when it appears.
type Stimulus struct {
	ID      string    `json:"id"`
	Shape   string    `json:"shape"`
	Color   string    `json:"color"`
	Size    int       `json:"size"`
	ShownAt time.Time `json:"shownAt"`
}

// Response records the user's reaction (or lack of one) to a stimulus.
type Response struct {
	StimulusID     string    `json:"stimulusId"`
	IsTarget       bool      `json:"isTarget"`
	UserClicked    bool      `json:"userClicked"`
	ReactionTimeMs *float64  `json:"reactionTime"`
	Timestamp      time.Time `json:"timestamp"`
}

// AttentionConfig tunes one session.
type AttentionConfig struct {
	Duration     time.Duration
	SwitchOffset time.Duration
	TargetColor  string // target attribute while RuleColor is active
	TargetShape  string // target attribute after the switch
	Consistency  float64
}

// ClickOutcome reports how a click was judged.
type ClickOutcome struct {
	Correct bool `json:"correct"`
	Streak  int  `json:"streak"`
	Score   int  `json:"score"`
	Ended   bool `json:"ended"`
}

var ErrStimulusNotLive = errors.New("stimulus not on screen")

// AttentionEngine runs one Focus Detective session.
type AttentionEngine struct {
	cfg   AttentionConfig
	state AttentionState

	startedAt time.Time
	switchAt  time.Time
	endsAt    time.Time
	switched  bool

	score     int
	errors    int
	streak    int
	maxStreak int

	switchCostMs *float64

	stimuli   []Stimulus
	responses []Response
	live      map[string]Stimulus // on screen, not yet responded

	result *scoring.GameResult
}

// NewAttentionEngine starts a session at startAt. The rule is RuleColor until
// the switch offset, RuleShape after.
func NewAttentionEngine(cfg AttentionConfig, startAt time.Time) *AttentionEngine {
	return &AttentionEngine{
		cfg:       cfg,
		state:     AttentionRunning,
		startedAt: startAt,
		switchAt:  startAt.Add(cfg.SwitchOffset),
		endsAt:    startAt.Add(cfg.Duration),
		live:      make(map[string]Stimulus),
	}
}

// advance applies time-driven transitions up to 'at': the single rule switch,
// then session end. The switch happens exactly once, at the configured
// offset, no matter which event observes it first.
func (e *AttentionEngine) advance(at time.Time) {
	if !e.switched && !at.Before(e.switchAt) {
		e.switched = true
	}
	if e.state == AttentionRunning && !at.Before(e.endsAt) {
		e.finish()
	}
}

// ActiveRule returns the rule in force at time 'at'.
func (e *AttentionEngine) ActiveRule(at time.Time) Rule {
	if at.Before(e.switchAt) {
		return RuleColor
	}
	return RuleShape
}

// isTarget judges a stimulus against the rule active at its display time.
func (e *AttentionEngine) isTarget(s Stimulus) bool {
	if e.ActiveRule(s.ShownAt) == RuleColor {
		return s.Color == e.cfg.TargetColor
	}
	return s.Shape == e.cfg.TargetShape
}

// State returns the current engine state.
func (e *AttentionEngine) State() AttentionState { return e.state }

// Score returns the running score.
func (e *AttentionEngine) Score() int { return e.score }

// Present registers a stimulus appearing on screen at 'at'.
func (e *AttentionEngine) Present(at time.Time, s Stimulus) error {
	e.advance(at)
	if e.state != AttentionRunning {
		return ErrSessionEnded
	}
	s.ShownAt = at
	e.stimuli = append(e.stimuli, s)
	e.live[s.ID] = s
	return nil
}

// Expire marks a stimulus as leaving the screen unanswered. A missed target
// becomes an omission; an ignored distractor a correct rejection.
func (e *AttentionEngine) Expire(at time.Time, stimulusID string) {
	e.advance(at)
	s, ok := e.live[stimulusID]
	if !ok {
		return
	}
	delete(e.live, stimulusID)
	e.responses = append(e.responses, Response{
		StimulusID:  s.ID,
		IsTarget:    e.isTarget(s),
		UserClicked: false,
		Timestamp:   at,
	})
}

// Click records the user clicking a live stimulus at 'at'. Clicking a target
// is correct; clicking a distractor is a false alarm that resets the streak.
func (e *AttentionEngine) Click(at time.Time, stimulusID string) (ClickOutcome, error) {
	e.advance(at)
	if e.state != AttentionRunning {
		return ClickOutcome{Ended: true}, ErrSessionEnded
	}

	s, ok := e.live[stimulusID]
	if !ok {
		return ClickOutcome{}, ErrStimulusNotLive
	}
	delete(e.live, stimulusID)

	rt := float64(at.Sub(s.ShownAt)) / float64(time.Millisecond)
	target := e.isTarget(s)
	e.responses = append(e.responses, Response{
		StimulusID:     s.ID,
		IsTarget:       target,
		UserClicked:    true,
		ReactionTimeMs: &rt,
		Timestamp:      at,
	})

	if target {
		e.score++
		e.streak++
		if e.streak > e.maxStreak {
			e.maxStreak = e.streak
		}
		// First correct response after the rule switch fixes the switch cost.
		if e.switched && e.switchCostMs == nil && !at.Before(e.switchAt) {
			cost := float64(at.Sub(e.switchAt)) / float64(time.Millisecond)
			e.switchCostMs = &cost
		}
	} else {
		e.errors++
		e.streak = 0
	}

	return ClickOutcome{Correct: target, Streak: e.streak, Score: e.score}, nil
}

// Tick applies pure time passage: the rule switch at its offset and session
// end at the configured duration. The session timer calls it.
func (e *AttentionEngine) Tick(at time.Time) {
	e.advance(at)
}

// Finish ends the session immediately, expiring anything still on screen.
func (e *AttentionEngine) Finish(at time.Time) {
	e.advance(at)
	if e.state == AttentionRunning {
		e.finish()
	}
}

func (e *AttentionEngine) finish() {
	// Anything still on screen at session end counts as unanswered.
	for id, s := range e.live {
		e.responses = append(e.responses, Response{
			StimulusID:  s.ID,
			IsTarget:    e.isTarget(s),
			UserClicked: false,
			Timestamp:   e.endsAt,
		})
		delete(e.live, id)
	}
	e.state = AttentionEnded

	rep := e.Report()
	duration := e.endsAt.Sub(e.startedAt).Seconds()
	r := scoring.BuildResult(
		"focus_detective",
		e.endsAt,
		duration,
		rep.Hits,
		rep.FalseAlarms,
		rep.Targets,
		rep.AttentionScore,
		float64(e.maxStreak),
		e.cfg.Consistency,
	)
	e.result = &r
}

// Result returns the frozen result, or nil while the session runs.
func (e *AttentionEngine) Result() *scoring.GameResult { return e.result }

// AttentionReport is the post-hoc breakdown of a session.
type AttentionReport struct {
	Targets           int      `json:"targets"`
	Distractors       int      `json:"distractors"`
	Hits              int      `json:"hits"`
	Misses            int      `json:"misses"`
	FalseAlarms       int      `json:"falseAlarms"`
	CorrectRejections int      `json:"correctRejections"`
	Score             int      `json:"score"`
	Errors            int      `json:"errors"`
	MaxStreak         int      `json:"maxStreak"`
	SwitchCostMs      *float64 `json:"switchCost"`
	AttentionScore    float64  `json:"attentionScore"`
	ImpulseControl    float64  `json:"impulseControl"`
	Vigilance         float64  `json:"vigilance"`
	AvgReactionTimeMs float64  `json:"avgReactionTime"`
	ReactionTimeSDMs  float64  `json:"reactionTimeSd"`
}

// Report computes the signal-detection breakdown from the retained records.
// Safe to call at any point; the stored result uses the end-of-session call.
func (e *AttentionEngine) Report() AttentionReport {
	rep := AttentionReport{
		Score:        e.score,
		Errors:       e.errors,
		MaxStreak:    e.maxStreak,
		SwitchCostMs: e.switchCostMs,
	}

	for _, r := range e.responses {
		switch {
		case r.IsTarget && r.UserClicked:
			rep.Hits++
		case r.IsTarget && !r.UserClicked:
			rep.Misses++
		case !r.IsTarget && r.UserClicked:
			rep.FalseAlarms++
		default:
			rep.CorrectRejections++
		}
	}
	rep.Targets = rep.Hits + rep.Misses
	rep.Distractors = rep.FalseAlarms + rep.CorrectRejections
	total := rep.Targets + rep.Distractors

	if rep.Targets > 0 {
		rep.AttentionScore = scoring.Clamp100(float64(rep.Hits-rep.FalseAlarms) / float64(rep.Targets) * 100)
	}
	if total > 0 {
		rep.ImpulseControl = scoring.Clamp100(float64(total-rep.FalseAlarms) / float64(total) * 100)
	}
	rep.Vigilance = e.vigilance()
	rep.AvgReactionTimeMs, rep.ReactionTimeSDMs = e.reactionStats()
	return rep
}

// vigilance compares second-half classification accuracy against the first
// half, capped at 100. A session with no first-half responses scores 0.
func (e *AttentionEngine) vigilance() float64 {
	midpoint := e.startedAt.Add(e.cfg.Duration / 2)

	var firstCorrect, firstTotal, secondCorrect, secondTotal int
	for _, r := range e.responses {
		correct := r.IsTarget == r.UserClicked
		if r.Timestamp.Before(midpoint) {
			firstTotal++
			if correct {
				firstCorrect++
			}
		} else {
			secondTotal++
			if correct {
				secondCorrect++
			}
		}
	}
	if firstTotal == 0 || secondTotal == 0 || firstCorrect == 0 {
		return 0
	}
	firstAcc := float64(firstCorrect) / float64(firstTotal)
	secondAcc := float64(secondCorrect) / float64(secondTotal)
	return math.Min(100, secondAcc/firstAcc*100)
}

// reactionStats returns mean and standard deviation of hit reaction times.
func (e *AttentionEngine) reactionStats() (float64, float64) {
	var times []float64
	for _, r := range e.responses {
		if r.IsTarget && r.UserClicked && r.ReactionTimeMs != nil {
			times = append(times, *r.ReactionTimeMs)
		}
	}
	if len(times) == 0 {
		return 0, 0
	}

	var sum float64
	for _, t := range times {
		sum += t
	}
	avg := sum / float64(len(times))

	if len(times) == 1 {
		return avg, 0
	}
	var sumSquaredDiff float64
	for _, t := range times {
		diff := t - avg
		sumSquaredDiff += diff * diff
	}
	return avg, math.Sqrt(sumSquaredDiff / float64(len(times)))
}

// Stimuli returns every presentation, retained for the final report.
func (e *AttentionEngine) Stimuli() []Stimulus {
	out := make([]Stimulus, len(e.stimuli))
	copy(out, e.stimuli)
	return out
}

// Responses returns every recorded response.
func (e *AttentionEngine) Responses() []Response {
	out := make([]Response, len(e.responses))
	copy(out, e.responses)
	return out
}
