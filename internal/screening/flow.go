package screening

import "errors"

// Flow walks a user through the six sections with linear forward/back
// navigation. Forward movement is gated by per-section completion
// predicates; the UI disables "next" from the same predicate, so an early
// Next here means a misbehaving client, not a user error.

var (
	ErrSectionIncomplete = errors.New("section incomplete")
	ErrAtFirstSection    = errors.New("already at first section")
	ErrFlowComplete      = errors.New("screening already complete")
)

// Flow is one in-progress screening session.
type Flow struct {
	def     *Definition
	idx     int
	done    bool
	answers Answers

	// Registration countdown, in whole seconds. Words stay visible until
	// it reaches zero; the section cannot be left before that.
	countdown    int
	wordsVisible bool
}

// NewFlow starts a screening at the orientation section. countdownSeconds is
// how long the registration words stay on screen (10 in the original tool).
func NewFlow(def *Definition, countdownSeconds int) *Flow {
	return &Flow{
		def: def,
		answers: Answers{
			Orientation: make(map[string]string),
			Language:    make(map[string]string),
		},
		countdown:    countdownSeconds,
		wordsVisible: true,
	}
}

// Section returns the current section.
func (f *Flow) Section() *Section { return &f.def.Sections[f.idx] }

// Index returns the current section index.
func (f *Flow) Index() int { return f.idx }

// Done reports whether the flow has moved past the last section.
func (f *Flow) Done() bool { return f.done }

// Answers returns the current answer snapshot.
func (f *Flow) Answers() Answers { return f.answers }

// Countdown returns the remaining registration seconds.
func (f *Flow) Countdown() int { return f.countdown }

// WordsVisible reports whether the registration words are still shown.
func (f *Flow) WordsVisible() bool { return f.wordsVisible }

// RegistrationTick counts the registration timer down one second. At zero
// the words are hidden and the section unblocks. Extra ticks are no-ops.
func (f *Flow) RegistrationTick() int {
	if f.countdown > 0 {
		f.countdown--
		if f.countdown == 0 {
			f.wordsVisible = false
		}
	}
	return f.countdown
}

// SetOrientation records one orientation answer.
func (f *Flow) SetOrientation(questionID, value string) {
	f.answers.Orientation[questionID] = value
}

// SetRecall records the recalled word list.
func (f *Flow) SetRecall(words []string) {
	f.answers.Recall = append([]string(nil), words...)
}

// SetSerial7 records the serial-subtraction chain.
func (f *Flow) SetSerial7(values []string) {
	f.answers.Serial7 = append([]string(nil), values...)
}

// SetLanguage records one language answer.
func (f *Flow) SetLanguage(questionID, value string) {
	f.answers.Language[questionID] = value
}

// SetClockDrawing records the canvas stroke data.
func (f *Flow) SetClockDrawing(data string) {
	f.answers.ClockDrawing = data
}

// SetPatternMatches records the pattern-match count.
func (f *Flow) SetPatternMatches(n int) {
	f.answers.PatternMatches = &n
}

// CanAdvance is the completion predicate for the current section.
func (f *Flow) CanAdvance() bool {
	switch f.Section().ID {
	case SectionOrientation:
		for _, q := range f.Section().Questions {
			if f.answers.Orientation[q.ID] == "" {
				return false
			}
		}
		return true
	case SectionRegistration:
		return f.countdown == 0
	case SectionAttention:
		want := len(f.def.Section(SectionAttention).Serial7)
		if len(f.answers.Serial7) != want {
			return false
		}
		for _, v := range f.answers.Serial7 {
			if v == "" {
				return false
			}
		}
		return true
	case SectionRecall:
		return len(f.answers.Recall) == len(f.def.Section(SectionRecall).Words)
	case SectionLanguage:
		for _, q := range f.Section().Questions {
			if f.answers.Language[q.ID] == "" {
				return false
			}
		}
		return true
	case SectionVisuospatial:
		return f.answers.ClockDrawing != "" && f.answers.PatternMatches != nil
	}
	return false
}

// Next advances to the following section, or completes the flow from the
// last one. Blocked while the current section's answers are incomplete.
func (f *Flow) Next() error {
	if f.done {
		return ErrFlowComplete
	}
	if !f.CanAdvance() {
		return ErrSectionIncomplete
	}
	if f.idx == len(f.def.Sections)-1 {
		f.done = true
		return nil
	}
	f.idx++
	return nil
}

// Prev steps back one section. Answers already given are kept.
func (f *Flow) Prev() error {
	if f.done {
		return ErrFlowComplete
	}
	if f.idx == 0 {
		return ErrAtFirstSection
	}
	f.idx--
	return nil
}

// Score runs the pure scorer over the accumulated answers.
func (f *Flow) Score() (int, Breakdown) {
	return Score(f.def, f.answers)
}
