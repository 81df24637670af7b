package screening

import "strings"

// MaxScore is the questionnaire ceiling: 5 orientation + 3 recall +
// 5 serial-7 + 3 language + 9 visuospatial.
const MaxScore = 25

// clockStrokeThreshold is the length of canvas stroke data above which the
// clock drawing earns full marks. This is a placeholder heuristic carried
// over from the original tool: it measures that the child drew something,
// not that the drawing resembles a clock.
const clockStrokeThreshold = 50

// Answers is the full answer snapshot the scorer consumes. It is mutated
// incrementally as the flow progresses and scored once at the end.
type Answers struct {
	Orientation    map[string]string `json:"orientation"`
	Recall         []string          `json:"recall"`
	Serial7        []string          `json:"serial7"`
	Language       map[string]string `json:"language"`
	ClockDrawing   string            `json:"clockDrawing"`
	PatternMatches *int              `json:"patternMatches"`
}

// Breakdown is the per-section point split of a scored screening.
type Breakdown struct {
	Orientation  int `json:"orientation"`
	Recall       int `json:"recall"`
	Attention    int `json:"attention"`
	Language     int `json:"language"`
	Visuospatial int `json:"visuospatial"`
}

// Total sums the breakdown.
func (b Breakdown) Total() int {
	return b.Orientation + b.Recall + b.Attention + b.Language + b.Visuospatial
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score is a pure function over the full answer snapshot. Same input, same
// output; nothing is read from anywhere but its arguments.
func Score(def *Definition, a Answers) (int, Breakdown) {
	var b Breakdown

	// Orientation: one point per exact answer, five questions.
	if sec := def.Section(SectionOrientation); sec != nil {
		for _, q := range sec.Questions {
			if normalize(a.Orientation[q.ID]) == normalize(q.Expected) {
				b.Orientation++
			}
		}
	}

	// Recall: one point per target word reproduced, order-insensitive.
	if sec := def.Section(SectionRecall); sec != nil {
		recalled := make(map[string]bool, len(a.Recall))
		for _, w := range a.Recall {
			recalled[normalize(w)] = true
		}
		for _, w := range sec.Words {
			if recalled[normalize(w)] {
				b.Recall++
			}
		}
	}

	// Serial 7s: one point per position matching the expected chain.
	if sec := def.Section(SectionAttention); sec != nil {
		for i, want := range sec.Serial7 {
			if i < len(a.Serial7) && normalize(a.Serial7[i]) == normalize(want) {
				b.Attention++
			}
		}
	}

	// Language: one point per exact answer, three questions.
	if sec := def.Section(SectionLanguage); sec != nil {
		for _, q := range sec.Questions {
			if normalize(a.Language[q.ID]) == normalize(q.Expected) {
				b.Language++
			}
		}
	}

	// Visuospatial: clock drawing (stroke-length heuristic, 5 points) plus
	// two pattern matches at two points each.
	if len(a.ClockDrawing) > clockStrokeThreshold {
		b.Visuospatial += 5
	}
	if a.PatternMatches != nil {
		n := *a.PatternMatches
		if n > 2 {
			n = 2
		}
		if n > 0 {
			b.Visuospatial += n * 2
		}
	}

	return b.Total(), b
}

// Severity bands for the 0-25 score. The steps are monotonic: a higher score
// never maps to a worse band.
const (
	SeverityNormal   = "Normal"
	SeverityMild     = "Mild Impairment"
	SeverityModerate = "Moderate Impairment"
	SeveritySevere   = "Severe Impairment"
)

// SeverityFromScore maps a screening score to its severity band.
func SeverityFromScore(score int) string {
	switch {
	case score >= 24:
		return SeverityNormal
	case score >= 20:
		return SeverityMild
	case score >= 15:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}
