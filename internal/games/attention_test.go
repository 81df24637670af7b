package games

import (
	"fmt"
	"testing"
	"time"
)

func attentionConfig() AttentionConfig {
	return AttentionConfig{
		Duration:     60 * time.Second,
		SwitchOffset: 30 * time.Second,
		TargetColor:  "red",
		TargetShape:  "circle",
		Consistency:  90,
	}
}

func TestAttentionRuleSwitchesExactlyOnceAtOffset(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	e := NewAttentionEngine(attentionConfig(), start)

	if got := e.ActiveRule(start.Add(29 * time.Second)); got != RuleColor {
		t.Errorf("rule before offset = %s, want color", got)
	}
	// The flip happens at the exact offset instant, not after it.
	if got := e.ActiveRule(start.Add(30 * time.Second)); got != RuleShape {
		t.Errorf("rule at offset = %s, want shape", got)
	}
	if got := e.ActiveRule(start.Add(59 * time.Second)); got != RuleShape {
		t.Errorf("rule after offset = %s, want shape", got)
	}
}

func TestAttentionTargetJudgedByActiveRule(t *testing.T) {
	clock := newFakeClock()
	e := NewAttentionEngine(attentionConfig(), clock.Now())

	// Before the switch: red means target regardless of shape.
	clock.Advance(5 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "a", Shape: "square", Color: "red"})
	clock.Advance(400 * time.Millisecond)
	out, err := e.Click(clock.Now(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Correct {
		t.Error("red square before switch should be a target")
	}

	// After the switch: circle means target regardless of color.
	clock.Advance(30 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "b", Shape: "square", Color: "red"})
	clock.Advance(300 * time.Millisecond)
	out, err = e.Click(clock.Now(), "b")
	if err != nil {
		t.Fatal(err)
	}
	if out.Correct {
		t.Error("red square after switch should be a distractor")
	}
	if out.Streak != 0 {
		t.Errorf("streak after a false alarm = %d, want 0", out.Streak)
	}
}

func TestAttentionSwitchCost(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	e := NewAttentionEngine(attentionConfig(), start)

	// Correct response before the switch must not set the cost.
	clock.Advance(10 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "pre", Shape: "circle", Color: "red"})
	clock.Advance(500 * time.Millisecond)
	e.Click(clock.Now(), "pre")
	if e.Report().SwitchCostMs != nil {
		t.Fatal("switch cost set before the switch")
	}

	// First correct response 2.5s after the switch instant.
	clock.Advance(21 * time.Second) // now at 31.5s
	e.Present(clock.Now(), Stimulus{ID: "post", Shape: "circle", Color: "blue"})
	clock.Advance(1 * time.Second) // clicked at 32.5s
	out, err := e.Click(clock.Now(), "post")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Correct {
		t.Fatal("blue circle after switch should be a target")
	}

	cost := e.Report().SwitchCostMs
	if cost == nil {
		t.Fatal("switch cost not recorded")
	}
	if *cost != 2500 {
		t.Errorf("switch cost = %f ms, want 2500", *cost)
	}
	if *cost < 0 {
		t.Error("switch cost must be non-negative")
	}
}

func TestAttentionReportTallies(t *testing.T) {
	clock := newFakeClock()
	e := NewAttentionEngine(attentionConfig(), clock.Now())

	// 4 targets: 3 hits, 1 miss. 3 distractors: 1 false alarm, 2 rejections.
	present := func(id string, target bool) {
		color := "blue"
		if target {
			color = "red"
		}
		e.Present(clock.Now(), Stimulus{ID: id, Shape: "square", Color: color})
	}

	for i := 0; i < 4; i++ {
		clock.Advance(2 * time.Second)
		id := fmt.Sprintf("t%d", i)
		present(id, true)
		clock.Advance(500 * time.Millisecond)
		if i < 3 {
			e.Click(clock.Now(), id)
		} else {
			e.Expire(clock.Now(), id)
		}
	}
	for i := 0; i < 3; i++ {
		clock.Advance(2 * time.Second)
		id := fmt.Sprintf("d%d", i)
		present(id, false)
		clock.Advance(500 * time.Millisecond)
		if i == 0 {
			e.Click(clock.Now(), id)
		} else {
			e.Expire(clock.Now(), id)
		}
	}

	rep := e.Report()
	if rep.Hits != 3 || rep.Misses != 1 || rep.FalseAlarms != 1 || rep.CorrectRejections != 2 {
		t.Fatalf("tallies = %d/%d/%d/%d, want 3/1/1/2", rep.Hits, rep.Misses, rep.FalseAlarms, rep.CorrectRejections)
	}
	if rep.Targets != 4 || rep.Distractors != 3 {
		t.Fatalf("targets/distractors = %d/%d, want 4/3", rep.Targets, rep.Distractors)
	}

	// attention = (hits - FA) / targets; impulse = (stimuli - FA) / stimuli
	if want := float64(3-1) / 4 * 100; rep.AttentionScore != want {
		t.Errorf("attention = %f, want %f", rep.AttentionScore, want)
	}
	if want := float64(7-1) / 7 * 100; rep.ImpulseControl != want {
		t.Errorf("impulse control = %f, want %f", rep.ImpulseControl, want)
	}
	if rep.AvgReactionTimeMs != 500 {
		t.Errorf("avg RT = %f, want 500", rep.AvgReactionTimeMs)
	}
	if rep.ReactionTimeSDMs != 0 {
		t.Errorf("RT SD = %f, want 0 for identical times", rep.ReactionTimeSDMs)
	}
}

func TestAttentionVigilanceCappedAt100(t *testing.T) {
	clock := newFakeClock()
	e := NewAttentionEngine(attentionConfig(), clock.Now())

	// First half: 1 of 2 correct. Second half: 2 of 2 correct.
	clock.Advance(2 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "f1", Shape: "square", Color: "red"})
	clock.Advance(300 * time.Millisecond)
	e.Click(clock.Now(), "f1") // hit

	clock.Advance(2 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "f2", Shape: "square", Color: "blue"})
	clock.Advance(300 * time.Millisecond)
	e.Click(clock.Now(), "f2") // false alarm

	clock.Advance(32 * time.Second) // into the second half, post-switch
	e.Present(clock.Now(), Stimulus{ID: "s1", Shape: "circle", Color: "blue"})
	clock.Advance(300 * time.Millisecond)
	e.Click(clock.Now(), "s1") // hit

	clock.Advance(2 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "s2", Shape: "square", Color: "blue"})
	clock.Advance(300 * time.Millisecond)
	e.Expire(clock.Now(), "s2") // correct rejection

	rep := e.Report()
	// Second half better than first, so the ratio exceeds 1 and must cap.
	if rep.Vigilance != 100 {
		t.Errorf("vigilance = %f, want capped 100", rep.Vigilance)
	}
}

func TestAttentionSessionEndsAtDuration(t *testing.T) {
	clock := newFakeClock()
	e := NewAttentionEngine(attentionConfig(), clock.Now())

	clock.Advance(5 * time.Second)
	e.Present(clock.Now(), Stimulus{ID: "x", Shape: "square", Color: "red"})

	clock.Advance(56 * time.Second)
	e.Tick(clock.Now())

	if e.State() != AttentionEnded {
		t.Fatalf("state = %s, want ended", e.State())
	}
	r := e.Result()
	if r == nil {
		t.Fatal("nil result after session end")
	}
	if r.DurationSeconds != 60 {
		t.Errorf("duration = %f, want 60", r.DurationSeconds)
	}
	// The unanswered target on screen at the end counts as a miss.
	if rep := e.Report(); rep.Misses != 1 {
		t.Errorf("misses = %d, want 1", rep.Misses)
	}

	if err := e.Present(clock.Now(), Stimulus{ID: "y"}); err != ErrSessionEnded {
		t.Errorf("present after end: err = %v, want ErrSessionEnded", err)
	}
}

func TestAttentionAllRecordsRetained(t *testing.T) {
	clock := newFakeClock()
	e := NewAttentionEngine(attentionConfig(), clock.Now())

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		id := fmt.Sprintf("s%d", i)
		e.Present(clock.Now(), Stimulus{ID: id, Shape: "circle", Color: "red"})
		clock.Advance(200 * time.Millisecond)
		e.Click(clock.Now(), id)
	}

	if got := len(e.Stimuli()); got != 5 {
		t.Errorf("stimuli retained = %d, want 5", got)
	}
	if got := len(e.Responses()); got != 5 {
		t.Errorf("responses retained = %d, want 5", got)
	}
}
