package screening

import "testing"

func TestFlowGatesForwardNavigation(t *testing.T) {
	f := NewFlow(DefaultDefinition(), 10)

	if f.Section().ID != SectionOrientation {
		t.Fatalf("flow starts at %s, want orientation", f.Section().ID)
	}
	if err := f.Next(); err != ErrSectionIncomplete {
		t.Fatalf("Next with empty orientation: err = %v, want ErrSectionIncomplete", err)
	}

	for _, q := range f.Section().Questions {
		f.SetOrientation(q.ID, "anything")
	}
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if f.Section().ID != SectionRegistration {
		t.Fatalf("second section = %s, want memory_register", f.Section().ID)
	}
}

func TestFlowRegistrationCountdown(t *testing.T) {
	f := NewFlow(DefaultDefinition(), 10)
	for _, q := range f.Section().Questions {
		f.SetOrientation(q.ID, "x")
	}
	f.Next()

	if !f.WordsVisible() {
		t.Fatal("registration words should be visible at section entry")
	}
	if err := f.Next(); err != ErrSectionIncomplete {
		t.Fatal("registration must not be skippable mid-countdown")
	}

	// Ten once-per-second ticks run the countdown out.
	for i := 0; i < 10; i++ {
		f.RegistrationTick()
	}
	if f.Countdown() != 0 {
		t.Fatalf("countdown = %d after 10 ticks, want 0", f.Countdown())
	}
	if f.WordsVisible() {
		t.Error("words still visible at zero")
	}

	// Extra ticks are harmless.
	if got := f.RegistrationTick(); got != 0 {
		t.Errorf("tick past zero = %d, want 0", got)
	}

	if err := f.Next(); err != nil {
		t.Fatalf("Next after countdown: %v", err)
	}
	if f.Section().ID != SectionAttention {
		t.Errorf("section after registration = %s, want attention", f.Section().ID)
	}
}

func TestFlowPrevKeepsAnswers(t *testing.T) {
	f := NewFlow(DefaultDefinition(), 0)

	if err := f.Prev(); err != ErrAtFirstSection {
		t.Errorf("Prev at start: err = %v, want ErrAtFirstSection", err)
	}

	for _, q := range f.Section().Questions {
		f.SetOrientation(q.ID, "kept")
	}
	f.Next()
	if err := f.Prev(); err != nil {
		t.Fatal(err)
	}
	if f.Answers().Orientation["year"] != "kept" {
		t.Error("going back dropped an answer")
	}
}

func TestFlowCompletesAfterLastSection(t *testing.T) {
	f := NewFlow(DefaultDefinition(), 0) // zero countdown: registration opens immediately

	for _, q := range f.def.Section(SectionOrientation).Questions {
		f.SetOrientation(q.ID, "x")
	}
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if err := f.Next(); err != nil { // registration, countdown already 0
		t.Fatal(err)
	}
	f.SetSerial7([]string{"93", "86", "79", "72", "65"})
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	f.SetRecall([]string{"apple", "table", "penny"})
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	for _, q := range f.def.Section(SectionLanguage).Questions {
		f.SetLanguage(q.ID, "x")
	}
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	f.SetClockDrawing("stroke data")
	f.SetPatternMatches(1)
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}

	if !f.Done() {
		t.Fatal("flow should be done after the last section")
	}
	if err := f.Next(); err != ErrFlowComplete {
		t.Errorf("Next after completion: err = %v, want ErrFlowComplete", err)
	}

	score, _ := f.Score()
	if score < 0 || score > MaxScore {
		t.Errorf("score %d out of range", score)
	}
}
