package rewards

import "testing"

func contains(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func TestCheckBadgesEmptyStats(t *testing.T) {
	if got := CheckBadges(Stats{}); len(got) != 0 {
		t.Errorf("fresh account earned %v, want nothing", got)
	}
}

func TestCheckBadgesMilestones(t *testing.T) {
	earned := CheckBadges(Stats{
		GamesCompleted:   1,
		TotalPoints:      500,
		PerfectPairs:     1,
		BestSwitchCostMs: 1500,
	})

	for _, want := range []string{"first_game", "points_100", "points_500", "perfect_pairs", "sharp_switch"} {
		if !contains(earned, want) {
			t.Errorf("missing badge %q in %v", want, earned)
		}
	}
	for _, not := range []string{"points_1000", "all_modules", "streak_10", "baseline_done"} {
		if contains(earned, not) {
			t.Errorf("unexpectedly earned %q", not)
		}
	}
}

func TestCheckBadgesSwitchCostZeroMeansUnrecorded(t *testing.T) {
	if contains(CheckBadges(Stats{BestSwitchCostMs: 0, GamesCompleted: 1}), "sharp_switch") {
		t.Error("zero switch cost must not count as a sharp switch")
	}
}

func TestCheckBadgesAllModules(t *testing.T) {
	s := Stats{GamesCompleted: 4, ModulesCompleted: 4, TotalModules: 4}
	if !contains(CheckBadges(s), "all_modules") {
		t.Error("completing every module should earn all_modules")
	}

	s.TotalModules = 0
	s.ModulesCompleted = 0
	if contains(CheckBadges(s), "all_modules") {
		t.Error("zero configured modules must not auto-earn all_modules")
	}
}

func TestBadgeDefinitionsComplete(t *testing.T) {
	// Every key CheckBadges can emit must have a definition.
	s := Stats{
		GamesCompleted: 10, ModulesCompleted: 4, TotalModules: 4,
		TotalPoints: 5000, PerfectPairs: 1, PerfectStories: 1,
		BestSequenceLevel: 6, BestSwitchCostMs: 100, BestStreak: 20,
		BaselineRecorded: true,
	}
	for _, key := range CheckBadges(s) {
		if _, ok := Badges[key]; !ok {
			t.Errorf("badge key %q has no definition", key)
		}
	}
}
