package rewards

// BadgeDef defines a single badge shown on the rewards screen.
type BadgeDef struct {
	Name        string
	Description string
	Points      int
}

// Badges maps badge keys to their definitions.
var Badges = map[string]BadgeDef{
	"first_game":       {Name: "First Steps", Description: "Finish your first game", Points: 25},
	"all_modules":      {Name: "Explorer", Description: "Complete every game module", Points: 100},
	"points_100":       {Name: "Collector", Description: "Earn 100 points", Points: 10},
	"points_500":       {Name: "Treasure Hunter", Description: "Earn 500 points", Points: 50},
	"points_1000":      {Name: "Champion", Description: "Earn 1,000 points", Points: 100},
	"perfect_pairs":    {Name: "Elephant Memory", Description: "Finish Matching Pairs with no misses", Points: 50},
	"perfect_story":    {Name: "Storyteller", Description: "Order a story perfectly", Points: 50},
	"sequence_level_5": {Name: "Pattern Master", Description: "Reach level 5 in Sequence Recall", Points: 50},
	"sharp_switch":     {Name: "Quick Switch", Description: "Adapt to a rule change in under 2 seconds", Points: 50},
	"streak_10":        {Name: "On Fire", Description: "A 10-correct streak in Focus Detective", Points: 25},
	"baseline_done":    {Name: "Check-Up Complete", Description: "Finish the cognitive check-up", Points: 25},
}

// Stats is the cumulative snapshot CheckBadges evaluates. The caller is
// responsible for filtering out badges already earned.
type Stats struct {
	GamesCompleted    int
	ModulesCompleted  int
	TotalModules      int
	TotalPoints       int
	PerfectPairs      int
	PerfectStories    int
	BestSequenceLevel int
	BestSwitchCostMs  float64 // 0 means no switch cost recorded yet
	BestStreak        int
	BaselineRecorded  bool
}

// CheckBadges returns every badge key the stats currently qualify for.
func CheckBadges(s Stats) []string {
	var earned []string

	if s.GamesCompleted >= 1 {
		earned = append(earned, "first_game")
	}
	if s.TotalModules > 0 && s.ModulesCompleted >= s.TotalModules {
		earned = append(earned, "all_modules")
	}

	// Point milestones
	if s.TotalPoints >= 100 {
		earned = append(earned, "points_100")
	}
	if s.TotalPoints >= 500 {
		earned = append(earned, "points_500")
	}
	if s.TotalPoints >= 1000 {
		earned = append(earned, "points_1000")
	}

	// Per-game feats
	if s.PerfectPairs >= 1 {
		earned = append(earned, "perfect_pairs")
	}
	if s.PerfectStories >= 1 {
		earned = append(earned, "perfect_story")
	}
	if s.BestSequenceLevel >= 5 {
		earned = append(earned, "sequence_level_5")
	}
	if s.BestSwitchCostMs > 0 && s.BestSwitchCostMs < 2000 {
		earned = append(earned, "sharp_switch")
	}
	if s.BestStreak >= 10 {
		earned = append(earned, "streak_10")
	}

	if s.BaselineRecorded {
		earned = append(earned, "baseline_done")
	}

	return earned
}
