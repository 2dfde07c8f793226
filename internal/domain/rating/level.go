package rating

// Level is a human-facing classification of a rating.
type Level struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Rating bands. Lower bounds inclusive, upper bounds exclusive, except the
// top band which is closed.
var levels = []struct {
	upper float64
	level Level
}{
	{1200, Level{Label: "Novice", Color: "#9ca3af"}},
	{1400, Level{Label: "Intermediate", Color: "#60a5fa"}},
	{1600, Level{Label: "Proficient", Color: "#34d399"}},
	{1800, Level{Label: "Advanced", Color: "#fbbf24"}},
	{2400, Level{Label: "Expert", Color: "#f87171"}},
}

// LevelFor classifies a rating into its band. Ratings are clamped to the
// valid scale first, so out-of-range inputs land in the boundary bands.
func LevelFor(r float64) Level {
	r = Clamp(r)
	for _, b := range levels {
		if r < b.upper {
			return b.level
		}
	}
	// r == RatingCeiling: top band is closed.
	return levels[len(levels)-1].level
}
