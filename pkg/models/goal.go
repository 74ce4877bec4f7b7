package models

// FitnessGoal is one entry of the static goal catalog shown on the last step.
type FitnessGoal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var fitnessGoals = []FitnessGoal{
	{ID: "lose-weight", Title: "Lose Weight", Description: "Shed pounds and feel confident", Icon: "🏃‍♂️"},
	{ID: "build-muscle", Title: "Build Muscle", Description: "Gain strength and definition", Icon: "💪"},
	{ID: "increase-stamina", Title: "Increase Stamina", Description: "Boost your endurance", Icon: "⚡"},
	{ID: "improve-health", Title: "Improve Overall Health", Description: "Feel better every day", Icon: "❤️"},
}

// FitnessGoals returns a copy of the goal catalog.
func FitnessGoals() []FitnessGoal {
	out := make([]FitnessGoal, len(fitnessGoals))
	copy(out, fitnessGoals)
	return out
}

// LookupGoal finds a goal by id.
func LookupGoal(id string) (FitnessGoal, bool) {
	for _, g := range fitnessGoals {
		if g.ID == id {
			return g, true
		}
	}
	return FitnessGoal{}, false
}
