package planner

import (
	"fmt"
	"strings"
)

// Explain renders a plan as deterministic human-readable text. Pure
// formatting over the plan's contents; no new computation.
func (c *Composer) Explain(plan *Plan) string {
	if plan == nil {
		return "No plan available."
	}

	catalog := c.skills.Catalog()

	total := 0
	for _, m := range plan.Modules {
		total += m.Minutes
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Practice plan: %d min, fatigue %.0f%%\n", total, plan.Fatigue*100)

	if len(plan.FocusSkills) > 0 {
		names := make([]string, len(plan.FocusSkills))
		for i, id := range plan.FocusSkills {
			names[i] = catalog.Skill(id).Name
		}
		fmt.Fprintf(&b, "Focus skills: %s\n", strings.Join(names, ", "))
	}

	for i, m := range plan.Modules {
		fmt.Fprintf(&b, "%d. %s: %d min (%s)\n", i+1, catalog.ModuleName(m.ModuleID), m.Minutes, m.Reason)
	}

	if len(plan.Reasoning) > 0 {
		b.WriteString("Why:\n")
		for _, r := range plan.Reasoning {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	return b.String()
}
