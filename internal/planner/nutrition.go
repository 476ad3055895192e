// internal/planner/nutrition.go
package planner

import (
	"strings"

	"alcyxob/marathon-trainer/internal/domain"
)

const minFuelingKm = 16

// NutritionFor returns fueling advice for long runs of at least 16 km and nil
// for everything else.
func NutritionFor(t domain.WorkoutType, distanceKm float64) *domain.NutritionTip {
	if !t.IsLongRun() {
		return nil
	}
	mp := t == domain.WorkoutLongMP
	switch {
	case distanceKm >= 30:
		return fueling30Plus(mp)
	case distanceKm >= 24:
		return fueling24to30(mp)
	case distanceKm >= minFuelingKm:
		return fueling16to24()
	}
	return nil
}

func fueling16to24() *domain.NutritionTip {
	return &domain.NutritionTip{
		Title:  "Fueling: Long Run (16-24 km)",
		Timing: "Evening before + morning",
		Details: []string{
			"Evening before: carbohydrate-rich meal (pasta, rice, potatoes)",
			"2-3h before the run: 1-2 g carbohydrate per kg body weight",
			"Example: oats with banana and honey, or toast with jam",
			"Drink 400-600 ml in the 2h before the start",
		},
		DuringRun: "From 60 min: 30-60 g carbohydrate per hour (gel, sports drink or banana). Small sips of water every 15-20 min.",
		AfterRun:  "Within 30 min: carbohydrate + protein at 3:1. For example chocolate milk, banana + yogurt, or a recovery shake.",
	}
}

func fueling24to30(mp bool) *domain.NutritionTip {
	title := "Fueling: Long Run (24-30 km)"
	during := "60-90 g carbohydrate per hour (2-3 gels or gel + sports drink). Start early, from km 5-8, not when you are already tired."
	if mp {
		title = "Fueling: MP Long Run (24-30 km)"
		during += " Take another gel before the marathon pace block."
	}
	return &domain.NutritionTip{
		Title:  title,
		Timing: "24h before + morning",
		Details: []string{
			"24h before: raise carbohydrate intake to 7-8 g/kg body weight",
			"Evening before: large portion of pasta or rice, low fibre and fat",
			"2-3h before the run: 2 g carbohydrate per kg (150 g at 75 kg)",
			"Example breakfast: big porridge, white bread with honey, banana, juice",
			"Nothing new on long run day. Only use what you have tested.",
		},
		DuringRun: during,
		AfterRun:  "Use the recovery window: within 30 min 1-1.2 g carbohydrate/kg + 0.3 g protein/kg. Keep eating regularly for 4h.",
	}
}

func fueling30Plus(mp bool) *domain.NutritionTip {
	title := "Fueling: Long Run (30+ km) - race preparation"
	during := []string{"60-90 g carbohydrate per hour, exactly as on race day. First gel from km 5.", "Drink every 15 min."}
	if mp {
		title = "Fueling: MP Long Run (30+ km) - race simulation"
		during = append(during, "Before the marathon pace block: last gel + water, then refuel every 30 min.")
	}
	during = append(during, "Test gels and drinks now, not on race day.")
	return &domain.NutritionTip{
		Title:  title,
		Timing: "48h before (carb loading)",
		Details: []string{
			"Carb loading: 48h before the run raise carbohydrates to 8-10 g/kg per day",
			"At 75 kg that is 600-750 g carbohydrate per day",
			"Example day: porridge + banana, pasta, rice with chicken, bread, juice, dried fruit",
			"Low fibre, fat and protein leave room for carbohydrate",
			"3h before the run: 2-3 g carbohydrate/kg (150-225 g at 75 kg)",
			"Treat this run as the dress rehearsal for race day fueling",
		},
		DuringRun: strings.Join(during, " "),
		AfterRun:  "Carbohydrate + protein right away (shake, chocolate milk), then carbohydrate-rich meals every 2h for 6-8h. Drink plenty, with electrolytes.",
	}
}
