package tips

import (
	"strings"

	"greensteps/internal/waste"
)

var (
	onboardingTips = []string{
		"Start by logging your waste daily to unlock personalized tips.",
		"Add the waste type and quantity for each entry so we can spot patterns.",
	}
	compostTips = []string{
		"Start a compost bin for food scraps and peels.",
		"Plan meals and freeze leftovers to cut food waste before it happens.",
	}
	containerTips = []string{
		"Carry a reusable bottle and shopping bag to cut down on plastic and containers.",
		"Choose products in refillable or reusable containers to avoid single-use packaging.",
	}
	paperTips = []string{
		"Switch to digital bills and receipts to cut down on paper.",
		"Flatten and recycle cardboard, and reuse boxes before discarding them.",
	}
	genericTips = []string{
		"Review your biggest waste category each week and set a small reduction goal.",
		"Separate recyclables at home so less ends up in general waste.",
	}
)

type keywordTips struct {
	keywords []string
	tips     []string
}

var categoryTips = []keywordTips{
	{[]string{"food"}, compostTips},
	{[]string{"plastic", "bottle", "container"}, containerTips},
	{[]string{"paper", "cardboard"}, paperTips},
}

// TopCategory returns the category with the largest total quantity. Ties go
// to the category seen first in records.
func TopCategory(records []waste.Record) (string, bool) {
	if len(records) == 0 {
		return "", false
	}

	totals := make(map[string]float64)
	var order []string
	for _, r := range records {
		if _, seen := totals[r.CategoryName]; !seen {
			order = append(order, r.CategoryName)
		}
		totals[r.CategoryName] += r.Quantity
	}

	top := order[0]
	for _, name := range order[1:] {
		if totals[name] > totals[top] {
			top = name
		}
	}
	return top, true
}

// Heuristic derives tips from the user's recent records without any
// external call.
func Heuristic(records []waste.Record) []string {
	top, ok := TopCategory(records)
	if !ok {
		return Onboarding()
	}

	name := strings.ToLower(top)
	for _, kt := range categoryTips {
		for _, kw := range kt.keywords {
			if strings.Contains(name, kw) {
				return append([]string(nil), kt.tips...)
			}
		}
	}
	return append([]string(nil), genericTips...)
}

func Onboarding() []string {
	return append([]string(nil), onboardingTips...)
}
