package recipe

import (
	"recipe-finder/internal/core/catalog"
)

const (
	CategoryDietarySuitability = "Dietary Suitability"
	CategoryHealthMetrics      = "Health Metrics"
	CategoryAdditionalNotes    = "Additional Notes"
)

// ProjectDiet 取出固定的飲食欄位；缺少的布林欄位視為 No，缺少的數值為 nil
func ProjectDiet(d *catalog.RecipeDetail) DietSummary {
	if d == nil {
		d = &catalog.RecipeDetail{}
	}
	return DietSummary{
		{
			Name: CategoryDietarySuitability,
			Entries: []DietEntry{
				{Label: "Vegetarian", Value: yesNo(d.Vegetarian)},
				{Label: "Vegan", Value: yesNo(d.Vegan)},
				{Label: "Gluten-Free", Value: yesNo(d.GlutenFree)},
				{Label: "Dairy-Free", Value: yesNo(d.DairyFree)},
				{Label: "Low FODMAP", Value: yesNo(d.LowFodmap)},
			},
		},
		{
			Name: CategoryHealthMetrics,
			Entries: []DietEntry{
				{Label: "Weight Watcher Smart Points", Value: number(d.WeightWatcherSmartPoints)},
				{Label: "Health Score", Value: number(d.HealthScore)},
			},
		},
		{
			Name: CategoryAdditionalNotes,
			Entries: []DietEntry{
				{Label: "Very Healthy", Value: yesNo(d.VeryHealthy)},
				{Label: "Sustainable", Value: yesNo(d.Sustainable)},
			},
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func number(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// ProjectUsage 取出比對結果的食材描述；used 與 missed 用 original，unused 用 name
func ProjectUsage(m *catalog.RecipeMatch) IngredientUsage {
	usage := IngredientUsage{Used: []string{}, Missed: []string{}, Unused: []string{}}
	if m == nil {
		return usage
	}
	for _, ing := range m.UsedIngredients {
		usage.Used = append(usage.Used, ing.Original)
	}
	for _, ing := range m.MissedIngredients {
		usage.Missed = append(usage.Missed, ing.Original)
	}
	for _, ing := range m.UnusedIngredients {
		usage.Unused = append(usage.Unused, ing.Name)
	}
	return usage
}

// ProjectNutrients 沒有營養資訊時回傳 nil
func ProjectNutrients(d *catalog.RecipeDetail) []catalog.Nutrient {
	if d == nil || d.Nutrition == nil {
		return nil
	}
	return d.Nutrition.Nutrients
}
