package recipe

import (
	"testing"

	"recipe-finder/internal/core/catalog"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestProjectDiet(t *testing.T) {
	d := &catalog.RecipeDetail{
		Vegetarian:               true,
		GlutenFree:               true,
		Sustainable:              true,
		WeightWatcherSmartPoints: ptr(7),
		HealthScore:              ptr(42.5),
	}

	assert.Equal(t, map[string]map[string]any{
		CategoryDietarySuitability: {
			"Vegetarian":  "Yes",
			"Vegan":       "No",
			"Gluten-Free": "Yes",
			"Dairy-Free":  "No",
			"Low FODMAP":  "No",
		},
		CategoryHealthMetrics: {
			"Weight Watcher Smart Points": 7.0,
			"Health Score":                42.5,
		},
		CategoryAdditionalNotes: {
			"Very Healthy": "No",
			"Sustainable":  "Yes",
		},
	}, ProjectDiet(d).Map())
}

func TestProjectDietMissingFields(t *testing.T) {
	summary := ProjectDiet(nil)

	assert.Len(t, summary, 3)
	assert.Equal(t, CategoryDietarySuitability, summary[0].Name)
	assert.Equal(t, "No", summary[0].Entries[0].Value)
	assert.Nil(t, summary[1].Entries[0].Value)
	assert.Nil(t, summary[1].Entries[1].Value)
}

func TestProjectUsage(t *testing.T) {
	m := &catalog.RecipeMatch{
		UsedIngredients:   []catalog.MatchedIngredient{{Name: "pasta", Original: "1 lb pasta"}},
		MissedIngredients: []catalog.MatchedIngredient{{Name: "salt", Original: "1 tbsp salt"}},
		UnusedIngredients: []catalog.MatchedIngredient{{Name: "basil", Original: "fresh basil leaves"}},
	}

	assert.Equal(t, IngredientUsage{
		Used:   []string{"1 lb pasta"},
		Missed: []string{"1 tbsp salt"},
		Unused: []string{"basil"},
	}, ProjectUsage(m))
}

func TestProjectUsageEmpty(t *testing.T) {
	usage := ProjectUsage(&catalog.RecipeMatch{})

	assert.NotNil(t, usage.Used)
	assert.Empty(t, usage.Used)
	assert.Empty(t, usage.Missed)
	assert.Empty(t, usage.Unused)
}

func TestProjectNutrients(t *testing.T) {
	assert.Nil(t, ProjectNutrients(&catalog.RecipeDetail{}))

	n := []catalog.Nutrient{{Name: "Calories", Amount: 320, Unit: "kcal", PercentOfDailyNeeds: 16}}
	assert.Equal(t, n, ProjectNutrients(&catalog.RecipeDetail{Nutrition: &catalog.Nutrition{Nutrients: n}}))
}
