package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImages struct {
	data  []byte
	err   error
	calls int
}

func (s *stubImages) Fetch(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for x := 0; x < 16; x++ {
		img.Set(x, 4, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func sampleRecipe() *recipe.EnrichedRecipe {
	score := 38.0
	return &recipe.EnrichedRecipe{
		Title:   "Garlic Pasta",
		Image:   "https://img.example/1.jpg",
		Summary: "A weeknight favourite with crème fraîche.",
		Ingredients: recipe.Sections{
			{Name: "Original Ingredients", Items: []string{"1 lb Pasta"}},
			{Name: "Additional Required Ingredients", Items: []string{"1 tbsp Salt, for pasta water"}},
		},
		Instructions: []string{"Boil water.", "Cook pasta.", "Drain."},
		CookingNotes: []string{"Save some pasta water."},
		Diet: recipe.ProjectDiet(&catalog.RecipeDetail{Vegetarian: true, HealthScore: &score}),
		Nutrients: []catalog.Nutrient{
			{Name: "Calories", Amount: 540, Unit: "kcal", PercentOfDailyNeeds: 27},
			{Name: "Sodium", Amount: 2600, Unit: "mg", PercentOfDailyNeeds: 113},
			{Name: "Fiber", Amount: 3, Unit: "g", PercentOfDailyNeeds: 12},
		},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	images := &stubImages{data: jpegBytes(t)}
	var buf bytes.Buffer

	err := NewBuilder(images).Write(context.Background(), sampleRecipe(), &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, 1, images.calls)
}

func TestWriteSkipsBrokenImage(t *testing.T) {
	for name, images := range map[string]*stubImages{
		"fetch error": {err: errors.New("404")},
		"not a jpeg":  {data: []byte("garbage")},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewBuilder(images).Write(context.Background(), sampleRecipe(), &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
		})
	}
}

func TestWriteWithoutNutrients(t *testing.T) {
	r := sampleRecipe()
	r.Nutrients = nil
	r.Image = ""

	var buf bytes.Buffer
	require.NoError(t, NewBuilder(nil).Write(context.Background(), r, &buf))
	assert.NotZero(t, buf.Len())
}

func TestWriteNilRecipe(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewBuilder(nil).Write(context.Background(), nil, &buf))
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "result.pdf")

	require.NoError(t, NewBuilder(nil).Save(context.Background(), sampleRecipe(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestTopByDailyValue(t *testing.T) {
	got := topByDailyValue(sampleRecipe().Nutrients, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "Sodium", got[0].Name)
	assert.Equal(t, "Calories", got[1].Name)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "N/A", formatValue(nil))
	assert.Equal(t, "Yes", formatValue("Yes"))
	assert.Equal(t, "42.5", formatValue(42.5))
}
