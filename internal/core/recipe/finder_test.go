package recipe

import (
	"context"
	"errors"
	"testing"

	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractionReply = `Sure! <ingredient_extraction><ingredients><ingredient>Pasta</ingredient><ingredient>Salt</ingredient></ingredients></ingredient_extraction>`

// fakeCompleter 依 system 訊息回覆擷取或改寫結果
type fakeCompleter struct {
	extract    string
	enrich     string
	extractErr error
	enrichErr  error
	calls      int
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []provider.Message) (string, error) {
	f.calls++
	f.lastUser = msgs[len(msgs)-1].Content
	if msgs[0].Content == extractSystemPrompt {
		return f.extract, f.extractErr
	}
	return f.enrich, f.enrichErr
}

type fakeCatalog struct {
	matches   []catalog.RecipeMatch
	findErr   error
	detail    *catalog.RecipeDetail
	detailErr error
	query     string
	detailID  int64
	findCalls int
	infoCalls int
}

func (f *fakeCatalog) FindByIngredients(_ context.Context, ingredients string, _ int) ([]catalog.RecipeMatch, error) {
	f.findCalls++
	f.query = ingredients
	return f.matches, f.findErr
}

func (f *fakeCatalog) Information(_ context.Context, id int64, _ bool) (*catalog.RecipeDetail, error) {
	f.infoCalls++
	f.detailID = id
	return f.detail, f.detailErr
}

func newFixtures() (*fakeCompleter, *fakeCatalog) {
	c := &fakeCompleter{extract: extractionReply, enrich: pastaDocument}
	cat := &fakeCatalog{
		matches: []catalog.RecipeMatch{{
			ID:              716429,
			Title:           "Pasta with Salt",
			UsedIngredients: []catalog.MatchedIngredient{{Name: "pasta", Original: "1 lb pasta"}},
		}},
		detail: &catalog.RecipeDetail{
			ID:           716429,
			Title:        "Detail Title",
			Image:        "https://img.example/716429.jpg",
			Summary:      "Plain pasta.",
			Instructions: "Boil. Drain.",
			Vegetarian:   true,
			HealthScore:  ptr(12),
			Nutrition:    &catalog.Nutrition{Nutrients: []catalog.Nutrient{{Name: "Calories", Amount: 400, Unit: "kcal", PercentOfDailyNeeds: 20}}},
		},
	}
	return c, cat
}

func TestFindSuccess(t *testing.T) {
	c, cat := newFixtures()

	var transitions [][2]State
	svc := NewFinderService(c, cat, WithObserver(func(from, to State) {
		transitions = append(transitions, [2]State{from, to})
	}))

	got, err := svc.Find(context.Background(), "I have pasta and salt")
	require.NoError(t, err)

	assert.Equal(t, "Pasta,Salt", cat.query)
	assert.Equal(t, int64(716429), cat.detailID)
	assert.Equal(t, "Pasta with Salt", got.Title)
	assert.Equal(t, "https://img.example/716429.jpg", got.Image)
	assert.Equal(t, "A quick weeknight pasta with a silky finish.", got.Summary)
	assert.Equal(t, map[string][]string{
		"Original Ingredients":            {"1 lb Pasta"},
		"Additional Required Ingredients": {"1 tbsp Salt, for pasta water"},
	}, got.Ingredients.Map())
	assert.Len(t, got.Instructions, 3)
	assert.Len(t, got.CookingNotes, 2)
	assert.Equal(t, "Yes", got.Diet.Map()[CategoryDietarySuitability]["Vegetarian"])
	assert.Equal(t, 12.0, got.Diet.Map()[CategoryHealthMetrics]["Health Score"])
	require.Len(t, got.Nutrients, 1)

	assert.Contains(t, c.lastUser, "- 1 lb pasta")
	assert.Contains(t, c.lastUser, "Boil. Drain.")

	assert.Equal(t, [][2]State{
		{StateStart, StateIngredientsExtracted},
		{StateIngredientsExtracted, StateRecipeMatched},
		{StateRecipeMatched, StateDetailsFetched},
		{StateDetailsFetched, StateDraftParsed},
		{StateDraftParsed, StateEnriched},
	}, transitions)
}

func TestFindFailures(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		mutate    func(*fakeCompleter, *fakeCatalog)
		reason    Reason
		lastState State
		is        error
	}{
		{
			name:      "empty query",
			query:     "   ",
			reason:    ReasonNoIngredients,
			lastState: StateStart,
			is:        ErrEmptyQuery,
		},
		{
			name:      "completion error during extraction",
			mutate:    func(c *fakeCompleter, _ *fakeCatalog) { c.extractErr = errors.New("boom") },
			reason:    ReasonNoIngredients,
			lastState: StateStart,
		},
		{
			name:      "no ingredients listed",
			mutate:    func(c *fakeCompleter, _ *fakeCatalog) { c.extract = `<ingredient_extraction><ingredients/></ingredient_extraction>` },
			reason:    ReasonNoIngredients,
			lastState: StateStart,
		},
		{
			name:      "malformed extraction",
			mutate:    func(c *fakeCompleter, _ *fakeCatalog) { c.extract = "no markup" },
			reason:    ReasonNoIngredients,
			lastState: StateStart,
			is:        ErrIngredientParse,
		},
		{
			name:      "empty lookup",
			mutate:    func(_ *fakeCompleter, cat *fakeCatalog) { cat.matches = nil },
			reason:    ReasonNoRecipeMatch,
			lastState: StateIngredientsExtracted,
		},
		{
			name:      "lookup error",
			mutate:    func(_ *fakeCompleter, cat *fakeCatalog) { cat.findErr = catalog.ErrLookupFailure },
			reason:    ReasonNoRecipeMatch,
			lastState: StateIngredientsExtracted,
			is:        catalog.ErrLookupFailure,
		},
		{
			name:      "detail error",
			mutate:    func(_ *fakeCompleter, cat *fakeCatalog) { cat.detailErr = catalog.ErrDetailFetchFailure },
			reason:    ReasonNoRecipeDetails,
			lastState: StateRecipeMatched,
			is:        catalog.ErrDetailFetchFailure,
		},
		{
			name:      "nil detail",
			mutate:    func(_ *fakeCompleter, cat *fakeCatalog) { cat.detail = nil },
			reason:    ReasonNoRecipeDetails,
			lastState: StateRecipeMatched,
		},
		{
			name:      "enrichment completion error",
			mutate:    func(c *fakeCompleter, _ *fakeCatalog) { c.enrichErr = errors.New("down") },
			reason:    ReasonEnrichmentFailed,
			lastState: StateDetailsFetched,
		},
		{
			name:      "enrichment markup invalid",
			mutate:    func(c *fakeCompleter, _ *fakeCatalog) { c.enrich = "<recipe><ingredients/></recipe>" },
			reason:    ReasonEnrichmentFailed,
			lastState: StateDetailsFetched,
			is:        ErrRecipeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cat := newFixtures()
			if tt.mutate != nil {
				tt.mutate(c, cat)
			}
			query := tt.query
			if query == "" {
				query = "pasta and salt"
			}

			var last State
			svc := NewFinderService(c, cat, WithObserver(func(_, to State) { last = to }))

			got, err := svc.Find(context.Background(), query)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.reason, ReasonOf(err))
			assert.Equal(t, StateFailed, last)

			var fe *FailedError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.lastState, fe.State)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestFindStopsAfterFailedLookup(t *testing.T) {
	c, cat := newFixtures()
	cat.matches = []catalog.RecipeMatch{}

	_, err := NewFinderService(c, cat).Find(context.Background(), "pasta")
	require.Error(t, err)
	assert.Equal(t, 0, cat.infoCalls)
	assert.Equal(t, 1, c.calls)
}

func TestFindWithMemo(t *testing.T) {
	c, cat := newFixtures()

	svc := NewFinderService(c, cat, WithMemoSize(4))
	_, err := svc.Find(context.Background(), "pasta")
	require.NoError(t, err)
	_, err = svc.Find(context.Background(), "pasta")
	require.NoError(t, err)

	// 記憶化只在單次流程內生效
	assert.Equal(t, 4, c.calls)
}

func TestExtractIngredientsStage(t *testing.T) {
	c, cat := newFixtures()
	svc := NewFinderService(c, cat)

	got, err := svc.ExtractIngredients(context.Background(), "pasta with salt")
	require.NoError(t, err)
	assert.Equal(t, "Pasta,Salt", got)
	assert.Equal(t, 0, cat.findCalls)

	_, err = svc.ExtractIngredients(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
