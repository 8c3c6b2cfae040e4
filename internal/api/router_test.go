package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/core/jobs"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	result      *recipe.EnrichedRecipe
	err         error
	ingredients string
}

func (f *fakeFinder) Find(context.Context, string) (*recipe.EnrichedRecipe, error) {
	return f.result, f.err
}

func (f *fakeFinder) ExtractIngredients(_ context.Context, q string) (string, error) {
	if strings.TrimSpace(q) == "" {
		return "", recipe.ErrEmptyQuery
	}
	return f.ingredients, f.err
}

type fakeQueue struct {
	jobs map[string]*jobs.Job
	full bool
}

func (q *fakeQueue) Enqueue(_ context.Context, query string) (*jobs.Job, error) {
	if q.full {
		return nil, common.ErrQueueFull
	}
	job := &jobs.Job{ID: "job-1", Status: jobs.StatusQueued, Query: query}
	q.jobs[job.ID] = job
	return job, nil
}

func (q *fakeQueue) Get(_ context.Context, id string) (*jobs.Job, error) {
	job, ok := q.jobs[id]
	if !ok {
		return nil, common.ErrJobNotFound
	}
	return job, nil
}

func (q *fakeQueue) Status() *jobs.QueueStatus {
	return &jobs.QueueStatus{QueueLength: len(q.jobs), Workers: 2, MaxQueueSize: 10}
}

type fakeRenderer struct{}

func (fakeRenderer) Write(_ context.Context, r *recipe.EnrichedRecipe, w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-1.3 "+r.Title)
	return err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Version: "test", Debug: true},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 16},
		DedupWindow: time.Millisecond,
	}
}

func newTestRouter(finder *fakeFinder, queue *fakeQueue, store fakePinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if queue.jobs == nil {
		queue.jobs = map[string]*jobs.Job{}
	}
	return SetupRouter(testConfig(), Dependencies{
		Finder:   finder,
		Queue:    queue,
		Renderer: fakeRenderer{},
		Store:    store,
	})
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateJob(t *testing.T) {
	queue := &fakeQueue{}
	r := newTestRouter(&fakeFinder{}, queue, fakePinger{})

	w := perform(r, http.MethodPost, "/api/v1/recipes", `{"query":"pasta and salt"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/api/v1/recipes/job-1", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	body := decode[map[string]string](t, w)
	assert.Equal(t, "job-1", body["id"])
	assert.Equal(t, "queued", body["status"])
	assert.Equal(t, "pasta and salt", queue.jobs["job-1"].Query)
}

func TestCreateJobValidation(t *testing.T) {
	r := newTestRouter(&fakeFinder{}, &fakeQueue{}, fakePinger{})

	for name, body := range map[string]string{
		"missing query": `{}`,
		"unknown field": `{"query":"pasta","servings":2}`,
		"trailing data": `{"query":"pasta"}{"query":"rice"}`,
		"not json":      `query=pasta`,
	} {
		t.Run(name, func(t *testing.T) {
			w := perform(r, http.MethodPost, "/api/v1/recipes", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, common.ErrCodeInvalidRequest, decode[common.ErrorResponse](t, w).Code)
		})
	}
}

func TestCreateJobQueueFull(t *testing.T) {
	r := newTestRouter(&fakeFinder{}, &fakeQueue{full: true}, fakePinger{})

	w := perform(r, http.MethodPost, "/api/v1/recipes", `{"query":"pasta"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetJob(t *testing.T) {
	queue := &fakeQueue{jobs: map[string]*jobs.Job{
		"done": {ID: "done", Status: jobs.StatusDone, Recipe: &recipe.EnrichedRecipe{Title: "Pasta"}},
	}}
	r := newTestRouter(&fakeFinder{}, queue, fakePinger{})

	w := perform(r, http.MethodGet, "/api/v1/recipes/done", "")
	require.Equal(t, http.StatusOK, w.Code)
	job := decode[jobs.Job](t, w)
	assert.Equal(t, jobs.StatusDone, job.Status)
	assert.Equal(t, "Pasta", job.Recipe.Title)

	w = perform(r, http.MethodGet, "/api/v1/recipes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeJobNotFound, decode[common.ErrorResponse](t, w).Code)
}

func TestGetPDF(t *testing.T) {
	queue := &fakeQueue{jobs: map[string]*jobs.Job{
		"done":    {ID: "done", Status: jobs.StatusDone, Recipe: &recipe.EnrichedRecipe{Title: "Pasta"}},
		"running": {ID: "running", Status: jobs.StatusRunning},
		"failed":  {ID: "failed", Status: jobs.StatusFailed, Reason: "no-recipe-match", Error: "nothing"},
	}}
	r := newTestRouter(&fakeFinder{}, queue, fakePinger{})

	w := perform(r, http.MethodGet, "/api/v1/recipes/done/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "recipe-done.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = perform(r, http.MethodGet, "/api/v1/recipes/running/pdf", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/recipes/failed/pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeNoRecipeMatch, decode[common.ErrorResponse](t, w).Code)
}

func TestFindSync(t *testing.T) {
	finder := &fakeFinder{result: &recipe.EnrichedRecipe{Title: "Pasta", Instructions: []string{"Boil."}}}
	r := newTestRouter(finder, &fakeQueue{}, fakePinger{})

	w := perform(r, http.MethodPost, "/api/v1/recipes/find", `{"query":"pasta"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[recipe.EnrichedRecipe](t, w)
	assert.Equal(t, "Pasta", got.Title)
}

func TestFindSyncFailureReasons(t *testing.T) {
	cases := map[recipe.Reason]int{
		recipe.ReasonNoIngredients:    http.StatusUnprocessableEntity,
		recipe.ReasonNoRecipeMatch:    http.StatusNotFound,
		recipe.ReasonNoRecipeDetails:  http.StatusBadGateway,
		recipe.ReasonEnrichmentFailed: http.StatusBadGateway,
	}
	for reason, status := range cases {
		t.Run(string(reason), func(t *testing.T) {
			finder := &fakeFinder{err: &recipe.FailedError{Reason: reason, Err: errors.New("x")}}
			r := newTestRouter(finder, &fakeQueue{}, fakePinger{})

			w := perform(r, http.MethodPost, "/api/v1/recipes/find", `{"query":"stones"}`)
			assert.Equal(t, status, w.Code)
			assert.NotEmpty(t, decode[common.ErrorResponse](t, w).Details)
		})
	}
}

func TestExtractIngredients(t *testing.T) {
	r := newTestRouter(&fakeFinder{ingredients: "Flour,Sugar"}, &fakeQueue{}, fakePinger{})

	w := perform(r, http.MethodPost, "/api/v1/ingredients/extract", `{"query":"cookies with flour and sugar"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, []any{"Flour", "Sugar"}, body["ingredients"])
	assert.Equal(t, "Flour,Sugar", body["joined"])
}

func TestExtractIngredientsFailure(t *testing.T) {
	r := newTestRouter(&fakeFinder{err: errors.New("llm down")}, &fakeQueue{}, fakePinger{})

	w := perform(r, http.MethodPost, "/api/v1/ingredients/extract", `{"query":"cookies"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(&fakeFinder{}, &fakeQueue{}, fakePinger{})

	w := perform(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "test", body["version"])
	assert.Contains(t, body, "queue")

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/live", "").Code)

	down := newTestRouter(&fakeFinder{}, &fakeQueue{}, fakePinger{err: errors.New("redis down")})
	w = perform(down, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, common.ErrCodeServiceUnavailable, decode[common.ErrorResponse](t, w).Code)
}
