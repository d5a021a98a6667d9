package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviereel/ratings-pipeline/internal/service"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

type fakeRatingService struct {
	err    error
	inputs []service.SubmitRatingInput
}

func (f *fakeRatingService) SubmitRating(_ context.Context, in service.SubmitRatingInput) (service.SubmitRatingOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return service.SubmitRatingOutput{}, f.err
	}
	return service.SubmitRatingOutput{}, nil
}

type fakeBrokerStatus struct {
	ready bool
}

func (f *fakeBrokerStatus) IsReady() bool {
	return f.ready
}

func newTestRouter(svc service.RatingService, ready bool) http.Handler {
	l := logger.InitializeTestZapLogger()
	h := NewHandler(svc, &fakeBrokerStatus{ready: ready}, l)
	return NewRouter(h, l)
}

func postRating(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/ratings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSubmitRating_Accepted(t *testing.T) {
	svc := &fakeRatingService{}
	router := newTestRouter(svc, true)

	rec := postRating(t, router, `{
		"email": "jane@example.com",
		"movieId": "tt0111161",
		"rating": 4.5,
		"comment": "A classic"
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Rating received and processing", decodeBody(t, rec)["message"])

	require.Len(t, svc.inputs, 1)
	assert.Equal(t, service.SubmitRatingInput{
		Email:   "jane@example.com",
		MovieID: "tt0111161",
		Rating:  4.5,
		Comment: "A classic",
	}, svc.inputs[0])
}

func TestSubmitRating_CommentOptional(t *testing.T) {
	svc := &fakeRatingService{}
	router := newTestRouter(svc, true)

	rec := postRating(t, router, `{"email":"jane@example.com","movieId":"tt0111161","rating":5}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.inputs, 1)
	assert.Empty(t, svc.inputs[0].Comment)
}

func TestSubmitRating_MissingFields(t *testing.T) {
	cases := map[string]string{
		"no email":    `{"movieId":"tt0111161","rating":4}`,
		"no movieId":  `{"email":"jane@example.com","rating":4}`,
		"no rating":   `{"email":"jane@example.com","movieId":"tt0111161"}`,
		"zero rating": `{"email":"jane@example.com","movieId":"tt0111161","rating":0}`,
		"empty email": `{"email":"","movieId":"tt0111161","rating":4}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeRatingService{}
			router := newTestRouter(svc, true)

			rec := postRating(t, router, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])
			assert.Empty(t, svc.inputs, "rejected request must not reach the service")
		})
	}
}

func TestSubmitRating_MalformedBody(t *testing.T) {
	svc := &fakeRatingService{}
	router := newTestRouter(svc, true)

	rec := postRating(t, router, `{"email": "jane@example.com",`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, rec)["error"])
	assert.Empty(t, svc.inputs)
}

func TestSubmitRating_BrokerUnavailable(t *testing.T) {
	svc := &fakeRatingService{err: service.ErrBrokerUnavailable}
	router := newTestRouter(svc, false)

	rec := postRating(t, router, `{"email":"jane@example.com","movieId":"tt0111161","rating":4}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service unavailable (queue not connected)", decodeBody(t, rec)["error"])
}

func TestSubmitRating_PublishFailure(t *testing.T) {
	svc := &fakeRatingService{err: service.ErrPublishFailed}
	router := newTestRouter(svc, true)

	rec := postRating(t, router, `{"email":"jane@example.com","movieId":"tt0111161","rating":4}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}

func TestHealth(t *testing.T) {
	t.Run("broker connected", func(t *testing.T) {
		router := newTestRouter(&fakeRatingService{}, true)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
	})

	t.Run("broker disconnected", func(t *testing.T) {
		router := newTestRouter(&fakeRatingService{}, false)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
	})
}
