package main

import (
	"net/http"
	"testing"

	"PersonaAPI/internal/middleware"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
)

func exampleInput() map[string]string {
	return map[string]string{
		"Time_spent_Alone":          "5.0",
		"Stage_fear":                "No",
		"Social_event_attendance":   "2.0",
		"Going_outside":             "1.0",
		"Drained_after_socializing": "Yes",
		"Friends_circle_size":       "2",
		"Post_frequency":            "1.0",
	}
}

func postPrediction(app *testApp, cookie string, input map[string]string) *apitest.Request {
	req := apitest.New().
		Handler(app.e).
		Post("/predict/predict-form")
	for field, value := range input {
		req.FormData(field, value)
	}
	if cookie != "" {
		req.Cookies(apitest.NewCookie(middleware.SessionCookie).Value(cookie))
	}
	return req
}

func TestPredictHome_RedirectsAnonymous(t *testing.T) {
	app := newTestApp(testModel())

	apitest.New().
		Handler(app.e).
		Get("/predict/").
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()

	// Same for a stale cookie.
	apitest.New().
		Handler(app.e).
		Get("/predict/").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value("Bearer garbage")).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()
}

func TestPredictHome_Authenticated(t *testing.T) {
	app := newTestApp(testModel())

	result := apitest.New().
		Handler(app.e).
		Get("/predict/").
		Cookies(apitest.NewCookie(middleware.SessionCookie).Value(app.sessionCookie(t, "bob", 1))).
		Expect(t).
		Status(http.StatusOK).
		End()

	assert.Contains(t, readBody(t, result), "bob")
}

func TestPredictForm_RequiresAuth(t *testing.T) {
	app := newTestApp(testModel())

	postPrediction(app, "", exampleInput()).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestPredictForm_DegradedWithoutModel(t *testing.T) {
	app := newTestApp(nil)

	result := postPrediction(app, app.sessionCookie(t, "bob", 1), exampleInput()).
		Expect(t).
		Status(http.StatusInternalServerError).
		End()

	assert.Contains(t, readBody(t, result), "Model not loaded")
}

func TestPredictForm_RangeValidation(t *testing.T) {
	app := newTestApp(testModel())
	cookie := app.sessionCookie(t, "bob", 1)

	for field, value := range map[string]string{
		"Time_spent_Alone":          "30",
		"Social_event_attendance":   "11",
		"Going_outside":             "-2",
		"Friends_circle_size":       "-5",
		"Post_frequency":            "12",
		"Stage_fear":                "maybe",
		"Drained_after_socializing": "",
	} {
		input := exampleInput()
		input[field] = value

		postPrediction(app, cookie, input).
			Expect(t).
			Status(http.StatusUnprocessableEntity).
			Assert(jsonpath.Present(`$.errors.` + field)).
			End()
	}
}

func TestPredictForm_ReturnsLabel(t *testing.T) {
	app := newTestApp(testModel())

	result := postPrediction(app, app.sessionCookie(t, "bob", 1), exampleInput()).
		Expect(t).
		Status(http.StatusOK).
		End()

	assert.Contains(t, readBody(t, result), "Introvert")
}
