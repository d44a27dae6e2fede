package main

import (
	"net/http"
	"strings"

	"PersonaAPI/internal/classifier"
	"PersonaAPI/internal/middleware"

	"github.com/labstack/echo/v4"
)

type predictionForm struct {
	TimeSpentAlone          float64 `form:"Time_spent_Alone"`
	StageFear               string  `form:"Stage_fear"`
	SocialEventAttendance   float64 `form:"Social_event_attendance"`
	GoingOutside            float64 `form:"Going_outside"`
	DrainedAfterSocializing string  `form:"Drained_after_socializing"`
	FriendsCircleSize       float64 `form:"Friends_circle_size"`
	PostFrequency           float64 `form:"Post_frequency"`
}

// validate checks the documented input ranges and reports violations per
// field. The form never reaches the model with an out-of-range value.
func (f *predictionForm) validate() map[string]string {
	errs := map[string]string{}
	if f.TimeSpentAlone <= -1 || f.TimeSpentAlone >= 25 {
		errs["Time_spent_Alone"] = "must be between 0 and 24 hours"
	}
	if !isYesNo(f.StageFear) {
		errs["Stage_fear"] = "must be Yes or No"
	}
	if f.SocialEventAttendance <= -1 || f.SocialEventAttendance >= 11 {
		errs["Social_event_attendance"] = "must be on a scale of 0 to 10"
	}
	if f.GoingOutside <= -1 || f.GoingOutside >= 8 {
		errs["Going_outside"] = "must be on a scale of 0 to 7"
	}
	if !isYesNo(f.DrainedAfterSocializing) {
		errs["Drained_after_socializing"] = "must be Yes or No"
	}
	if f.FriendsCircleSize <= -1 {
		errs["Friends_circle_size"] = "must not be negative"
	}
	if f.PostFrequency <= -1 || f.PostFrequency >= 11 {
		errs["Post_frequency"] = "must be on a scale of 0 to 10"
	}
	return errs
}

func (f *predictionForm) features() classifier.Features {
	return classifier.Features{
		TimeSpentAlone:          f.TimeSpentAlone,
		StageFear:               f.StageFear,
		SocialEventAttendance:   f.SocialEventAttendance,
		GoingOutside:            f.GoingOutside,
		DrainedAfterSocializing: f.DrainedAfterSocializing,
		FriendsCircleSize:       f.FriendsCircleSize,
		PostFrequency:           f.PostFrequency,
	}
}

func isYesNo(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "no":
		return true
	}
	return false
}

func predictHome() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetUser(c)
		if user == nil {
			return c.Redirect(http.StatusFound, "/auth/login")
		}
		return c.Render(http.StatusOK, "index.html", echo.Map{"User": user})
	}
}

func predictForm(model *classifier.Model) echo.HandlerFunc {
	return func(c echo.Context) error {
		if middleware.GetUser(c) == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication failed"})
		}
		if model == nil {
			return c.HTML(http.StatusInternalServerError, "Model not loaded")
		}

		form := new(predictionForm)
		if err := c.Bind(form); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if errs := form.validate(); len(errs) > 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
		}

		result := model.Predict(form.features())
		return c.Render(http.StatusOK, "result.html", echo.Map{"Result": result})
	}
}

func registerPredictRoutes(e *echo.Echo, model *classifier.Model) {
	predict := e.Group("/predict")

	predict.GET("/", predictHome())
	predict.POST("/predict-form", predictForm(model))
}
