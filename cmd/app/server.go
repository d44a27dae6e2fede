package main

import (
	"net/http"

	"PersonaAPI/internal/classifier"
	"PersonaAPI/internal/config"
	"PersonaAPI/internal/middleware"
	"PersonaAPI/internal/services"
	"PersonaAPI/internal/view"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// newServer wires middleware and routes onto a fresh echo instance.
// model may be nil; the prediction endpoint then answers degraded.
func newServer(cfg *config.Config, authSvc *services.AuthService, codec *middleware.TokenCodec, model *classifier.Model) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = view.NewRenderer()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.WithUser(codec))

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	e.GET("/", rootRedirect())
	registerAuthRoutes(e, authSvc, codec, cfg)
	registerPredictRoutes(e, model)
	registerUserRoutes(e, authSvc)

	return e
}

// rootRedirect sends authenticated visitors to the predictor and
// everyone else to the login form.
func rootRedirect() echo.HandlerFunc {
	return func(c echo.Context) error {
		if middleware.GetUser(c) != nil {
			return c.Redirect(http.StatusFound, "/predict/")
		}
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}
