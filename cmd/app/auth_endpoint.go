package main

import (
	"errors"
	"net/http"

	"PersonaAPI/internal/config"
	"PersonaAPI/internal/middleware"
	"PersonaAPI/internal/repository"
	"PersonaAPI/internal/services"

	"github.com/labstack/echo/v4"
)

// loginPage renders the login form; visitors that already carry a valid
// session are sent straight to the predictor.
func loginPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		if middleware.GetUser(c) != nil {
			return c.Redirect(http.StatusFound, "/predict/")
		}
		return c.Render(http.StatusOK, "login.html", nil)
	}
}

func registerPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "register.html", nil)
	}
}

func registerProcess(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, err := authSvc.Register(
			c.Request().Context(),
			c.FormValue("username"),
			c.FormValue("email"),
			c.FormValue("first_name"),
			c.FormValue("last_name"),
			c.FormValue("password"),
		)
		if err != nil {
			if errors.Is(err, repository.ErrUsernameTaken) {
				return c.HTML(http.StatusOK, `Username already exists. <a href='/auth/register'>Go back</a>`)
			}
			if errors.Is(err, repository.ErrEmailTaken) {
				return c.HTML(http.StatusOK, `Email already exists. <a href='/auth/register'>Go back</a>`)
			}
			return c.HTML(http.StatusOK, err.Error()+` <a href='/auth/register'>Go back</a>`)
		}
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}

func loginProcess(authSvc *services.AuthService, codec *middleware.TokenCodec, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := authSvc.Login(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
		if err != nil {
			// One message for every failure mode.
			return c.HTML(http.StatusOK, `Invalid Credentials. <a href='/auth/login'>Try again</a>`)
		}

		token, err := codec.Issue(user.Username, user.ID, cfg.TokenTTL)
		if err != nil {
			return c.HTML(http.StatusInternalServerError, "could not create session")
		}
		c.SetCookie(&http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "Bearer " + token,
			Path:     "/",
			MaxAge:   int(cfg.TokenTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return c.Redirect(http.StatusFound, "/predict/")
	}
}

// logoutHandler clears the session cookie unconditionally. There is no
// server-side session state to tear down.
func logoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(&http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}

func registerAuthRoutes(e *echo.Echo, authSvc *services.AuthService, codec *middleware.TokenCodec, cfg *config.Config) {
	auth := e.Group("/auth")

	auth.GET("/login", loginPage())
	auth.GET("/register", registerPage())
	auth.POST("/register-process", registerProcess(authSvc))
	auth.POST("/login-process", loginProcess(authSvc, codec, cfg))
	auth.GET("/logout", logoutHandler())
}
