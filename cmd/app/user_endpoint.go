package main

import (
	"errors"
	"net/http"
	"strconv"

	"PersonaAPI/internal/middleware"
	"PersonaAPI/internal/repository"
	"PersonaAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type passwordChangeRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

// getUserHandler returns an account record. Anonymous callers get 404,
// not 401, so the route does not confirm which ids exist.
func getUserHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if middleware.GetUser(c) == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "authentication failed"})
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
		}

		user, err := authSvc.GetUser(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
		}
		return c.JSON(http.StatusOK, user)
	}
}

func changePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetUser(c)
		if user == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "authentication failed"})
		}

		req := new(passwordChangeRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		err := authSvc.ChangePassword(c.Request().Context(), user.ID, req.Password, req.NewPassword)
		switch {
		case err == nil:
			return c.NoContent(http.StatusNoContent)
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "incorrect password"})
		default:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
	}
}

func registerUserRoutes(e *echo.Echo, authSvc *services.AuthService) {
	user := e.Group("/user")

	user.GET("/:id", getUserHandler(authSvc))
	user.PUT("/password", changePasswordHandler(authSvc))
}
