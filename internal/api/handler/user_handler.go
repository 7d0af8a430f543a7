package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/ports"
)

// UserHandler serves the /Usuario surface: synchronous reads against the
// store and mutations dispatched through the command pipeline. A 200 from a
// mutation means accepted for processing, not applied.
type UserHandler struct {
	producer ports.ProducerService
	users    ports.UserService
}

func NewUserHandler(producer ports.ProducerService, users ports.UserService) *UserHandler {
	return &UserHandler{producer: producer, users: users}
}

// GetAll lists every directory record.
//
// @Summary      List all users
// @Tags         usuario
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /Usuario [get]
func (h *UserHandler) GetAll(c echo.Context) error {
	users, err := h.users.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetByID fetches a single record.
//
// @Summary      Get a user by id
// @Tags         usuario
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  messageResponse
// @Router       /Usuario/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetAllByRole lists records holding the given role.
//
// @Summary      List users by role
// @Tags         usuario
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "Role label"
// @Success      200   {array}   domain.User
// @Failure      401   {object}  messageResponse
// @Router       /Usuario/getAllByRole/{role} [get]
func (h *UserHandler) GetAllByRole(c echo.Context) error {
	users, err := h.users.GetAllByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create dispatches a creation command after the duplicate-email pre-check.
//
// @Summary      Create a user (asynchronous)
// @Tags         usuario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      200   "command dispatched"
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse  "e-mail already registered"
// @Router       /Usuario [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.producer.SubmitCreate(c.Request().Context(), req.toCommand()); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Update dispatches a partial update command. Absent fields keep their
// stored values.
//
// @Summary      Update a user (asynchronous)
// @Tags         usuario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   "command dispatched"
// @Failure      400   {object}  messageResponse
// @Router       /Usuario [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.producer.SubmitUpdate(c.Request().Context(), req.toCommand()); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Delete dispatches a deletion command.
//
// @Summary      Delete a user (asynchronous)
// @Tags         usuario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteUserRequest  true  "User id"
// @Success      200   "command dispatched"
// @Failure      400   {object}  messageResponse
// @Router       /Usuario [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	var req deleteUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.producer.SubmitDelete(c.Request().Context(), domain.DeleteUserCommand{ID: req.ID}); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
