package user

import (
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/middleware"
	usersvc "github.com/amirasaad/minibank/pkg/service/user"
	"github.com/amirasaad/minibank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the user endpoints.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.App) {
	protected := middleware.Protected(cfg.Auth)
	app.Post("/users", protected, CreateUser(userSvc))
	app.Get("/users", protected, ListUsers(userSvc))
	app.Get("/users/:id", protected, GetUser(userSvc))
	app.Put("/users/:id", protected, UpdateUser(userSvc))
	app.Delete("/users/:id", protected, DeleteUser(userSvc))
}

// CreateUser creates a new user.
// @Summary Create a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUser true "User creation data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /users [post]
// @Security Bearer
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err
		}
		u, err := userSvc.CreateUser(c.UserContext(), input.Login, input.Email)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User created", u)
	}
}

// ListUsers returns every user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} common.Response
// @Router /users [get]
// @Security Bearer
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := userSvc.ListUsers(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list users", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users fetched", users)
	}
}

// GetUser returns a Fiber handler for retrieving a user by ID.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		u, err := userSvc.GetUser(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// UpdateUser replaces login and email.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserInput true "User data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [put]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.UpdateUser(c.UserContext(), id, input.Login, input.Email)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated", u)
	}
}

// DeleteUser removes a user without accounts.
// @Summary Delete user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", err)
		}
		if err := userSvc.DeleteUser(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete user", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
