package api

import (
	"errors"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input services.RegistrationInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	user, err := handler.authService.Register(input)
	if err != nil {
		return respondError(c, err)
	}

	session, err := handler.issueSession(user)
	if err != nil {
		return respondError(c, fmt.Errorf("sign token: %w", err))
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login throttles by client address: after loginFailureLimit bad attempts in
// loginFailureWindow further attempts are refused until the window moves on.
func (handler *Handler) Login(c *fiber.Ctx) error {
	key := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(key, now) {
		wait := handler.loginLimiter.retryAfter(key, now)
		c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(math.Ceil(wait.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many failed login attempts, try again later")
	}

	var input credentialsInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	user, err := handler.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.addFailure(key, now)
		}
		return respondError(c, err)
	}
	handler.loginLimiter.reset(key)

	session, err := handler.issueSession(user)
	if err != nil {
		return respondError(c, fmt.Errorf("sign token: %w", err))
	}
	return c.JSON(session)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(user)
}

// Logout is stateless; the client discards its token.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}
