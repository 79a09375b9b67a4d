package controllers

import (
	"errors"

	"stockgrow/database"
	"stockgrow/models"
	"stockgrow/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ledger  *services.LedgerService
	game    *services.GameService
	support *services.SupportService
	otp     *services.OTPService
	textgen services.TextGenerator
	store   *database.Store
)

// Init wires the handler package to its services. Call once from main
// before registering routes.
func Init(s *database.Store, l *services.LedgerService, g *services.GameService, sup *services.SupportService, o *services.OTPService, t services.TextGenerator) {
	store = s
	ledger = l
	game = g
	support = sup
	otp = o
	textgen = t
}

// currentUser resolves the authenticated user from the JWT claims attached
// by the middleware.
func currentUser(c *fiber.Ctx) (models.User, error) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return models.User{}, services.ErrAccountNotFound
	}
	mobile, _ := claims["sub"].(string)
	return ledger.UserByMobile(mobile)
}

// serviceError maps the ledger taxonomy onto the response envelope. Business
// rejections go out as 202 soft failures, lookups as 404, the rest as 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		return c.Status(404).JSON(models.NewErrorResponse(404, 1, err.Error()))
	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrDuplicatePhone),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInvalidPlan),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, database.ErrImportRejected):
		return c.Status(202).JSON(models.NewErrorResponse(202, 1, err.Error()))
	default:
		logrus.Errorf("❌ Unexpected service error: %v", err)
		return c.Status(500).JSON(models.NewErrorResponse(500, 1, "internal server error"))
	}
}

// sanitize strips the password before a user record leaves the API.
func sanitize(u models.User) models.User {
	u.Password = ""
	return u
}
