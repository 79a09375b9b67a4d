package controllers

import (
	"stockgrow/models"
	"stockgrow/utils"

	"github.com/gofiber/fiber/v2"
)

// Register - POST /api/v1/register
func Register(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	user, err := ledger.Register(
		utils.ToString(data["name"]),
		utils.ToString(data["mobile"]),
		utils.ToString(data["password"]),
		utils.ToString(data["referredBy"]),
	)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := utils.GenerateJWTToken(user.Mobile, string(user.Role))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Account created",
		"Token":         token,
		"Data":          sanitize(user),
	})
}

// Login - POST /api/v1/login
func Login(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	mobile := utils.ToString(data["mobile"])
	if mobile == "" {
		return c.Status(202).JSON(models.NewErrorResponse(202, 1, "Invalid Phone Number"))
	}

	user, err := ledger.Login(mobile, utils.ToString(data["password"]))
	if err != nil {
		return serviceError(c, err)
	}

	token, err := utils.GenerateJWTToken(user.Mobile, string(user.Role))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Success",
		"Token":         token,
		"Data":          sanitize(user),
	})
}

// SendOTP - POST /api/v1/otp/send
// Delivery failure is non-fatal: the code comes back in the response so the
// client can show it through an alternate channel.
func SendOTP(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	mobile := utils.ToString(data["mobile"])
	resetMode := utils.ToInt(data["reset"]) == 1 || data["reset"] == true

	result, err := otp.Send(c.Context(), mobile, resetMode)
	if err != nil {
		return serviceError(c, err)
	}

	resp := models.H{
		"Status":        200,
		"StatusCode":    0,
		"Units":         "Minutes",
		"ExpireIn":      5,
		"StatusMessage": "OTP verification has been sent!",
	}
	if !result.Delivered {
		resp["FallbackCode"] = result.Fallback
		resp["StatusMessage"] = "Could not deliver OTP, use the fallback code"
	}
	return c.Status(200).JSON(resp)
}

// VerifyOTP - POST /api/v1/otp/verify
func VerifyOTP(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	if err := otp.Verify(utils.ToString(data["mobile"]), utils.ToString(data["otp"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Success"))
}

// RequestPasswordReset - POST /api/v1/password/reset
// Shorthand for an OTP send in reset mode.
func RequestPasswordReset(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	result, err := otp.Send(c.Context(), utils.ToString(data["mobile"]), true)
	if err != nil {
		return serviceError(c, err)
	}

	resp := models.H{
		"Status":        200,
		"StatusCode":    0,
		"Units":         "Minutes",
		"ExpireIn":      5,
		"StatusMessage": "Reset code sent!",
	}
	if !result.Delivered {
		resp["FallbackCode"] = result.Fallback
		resp["StatusMessage"] = "Could not deliver reset code, use the fallback code"
	}
	return c.Status(200).JSON(resp)
}

// ConfirmPasswordReset - POST /api/v1/password/confirm
// OTP-gated password replacement.
func ConfirmPasswordReset(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	mobile := utils.ToString(data["mobile"])
	if err := otp.Verify(mobile, utils.ToString(data["otp"])); err != nil {
		return serviceError(c, err)
	}
	if err := ledger.ConfirmPasswordReset(mobile, utils.ToString(data["newPassword"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Password updated"))
}

// GetMe - GET /api/v1/me
func GetMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, sanitize(user)))
}
