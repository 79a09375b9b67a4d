package controllers

import (
	"stockgrow/models"
	"stockgrow/utils"

	"github.com/gofiber/fiber/v2"
)

// GetPlans - GET /api/v1/plans
func GetPlans(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, models.Plans))
}

// Deposit - POST /api/v1/deposit
// Creates a PENDING transaction for admin review; no balance change yet.
func Deposit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	amount := utils.ToInt64(data["amount"])
	if amount <= 0 {
		return c.Status(202).JSON(models.NewErrorResponse(202, 1, "amount must be a positive number"))
	}

	tx, err := ledger.Deposit(user.ID, amount,
		utils.ToString(data["method"]),
		utils.ToString(data["trxId"]),
		utils.ToString(data["senderMobile"]))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Deposit request submitted for review",
		"Data":          tx,
	})
}

// Withdraw - POST /api/v1/withdraw
// The amount is escrowed immediately; a rejection refunds it.
func Withdraw(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	amount := utils.ToInt64(data["amount"])
	if amount <= 0 {
		return c.Status(202).JSON(models.NewErrorResponse(202, 1, "amount must be a positive number"))
	}

	tx, err := ledger.Withdraw(user.ID, amount, utils.ToString(data["method"]))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Withdrawal request submitted for review",
		"Data":          tx,
	})
}

// BuyPlan - POST /api/v1/plans/buy
func BuyPlan(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	if err := ledger.BuyPlan(user.ID, utils.ToString(data["planId"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Plan activated"))
}

// GetTransactions - GET /api/v1/transactions
func GetTransactions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, user.Transactions))
}

// GetMyPlans - GET /api/v1/myplans
func GetMyPlans(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, user.Plans))
}

// SubmitTicket - POST /api/v1/tickets
func SubmitTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}
	message := utils.ToString(data["message"])
	if message == "" {
		return c.Status(202).JSON(models.NewErrorResponse(202, 1, "message is required"))
	}

	ticket, err := support.SubmitTicket(user.ID, message)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, ticket))
}

// GetMyTickets - GET /api/v1/tickets
func GetMyTickets(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, support.TicketsForUser(user.ID)))
}

// GetNews - GET /api/v1/news
func GetNews(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, support.News()))
}
