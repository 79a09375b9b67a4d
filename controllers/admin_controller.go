package controllers

import (
	"stockgrow/models"
	"stockgrow/services"
	"stockgrow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GetUsers - GET /api/v1/admin/users
func GetUsers(c *fiber.Ctx) error {
	users := ledger.AllUsers()
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, out))
}

// GetPending - GET /api/v1/admin/pending
// The dashboard polls this every few seconds; approvals are idempotent so
// staleness has no correctness impact.
func GetPending(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, ledger.PendingTransactions()))
}

// GetStats - GET /api/v1/admin/stats
// Platform and market aggregates fetched concurrently.
func GetStats(c *fiber.Ctx) error {
	var platform services.PlatformStats
	var market services.MarketStats

	g := new(errgroup.Group)
	g.Go(func() error {
		platform = ledger.GetPlatformStats()
		return nil
	})
	g.Go(func() error {
		market = ledger.GetMarketStats()
		return nil
	})
	if err := g.Wait(); err != nil {
		return serviceError(c, err)
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Success",
		"Platform":      platform,
		"Market":        market,
	})
}

// ApproveDeposit - POST /api/v1/admin/approve_deposit
func ApproveDeposit(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	txID := utils.ToString(data["txId"])
	amount := utils.ToInt64(data["amount"])
	if err := ledger.ApproveDeposit(txID, amount); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Deposit approved"))
}

// RejectDeposit - POST /api/v1/admin/reject_deposit
func RejectDeposit(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	if err := ledger.RejectDeposit(utils.ToString(data["txId"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Deposit rejected"))
}

// ApproveWithdrawal - POST /api/v1/admin/approve_withdrawal
func ApproveWithdrawal(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	if err := ledger.ApproveWithdrawal(utils.ToString(data["txId"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Withdrawal approved"))
}

// RejectWithdrawal - POST /api/v1/admin/reject_withdrawal
func RejectWithdrawal(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	txID := utils.ToString(data["txId"])
	amount := utils.ToInt64(data["amount"])
	if err := ledger.RejectWithdrawal(txID, amount); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Withdrawal rejected and refunded"))
}

// AdminUpdateUser - POST /api/v1/admin/users/update
func AdminUpdateUser(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	err := ledger.AdminUpdateUser(
		utils.ToString(data["userId"]),
		utils.ToString(data["mobile"]),
		utils.ToString(data["password"]))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "User updated"))
}

// GetSequence - GET /api/v1/admin/sequence
// Admin preview of the pending outcome queue.
func GetSequence(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, game.Sequence()))
}

// SetSequence - POST /api/v1/admin/sequence/set
func SetSequence(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	outcome, ok := parseOutcome(utils.ToString(data["outcome"]))
	if !ok {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "outcome must be DRAGON, TIGER or TIE"))
	}
	game.SetOutcomeAt(utils.ToInt(data["index"]), outcome)
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Success"))
}

// PublishNews - POST /api/v1/admin/news
// When a prompt is supplied the content is drafted by the text generator;
// a generation failure surfaces with no partial state change.
func PublishNews(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	content := utils.ToString(data["content"])
	if prompt := utils.ToString(data["prompt"]); prompt != "" && textgen != nil {
		generated, err := textgen.Generate(c.Context(), prompt)
		if err != nil {
			logrus.Errorf("❌ News generation failed: %v", err)
			return c.Status(502).JSON(models.NewErrorResponse(502, 1, "text generation failed"))
		}
		content = generated
	}

	newsType := models.NewsType(utils.ToString(data["type"]))
	switch newsType {
	case models.NewsInfo, models.NewsAlert, models.NewsBonus:
	default:
		newsType = models.NewsInfo
	}

	item, err := support.PublishNews(utils.ToString(data["title"]), content, newsType)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, item))
}

// DeleteNews - POST /api/v1/admin/news/delete
func DeleteNews(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}
	if err := support.DeleteNews(utils.ToString(data["id"])); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Success"))
}

// GetAllTickets - GET /api/v1/admin/tickets
func GetAllTickets(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, support.AllTickets()))
}

// ReplyTicket - POST /api/v1/admin/tickets/reply
func ReplyTicket(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	err := support.ReplyTicket(utils.ToString(data["ticketId"]), utils.ToString(data["reply"]))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Ticket resolved"))
}

// ExportStore - GET /api/v1/admin/export
// Returns the exact persisted snapshot bytes.
func ExportStore(c *fiber.Ctx) error {
	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="stockgrow_export.json"`)
	return c.Status(200).Send(store.Export())
}

// ImportStore - POST /api/v1/admin/import
// Fully replaces the store; payloads without a users list are rejected.
func ImportStore(c *fiber.Ctx) error {
	if err := store.Import(c.Body()); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Database imported"))
}
