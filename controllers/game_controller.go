package controllers

import (
	"fmt"

	"stockgrow/models"
	"stockgrow/services"
	"stockgrow/utils"

	"github.com/gofiber/fiber/v2"
)

func parseOutcome(v string) (models.Outcome, bool) {
	switch models.Outcome(v) {
	case models.OutcomeDragon, models.OutcomeTiger, models.OutcomeTie:
		return models.Outcome(v), true
	}
	return "", false
}

// PlaceGameBet - POST /api/v1/game/bet
// Debits the stake at bet time as a GAME_LOSS settlement. Stakes on
// non-winning outcomes are therefore already forfeited when the round
// resolves; only the winning stake pays back.
func PlaceGameBet(c *fiber.Ctx) error {
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
	zone, ok := parseOutcome(utils.ToString(data["zone"]))
	if !ok {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "zone must be DRAGON, TIGER or TIE"))
	}

	if err := ledger.SettleGameBet(user.ID, amount, false, fmt.Sprintf("Bet on %s", zone)); err != nil {
		return serviceError(c, err)
	}
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Bet placed"))
}

// ResolveRound - POST /api/v1/game/round
// Consumes the next predetermined outcome and settles the player's winnings
// in one call. The body carries the player's stakes for the round.
func ResolveRound(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return serviceError(c, err)
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	stakes := models.LiveBetTotals{
		Dragon: utils.ToInt64(data["DRAGON"]),
		Tiger:  utils.ToInt64(data["TIGER"]),
		Tie:    utils.ToInt64(data["TIE"]),
	}

	outcome := game.ConsumeNext()
	winnings := services.Winnings(outcome, stakes)
	if winnings > 0 {
		if err := ledger.SettleGameBet(user.ID, winnings, true, fmt.Sprintf("Won on %s", outcome)); err != nil {
			return serviceError(c, err)
		}
	}

	return c.Status(200).JSON(models.H{
		"Status":        200,
		"StatusCode":    0,
		"StatusMessage": "Success",
		"Outcome":       outcome,
		"Winnings":      winnings,
	})
}

// RecordLiveBets - POST /api/v1/game/live_bets
// Overwrites the ephemeral per-round totals shown on the admin monitor.
func RecordLiveBets(c *fiber.Ctx) error {
	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(models.NewErrorResponse(400, 1, "invalid JSON"))
	}

	game.RecordLiveBets(models.LiveBetTotals{
		Dragon: utils.ToInt64(data["DRAGON"]),
		Tiger:  utils.ToInt64(data["TIGER"]),
		Tie:    utils.ToInt64(data["TIE"]),
	})
	return c.Status(200).JSON(models.NewSuccess(200, 0, "Success"))
}

// GetLiveBets - GET /api/v1/game/live_bets
func GetLiveBets(c *fiber.Ctx) error {
	return c.Status(200).JSON(models.NewSuccessWithData(200, 0, game.ReadLiveBets()))
}
