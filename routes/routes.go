package routes

import (
	"stockgrow/controllers"
	"stockgrow/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Public
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/otp/send", controllers.SendOTP)
	api.Post("/otp/verify", controllers.VerifyOTP)
	api.Post("/password/reset", controllers.RequestPasswordReset)
	api.Post("/password/confirm", controllers.ConfirmPasswordReset)
	api.Get("/plans", controllers.GetPlans)
	api.Get("/news", controllers.GetNews)

	// Authenticated
	user := api.Group("/", middleware.Protected())
	user.Get("/me", controllers.GetMe)
	user.Post("/deposit", controllers.Deposit)
	user.Post("/withdraw", controllers.Withdraw)
	user.Post("/plans/buy", controllers.BuyPlan)
	user.Get("/transactions", controllers.GetTransactions)
	user.Get("/myplans", controllers.GetMyPlans)
	user.Post("/tickets", controllers.SubmitTicket)
	user.Get("/tickets", controllers.GetMyTickets)
	user.Post("/game/bet", controllers.PlaceGameBet)
	user.Post("/game/round", controllers.ResolveRound)
	user.Post("/game/live_bets", controllers.RecordLiveBets)
	user.Get("/game/live_bets", controllers.GetLiveBets)

	// Admin
	admin := api.Group("/admin", middleware.Protected(), middleware.AdminOnly())
	admin.Get("/users", controllers.GetUsers)
	admin.Post("/users/update", controllers.AdminUpdateUser)
	admin.Get("/pending", controllers.GetPending)
	admin.Get("/stats", controllers.GetStats)
	admin.Post("/approve_deposit", controllers.ApproveDeposit)
	admin.Post("/reject_deposit", controllers.RejectDeposit)
	admin.Post("/approve_withdrawal", controllers.ApproveWithdrawal)
	admin.Post("/reject_withdrawal", controllers.RejectWithdrawal)
	admin.Get("/sequence", controllers.GetSequence)
	admin.Post("/sequence/set", controllers.SetSequence)
	admin.Post("/news", controllers.PublishNews)
	admin.Post("/news/delete", controllers.DeleteNews)
	admin.Get("/tickets", controllers.GetAllTickets)
	admin.Post("/tickets/reply", controllers.ReplyTicket)
	admin.Get("/export", controllers.ExportStore)
	admin.Post("/import", controllers.ImportStore)
}
