package routes

import (
	"github.com/gofiber/fiber/v2"

	"fairbet/controllers/bet"
	"fairbet/controllers/user"
	"fairbet/middlewares"
)

func Setup(app *fiber.App, bets *bet.Handler) {
	app.Post("/auth/register", user.Register)

	me := app.Group("/me", middlewares.SessionAuth)
	me.Get("/balance", user.Balance)

	admin := app.Group("/admin", middlewares.SessionAuth, middlewares.AdminOnly)
	admin.Post("/balance", user.AdjustBalance)

	betroutes := app.Group("/bets", middlewares.SessionAuth)
	betroutes.Post("/", bets.Place)
	betroutes.Get("/", bets.History)
	betroutes.Get("/:uuid/verify", bets.Verify)
}
