package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/controllers"
	"github.com/workbuddy/workbuddy-server/middleware"
	ws "github.com/workbuddy/workbuddy-server/websocket"
)

// SetupMessageRoutes configures the chat REST routes and the websocket
// endpoint. Browser websocket clients cannot set headers, so the socket
// authenticates with a "token" query parameter during the upgrade.
func SetupMessageRoutes(app *fiber.App, hub *ws.Hub) {
	messages := app.Group("/messages", middleware.Protected())

	messages.Post("/", controllers.SendMessage(hub))
	messages.Get("/:userId", controllers.GetConversation)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		user, err := middleware.ResolveToken(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		c.Locals("userID", user.ID)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Locals("userID").(uint)
		hub.ServeClient(userID, conn)
	}))
}
