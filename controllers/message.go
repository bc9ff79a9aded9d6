package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/workbuddy/workbuddy-server/db"
	"github.com/workbuddy/workbuddy-server/models"
	ws "github.com/workbuddy/workbuddy-server/websocket"
)

// SendMessage persists a chat message and relays it to the receiver's live
// connection when one exists. Persistence is the contract; delivery is
// best-effort.
func SendMessage(hub *ws.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		senderID := c.Locals("userID").(uint)

		type MessageInput struct {
			ReceiverID uint   `json:"receiver_id"`
			Message    string `json:"message"`
		}

		input := new(MessageInput)
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse request body",
			})
		}
		if input.ReceiverID == 0 || input.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "receiver_id and message are required",
			})
		}

		var receiver models.User
		if db.DB.First(&receiver, input.ReceiverID).RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Receiver not found",
			})
		}

		message := models.Message{
			SenderID:   senderID,
			ReceiverID: input.ReceiverID,
			Content:    input.Message,
		}
		if err := db.DB.Create(&message).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to send message",
			})
		}

		if !hub.SendToUser(input.ReceiverID, "new_message", fiber.Map{
			"id":          message.ID,
			"sender_id":   senderID,
			"receiver_id": input.ReceiverID,
			"message":     message.Content,
			"created_at":  message.CreatedAt,
		}) {
			log.Printf("message %d: receiver %d not connected, stored only", message.ID, input.ReceiverID)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": message,
		})
	}
}

// GetConversation returns the full message history between the caller and
// another user, oldest first.
func GetConversation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	otherID, err := c.ParamsInt("userId")
	if err != nil || otherID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var messages []models.Message
	if err := db.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch conversation",
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(messages),
		"messages": messages,
	})
}
