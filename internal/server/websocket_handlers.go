package server

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ladle/internal/middleware"
	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const wsTicketTTL = 30 * time.Second

// IssueWSTicket handles POST /api/ws/ticket
// @Summary Issue a websocket ticket
// @Description Issue a short-lived single-use ticket for opening a websocket connection
// @Tags websocket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{ticket=string,expires_in=int}
// @Failure 503 {object} object{error=string}
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	ticket := uuid.NewString()
	// The ticket carries the validated identity so redemption does not need
	// another database read.
	value := fmt.Sprintf("%d:%s", identity.UserID, identity.Role)
	if err := s.redis.Set(c.Context(), "ws_ticket:"+ticket, value, wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WSAuthRequired authenticates websocket upgrade requests. It redeems a
// single-use ticket when one is supplied, otherwise it falls back to a bearer
// token so single-instance deployments without Redis still work.
func (s *Server) WSAuthRequired(c *fiber.Ctx) error {
	ticket := c.Query("ticket")
	if ticket != "" && s.redis != nil {
		key := "ws_ticket:" + ticket
		value, err := s.redis.Get(c.Context(), key).Result()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
		}
		// Delete immediately so the ticket cannot be replayed.
		s.redis.Del(c.Context(), key)

		identity, err := parseTicketValue(value)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid WebSocket ticket"))
		}

		c.Locals("userID", identity.UserID)
		c.Locals("identity", identity)
		return c.Next()
	}

	// No ticket: fall back to the standard bearer/query token path.
	return middleware.WebSocketAuthRequired(c)
}

func parseTicketValue(value string) (models.Identity, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return models.Identity{}, fmt.Errorf("malformed ticket value")
	}
	userID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return models.Identity{}, fmt.Errorf("malformed ticket user id: %w", err)
	}
	role := models.Role(parts[1])
	if !role.Valid() {
		return models.Identity{}, fmt.Errorf("unknown role in ticket")
	}
	return models.Identity{UserID: uint(userID), Role: role}, nil
}

// FeedWebSocketHandler upgrades the connection and streams feed events to the
// caller until the socket closes.
func (s *Server) FeedWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		welcome, _ := json.Marshal(fiber.Map{
			"type":    "connected",
			"payload": fiber.Map{"user_id": userID},
		})
		client.TrySend(welcome)

		// Write pump in a goroutine; read pump blocks until disconnect.
		go client.WritePump()
		client.ReadPump()
	})
}
