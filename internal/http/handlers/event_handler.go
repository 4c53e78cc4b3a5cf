package handlers

import (
	"github.com/gatherly/backend/internal/http/dto"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gatherly/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService *services.EventService
	log          *zap.Logger
}

func NewEventHandler(eventService *services.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{eventService: eventService, log: log}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	creatorID := middleware.GetUserID(c)
	event, err := h.eventService.CreateEvent(c.Context(), creatorID, req.Title, req.Description, req.Location, req.StartsAt)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("create event failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: event})
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	actorID := middleware.GetUserID(c)
	event, err := h.eventService.GetEvent(c.Context(), eventID, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: event})
}

func (h *EventHandler) ListMyEvents(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	events, err := h.eventService.ListMyEvents(c.Context(), userID)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("list events failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: events})
}

func (h *EventHandler) InviteMember(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	var req dto.InviteMemberRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "email is required"})
	}

	actorID := middleware.GetUserID(c)
	member, err := h.eventService.InviteMember(c.Context(), eventID, actorID, req.Email)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: member})
}

func (h *EventHandler) ListMembers(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	actorID := middleware.GetUserID(c)
	members, err := h.eventService.ListMembers(c.Context(), eventID, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: members})
}
