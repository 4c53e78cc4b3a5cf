package handlers

import (
	"github.com/gatherly/backend/internal/http/dto"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gatherly/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SettlementHandler struct {
	settlementService *services.SettlementService
	log               *zap.Logger
}

func NewSettlementHandler(settlementService *services.SettlementService, log *zap.Logger) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService, log: log}
}

// serviceStatus maps the service error taxonomy onto HTTP statuses.
func serviceStatus(err error) int {
	switch services.CodeOf(err) {
	case services.CodeValidation:
		return fiber.StatusBadRequest
	case services.CodeNotFoundOrUnauthorized:
		return fiber.StatusNotFound
	case services.CodePreconditionFailed:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func serviceError(c *fiber.Ctx, err error) error {
	status := serviceStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:     msg,
		Code:      services.CodeOf(err),
		RequestID: reqID,
	})
}

// ConfirmPayment records the authenticated user's assertion that they paid
// the receiver. Repeating the same request is safe.
func (h *SettlementHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req dto.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event_id"})
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid receiver_id"})
	}

	payerID := middleware.GetUserID(c)
	settlement, err := h.settlementService.ConfirmPayment(c.Context(), eventID, payerID, receiverID, req.Amount)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("confirm payment failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: settlement})
}

// ConfirmReceipt lets the settlement's receiver acknowledge the payment.
func (h *SettlementHandler) ConfirmReceipt(c *fiber.Ctx) error {
	settlementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid settlement id"})
	}

	actorID := middleware.GetUserID(c)
	settlement, err := h.settlementService.ConfirmReceipt(c.Context(), settlementID, actorID)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("confirm receipt failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: settlement})
}

func (h *SettlementHandler) ListEventSettlements(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	settlements, err := h.settlementService.EventSettlements(c.Context(), eventID)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("list event settlements failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: settlements})
}

func (h *SettlementHandler) ListMySettlements(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var eventID *uuid.UUID
	if v := c.Query("event_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event_id"})
		}
		eventID = &parsed
	}

	settlements, err := h.settlementService.UserSettlements(c.Context(), userID, eventID)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("list my settlements failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: settlements})
}
