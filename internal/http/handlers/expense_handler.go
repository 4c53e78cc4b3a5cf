package handlers

import (
	"github.com/gatherly/backend/internal/http/dto"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gatherly/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
	log            *zap.Logger
}

func NewExpenseHandler(expenseService *services.ExpenseService, log *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, log: log}
}

func (h *ExpenseHandler) AddExpense(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	var req dto.AddExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	participants := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid participant id"})
		}
		participants = append(participants, id)
	}

	paidBy := middleware.GetUserID(c)
	expense, err := h.expenseService.AddExpense(c.Context(), eventID, paidBy, req.Description, req.Amount, participants)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("add expense failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: expense})
}

func (h *ExpenseHandler) ListExpenses(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	actorID := middleware.GetUserID(c)
	expenses, err := h.expenseService.ListExpenses(c.Context(), eventID, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: expenses})
}

func (h *ExpenseHandler) GetBalances(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid event id"})
	}

	actorID := middleware.GetUserID(c)
	balances, transfers, err := h.expenseService.EventBalances(c.Context(), eventID, actorID)
	if err != nil {
		if serviceStatus(err) == fiber.StatusInternalServerError {
			h.log.Error("compute balances failed", zap.Error(err))
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"balances":  balances,
		"suggested": transfers,
	}})
}
