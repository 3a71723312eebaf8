package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/ledger"
	"cultivate/internal/utils/pagination"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TransactionHandler struct {
	ledger ledger.Service
	log    *logrus.Logger
}

func NewTransactionHandler(svc ledger.Service, log *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: svc, log: log}
}

func (h *TransactionHandler) ListMine(c *fiber.Ctx) error {
	txs, err := h.ledger.ListByUser(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txs)
}

func (h *TransactionHandler) ListAll(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	txs, total, err := h.ledger.ListAll(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch transactions")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	var input models.RecordTransactionInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	tx, err := h.ledger.Record(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to record transaction")
	}
	return response.Created(c, "Transaction recorded successfully", tx)
}

func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input models.ReconcileInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	tx, err := h.ledger.Reconcile(c.UserContext(), middleware.ActorFrom(c), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update transaction")
	}
	return response.Success(c, "Transaction updated successfully", tx)
}
