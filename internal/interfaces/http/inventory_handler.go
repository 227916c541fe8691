package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/application/inventory"
	"github.com/jcamargo/invenly-api/internal/domain"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de inventario (protegido).
type InventoryHandler struct {
	ledger  *inventory.StockLedger
	history *inventory.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, history: history}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Aplica una entrada o salida de stock de forma atómica: el
// @Description  movimiento y el nuevo stock se escriben en la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (entrada|salida), quantity, supplier_id (opcional, entradas)"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.ledger.Apply(c.Context(), inventory.ApplyInput{
		ProductID:  in.ProductID,
		UserID:     userID,
		Type:       entity.MovementType(in.Type),
		Quantity:   in.Quantity,
		SupplierID: in.SupplierID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o proveedor no encontrado"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{
		MovementID: res.Movement.ID,
		NewStock:   res.NewStock,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        type        query  string  false  "entrada | salida"
// @Param        from        query  string  false  "fecha inicial (RFC3339 o 2006-01-02)"
// @Param        to          query  string  false  "fecha final (RFC3339 o 2006-01-02)"
// @Param        limit       query  int     false  "máx. resultados"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.history.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ExportCSV descarga el historial filtrado como CSV.
func (h *InventoryHandler) ExportCSV(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, err := h.history.ExportCSV(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.csv"`)
	return c.Send(data)
}

// ExportPDF descarga el historial filtrado como PDF.
func (h *InventoryHandler) ExportPDF(c *fiber.Ctx) error {
	filter, err := movementFilterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, err := h.history.ExportPDF(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
	return c.Send(data)
}

// movementFilterFromQuery arma el filtro del historial desde la query string.
func movementFilterFromQuery(c *fiber.Ctx) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}
	if t := c.Query("type"); t != "" {
		mt := entity.MovementType(t)
		if !mt.Valid() {
			return f, errors.New("type debe ser entrada o salida")
		}
		f.Type = mt
	}
	if from := c.Query("from"); from != "" {
		ts, err := parseDate(from)
		if err != nil {
			return f, errors.New("from: fecha inválida")
		}
		f.From = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := parseDate(to)
		if err != nil {
			return f, errors.New("to: fecha inválida")
		}
		// Un "to" de solo fecha incluye el día completo.
		if len(to) == len("2006-01-02") {
			ts = ts.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = &ts
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", s)
}
