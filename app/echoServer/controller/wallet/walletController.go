package wallet

import (
	"log/slog"
	"net/http"

	walletsvc "github.com/Mantas-M/NFTBookRental/service/wallet"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/util/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc walletsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type CreateTopupReq struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	PayerEmail string  `json:"payer_email" validate:"required,email"`
}

func uid(c echo.Context) model.AccountID {
	id, _ := c.Get("user_id").(int64)
	return model.AccountID(id)
}

// POST /v1/wallet/topups
func (h *Controller) CreateTopup(c echo.Context) error {
	var req CreateTopupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	out, err := h.Svc.CreateTopup(c.Request().Context(), uid(c), req.Amount, req.PayerEmail)
	if err != nil {
		if apperr.Is(err, apperr.Validation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("topup create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"invoice_id":   out.InvoiceID,
		"payment_link": out.PaymentLink,
		"expires_at":   out.ExpiresAt,
	})
}

// GET /v1/wallet/ledger
func (h *Controller) Ledger(c echo.Context) error {
	rows, err := h.Svc.Ledger(c.Request().Context(), uid(c))
	if err != nil {
		h.Log.Error("ledger", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
