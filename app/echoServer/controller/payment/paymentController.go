package payment

import (
	"io"
	"log/slog"
	"net/http"

	paymentsvc "github.com/Mantas-M/NFTBookRental/service/payment"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// POST /v1/payment/gateway — invoice status webhook.
func (h *Controller) HandleGateway(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot read body"})
	}
	token := c.Request().Header.Get("x-callback-token")

	if err := h.Svc.HandleGateway(c.Request().Context(), token, raw); err != nil {
		h.Log.Error("gateway webhook", "err", err)
		// The gateway retries on non-2xx; a bad payload should not be retried.
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
