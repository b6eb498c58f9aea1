package rental

import (
	"log/slog"
	"net/http"
	"strconv"

	rentalsvc "github.com/Mantas-M/NFTBookRental/service/rental"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/util/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rentalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func uid(c echo.Context) model.AccountID {
	id, _ := c.Get("user_id").(int64)
	return model.AccountID(id)
}

func mapErr(c echo.Context, err error) error {
	switch apperr.CodeOf(err) {
	case apperr.NotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.Unauthorized:
		return c.JSON(http.StatusForbidden, echo.Map{"message": err.Error()})
	case apperr.Conflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case apperr.Validation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

func bookID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Request a rental
// @Summary      Request to rent a book, escrowing the exact fee
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Book id"
// @Param        payload  body  RentRequestReq  true  "Payment"
// @Success      201  {object}  map[string]any
// @Router       /v1/books/{id}/rent-request [post]
func (h *Controller) Request(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RentRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.Request(c.Request().Context(), uid(c), id, req.Payment); err != nil {
		h.Log.Error("rent request", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "requested"})
}

// POST /v1/books/:id/confirm-rent
func (h *Controller) ConfirmRent(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ConfirmRentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.ConfirmRent(c.Request().Context(), uid(c), id, req.Expires); err != nil {
		h.Log.Error("confirm rent", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rented", "expires": req.Expires})
}

// POST /v1/books/:id/reject-request
func (h *Controller) Reject(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.RejectRequest(c.Request().Context(), uid(c), id); err != nil {
		h.Log.Error("reject request", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rejected"})
}

// POST /v1/books/:id/confirm-return
func (h *Controller) ConfirmReturn(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.ConfirmReturn(c.Request().Context(), uid(c), id); err != nil {
		h.Log.Error("confirm return", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// POST /v1/books/:id/user
func (h *Controller) SetUser(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.SetUser(c.Request().Context(), uid(c), id, model.AccountID(req.User), req.Expires); err != nil {
		h.Log.Error("set user", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user set"})
}

// GET /v1/books/:id/user
func (h *Controller) UserOf(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	user, err := h.Svc.UserOf(c.Request().Context(), id)
	if err != nil {
		return mapErr(c, err)
	}
	expires, err := h.Svc.UserExpires(c.Request().Context(), id)
	if err != nil {
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "expires": expires})
}

// GET /v1/books/rented
func (h *Controller) Rented(c echo.Context) error {
	ids := h.Svc.RentedBooks(c.Request().Context(), uid(c))
	return c.JSON(http.StatusOK, echo.Map{"data": ids})
}
