package book

import (
	"log/slog"
	"net/http"
	"strconv"

	catalogsvc "github.com/Mantas-M/NFTBookRental/service/catalog"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/util/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc catalogsvc.Service
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

// Create a book
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBookReq  true  "Book metadata"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /v1/books [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	id, err := h.Svc.Create(c.Request().Context(), uid(c), catalogsvc.CreateBookInput{
		CoverImage:  req.CoverImage,
		Author:      req.Author,
		Title:       req.Title,
		Year:        req.Year,
		Language:    req.Language,
		Description: req.Description,
	})
	if err != nil {
		h.Log.Error("book create", "err", err)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DELETE /v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), uid(c), id); err != nil {
		h.Log.Error("book delete", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/books/:id/transfer
func (h *Controller) Transfer(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req TransferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.Transfer(c.Request().Context(), uid(c), id, model.AccountID(req.To)); err != nil {
		h.Log.Error("book transfer", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "transferred"})
}

// POST /v1/books/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ApproveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if err := h.Svc.Approve(c.Request().Context(), uid(c), model.AccountID(req.Operator), id); err != nil {
		h.Log.Error("book approve", "err", err, "id", id)
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "approved"})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return mapErr(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/owned
func (h *Controller) Owned(c echo.Context) error {
	ids := h.Svc.OwnedBooks(c.Request().Context(), uid(c))
	return c.JSON(http.StatusOK, echo.Map{"data": ids})
}

// GET /v1/books/available
func (h *Controller) Available(c echo.Context) error {
	ids := h.Svc.AvailableBooks(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"data": ids})
}

// GET /v1/registry/interfaces/:id  (hex interface id, e.g. ad092b5c)
func (h *Controller) SupportsInterface(c echo.Context) error {
	raw, err := strconv.ParseUint(c.Param("id"), 16, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid interface id"})
	}
	return c.JSON(http.StatusOK, echo.Map{"supported": h.Svc.SupportsInterface(uint32(raw))})
}
