// app/echoServer/controller/parking/parkingController.go
package parking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	parkingsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/parking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc parkingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/areas
func (h *Controller) ListAreas(c echo.Context) error {
	rows, err := h.Svc.ListAreas(c.Request().Context())
	if err != nil {
		h.Log.Error("area list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/areas/:id/slots?available=true
func (h *Controller) ListSlots(c echo.Context) error {
	areaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || areaID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if c.QueryParam("available") == "true" {
		rows, err := h.Svc.AvailableSlots(c.Request().Context(), areaID)
		if err != nil {
			h.Log.Error("slot list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": rows})
	}

	rows, err := h.Svc.ListSlots(c.Request().Context(), areaID)
	if err != nil {
		h.Log.Error("slot list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/areas
func (h *Controller) CreateArea(c echo.Context) error {
	var req model.AreaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	id, err := h.Svc.CreateArea(c.Request().Context(), req)
	if err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("area create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"area_id": id})
}

// PUT /v1/admin/areas/:id
func (h *Controller) UpdateArea(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.AreaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.UpdateArea(c.Request().Context(), id, req); err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "area not found"})
		case parkingsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("area update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/admin/areas/:id
func (h *Controller) DeleteArea(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.DeleteArea(c.Request().Context(), id); err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "area not found"})
		case parkingsvc.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"message": "area still has slots"})
		default:
			h.Log.Error("area delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/admin/slots
func (h *Controller) CreateSlot(c echo.Context) error {
	var req model.SlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	id, err := h.Svc.CreateSlot(c.Request().Context(), req)
	if err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "area not found"})
		case parkingsvc.ErrSlotTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "slot number already exists in area"})
		case parkingsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("slot create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"slot_id": id})
}

// PUT /v1/admin/slots/:id
func (h *Controller) UpdateSlot(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req struct {
		Number string           `json:"slot_number" validate:"required"`
		Status model.SlotStatus `json:"status" validate:"required,oneof=Available Occupied Maintenance"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.UpdateSlot(c.Request().Context(), id, req.Number, req.Status); err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "slot not found"})
		case parkingsvc.ErrSlotTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "slot number already exists in area"})
		case parkingsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("slot update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/admin/slots/:id
func (h *Controller) DeleteSlot(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.DeleteSlot(c.Request().Context(), id); err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "slot not found"})
		case parkingsvc.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"message": "slot has an active booking"})
		default:
			h.Log.Error("slot delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
