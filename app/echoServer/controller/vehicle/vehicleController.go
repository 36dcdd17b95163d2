// app/echoServer/controller/vehicle/vehicleController.go
package vehicle

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/jwtx"
	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	vehiclesvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/vehicle"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc vehiclesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/vehicles
func (h *Controller) Add(c echo.Context) error {
	var req model.AddVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid := jwtx.UserID(c)

	v, err := h.Svc.Add(c.Request().Context(), uid, req.Number, req.Type)
	if err != nil {
		switch vehiclesvc.Code(err) {
		case vehiclesvc.ErrVehicleTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle number already registered"})
		case vehiclesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("vehicle add", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"vehicle": v})
}

// GET /v1/vehicles/my
func (h *Controller) ListMine(c echo.Context) error {
	uid := jwtx.UserID(c)
	rows, err := h.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("vehicle list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// DELETE /v1/vehicles/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid := jwtx.UserID(c)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch vehiclesvc.Code(err) {
		case vehiclesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case vehiclesvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case vehiclesvc.ErrHasDependents:
			return c.JSON(http.StatusConflict, echo.Map{"message": "vehicle has an active booking"})
		default:
			h.Log.Error("vehicle delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
