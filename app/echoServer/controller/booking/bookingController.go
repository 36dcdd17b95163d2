// app/echoServer/controller/booking/bookingController.go
package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/jwtx"
	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	bookingsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Create a booking
// @Summary      Book a slot
// @Description  Reserve an available slot for one of the caller's vehicles
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body  model.CreateBookingReq  true  "Booking payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "slot no longer available"
// @Router       /v1/bookings [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookingReq
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

	b, err := h.Svc.Create(c.Request().Context(), uid, req.VehicleID, req.SlotID, req.AreaID)
	if err != nil {
		switch bookingsvc.Code(err) {
		case bookingsvc.ErrSlotUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "slot no longer available"})
		case bookingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "vehicle not found"})
		case bookingsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("booking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": b.ID,
		"entry_time": b.EntryTime,
		"status":     b.Status,
	})
}

// Exit a booking
// @Summary      Exit and pay
// @Description  Close an active booking, bill the wallet, free the slot
// @Tags         bookings
// @Produce      json
// @Param        id  path  int  true  "Booking id"
// @Success      200  {object}  bookingsvc.ExitResult
// @Failure      402  {object}  map[string]any "insufficient wallet balance"
// @Failure      404  {object}  map[string]any "no active booking"
// @Router       /v1/bookings/{id}/exit [post]
func (h *Controller) Exit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid := jwtx.UserID(c)

	res, err := h.Svc.ProcessExit(c.Request().Context(), uid, id)
	if err != nil {
		var ib *bookingsvc.InsufficientBalanceError
		if errors.As(err, &ib) {
			return c.JSON(http.StatusPaymentRequired, echo.Map{
				"message":   "insufficient wallet balance, please recharge",
				"amount":    ib.Amount,
				"balance":   ib.Balance,
				"shortfall": ib.Shortfall(),
			})
		}
		switch bookingsvc.Code(err) {
		case bookingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no active booking"})
		case bookingsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("booking exit", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, res)
}

// GET /v1/bookings/my
func (h *Controller) MyHistory(c echo.Context) error {
	uid := jwtx.UserID(c)
	rows, err := h.Svc.MyHistory(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/bookings?status=Active
func (h *Controller) List(c echo.Context) error {
	status := model.BookingStatus(c.QueryParam("status"))
	rows, err := h.Svc.History(c.Request().Context(), status)
	if err != nil {
		if bookingsvc.Code(err) == bookingsvc.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown status"})
		}
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
