// app/echoServer/controller/wallet/walletController.go
package wallet

import (
	"log/slog"
	"net/http"

	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/jwtx"
	"github.com/PrajwalNandaragi/Smart-Parking-System/model"
	walletsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/wallet"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc walletsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/wallet/recharge
func (h *Controller) Recharge(c echo.Context) error {
	var req model.RechargeReq
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

	newBalance, err := h.Svc.Recharge(c.Request().Context(), uid, req.Amount)
	if err != nil {
		switch walletsvc.Code(err) {
		case walletsvc.ErrInvalidAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid recharge amount"})
		case walletsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "wallet not found"})
		default:
			h.Log.Error("wallet recharge", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "recharged",
		"balance": newBalance,
	})
}

// GET /v1/wallet/balance
func (h *Controller) Balance(c echo.Context) error {
	uid := jwtx.UserID(c)
	bal, err := h.Svc.Balance(c.Request().Context(), uid)
	if err != nil {
		if walletsvc.Code(err) == walletsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "wallet not found"})
		}
		h.Log.Error("wallet balance", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"balance": bal})
}

// GET /v1/wallet/payments
func (h *Controller) MyPayments(c echo.Context) error {
	uid := jwtx.UserID(c)
	rows, err := h.Svc.MyPayments(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("payment list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/payments
func (h *Controller) AllPayments(c echo.Context) error {
	rows, err := h.Svc.AllPayments(c.Request().Context())
	if err != nil {
		h.Log.Error("payment list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
