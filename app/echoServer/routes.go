// app/echoServer/routes.go
package echoServer

import (
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/auth"
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/booking"
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/parking"
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/vehicle"
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/wallet"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Vehicle   *vehicle.Controller
	Parking   *parking.Controller
	Booking   *booking.Controller
	Wallet    *wallet.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Authenticated
	api := e.Group("/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	api.Use(Claims())

	// Vehicles
	api.POST("/vehicles", c.Vehicle.Add)
	api.GET("/vehicles/my", c.Vehicle.ListMine)
	api.DELETE("/vehicles/:id", c.Vehicle.Delete)

	// Areas & slots (read side)
	api.GET("/areas", c.Parking.ListAreas)
	api.GET("/areas/:id/slots", c.Parking.ListSlots)

	// Bookings
	api.POST("/bookings", c.Booking.Create)
	api.POST("/bookings/:id/exit", c.Booking.Exit)
	api.GET("/bookings/my", c.Booking.MyHistory)

	// Wallet
	api.POST("/wallet/recharge", c.Wallet.Recharge)
	api.GET("/wallet/balance", c.Wallet.Balance)
	api.GET("/wallet/payments", c.Wallet.MyPayments)

	// Admin
	adm := api.Group("/admin")
	adm.Use(AdminOnly())

	adm.POST("/areas", c.Parking.CreateArea)
	adm.PUT("/areas/:id", c.Parking.UpdateArea)
	adm.DELETE("/areas/:id", c.Parking.DeleteArea)

	adm.POST("/slots", c.Parking.CreateSlot)
	adm.PUT("/slots/:id", c.Parking.UpdateSlot)
	adm.DELETE("/slots/:id", c.Parking.DeleteSlot)

	adm.GET("/bookings", c.Booking.List)
	adm.GET("/payments", c.Wallet.AllPayments)
}
