// Package main parking API.
//
// @title           Smart Parking API
// @version         1.0
// @description     Parking slot reservation and billing (areas, slots, bookings, wallet).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer"
	authctrl "github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/auth"
	bookingctrl "github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/booking"
	parkingctrl "github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/parking"
	vehiclectrl "github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/vehicle"
	walletctrl "github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/controller/wallet"
	"github.com/PrajwalNandaragi/Smart-Parking-System/app/echoServer/validation"
	"github.com/PrajwalNandaragi/Smart-Parking-System/config"
	authrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/auth"
	bookingrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/booking"
	parkingrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/parking"
	vehiclerepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/vehicle"
	walletrepo "github.com/PrajwalNandaragi/Smart-Parking-System/repository/wallet"
	authsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/auth"
	bookingsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/booking"
	parkingsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/parking"
	vehiclesvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/vehicle"
	walletsvc "github.com/PrajwalNandaragi/Smart-Parking-System/service/wallet"
	"github.com/PrajwalNandaragi/Smart-Parking-System/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	vr := vehiclerepo.New(db)
	pr := parkingrepo.New(db)
	br := bookingrepo.New(db)
	wr := walletrepo.New(db)

	// services
	as := authsvc.New(db, ar, cfg.JWTSecret, cfg.WelcomeBonus)
	vs := vehiclesvc.New(vr)
	ps := parkingsvc.New(pr)
	bs := bookingsvc.New(db, br, log)
	ws := walletsvc.New(db, wr, cfg.MaxRecharge)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	vehicleC := &vehiclectrl.Controller{Svc: vs, V: v, Log: log}
	parkingC := &parkingctrl.Controller{Svc: ps, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Vehicle: vehicleC,
		Parking: parkingC,
		Booking: bookingC,
		Wallet:  walletC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port, "env", cfg.Env)

	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped cleanly")
}
