// Package main NFT book rental API.
//
// @title           NFT Book Rental API
// @version         1.0
// @description     Rentable books with delegated usage roles and escrowed fees.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/Mantas-M/NFTBookRental/app/echoServer"
	authctrl "github.com/Mantas-M/NFTBookRental/app/echoServer/controller/auth"
	bookctrl "github.com/Mantas-M/NFTBookRental/app/echoServer/controller/book"
	paymentctrl "github.com/Mantas-M/NFTBookRental/app/echoServer/controller/payment"
	rentalctrl "github.com/Mantas-M/NFTBookRental/app/echoServer/controller/rental"
	walletctrl "github.com/Mantas-M/NFTBookRental/app/echoServer/controller/wallet"
	"github.com/Mantas-M/NFTBookRental/app/echoServer/validation"
	"github.com/Mantas-M/NFTBookRental/config"
	"github.com/Mantas-M/NFTBookRental/event"
	"github.com/Mantas-M/NFTBookRental/registry"
	"github.com/Mantas-M/NFTBookRental/repository/bookstore"
	gatewayrepo "github.com/Mantas-M/NFTBookRental/repository/gateway"
	"github.com/Mantas-M/NFTBookRental/repository/rolestore"
	userrepo "github.com/Mantas-M/NFTBookRental/repository/user"
	walletrepo "github.com/Mantas-M/NFTBookRental/repository/wallet"
	authsvc "github.com/Mantas-M/NFTBookRental/service/auth"
	catalogsvc "github.com/Mantas-M/NFTBookRental/service/catalog"
	paymentsvc "github.com/Mantas-M/NFTBookRental/service/payment"
	rentalsvc "github.com/Mantas-M/NFTBookRental/service/rental"
	walletsvc "github.com/Mantas-M/NFTBookRental/service/wallet"
	"github.com/Mantas-M/NFTBookRental/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// contract state
	var engineMu sync.RWMutex
	books := bookstore.New()
	roles := rolestore.New()
	reg := registry.New()
	pub := &event.SlogPublisher{Log: log}

	// repos
	ur := userrepo.New(db)
	wr := walletrepo.New(db)
	gr := gatewayrepo.NewHTTP(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayCallbackToken)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	ws := walletsvc.New(db, wr, gr)
	cs := catalogsvc.New(&engineMu, books, roles, reg, pub)
	rs := rentalsvc.New(&engineMu, books, roles, reg, ws, pub)
	ps := paymentsvc.New(db, gr, wr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: cs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, Log: log}

	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Book:      bookC,
		Rental:    rentalC,
		Wallet:    walletC,
		Payment:   paymentC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
