package echoServer

import (
	"net/http"

	"github.com/Mantas-M/NFTBookRental/app/echoServer/controller/auth"
	"github.com/Mantas-M/NFTBookRental/app/echoServer/controller/book"
	"github.com/Mantas-M/NFTBookRental/app/echoServer/controller/payment"
	"github.com/Mantas-M/NFTBookRental/app/echoServer/controller/rental"
	"github.com/Mantas-M/NFTBookRental/app/echoServer/controller/wallet"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Rental    *rental.Controller
	Wallet    *wallet.Controller
	Payment   *payment.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.POST("/payment/gateway", c.Payment.HandleGateway)
	pub.GET("/registry/interfaces/:id", c.Book.SupportsInterface)

	// Authenticated
	grp := e.Group("/v1")
	grp.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	grp.Use(extractUserID)

	// Books (static paths before :id)
	grp.GET("/books/available", c.Book.Available)
	grp.GET("/books/owned", c.Book.Owned)
	grp.GET("/books/rented", c.Rental.Rented)
	grp.GET("/books/:id", c.Book.Detail)
	grp.POST("/books", c.Book.Create)
	grp.DELETE("/books/:id", c.Book.Delete)
	grp.POST("/books/:id/transfer", c.Book.Transfer)
	grp.POST("/books/:id/approve", c.Book.Approve)

	// Rental workflow
	grp.POST("/books/:id/rent-request", c.Rental.Request)
	grp.POST("/books/:id/confirm-rent", c.Rental.ConfirmRent)
	grp.POST("/books/:id/reject-request", c.Rental.Reject)
	grp.POST("/books/:id/confirm-return", c.Rental.ConfirmReturn)
	grp.POST("/books/:id/user", c.Rental.SetUser)
	grp.GET("/books/:id/user", c.Rental.UserOf)

	// Wallet
	grp.POST("/wallet/topups", c.Wallet.CreateTopup)
	grp.GET("/wallet/ledger", c.Wallet.Ledger)
}

// extractUserID pulls the sub claim into user_id for the controllers.
func extractUserID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token, ok := ctx.Get("user").(*jwt.Token)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", int64(sub))
		return next(ctx)
	}
}
