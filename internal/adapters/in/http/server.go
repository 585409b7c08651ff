// Package http is the REST surface of the fulfilment core. The upstream gateway authenticates
// callers and passes their identity in headers; this package enforces roles per route group,
// validates requests against the embedded OpenAPI description and maps domain errors to status
// codes.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"gasdelivery/internal/core/application/mirror"
	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/application/usecases/queries"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder   commands.CreateOrderCommandHandler
	RequestRefill commands.RequestRefillCommandHandler
	RequestReturn commands.RequestReturnCommandHandler
	AcceptOrder   commands.AcceptOrderCommandHandler
	GenerateQR    commands.GenerateQRCommandHandler
	ScanQR        commands.ScanQRCommandHandler
	CompleteOrder commands.CompleteOrderCommandHandler
	CancelOrder   commands.CancelOrderCommandHandler
	MarkReturned  commands.MarkReturnedCommandHandler
	AssignDriver  commands.AssignDriverCommandHandler
	ClearPayment  commands.ClearPaymentCommandHandler

	GetOrder     queries.GetOrderQueryHandler
	ListPayments queries.ListPaymentsQueryHandler
}

// LedgerMirror is the spreadsheet sync as the admin routes drive it.
type LedgerMirror interface {
	Reconcile(ctx context.Context) (mirror.ReconcileResult, error)
	Rebuild(ctx context.Context) error
	ApplyUpdate(ctx context.Context, systemID, status, referenceID string) (bool, error)
}

type Server struct {
	handlers Handlers
	mirror   LedgerMirror
	logger   *slog.Logger
}

func NewServer(handlers Handlers, ledgerMirror LedgerMirror, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		mirror:   ledgerMirror,
		logger:   logger.With("component", "http"),
	}
}

// Register installs middleware and routes on e.
func (s *Server) Register(ctx context.Context, e *echo.Echo) error {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	validator, err := validateRequests(doc)
	if err != nil {
		return err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return err
	}

	e.HTTPErrorHandler = s.httpErrorHandler
	e.Use(middleware.RequestID())
	e.Use(requestLogger(s.logger))
	e.Use(middleware.Recover())
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	orders := e.Group("/orders")
	orders.POST("", s.CreateOrder, requireActor(kernel.RoleBuyer, kernel.RoleAdmin))
	orders.GET("/:id", s.GetOrder, requireActor())
	orders.POST("/:id/cancel", s.CancelOrder, requireActor(kernel.RoleBuyer, kernel.RoleSeller, kernel.RoleAdmin))

	buyer := e.Group("/buyer", requireActor(kernel.RoleBuyer, kernel.RoleAdmin))
	buyer.POST("/refill", s.RequestRefill)
	buyer.POST("/request-return-and-rate", s.RequestReturnAndRate)

	driver := e.Group("/driver", requireActor(kernel.RoleDriver))
	driver.POST("/orders/:id/accept", s.AcceptOrder)
	driver.POST("/orders/:id/generate-qr", s.GenerateQR)
	driver.POST("/orders/:id/scan-qr", s.ScanQR)

	seller := e.Group("/seller", requireActor(kernel.RoleSeller, kernel.RoleAdmin))
	seller.POST("/orders/:id/complete", s.CompleteOrder)

	admin := e.Group("/admin", requireActor(kernel.RoleAdmin))
	admin.POST("/orders/:id/assign", s.AssignDriver)
	admin.POST("/orders/:id/mark-returned", s.MarkReturned)
	admin.GET("/payments", s.ListPayments)
	admin.PATCH("/payments/:timelineId/clear", s.ClearPayment)
	admin.POST("/payments/sync", s.SyncPayments)
	admin.POST("/payments/rebuild-sheet", s.RebuildSheet)
	admin.POST("/payments/sync-webhook", s.SyncWebhook)

	return nil
}
