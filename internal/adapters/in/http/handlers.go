package http

import (
	"net/http"

	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/application/usecases/queries"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const headerIdempotencyKey = "Idempotency-Key"

// pathUUID binds a simple-style path parameter the way generated oapi-codegen servers do.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(raw.String())
}

func (s *Server) CreateOrder(c echo.Context) error {
	actor := actorFrom(c)
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	buyerID, err := kernel.UUIDFromString(req.BuyerID.String())
	if err != nil {
		return badRequest(c, "invalid buyerId")
	}
	if actor.Role == kernel.RoleBuyer && actor.ID != buyerID.String() {
		return s.fail(c, commands.ErrForbidden)
	}
	sellerID, err := kernel.UUIDFromString(req.SellerID.String())
	if err != nil {
		return badRequest(c, "invalid sellerId")
	}
	warehouseID, err := kernel.UUIDFromString(req.WarehouseID.String())
	if err != nil {
		return badRequest(c, "invalid warehouseId")
	}
	orderType := kernel.OrderTypeNew
	if req.OrderType != "" {
		if orderType, err = kernel.ParseOrderType(req.OrderType); err != nil {
			return s.fail(c, err)
		}
	}
	size, err := kernel.ParseCylinderSize(req.CylinderSize)
	if err != nil {
		return s.fail(c, err)
	}
	method, err := ledger.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return s.fail(c, err)
	}
	point, err := kernel.NewLocation(req.DeliveryPoint.Lat, req.DeliveryPoint.Lng)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(commands.CreateOrderParams{
		Actor:          actor,
		BuyerID:        buyerID,
		SellerID:       sellerID,
		WarehouseID:    warehouseID,
		OrderType:      orderType,
		CylinderSize:   size,
		Quantity:       req.Quantity,
		AddOnsTotal:    req.AddOnsTotal,
		Urgent:         req.Urgent,
		PaymentMethod:  method,
		DeliveryPoint:  point,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, CreateOrderResponse{
		OrderID:    res.OrderID.Bytes(),
		Status:     res.Status.String(),
		GrandTotal: money(res.GrandTotal),
		Replayed:   res.Replayed,
	})
}

func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	query, err := queries.NewGetOrderQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	resp, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrder(resp))
}

func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	var req CancelRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cmd, err := commands.NewOrderActionCommand(orderID, actorFrom(c), req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{OrderID: orderID.Bytes(), Status: order.Cancelled.String()})
}

func (s *Server) RequestRefill(c echo.Context) error {
	var req OrderRef
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	orderID, err := kernel.UUIDFromString(req.OrderID.String())
	if err != nil {
		return badRequest(c, "invalid orderId")
	}
	cmd, err := commands.NewRequestRefillCommand(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	status, err := s.handlers.RequestRefill.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{
		OrderID: orderID.Bytes(), Status: status.String(), OrderType: kernel.OrderTypeRefill.String(),
	})
}

func (s *Server) RequestReturnAndRate(c echo.Context) error {
	var req ReturnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	orderID, err := kernel.UUIDFromString(req.OrderID.String())
	if err != nil {
		return badRequest(c, "invalid orderId")
	}
	cmd, err := commands.NewRequestReturnCommand(orderID, req.Rating, req.Review, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	status, err := s.handlers.RequestReturn.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{
		OrderID: orderID.Bytes(), Status: status.String(), OrderType: kernel.OrderTypeReturn.String(),
	})
}

// driverAndOrder resolves the order in the path and the calling driver.
func (s *Server) driverAndOrder(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	driverID, err := kernel.UUIDFromString(actorFrom(c).ID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, driverID, nil
}

func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, driverID, err := s.driverAndOrder(c)
	if err != nil {
		return badRequest(c, "invalid order or driver id")
	}
	var req AcceptRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cmd, err := commands.NewAcceptOrderCommand(orderID, driverID, req.CylinderCodes, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AcceptOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{OrderID: orderID.Bytes(), Status: order.Accepted.String()})
}

func (s *Server) GenerateQR(c echo.Context) error {
	orderID, driverID, err := s.driverAndOrder(c)
	if err != nil {
		return badRequest(c, "invalid order or driver id")
	}
	cmd, err := commands.NewGenerateQRCommand(orderID, driverID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	code, err := s.handlers.GenerateQR.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, QRCode{OrderID: orderID.Bytes(), QRCode: code})
}

func (s *Server) ScanQR(c echo.Context) error {
	orderID, driverID, err := s.driverAndOrder(c)
	if err != nil {
		return badRequest(c, "invalid order or driver id")
	}
	var req ScanRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cmd, err := commands.NewScanQRCommand(orderID, driverID, req.Code, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.ScanQR.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{
		OrderID: orderID.Bytes(), Status: res.Status.String(), OrderType: res.OrderType.String(),
	})
}

func (s *Server) CompleteOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	cmd, err := commands.NewOrderActionCommand(orderID, actorFrom(c), "")
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CompleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{OrderID: orderID.Bytes(), Status: order.Completed.String()})
}

func (s *Server) MarkReturned(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	cmd, err := commands.NewOrderActionCommand(orderID, actorFrom(c), "walk-in return")
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.MarkReturned.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{OrderID: orderID.Bytes(), Status: order.Returned.String()})
}

func (s *Server) AssignDriver(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	var req AssignRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	driverID, err := kernel.UUIDFromString(req.DriverID.String())
	if err != nil {
		return badRequest(c, "invalid driverId")
	}
	actor := actorFrom(c)
	cmd, err := commands.NewManualAssignDriverCommand(orderID, driverID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AssignDriver.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	// assignment lands on assigned, refill_pickup or return_pickup depending on the leg
	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return s.fail(c, err)
	}
	resp, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatus{OrderID: orderID.Bytes(), Status: resp.Status, OrderType: resp.OrderType})
}

func (s *Server) ListPayments(c echo.Context) error {
	var (
		status        string
		limit, offset int
	)
	params := c.QueryParams()
	if err := runtime.BindQueryParameter("form", true, false, "status", params, &status); err != nil {
		return badRequest(c, "invalid status")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		return badRequest(c, "invalid limit")
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", params, &offset); err != nil {
		return badRequest(c, "invalid offset")
	}

	query, err := queries.NewListPaymentsQuery(status, limit, offset)
	if err != nil {
		return s.fail(c, err)
	}
	views, err := s.handlers.ListPayments.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]Payment, len(views))
	for i, v := range views {
		out[i] = toPayment(v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) ClearPayment(c echo.Context) error {
	timelineID, err := pathUUID(c, "timelineId")
	if err != nil {
		return badRequest(c, "invalid timeline id")
	}
	var req ClearPaymentRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cmd, err := commands.NewClearPaymentCommand(timelineID, req.ReferenceID, req.Notes, actorFrom(c).String())
	if err != nil {
		return s.fail(c, err)
	}
	res, err := s.handlers.ClearPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	e := res.Entry
	return c.JSON(http.StatusOK, Payment{
		TimelineID:    e.TimelineID().Bytes(),
		OrderID:       res.OrderID.Bytes(),
		Type:          string(e.Type()),
		Cause:         e.Cause(),
		Amount:        money(e.Amount()),
		Liability:     string(e.Liability()),
		PaymentMethod: string(e.PaymentMethod()),
		Status:        string(e.Status()),
		DriverID:      optionalUUID(e.DriverID()),
		CreatedAt:     e.CreatedAt(),
		ReferenceID:   e.ReferenceID(),
		ProcessedBy:   e.ProcessedBy(),
		ProcessedAt:   e.ProcessedAt(),
		Notes:         e.Notes(),
	})
}

// SyncPayments pulls the sheet and applies staff edits now instead of waiting for the heartbeat.
func (s *Server) SyncPayments(c echo.Context) error {
	res, err := s.mirror.Reconcile(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SyncResponse{Seen: res.Seen, Cleared: res.Cleared, Skipped: res.Skipped, Failed: res.Failed})
}

func (s *Server) RebuildSheet(c echo.Context) error {
	if err := s.mirror.Rebuild(c.Request().Context()); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) SyncWebhook(c echo.Context) error {
	var req SyncWebhookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	applied, err := s.mirror.ApplyUpdate(c.Request().Context(), req.SystemID, req.Status, req.ReferenceID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SyncWebhookResponse{Applied: applied})
}
