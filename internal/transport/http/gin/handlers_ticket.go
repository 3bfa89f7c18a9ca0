package httpgin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
	ticketsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/ticket"
)

// @Summary  List ticket categories
// @Param    all  query  bool  false  "include inactive"
// @Success  200  {object}  Response
// @Router   /api/v1/tickets [get]
func handleListTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		activeOnly := c.Query("all") != "true"

		out, err := svcs.Ticket.ListTickets(c.Request.Context(), activeOnly)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "tickets", out)
	}
}

// @Summary  Get one ticket category
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		t, err := svcs.Ticket.GetTicket(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "ticket", t)
	}
}

// @Summary  Create a ticket category
// @Security BearerAuth
// @Param    req  body  CreateTicketRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/tickets [post]
func handleCreateTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		t, err := svcs.Ticket.CreateTicket(c.Request.Context(), &domain.Ticket{
			Type:          req.Type,
			Name:          req.Name,
			Price:         req.Price,
			TotalQuantity: req.TotalQuantity,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "ticket created", t)
	}
}

// @Summary  Purchase tickets
// @Param    req  body  PurchaseTicketsRequest  true  "payload"
// @Success  201  {object}  Response
// @Failure  409  {object}  Response  "not enough tickets"
// @Router   /api/v1/tickets/purchase [post]
func handlePurchaseTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseTicketsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		svcReq := ticketsvc.PurchaseRequest{
			PurchaserName: req.PurchaserName,
			Email:         req.Email,
			PhoneNumber:   req.PhoneNumber,
		}
		for _, it := range req.Items {
			svcReq.Items = append(svcReq.Items, struct {
				TicketID uuid.UUID
				Quantity int
			}{TicketID: it.TicketID, Quantity: it.Quantity})
		}

		out, err := svcs.Ticket.Purchase(c.Request.Context(), svcReq)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "purchase created", out)
	}
}

// @Summary  Verify a ticket payment
// @Param    reference  path  string  true  "Purchase reference"
// @Success  200  {object}  Response
// @Router   /api/v1/tickets/verify/{reference} [get]
func handleVerifyPurchase(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svcs.Ticket.VerifyPurchase(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "purchase verified", p)
	}
}

// @Summary  Get one ticket purchase
// @Param    id  path  string  true  "Purchase ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/tickets/purchases/{id} [get]
func handleGetPurchase(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		p, err := svcs.Ticket.GetPurchase(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "purchase", p)
	}
}
