package httpgin

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	gateway "github.com/teejohn247/eth-project-backend-sub001/internal/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
	paymentsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
)

var paymentKinds = map[string]domain.PaymentKind{
	string(domain.PaymentKindRegistration): domain.PaymentKindRegistration,
	string(domain.PaymentKindBulk):         domain.PaymentKindBulk,
	string(domain.PaymentKindVote):         domain.PaymentKindVote,
	string(domain.PaymentKindTicket):       domain.PaymentKindTicket,
}

// @Summary  Initialize a payment
// @Param    req  body  InitializePaymentRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/payments/initialize [post]
func handleInitializePayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitializePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		kind, ok := paymentKinds[req.Kind]
		if !ok {
			badRequest(c, "unknown payment kind")
			return
		}

		var userID *uuid.UUID
		email := req.Email
		if claims := claimsFrom(c); claims != nil {
			userID = &claims.UserID
			if email == "" {
				email = claims.Email
			}
		}
		if email == "" {
			badRequest(c, "email is required")
			return
		}

		out, err := svcs.Payment.Initialize(
			c.Request.Context(),
			kind,
			req.EntityID,
			userID,
			email,
			req.Reference,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "payment initialized", out)
	}
}

// @Summary  Verify a payment against the gateway
// @Param    reference  path  string  true  "Transaction reference"
// @Success  200  {object}  Response
// @Router   /api/v1/payments/verify/{reference} [get]
func handleVerifyPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := svcs.Payment.Verify(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "payment verified", txn)
	}
}

// @Summary  Gateway webhook
// @Success  200  {object}  Response
// @Failure  401  {object}  Response  "bad signature"
// @Router   /api/v1/payments/webhook [post]
func handlePaymentWebhook(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			badRequest(c, "cannot read body")
			return
		}

		txn, err := svcs.Payment.HandleWebhook(
			c.Request.Context(),
			body,
			c.GetHeader(gateway.SignatureHeader),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "webhook processed", gin.H{"reference": txn.Reference, "status": txn.Status})
	}
}

// @Summary  Save a client-reported payment outcome
// @Param    req  body  SavePaymentRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/payments/save [post]
func handleSavePayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SavePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		// gateways report status as either a string enum or a numeric code
		var rawStatus any
		dec := json.NewDecoder(bytes.NewReader(req.Status))
		dec.UseNumber()
		if err := dec.Decode(&rawStatus); err != nil {
			badRequest(c, "invalid status")
			return
		}

		txn, err := svcs.Payment.Save(c.Request.Context(), req.Reference, rawStatus, req.Status)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "payment saved", txn)
	}
}

// @Summary  List the caller's transactions
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/payments/me [get]
func handleListMyPayments(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		out, err := svcs.Payment.ListMine(c.Request.Context(), claims.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "transactions", out)
	}
}

// @Summary  Get one transaction by reference
// @Security BearerAuth
// @Param    reference  path  string  true  "Transaction reference"
// @Success  200  {object}  Response
// @Router   /api/v1/payments/{reference} [get]
func handleGetPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := svcs.Payment.Get(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondErr(c, err)
			return
		}

		claims := claimsFrom(c)
		if !isAdmin(c) && (txn.UserID == nil || claims == nil || *txn.UserID != claims.UserID) {
			respondErr(c, paymentsvc.ErrNotFound)
			return
		}

		respondOK(c, "transaction", txn)
	}
}

// @Summary  Refund a completed transaction
// @Security BearerAuth
// @Param    reference  path  string  true  "Transaction reference"
// @Success  200  {object}  Response
// @Router   /api/v1/payments/refund/{reference} [post]
func handleRefundPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := svcs.Payment.Refund(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "payment refunded", txn)
	}
}
