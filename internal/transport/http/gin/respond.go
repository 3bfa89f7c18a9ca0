package httpgin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/adminreport"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/bulk"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/complaint"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/contestant"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/location"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/registration"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/ticket"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: "bad request", Error: msg})
}

func respondStatus(c *gin.Context, status int, msg string, err error) {
	resp := Response{Success: false, Message: msg}
	if err != nil && !productionEnv {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// productionEnv suppresses raw error details in responses. Set once at
// router construction.
var productionEnv bool

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var missing registration.IncompleteStepsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "required steps not completed",
			Data:    gin.H{"missingSteps": missing.Missing},
		})
		return
	}

	var limited contestant.RateLimitedError
	if errors.As(err, &limited) {
		retry := int(limited.RetryAfter.Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		respondStatus(c, http.StatusTooManyRequests, "too many votes", err)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrEmailTaken):
		respondStatus(c, http.StatusConflict, "email already registered", err)
	case errors.Is(err, auth.ErrUserNotFound):
		respondStatus(c, http.StatusNotFound, "user not found", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondStatus(c, http.StatusUnauthorized, "invalid credentials", err)
	case errors.Is(err, auth.ErrInvalidCode):
		respondStatus(c, http.StatusBadRequest, "invalid or expired code", err)
	case errors.Is(err, auth.ErrEmailNotVerified):
		respondStatus(c, http.StatusForbidden, "email not verified", err)
	case errors.Is(err, auth.ErrPasswordNotSet):
		respondStatus(c, http.StatusForbidden, "password not set", err)

	// registration service
	case errors.Is(err, registration.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "registration not found", err)
	case errors.Is(err, registration.ErrNotOwner):
		respondStatus(c, http.StatusForbidden, "not your registration", err)
	case errors.Is(err, registration.ErrNotDraft):
		respondStatus(c, http.StatusBadRequest, "registration is no longer editable", err)
	case errors.Is(err, registration.ErrInvalidStep):
		respondStatus(c, http.StatusBadRequest, "invalid step number", err)
	case errors.Is(err, registration.ErrPaymentRequired):
		respondStatus(c, http.StatusBadRequest, "registration fee not paid", err)
	case errors.Is(err, registration.ErrTermsNotAgreed):
		respondStatus(c, http.StatusBadRequest, "terms must be accepted", err)

	// bulk service
	case errors.Is(err, bulk.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "bulk registration not found", err)
	case errors.Is(err, bulk.ErrNotOwner):
		respondStatus(c, http.StatusForbidden, "not your bulk registration", err)
	case errors.Is(err, bulk.ErrNotActive):
		respondStatus(c, http.StatusBadRequest, "bulk registration is not active", err)
	case errors.Is(err, bulk.ErrNoSlotsAvailable):
		respondStatus(c, http.StatusBadRequest, "no slots available", err)
	case errors.Is(err, bulk.ErrDuplicateParticipant):
		respondStatus(c, http.StatusConflict, "participant already invited", err)
	case errors.Is(err, bulk.ErrEmailTaken):
		respondStatus(c, http.StatusConflict, "email already belongs to an account", err)
	case errors.Is(err, bulk.ErrInvalidCode):
		respondStatus(c, http.StatusBadRequest, "invalid or expired code", err)
	case errors.Is(err, bulk.ErrInvalidSlots):
		respondStatus(c, http.StatusBadRequest, "total slots must be positive", err)
	case errors.Is(err, bulk.ErrUnknownParticipant):
		respondStatus(c, http.StatusNotFound, "email is not an invited participant", err)

	// payment service
	case errors.Is(err, payment.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "transaction not found", err)
	case errors.Is(err, payment.ErrInvalidAmount):
		respondStatus(c, http.StatusBadRequest, "invalid amount", err)
	case errors.Is(err, payment.ErrInvalidKind):
		respondStatus(c, http.StatusBadRequest, "unknown payment kind", err)
	case errors.Is(err, payment.ErrEntityNotFound):
		respondStatus(c, http.StatusNotFound, "target entity not found", err)
	case errors.Is(err, payment.ErrInvalidSignature):
		respondStatus(c, http.StatusUnauthorized, "invalid signature", err)
	case errors.Is(err, payment.ErrVerifyInFlight):
		c.Header("Retry-After", "1")
		respondStatus(c, http.StatusConflict, "verification already in progress", err)
	case errors.Is(err, payment.ErrNotRefundable):
		respondStatus(c, http.StatusBadRequest, "only completed transactions can be refunded", err)

	// contestant service
	case errors.Is(err, contestant.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "contestant not found", err)
	case errors.Is(err, contestant.ErrRegNotFound):
		respondStatus(c, http.StatusNotFound, "registration not found", err)
	case errors.Is(err, contestant.ErrNotPromotable):
		respondStatus(c, http.StatusBadRequest, "registration is not eligible for promotion", err)
	case errors.Is(err, contestant.ErrInvalidVoteCount):
		respondStatus(c, http.StatusBadRequest, "number of votes must be positive", err)
	case errors.Is(err, contestant.ErrNotVotable):
		respondStatus(c, http.StatusBadRequest, "contestant is not accepting votes", err)
	case errors.Is(err, contestant.ErrEmailMismatch):
		respondStatus(c, http.StatusBadRequest, "email does not match the contestant", err)

	// ticket service
	case errors.Is(err, ticket.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "ticket not found", err)
	case errors.Is(err, ticket.ErrPurchaseMissing):
		respondStatus(c, http.StatusNotFound, "purchase not found", err)
	case errors.Is(err, ticket.ErrInactive):
		respondStatus(c, http.StatusBadRequest, "ticket is not on sale", err)
	case errors.Is(err, ticket.ErrSoldOut):
		respondStatus(c, http.StatusConflict, "not enough tickets available", err)
	case errors.Is(err, ticket.ErrEmptyPurchase):
		respondStatus(c, http.StatusBadRequest, "purchase has no items", err)
	case errors.Is(err, ticket.ErrInvalidQuantity):
		respondStatus(c, http.StatusBadRequest, "quantity must be positive", err)

	// complaint service
	case errors.Is(err, complaint.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "complaint not found", err)
	case errors.Is(err, complaint.ErrNotOwner):
		respondStatus(c, http.StatusForbidden, "not your complaint", err)
	case errors.Is(err, complaint.ErrInvalidStatus):
		respondStatus(c, http.StatusBadRequest, "invalid complaint status", err)

	// admin reporting
	case errors.Is(err, adminreport.ErrInvalidSchedule):
		respondStatus(c, http.StatusBadRequest, "invalid schedule", err)
	case errors.Is(err, adminreport.ErrInvalidScores):
		respondStatus(c, http.StatusBadRequest, "scores must be between 0 and 100", err)

	// locations
	case errors.Is(err, location.ErrUnknownState):
		respondStatus(c, http.StatusNotFound, "unknown state code", err)

	// repository sentinels that escape without a service translation:
	// duplicate keys and leftover serialization conflicts after retries
	case errors.Is(err, repository.ErrConflict):
		respondStatus(c, http.StatusConflict, "already exists", err)
	case errors.Is(err, repository.ErrSoldOut):
		respondStatus(c, http.StatusConflict, "not enough tickets available", err)
	case errors.Is(err, repository.ErrNotFound):
		respondStatus(c, http.StatusNotFound, "not found", err)

	default:
		respondStatus(c, http.StatusInternalServerError, "internal error", err)
	}
}
