package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  Dashboard aggregates
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/admin/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.AdminReport.Dashboard(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "dashboard", out)
	}
}

// @Summary  List users
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/admin/users [get]
func handleListUsers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.AdminReport.ListUsers(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "users", out)
	}
}

// @Summary  List registrations
// @Security BearerAuth
// @Param    status  query  string  false  "registration status"
// @Param    type    query  string  false  "individual|group|bulk"
// @Success  200  {object}  Response
// @Router   /api/v1/admin/registrations [get]
func handleListRegistrations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.Registration.List(
			c.Request.Context(),
			domain.RegistrationStatus(c.Query("status")),
			domain.RegistrationType(c.Query("type")),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "registrations", out)
	}
}

// @Summary  List bulk registrations
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/admin/bulk-registrations [get]
func handleListBulk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.Bulk.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "bulk registrations", out)
	}
}

// @Summary  List payment transactions
// @Security BearerAuth
// @Param    kind    query  string  false  "registration|bulk_registration|vote|ticket"
// @Param    status  query  string  false  "payment status"
// @Success  200  {object}  Response
// @Router   /api/v1/admin/transactions [get]
func handleListTransactions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.Payment.List(
			c.Request.Context(),
			domain.PaymentKind(c.Query("kind")),
			domain.PaymentStatus(c.Query("status")),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "transactions", out)
	}
}

// @Summary  Schedule an audition
// @Security BearerAuth
// @Param    req  body  CreateScheduleRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/admin/audition-schedules [post]
func handleCreateSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		at, err := parseRFC3339(req.ScheduledAt)
		if err != nil {
			badRequest(c, "invalid scheduledAt (RFC3339)")
			return
		}

		out, err := svcs.AdminReport.CreateSchedule(c.Request.Context(), &domain.AuditionSchedule{
			RegistrationID: req.RegistrationID,
			Venue:          req.Venue,
			ScheduledAt:    at,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "audition scheduled", out)
	}
}

// @Summary  List audition schedules
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/admin/audition-schedules [get]
func handleListSchedules(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.AdminReport.ListSchedules(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "schedules", out)
	}
}

// @Summary  Create a competition round
// @Security BearerAuth
// @Param    req  body  CreateRoundRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/admin/rounds [post]
func handleCreateRound(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRoundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		round := &domain.CompetitionRound{
			Name:     req.Name,
			Sequence: req.Sequence,
		}
		if req.StartsAt != "" {
			t, err := parseRFC3339(req.StartsAt)
			if err != nil {
				badRequest(c, "invalid startsAt (RFC3339)")
				return
			}
			round.StartsAt = t
		}
		if req.EndsAt != "" {
			t, err := parseRFC3339(req.EndsAt)
			if err != nil {
				badRequest(c, "invalid endsAt (RFC3339)")
				return
			}
			round.EndsAt = t
		}

		out, err := svcs.AdminReport.CreateRound(c.Request.Context(), round)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "round created", out)
	}
}

// @Summary  List competition rounds
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/admin/rounds [get]
func handleListRounds(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.AdminReport.ListRounds(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "rounds", out)
	}
}

// @Summary  Submit a judge evaluation
// @Security BearerAuth
// @Param    req  body  CreateEvaluationRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/evaluations [post]
func handleCreateEvaluation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "authentication required"})
			return
		}

		var req CreateEvaluationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.AdminReport.CreateEvaluation(c.Request.Context(), &domain.Evaluation{
			ContestantID:  req.ContestantID,
			JudgeID:       claims.UserID,
			RoundID:       req.RoundID,
			Technical:     req.Technical,
			Creativity:    req.Creativity,
			StagePresence: req.StagePresence,
			Comments:      req.Comments,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "evaluation recorded", out)
	}
}

// @Summary  List evaluations for a contestant
// @Security BearerAuth
// @Param    contestantId  query  string  true  "Contestant ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/evaluations [get]
func handleListEvaluations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		contestantID, err := uuid.Parse(c.Query("contestantId"))
		if err != nil {
			badRequest(c, "invalid contestantId")
			return
		}

		out, err := svcs.AdminReport.ListEvaluations(c.Request.Context(), contestantID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "evaluations", out)
	}
}
