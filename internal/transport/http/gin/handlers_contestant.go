package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  List contestants
// @Param    status  query  string  false  "active|eliminated|withdrawn"
// @Param    limit   query  int     false  "page size"
// @Param    offset  query  int     false  "offset"
// @Success  200  {object}  Response
// @Router   /api/v1/contestants [get]
func handleListContestants(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.Contestant.List(
			c.Request.Context(),
			domain.ContestantStatus(c.Query("status")),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, Response{
			Success: true,
			Message: "contestants",
			Data:    out,
		}, "public, max-age=15", true)
	}
}

// @Summary  Get one contestant with vote tallies
// @Param    id  path  string  true  "Contestant ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/contestants/{id} [get]
func handleGetContestant(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		cnt, err := svcs.Contestant.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}

		writeJSONWithCache(c, http.StatusOK, Response{
			Success: true,
			Message: "contestant",
			Data:    cnt,
		}, "public, max-age=15", true)
	}
}

// @Summary  List a contestant's votes
// @Param    id  path  string  true  "Contestant ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/contestants/{id}/votes [get]
func handleListVotes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		limit, offset := pagination(c)

		out, err := svcs.Contestant.ListVotes(c.Request.Context(), id, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "votes", out)
	}
}

// @Summary  Vote for a contestant
// @Param    id   path  string       true  "Contestant ID (uuid)"
// @Param    req  body  VoteRequest  true  "payload"
// @Success  201  {object}  Response
// @Failure  429  {object}  Response  "rate limited"
// @Router   /api/v1/contestants/{id}/vote [post]
func handleVote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req VoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.Contestant.Vote(
			c.Request.Context(),
			id,
			req.Email,
			req.NumberOfVotes,
			req.FreeVote,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "vote recorded", out)
	}
}

// @Summary  Verify a paid vote
// @Param    reference  path  string  true  "Payment reference"
// @Success  200  {object}  Response
// @Router   /api/v1/contestants/verify-vote/{reference} [get]
func handleVerifyVote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := svcs.Contestant.VerifyVote(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "vote verified", txn)
	}
}

// @Summary  Toggle contestant promotion for a registration
// @Security BearerAuth
// @Param    registrationId  path  string  true  "Registration ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/contestants/promote/{registrationId} [post]
func handlePromote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		regID, ok := parseUUIDParam(c, "registrationId")
		if !ok {
			return
		}

		out, err := svcs.Contestant.Promote(c.Request.Context(), regID)
		if err != nil {
			respondErr(c, err)
			return
		}

		msg := "contestant demoted"
		if out.Promoted {
			msg = "contestant promoted"
		}
		respondOK(c, msg, out)
	}
}
