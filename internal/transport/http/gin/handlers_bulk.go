package httpgin

import (
	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  Create a bulk registration
// @Security BearerAuth
// @Param    req  body  CreateBulkRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/bulk-registrations [post]
func handleCreateBulk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		var req CreateBulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		b, err := svcs.Bulk.Create(c.Request.Context(), claims.UserID, req.TotalSlots)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "bulk registration created", b)
	}
}

// @Summary  List the caller's bulk registrations
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/bulk-registrations [get]
func handleListMyBulk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		out, err := svcs.Bulk.ListMine(c.Request.Context(), claims.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "bulk registrations", out)
	}
}

// @Summary  Get one bulk registration
// @Security BearerAuth
// @Param    id  path  string  true  "Bulk registration ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/bulk-registrations/{id} [get]
func handleGetBulk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		b, err := svcs.Bulk.Get(c.Request.Context(), id, claims.UserID, isAdmin(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "bulk registration", b)
	}
}

// @Summary  Invite a participant into a bulk registration
// @Security BearerAuth
// @Param    id   path  string                 true  "Bulk registration ID (uuid)"
// @Param    req  body  AddParticipantRequest  true  "payload"
// @Success  200  {object}  Response
// @Failure  409  {object}  Response  "participant already invited"
// @Router   /api/v1/bulk-registrations/{id}/participants [post]
func handleAddParticipant(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req AddParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		b, err := svcs.Bulk.AddParticipant(
			c.Request.Context(),
			claims.UserID,
			id,
			req.FirstName,
			req.LastName,
			req.Email,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "invitation sent", b)
	}
}

// @Summary  Verify a participant invitation code
// @Param    id   path  string                    true  "Bulk registration ID (uuid)"
// @Param    req  body  VerifyParticipantRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/bulk-registrations/{id}/participants/verify [post]
func handleVerifyParticipant(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req VerifyParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		reg, err := svcs.Bulk.VerifyParticipant(c.Request.Context(), id, req.Email, req.Code)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "participant verified", reg)
	}
}
