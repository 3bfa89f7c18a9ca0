package httpgin

import (
	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  File a complaint
// @Security BearerAuth
// @Param    req  body  CreateComplaintRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/complaints [post]
func handleCreateComplaint(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		var req CreateComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.Complaint.Create(
			c.Request.Context(),
			claims.UserID,
			req.Subject,
			req.Description,
			req.Category,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "complaint filed", out)
	}
}

// @Summary  List the caller's complaints
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/complaints [get]
func handleListMyComplaints(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		out, err := svcs.Complaint.ListMine(c.Request.Context(), claims.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "complaints", out)
	}
}

// @Summary  Get one complaint
// @Security BearerAuth
// @Param    id  path  string  true  "Complaint ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/complaints/{id} [get]
func handleGetComplaint(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		out, err := svcs.Complaint.Get(c.Request.Context(), id, claims.UserID, isAdmin(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "complaint", out)
	}
}

// @Summary  List all complaints
// @Security BearerAuth
// @Param    status  query  string  false  "pending|in_review|resolved|dismissed"
// @Success  200  {object}  Response
// @Router   /api/v1/admin/complaints [get]
func handleListComplaints(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)

		out, err := svcs.Complaint.List(
			c.Request.Context(),
			domain.ComplaintStatus(c.Query("status")),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "complaints", out)
	}
}

// @Summary  Update a complaint's status
// @Security BearerAuth
// @Param    id   path  string                        true  "Complaint ID (uuid)"
// @Param    req  body  UpdateComplaintStatusRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/admin/complaints/{id}/status [patch]
func handleUpdateComplaintStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		var req UpdateComplaintStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		out, err := svcs.Complaint.UpdateStatus(
			c.Request.Context(),
			id,
			domain.ComplaintStatus(req.Status),
			req.AdminResponse,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "complaint updated", out)
	}
}
