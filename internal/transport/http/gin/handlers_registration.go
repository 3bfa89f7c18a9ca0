package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/media"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  Open a new draft registration
// @Security BearerAuth
// @Param    req  body  CreateRegistrationRequest  true  "payload"
// @Success  201  {object}  Response
// @Router   /api/v1/registrations [post]
func handleCreateRegistration(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		var req CreateRegistrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		reg, err := svcs.Registration.Create(
			c.Request.Context(),
			claims.UserID,
			domain.RegistrationType(req.RegistrationType),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "registration created", reg)
	}
}

// @Summary  List the caller's registrations
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/registrations [get]
func handleListMyRegistrations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)

		regs, err := svcs.Registration.ListMine(c.Request.Context(), claims.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "registrations", regs)
	}
}

// @Summary  Get one registration
// @Security BearerAuth
// @Param    id  path  string  true  "Registration or owner ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/registrations/{id} [get]
func handleGetRegistration(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		reg, err := svcs.Registration.Get(c.Request.Context(), id, claims.UserID, isAdmin(c))
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "registration", reg)
	}
}

// @Summary  Update one registration step
// @Security BearerAuth
// @Param    id    path  string             true  "Registration ID (uuid)"
// @Param    step  path  int                true  "Step number (1-8)"
// @Param    req   body  UpdateStepRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/registrations/{id}/steps/{step} [put]
func handleUpdateStep(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		step := parseIntDefault(c.Param("step"), 0)
		if step == 0 {
			badRequest(c, "invalid step")
			return
		}

		var req UpdateStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		reg, err := svcs.Registration.UpdateStep(
			c.Request.Context(),
			claims.UserID,
			id,
			step,
			req.Data,
			req.NextStep,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "step updated", reg)
	}
}

// @Summary  Upload registration media
// @Security BearerAuth
// @Param    id    path      string  true  "Registration ID (uuid)"
// @Param    kind  formData  string  true  "photo or video"
// @Param    file  formData  file    true  "media file"
// @Success  200  {object}  Response
// @Router   /api/v1/registrations/{id}/media [post]
func handleUploadMedia(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		kind := c.PostForm("kind")
		if kind != "photo" && kind != "video" {
			badRequest(c, "kind must be photo or video")
			return
		}

		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}
		if fh.Size > media.MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, Response{
				Success: false,
				Message: "file too large",
			})
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondErr(c, err)
			return
		}
		defer f.Close()

		reg, err := svcs.Registration.UploadMedia(
			c.Request.Context(),
			claims.UserID,
			id,
			kind,
			fh.Filename,
			f,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "media uploaded", reg)
	}
}

// @Summary  Submit a completed registration
// @Security BearerAuth
// @Param    id  path  string  true  "Registration ID (uuid)"
// @Success  200  {object}  Response
// @Failure  400  {object}  Response  "missing steps or unpaid fee"
// @Router   /api/v1/registrations/{id}/submit [post]
func handleSubmitRegistration(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		reg, err := svcs.Registration.Submit(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "registration submitted", reg)
	}
}

// @Summary  Delete a draft registration
// @Security BearerAuth
// @Param    id  path  string  true  "Registration ID (uuid)"
// @Success  200  {object}  Response
// @Router   /api/v1/registrations/{id} [delete]
func handleDeleteRegistration(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		if err := svcs.Registration.Delete(c.Request.Context(), claims.UserID, id, isAdmin(c)); err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "registration deleted", nil)
	}
}
