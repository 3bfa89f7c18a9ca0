package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/auth"

	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

// @Summary  Register a new account
// @Param    req  body  RegisterRequest  true  "payload"
// @Success  201  {object}  Response
// @Failure  409  {object}  Response
// @Router   /api/v1/auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, err := svcs.Auth.Register(c.Request.Context(), req.Email, req.FirstName, req.LastName)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondCreated(c, "verification code sent", AuthResponse{User: u})
	}
}

// @Summary  Resend a verification code
// @Param    req  body  ResendCodeRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/auth/resend-code [post]
func handleResendCode(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResendCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		purpose := req.Purpose
		if purpose == "" {
			purpose = authsvc.PurposeEmailVerification
		}

		if err := svcs.Auth.ResendCode(c.Request.Context(), req.Email, purpose); err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "verification code sent", nil)
	}
}

// @Summary  Verify email with an OTP code
// @Param    req  body  VerifyEmailRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/auth/verify-email [post]
func handleVerifyEmail(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, token, err := svcs.Auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "email verified", AuthResponse{User: u, Token: token})
	}
}

// @Summary  Set the account password after verification
// @Security BearerAuth
// @Param    req  body  SetPasswordRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/auth/set-password [post]
func handleSetPassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "authentication required"})
			return
		}

		var req SetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, token, err := svcs.Auth.SetPassword(c.Request.Context(), claims.UserID, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "password set", AuthResponse{User: u, Token: token})
	}
}

// @Summary  Login with email and password
// @Param    req  body  LoginRequest  true  "payload"
// @Success  200  {object}  Response
// @Failure  401  {object}  Response
// @Router   /api/v1/auth/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, token, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "logged in", AuthResponse{User: u, Token: token})
	}
}

// @Summary  Request a password-reset code
// @Param    req  body  ForgotPasswordRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/auth/forgot-password [post]
func handleForgotPassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			respondErr(c, err)
			return
		}

		// same answer whether or not the email exists
		respondOK(c, "if the email is registered, a reset code was sent", nil)
	}
}

// @Summary  Reset the password with an OTP code
// @Param    req  body  ResetPasswordRequest  true  "payload"
// @Success  200  {object}  Response
// @Router   /api/v1/auth/reset-password [post]
func handleResetPassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "password reset", nil)
	}
}

// @Summary  Current account profile
// @Security BearerAuth
// @Success  200  {object}  Response
// @Router   /api/v1/auth/me [get]
func handleMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "authentication required"})
			return
		}

		u, err := svcs.Auth.Me(c.Request.Context(), claims.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		respondOK(c, "profile", u)
	}
}
