package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	tokens "github.com/teejohn247/eth-project-backend-sub001/internal/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service"
)

func NewRouter(
	svcs *service.Services,
	tm *tokens.TokenManager,
	logger *slog.Logger,
	production bool,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	productionEnv = production

	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := AuthMiddleware(tm)
	adminOnly := RequireRole(domain.RoleAdmin)
	judgeOrAdmin := RequireRole(domain.RoleJudge, domain.RoleAdmin)

	v1 := r.Group("/api/v1")

	// auth
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", handleRegister(svcs))
		authGroup.POST("/resend-code", handleResendCode(svcs))
		authGroup.POST("/verify-email", handleVerifyEmail(svcs))
		authGroup.POST("/login", handleLogin(svcs))
		authGroup.POST("/forgot-password", handleForgotPassword(svcs))
		authGroup.POST("/reset-password", handleResetPassword(svcs))
		authGroup.POST("/set-password", authed, handleSetPassword(svcs))
		authGroup.GET("/me", authed, handleMe(svcs))
	}

	// registrations
	regs := v1.Group("/registrations", authed)
	{
		regs.POST("", handleCreateRegistration(svcs))
		regs.GET("", handleListMyRegistrations(svcs))
		regs.GET("/:id", handleGetRegistration(svcs))
		regs.PUT("/:id/steps/:step", handleUpdateStep(svcs))
		regs.POST("/:id/media", handleUploadMedia(svcs))
		regs.POST("/:id/submit", handleSubmitRegistration(svcs))
		regs.DELETE("/:id", handleDeleteRegistration(svcs))
	}

	// bulk registrations
	bulkGroup := v1.Group("/bulk-registrations")
	{
		bulkGroup.POST("", authed, handleCreateBulk(svcs))
		bulkGroup.GET("", authed, handleListMyBulk(svcs))
		bulkGroup.GET("/:id", authed, handleGetBulk(svcs))
		bulkGroup.POST("/:id/participants", authed, handleAddParticipant(svcs))
		// invited participants verify before they have an account
		bulkGroup.POST("/:id/participants/verify", handleVerifyParticipant(svcs))
	}

	// payments
	payments := v1.Group("/payments")
	{
		payments.POST("/initialize", optionalAuth(tm), handleInitializePayment(svcs))
		payments.GET("/verify/:reference", handleVerifyPayment(svcs))
		payments.POST("/webhook", handlePaymentWebhook(svcs))
		payments.POST("/save", handleSavePayment(svcs))
		payments.GET("/me", authed, handleListMyPayments(svcs))
		payments.GET("/:reference", authed, handleGetPayment(svcs))
		payments.POST("/refund/:reference", authed, adminOnly, handleRefundPayment(svcs))
	}

	// contestants & voting
	contestants := v1.Group("/contestants")
	{
		contestants.GET("", handleListContestants(svcs))
		contestants.GET("/:id", handleGetContestant(svcs))
		contestants.GET("/:id/votes", handleListVotes(svcs))
		contestants.POST("/:id/vote", handleVote(svcs))
		contestants.GET("/verify-vote/:reference", handleVerifyVote(svcs))
		contestants.POST("/promote/:registrationId", authed, adminOnly, handlePromote(svcs))
	}

	// tickets
	ticketsGroup := v1.Group("/tickets")
	{
		ticketsGroup.GET("", handleListTickets(svcs))
		ticketsGroup.GET("/:id", handleGetTicket(svcs))
		ticketsGroup.POST("", authed, adminOnly, handleCreateTicket(svcs))
		ticketsGroup.POST("/purchase", handlePurchaseTickets(svcs))
		ticketsGroup.GET("/verify/:reference", handleVerifyPurchase(svcs))
		ticketsGroup.GET("/purchases/:id", handleGetPurchase(svcs))
	}

	// complaints
	complaints := v1.Group("/complaints", authed)
	{
		complaints.POST("", handleCreateComplaint(svcs))
		complaints.GET("", handleListMyComplaints(svcs))
		complaints.GET("/:id", handleGetComplaint(svcs))
	}

	// locations
	locations := v1.Group("/locations")
	{
		locations.GET("/states", handleListStates(svcs))
		locations.GET("/states/:code/lgas", handleListLGAs(svcs))
		locations.GET("/search", handleSearchLocations(svcs))
		locations.GET("/cache-info", handleLocationCacheInfo(svcs))
	}

	// admin
	adminGroup := v1.Group("/admin", authed, adminOnly)
	{
		adminGroup.GET("/dashboard", handleDashboard(svcs))
		adminGroup.GET("/users", handleListUsers(svcs))
		adminGroup.GET("/registrations", handleListRegistrations(svcs))
		adminGroup.GET("/bulk-registrations", handleListBulk(svcs))
		adminGroup.GET("/transactions", handleListTransactions(svcs))
		adminGroup.GET("/complaints", handleListComplaints(svcs))
		adminGroup.PATCH("/complaints/:id/status", handleUpdateComplaintStatus(svcs))
		adminGroup.POST("/audition-schedules", handleCreateSchedule(svcs))
		adminGroup.GET("/audition-schedules", handleListSchedules(svcs))
		adminGroup.POST("/rounds", handleCreateRound(svcs))
		adminGroup.GET("/rounds", handleListRounds(svcs))
	}

	// judge scoring
	evaluations := v1.Group("/evaluations", authed, judgeOrAdmin)
	{
		evaluations.POST("", handleCreateEvaluation(svcs))
		evaluations.GET("", handleListEvaluations(svcs))
	}

	return r
}

// optionalAuth attaches claims when a valid bearer token is present but
// never rejects; anonymous flows (ticket purchase) share endpoints with
// logged-in users.
func optionalAuth(tm *tokens.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok && raw != "" {
			if claims, err := tm.Verify(raw); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// --- helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = parseIntDefault(c.Query("limit"), 50)
	offset = parseIntDefault(c.Query("offset"), 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
