package httpgin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/bulk"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/contestant"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/registration"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/ticket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRespondErr(err error) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondErr(c, err)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestRespondErrStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrEmailTaken, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{registration.ErrNotFound, http.StatusNotFound},
		{registration.ErrNotDraft, http.StatusBadRequest},
		{bulk.ErrNoSlotsAvailable, http.StatusBadRequest},
		{bulk.ErrDuplicateParticipant, http.StatusConflict},
		{payment.ErrInvalidSignature, http.StatusUnauthorized},
		{payment.ErrVerifyInFlight, http.StatusConflict},
		{contestant.ErrNotPromotable, http.StatusBadRequest},
		{contestant.ErrEmailMismatch, http.StatusBadRequest},
		{bulk.ErrEmailTaken, http.StatusConflict},
		{ticket.ErrSoldOut, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrSoldOut, http.StatusConflict},
		{repository.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			// service errors arrive wrapped with an op prefix
			w, resp := doRespondErr(fmt.Errorf("service.test:%w", tt.err))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if resp.Success {
				t.Error("success must be false on errors")
			}
		})
	}
}

func TestRespondErrMissingSteps(t *testing.T) {
	err := fmt.Errorf("service.registration.Submit:%w",
		registration.IncompleteStepsError{Missing: []int{3, 4, 7}})

	w, resp := doRespondErr(err)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	steps, ok := data["missingSteps"].([]any)
	if !ok || len(steps) != 3 {
		t.Fatalf("missingSteps = %v", data["missingSteps"])
	}
}

func TestRespondErrRateLimited(t *testing.T) {
	err := fmt.Errorf("service.contestant.Vote:%w",
		contestant.RateLimitedError{RetryAfter: 42 * time.Second})

	w, _ := doRespondErr(err)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "42" {
		t.Errorf("Retry-After = %q, want 42", got)
	}
}

func TestRespondErrHidesDetailInProduction(t *testing.T) {
	productionEnv = true
	defer func() { productionEnv = false }()

	_, resp := doRespondErr(errors.New("pq: secret table does not exist"))
	if resp.Error != "" {
		t.Errorf("raw error leaked in production: %q", resp.Error)
	}
}
