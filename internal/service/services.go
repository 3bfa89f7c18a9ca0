package service

import (
	"github.com/teejohn247/eth-project-backend-sub001/internal/geodata"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	"github.com/teejohn247/eth-project-backend-sub001/internal/media"
	gateway "github.com/teejohn247/eth-project-backend-sub001/internal/payment"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
	postgres "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redis "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/adminreport"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/bulk"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/complaint"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/contestant"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/location"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/registration"
	"github.com/teejohn247/eth-project-backend-sub001/internal/service/ticket"

	tokens "github.com/teejohn247/eth-project-backend-sub001/internal/auth"
)

type Services struct {
	Auth         *auth.Service
	Registration *registration.Service
	Bulk         *bulk.Service
	Payment      *payment.Service
	Contestant   *contestant.Service
	Ticket       *ticket.Service
	Complaint    *complaint.Service
	AdminReport  *adminreport.Service
	Location     *location.Service
}

type Config struct {
	Auth       auth.Config
	Bulk       bulk.Config
	Payment    payment.Config
	Contestant contestant.Config
	Location   location.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.ContestantsPubSub,
	limiter *redis.SlidingWindowLimiter,
	otp *redis.OTPStore,
	idem *redis.IdempotencyStore,
	mail *mailer.Mailer,
	tm *tokens.TokenManager,
	gw *gateway.Client,
	mediaClient *media.Client,
	geo *geodata.Client,
	cfg Config,
) *Services {
	payments := payment.New(store, gw, idem, cache, pubsub, mail, cfg.Payment)

	return &Services{
		Auth:         auth.New(store, otp, mail, tm, cfg.Auth),
		Registration: registration.New(store, mediaClient),
		Bulk:         bulk.New(store, otp, mail, cfg.Bulk),
		Payment:      payments,
		Contestant:   contestant.New(store, cache, pubsub, limiter, payments, cfg.Contestant),
		Ticket:       ticket.New(store, payments),
		Complaint:    complaint.New(store),
		AdminReport:  adminreport.New(store),
		Location:     location.New(geo, cache, cfg.Location),
	}
}
