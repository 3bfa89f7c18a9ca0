// Package payment is the settlement engine. Every payment flow (individual
// registration fee, bulk slots, paid votes, ticket checkout) funnels through
// it: initialization mints a reference-keyed transaction, and settlement
// normalizes whatever the gateway reported and applies the entity-specific
// effect exactly once.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/mailer"
	gateway "github.com/teejohn247/eth-project-backend-sub001/internal/payment"
	redisx "github.com/teejohn247/eth-project-backend-sub001/internal/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	redisrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/redis"
	"github.com/teejohn247/eth-project-backend-sub001/internal/ticketpdf"
	"github.com/teejohn247/eth-project-backend-sub001/internal/uow"
)

type Config struct {
	Currency      string
	WebhookSecret string
	EventName     string
	LockTTL       time.Duration
}

type Service struct {
	store   *postgresrepo.Store
	gateway *gateway.Client
	idem    *redisrepo.IdempotencyStore
	cache   *redisrepo.Cache
	pubsub  *redisx.ContestantsPubSub
	mail    *mailer.Mailer
	uow     *uow.UoW
	cfg     Config
	now     func() time.Time
}

func New(
	store *postgresrepo.Store,
	gw *gateway.Client,
	idem *redisrepo.IdempotencyStore,
	cache *redisrepo.Cache,
	pubsub *redisx.ContestantsPubSub,
	mail *mailer.Mailer,
	cfg Config,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.EventName == "" {
		cfg.EventName = "Emerging Talent Hunt"
	}

	return &Service{
		store:   store,
		gateway: gw,
		idem:    idem,
		cache:   cache,
		pubsub:  pubsub,
		mail:    mail,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
		now:     time.Now,
	}
}

// InitializeResult is what the client needs to take the payer to checkout.
type InitializeResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
}

// Initialize creates a pending transaction and returns the signed checkout
// URL. The amount is always derived server-side from the funded entity. A
// caller that already minted a reference for its entity (votes, ticket
// purchases) passes it so settlement can find the entity back by reference;
// an empty reference mints a fresh one.
func (s *Service) Initialize(
	ctx context.Context,
	kind domain.PaymentKind,
	entityID uuid.UUID,
	userID *uuid.UUID,
	email string,
	reference string,
) (*InitializeResult, error) {
	const op = "service.payment.Initialize"

	derived, err := s.deriveAmount(ctx, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if derived <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidAmount)
	}

	if reference == "" {
		reference = uuid.NewString()
	}

	txn := &domain.PaymentTransaction{
		ID:        uuid.New(),
		Reference: reference,
		Kind:      kind,
		EntityID:  entityID,
		UserID:    userID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Amount:    derived,
		Currency:  s.cfg.Currency,
		Status:    domain.PaymentPending,
	}

	created, err := s.store.Payments().Create(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	authURL, err := s.gateway.AuthorizationURL(gateway.AuthorizationRequest{
		Reference: created.Reference,
		Amount:    created.Amount,
		Kind:      string(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &InitializeResult{
		Reference:        created.Reference,
		AuthorizationURL: authURL,
		Amount:           created.Amount,
		Currency:         created.Currency,
	}, nil
}

func (s *Service) deriveAmount(ctx context.Context, kind domain.PaymentKind, entityID uuid.UUID) (int64, error) {
	switch kind {
	case domain.PaymentKindRegistration:
		if _, err := s.store.Registrations().GetByID(ctx, entityID); err != nil {
			return 0, entityErr(err)
		}
		return domain.RegistrationFee, nil
	case domain.PaymentKindBulk:
		b, err := s.store.Bulk().GetByID(ctx, entityID)
		if err != nil {
			return 0, entityErr(err)
		}
		return b.TotalAmount, nil
	case domain.PaymentKindVote:
		v, err := s.store.Votes().GetByID(ctx, entityID)
		if err != nil {
			return 0, entityErr(err)
		}
		return v.AmountPaid, nil
	case domain.PaymentKindTicket:
		p, err := s.store.Purchases().GetByID(ctx, entityID)
		if err != nil {
			return 0, entityErr(err)
		}
		return p.TotalAmount, nil
	default:
		return 0, ErrInvalidKind
	}
}

func entityErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntityNotFound
	}
	return err
}

// Verify asks the gateway for the transaction's current state and settles
// it. The idempotency store makes concurrent verifications of the same
// reference settle exactly once; late callers get the stored result.
func (s *Service) Verify(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	const op = "service.payment.Verify"

	key := redisrepo.KeyIdemPaymentVerify(reference)

	// Without an idempotency store, settlement still converges: a repeated
	// settle to the same status is a no-op.
	if s.idem != nil {
		acquired, err := s.idem.AcquireLock(ctx, key, s.cfg.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !acquired {
			if cached, ok, err := s.idem.GetResult(ctx, key); err == nil && ok {
				var txn domain.PaymentTransaction
				if json.Unmarshal([]byte(cached), &txn) == nil {
					return &txn, nil
				}
			}
			return nil, fmt.Errorf("%s:%w", op, ErrVerifyInFlight)
		}
	}

	res, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.releaseLock(ctx, key)
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	status := domain.NormalizePaymentStatus(res.RawStatus())

	payload, _ := json.Marshal(res)

	txn, err := s.settle(ctx, reference, status, payload)
	if err != nil {
		s.releaseLock(ctx, key)
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if s.idem != nil {
		if b, err := json.Marshal(txn); err == nil {
			_ = s.idem.SaveResult(ctx, key, string(b))
		}
	}

	return txn, nil
}

func (s *Service) releaseLock(ctx context.Context, key string) {
	if s.idem != nil {
		_ = s.idem.Release(ctx, key)
	}
}

type webhookEvent struct {
	Reference string          `json:"reference"`
	Status    json.RawMessage `json:"status"`
	Channel   string          `json:"channel,omitempty"`
}

// HandleWebhook authenticates a gateway callback by its HMAC-SHA512 over the
// raw body and settles the referenced transaction.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (*domain.PaymentTransaction, error) {
	const op = "service.payment.HandleWebhook"

	if !gateway.VerifyBody(s.cfg.WebhookSecret, body, signature) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidSignature)
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if ev.Reference == "" {
		return nil, fmt.Errorf("%s: missing reference", op)
	}

	var raw any
	if len(ev.Status) > 0 {
		dec := json.NewDecoder(strings.NewReader(string(ev.Status)))
		dec.UseNumber()
		_ = dec.Decode(&raw)
	}

	txn, err := s.settle(ctx, ev.Reference, domain.NormalizePaymentStatus(raw), body)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return txn, nil
}

// Save records a client-reported payment outcome (inline checkout flows
// post the gateway payload back instead of waiting for the webhook). The
// raw status goes through the same normalization and settlement path.
func (s *Service) Save(ctx context.Context, reference string, rawStatus any, payload json.RawMessage) (*domain.PaymentTransaction, error) {
	const op = "service.payment.Save"

	txn, err := s.settle(ctx, reference, domain.NormalizePaymentStatus(rawStatus), payload)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return txn, nil
}

// Refund reverses a completed transaction, undoing its entity effect (vote
// tallies come back out, registrations drop to refunded).
func (s *Service) Refund(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	const op = "service.payment.Refund"

	txn, err := s.store.Payments().GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if txn.Status != domain.PaymentCompleted {
		return nil, fmt.Errorf("%s:%w", op, ErrNotRefundable)
	}

	out, err := s.settle(ctx, reference, domain.PaymentRefunded, nil)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	const op = "service.payment.Get"

	txn, err := s.store.Payments().GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return txn, nil
}

func (s *Service) List(
	ctx context.Context,
	kind domain.PaymentKind,
	status domain.PaymentStatus,
	limit, offset int,
) ([]domain.PaymentTransaction, error) {
	const op = "service.payment.List"

	out, err := s.store.Payments().List(ctx, kind, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.PaymentTransaction, error) {
	const op = "service.payment.ListMine"

	out, err := s.store.Payments().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// settle moves the transaction to newStatus and applies the kind-specific
// entity effect in the same serializable transaction. A repeated settlement
// to the same status is a no-op, which is what makes verify, webhook and
// client save safe to race.
func (s *Service) settle(
	ctx context.Context,
	reference string,
	newStatus domain.PaymentStatus,
	payload []byte,
) (*domain.PaymentTransaction, error) {
	const op = "service.payment.settle"

	var out *domain.PaymentTransaction

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		txn, err := s.store.Payments().With(tx).GetByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		prev := txn.Status
		if prev == newStatus {
			out = txn
			return nil
		}

		if err := s.store.Payments().With(tx).UpdateStatus(ctx, reference, newStatus, payload); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		txn.Status = newStatus
		if len(payload) > 0 {
			txn.GatewayPayload = payload
		}

		switch txn.Kind {
		case domain.PaymentKindRegistration:
			err = s.applyRegistration(ctx, tx, txn, newStatus)
		case domain.PaymentKindBulk:
			err = s.applyBulk(ctx, tx, txn, newStatus)
		case domain.PaymentKindVote:
			err = s.applyVote(ctx, tx, txn, prev, newStatus, after)
		case domain.PaymentKindTicket:
			err = s.applyTicket(ctx, tx, txn, prev, newStatus, after)
		default:
			err = ErrInvalidKind
		}
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) applyRegistration(ctx context.Context, tx postgresrepo.DB, txn *domain.PaymentTransaction, status domain.PaymentStatus) error {
	reg, err := s.store.Registrations().With(tx).GetByID(ctx, txn.EntityID)
	if err != nil {
		return entityErr(err)
	}

	reg.PaymentInfo.PaymentStatus = status
	reg.PaymentInfo.Reference = txn.Reference
	reg.PaymentInfo.Amount = txn.Amount
	if status == domain.PaymentCompleted {
		now := s.now()
		reg.PaymentInfo.PaidAt = &now
	}

	_, err = s.store.Registrations().With(tx).Update(ctx, reg)
	return err
}

func (s *Service) applyBulk(ctx context.Context, tx postgresrepo.DB, txn *domain.PaymentTransaction, status domain.PaymentStatus) error {
	b, err := s.store.Bulk().With(tx).GetByID(ctx, txn.EntityID)
	if err != nil {
		return entityErr(err)
	}

	b.PaymentInfo.PaymentStatus = status
	b.PaymentInfo.Reference = txn.Reference
	b.PaymentInfo.Amount = txn.Amount
	if status == domain.PaymentCompleted {
		now := s.now()
		b.PaymentInfo.PaidAt = &now
		if b.Status == domain.BulkPaymentPending {
			b.Status = domain.BulkActive
		}
	}

	_, err = s.store.Bulk().With(tx).Update(ctx, b)
	return err
}

func (s *Service) applyVote(
	ctx context.Context,
	tx postgresrepo.DB,
	txn *domain.PaymentTransaction,
	prev, status domain.PaymentStatus,
	after func(uow.AfterCommit),
) error {
	v, err := s.store.Votes().With(tx).GetByID(ctx, txn.EntityID)
	if err != nil {
		return entityErr(err)
	}

	if err := s.store.Votes().With(tx).UpdateStatus(ctx, v.ID, status); err != nil {
		return err
	}

	c, err := s.store.Contestants().With(tx).GetByID(ctx, v.ContestantID)
	if err != nil {
		return entityErr(err)
	}

	changed := false
	switch {
	case status == domain.PaymentCompleted && prev != domain.PaymentCompleted:
		c.ApplyVote(v)
		changed = true
	case prev == domain.PaymentCompleted && status != domain.PaymentCompleted:
		c.ReverseVote(v)
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.store.Contestants().With(tx).UpdateTallies(ctx, c); err != nil {
		return err
	}

	contestantID := c.ID.String()
	after(func(ctx context.Context) {
		if s.cache != nil {
			_ = s.cache.InvalidateContestant(ctx, contestantID)
		}
		if s.pubsub != nil {
			_ = s.pubsub.PublishContestantChanged(ctx, contestantID)
		}
	})

	return nil
}

func (s *Service) applyTicket(
	ctx context.Context,
	tx postgresrepo.DB,
	txn *domain.PaymentTransaction,
	prev, status domain.PaymentStatus,
	after func(uow.AfterCommit),
) error {
	p, err := s.store.Purchases().With(tx).GetByReference(ctx, txn.Reference)
	if err != nil {
		return entityErr(err)
	}

	p.PaymentStatus = status

	// Ticket numbers are issued exactly once, on the first transition to
	// completed. Sold counters move with them so a sold-out race fails the
	// whole settlement.
	if status == domain.PaymentCompleted && prev != domain.PaymentCompleted && len(p.TicketNumbers) == 0 {
		p.TicketNumbers = mintTicketNumbers(p)

		for _, it := range p.Items {
			if err := s.store.Tickets().With(tx).IncrementSold(ctx, it.TicketID, it.Quantity); err != nil {
				return err
			}
		}

		sent := *p
		after(func(ctx context.Context) {
			if s.mail == nil {
				return
			}
			pdf, err := ticketpdf.Render(&sent, s.cfg.EventName)
			if err != nil {
				pdf = nil
			}
			_ = s.mail.SendTickets(mailer.TicketEmailData{
				Name:          sent.PurchaserName,
				Email:         sent.Email,
				Amount:        fmt.Sprintf("%d %s", sent.TotalAmount, s.cfg.Currency),
				TicketNumbers: sent.TicketNumbers,
				PDF:           pdf,
			})
		})
	}

	_, err = s.store.Purchases().With(tx).Update(ctx, p)
	return err
}

func mintTicketNumbers(p *domain.TicketPurchase) []string {
	short := strings.ToUpper(strings.ReplaceAll(p.Reference, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}

	total := p.TotalQuantity()
	numbers := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		numbers = append(numbers, fmt.Sprintf("TKT-%s-%03d", short, i))
	}
	return numbers
}
