// Package ticket sells live-show tickets: admins define categories with
// fixed quantities, buyers check out one or more categories in a single
// purchase. Sold counters only move at payment settlement, where the
// guarded increment rejects oversell.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
	paymentsvc "github.com/teejohn247/eth-project-backend-sub001/internal/service/payment"
	"github.com/teejohn247/eth-project-backend-sub001/internal/uow"
)

type Service struct {
	store    *postgresrepo.Store
	payments *paymentsvc.Service
	uow      *uow.UoW
}

func New(store *postgresrepo.Store, payments *paymentsvc.Service) *Service {
	return &Service{
		store:    store,
		payments: payments,
		uow:      uow.NewUoW(store),
	}
}

// CreateTicket defines a new ticket category (admin only).
func (s *Service) CreateTicket(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	const op = "service.ticket.CreateTicket"

	if t.Price < 0 || t.TotalQuantity <= 0 {
		return nil, fmt.Errorf("%s: price and quantity must be positive", op)
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.SoldQuantity = 0
	t.Active = true

	out, err := s.store.Tickets().Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ListTickets(ctx context.Context, activeOnly bool) ([]domain.Ticket, error) {
	const op = "service.ticket.ListTickets"

	out, err := s.store.Tickets().List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "service.ticket.GetTicket"

	out, err := s.store.Tickets().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// PurchaseRequest is one checkout: a buyer and the quantities per category.
type PurchaseRequest struct {
	PurchaserName string
	Email         string
	PhoneNumber   string
	Items         []struct {
		TicketID uuid.UUID
		Quantity int
	}
}

// PurchaseResult pairs the pending purchase with its checkout.
type PurchaseResult struct {
	Purchase *domain.TicketPurchase       `json:"purchase"`
	Payment  *paymentsvc.InitializeResult `json:"payment"`
}

// Purchase records a pending purchase and initializes its payment. Prices
// come from the catalog, never from the client. Availability is checked
// here for early feedback, but the authoritative guard runs at settlement.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	const op = "service.ticket.Purchase"

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrEmptyPurchase)
	}

	purchase := &domain.TicketPurchase{
		ID:            uuid.New(),
		Reference:     uuid.NewString(),
		PurchaserName: strings.TrimSpace(req.PurchaserName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		PaymentStatus: domain.PaymentPending,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return fmt.Errorf("%s:%w", op, ErrInvalidQuantity)
			}

			t, err := s.store.Tickets().With(tx).GetByID(ctx, item.TicketID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w", op, ErrNotFound)
				}

				return fmt.Errorf("%s:%w", op, err)
			}

			if !t.Active {
				return fmt.Errorf("%s:%w", op, ErrInactive)
			}
			if t.Available() < item.Quantity {
				return fmt.Errorf("%s:%w", op, ErrSoldOut)
			}

			purchase.Items = append(purchase.Items, domain.PurchaseItem{
				TicketID:   t.ID,
				TicketType: t.Type,
				Quantity:   item.Quantity,
				UnitPrice:  t.Price,
			})
		}

		purchase.ComputeTotal()

		created, err := s.store.Purchases().With(tx).Create(ctx, purchase)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		purchase = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	init, err := s.payments.Initialize(ctx, domain.PaymentKindTicket, purchase.ID, nil, purchase.Email, purchase.Reference)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &PurchaseResult{Purchase: purchase, Payment: init}, nil
}

// VerifyPurchase settles a ticket payment by reference. On the first
// transition to completed the ticket numbers are issued and sold counters
// move; the confirmation email with the PDF goes out after commit.
func (s *Service) VerifyPurchase(ctx context.Context, reference string) (*domain.TicketPurchase, error) {
	const op = "service.ticket.VerifyPurchase"

	if _, err := s.payments.Verify(ctx, reference); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	p, err := s.store.Purchases().GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPurchaseMissing)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, nil
}

func (s *Service) GetPurchase(ctx context.Context, id uuid.UUID) (*domain.TicketPurchase, error) {
	const op = "service.ticket.GetPurchase"

	p, err := s.store.Purchases().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPurchaseMissing)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, nil
}
