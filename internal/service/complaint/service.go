// Package complaint handles user-filed complaints and the admin response
// workflow.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
	"github.com/teejohn247/eth-project-backend-sub001/internal/repository"
	postgresrepo "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
)

var (
	ErrNotFound      = errors.New("complaint not found")
	ErrNotOwner      = errors.New("complaint not owned by caller")
	ErrInvalidStatus = errors.New("invalid complaint status")
)

var validStatuses = map[domain.ComplaintStatus]bool{
	domain.ComplaintPending:   true,
	domain.ComplaintInReview:  true,
	domain.ComplaintResolved:  true,
	domain.ComplaintDismissed: true,
}

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, subject, description, category string) (*domain.Complaint, error) {
	const op = "service.complaint.Create"

	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%s: subject and description are required", op)
	}

	c := &domain.Complaint{
		ID:          uuid.New(),
		UserID:      userID,
		Subject:     subject,
		Description: description,
		Category:    category,
		Status:      domain.ComplaintPending,
	}

	out, err := s.store.Complaints().Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*domain.Complaint, error) {
	const op = "service.complaint.Get"

	c, err := s.store.Complaints().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !isAdmin && c.UserID != callerID {
		return nil, fmt.Errorf("%s:%w", op, ErrNotOwner)
	}

	return c, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Complaint, error) {
	const op = "service.complaint.ListMine"

	out, err := s.store.Complaints().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) List(ctx context.Context, status domain.ComplaintStatus, limit, offset int) ([]domain.Complaint, error) {
	const op = "service.complaint.List"

	if status != "" && !validStatuses[status] {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidStatus)
	}

	out, err := s.store.Complaints().List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// UpdateStatus is the admin action: move a complaint along the workflow and
// optionally attach a response. An empty response keeps the previous one.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ComplaintStatus, response string) (*domain.Complaint, error) {
	const op = "service.complaint.UpdateStatus"

	if !validStatuses[status] {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidStatus)
	}

	out, err := s.store.Complaints().UpdateStatus(ctx, id, status, response)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
