package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/gradevault-backend/internal/users"
	"github.com/angelmondragon/gradevault-backend/pkg/db"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var timeNowUTC = func() time.Time { return time.Now().UTC() }

// Service covers user submission and admin review of identity verification.
type Service interface {
	ListForAdmin(ctx context.Context) ([]RequestDTO, error)
	Review(ctx context.Context, id uuid.UUID, status string) (*RequestDTO, error)
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*RequestDTO, error)
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
}

// SubmitInput holds a validated verification submission.
type SubmitInput struct {
	DocumentType   string
	DocumentURL    string
	SelfieURL      *string
	AdditionalInfo *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  *Repository
	users *users.Repository
	tx    txRunner
}

func NewService(repo *Repository, usersRepo *users.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("verification repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, users: usersRepo, tx: tx}, nil
}

func (s *service) ListForAdmin(ctx context.Context) ([]RequestDTO, error) {
	rows, err := s.repo.ListWithUsers(ctx)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: list verification requests")
	}
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewRequestDTO(&rows[i]))
	}
	return out, nil
}

// Review finalizes a pending request. Approval marks the owner verified in the
// same transaction.
func (s *service) Review(ctx context.Context, id uuid.UUID, rawStatus string) (*RequestDTO, error) {
	status, err := parseReviewStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var reviewed *models.VerificationRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "verification request not found")
			}
			return pkgerrors.WrapStorage(err, "db: load verification request")
		}
		if current.Status.IsFinal() {
			return errAlreadyFinalized()
		}

		changed, err := txRepo.Finalize(ctx, id, status, timeNowUTC())
		if err != nil {
			return pkgerrors.WrapStorage(err, "db: finalize verification request")
		}
		if !changed {
			return errAlreadyFinalized()
		}

		if status == enums.VerificationStatusApproved {
			if _, err := s.users.WithTx(tx).MarkVerified(ctx, current.UserID); err != nil {
				return pkgerrors.WrapStorage(err, "db: mark user verified")
			}
		}

		reviewed, err = txRepo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.WrapStorage(err, "db: reload verification request")
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "review verification request")
	}
	return NewRequestDTO(reviewed), nil
}

func errAlreadyFinalized() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "request already finalized")
}

func parseReviewStatus(raw string) (enums.VerificationStatus, error) {
	status, err := enums.ParseVerificationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil || !status.IsFinal() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "status must be APPROVED or REJECTED").
			WithDetails(map[string]string{"status": raw})
	}
	return status, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*RequestDTO, error) {
	docType, err := enums.ParseDocumentType(strings.ToUpper(strings.TrimSpace(input.DocumentType)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document_type is invalid").
			WithDetails(map[string]string{"document_type": input.DocumentType})
	}
	docURL := strings.TrimSpace(input.DocumentURL)
	if docURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document_url is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.WrapStorage(err, "db: load user")
	}
	if user.IsVerified {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already verified")
	}
	pending, err := s.repo.HasPending(ctx, userID)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: check pending verification")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "verification request already pending")
	}

	req := &models.VerificationRequest{
		UserID:         userID,
		DocumentType:   docType,
		DocumentURL:    docURL,
		SelfieURL:      trimmedOrNil(input.SelfieURL),
		AdditionalInfo: trimmedOrNil(input.AdditionalInfo),
		Status:         enums.VerificationStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		if db.IsUniqueViolation(err, pendingIndex) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "verification request already pending")
		}
		return nil, pkgerrors.WrapStorage(err, "db: insert verification request")
	}
	return NewRequestDTO(req), nil
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.WrapStorage(err, "db: load user")
	}
	latest, err := s.repo.LatestForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.WrapStorage(err, "db: load latest verification request")
	}
	return &StatusDTO{IsVerified: user.IsVerified, Request: NewRequestDTO(latest)}, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
