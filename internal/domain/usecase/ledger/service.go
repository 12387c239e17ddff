package ledger

import (
	"context"
	"net/http"

	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// DeltaRequest represents a request to apply a balance delta
type DeltaRequest struct {
	Amount         int64
	Type           string
	Description    string
	IdempotencyKey string
}

// DeltaResponse represents the response after applying a delta
type DeltaResponse struct {
	Success       bool
	Balance       int64
	TransactionID string
	ErrorMessage  string
	StatusCode    int
}

// Service is the main ledger service implementation tying together
// validation, idempotency and the atomic delta applier
type Service struct {
	applier     *DeltaApplier
	validator   *DeltaValidator
	idempotency *IdempotencyHandler
	granter     *WelcomeBonusGranter
	logger      coreport.Logger
}

// NewService creates a new ledger service
func NewService(
	uow persistence.UnitOfWork,
	holdRepo persistence.LedgerHoldRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	applier := NewDeltaApplier(uow, holdRepo, timeProvider, logger)
	validator := NewDeltaValidator()

	// Repositories outside any unit of work for the read-only fast paths
	txnRepo := uow.GetTransactionRepository(context.Background())
	accountRepo := uow.GetAccountRepository(context.Background())

	idempotency := NewIdempotencyHandler(txnRepo)
	granter := NewWelcomeBonusGranter(applier, accountRepo, logger)

	return &Service{
		applier:     applier,
		validator:   validator,
		idempotency: idempotency,
		granter:     granter,
		logger:      logger,
	}
}

// ApplyDelta validates and applies a delta request, returning a transport-ready
// response. A retried request with a known idempotency key returns the
// original result on the fast path without touching the row lock.
func (s *Service) ApplyDelta(ctx context.Context, userID string, req DeltaRequest) (*DeltaResponse, error) {
	if err := s.validator.ValidateDelta(userID, req.Amount, req.Type); err != nil {
		return errorResponse(err), err
	}

	prior, found, err := s.idempotency.CheckIdempotency(ctx, userID, req.IdempotencyKey)
	if err != nil {
		s.logger.Error("Idempotency fast path failed", map[string]any{
			"user_id":         userID,
			"idempotency_key": req.IdempotencyKey,
			"error":           err.Error(),
		})
		return errorResponse(err), err
	}
	if found {
		return &DeltaResponse{
			Success:       true,
			Balance:       prior.BalanceAfter,
			TransactionID: prior.ID,
			StatusCode:    http.StatusOK,
		}, nil
	}

	result, err := s.applier.Apply(ctx, userID, req.Amount, req.Type, req.Description, req.IdempotencyKey)
	if err != nil {
		s.logger.Error("Delta application failed", map[string]any{
			"user_id":         userID,
			"amount":          req.Amount,
			"type":            req.Type,
			"idempotency_key": req.IdempotencyKey,
			"error":           err.Error(),
		})
		return errorResponse(err), err
	}

	return &DeltaResponse{
		Success:       true,
		Balance:       result.Balance,
		TransactionID: result.TransactionID,
		StatusCode:    http.StatusOK,
	}, nil
}

// GrantWelcomeBonus applies the one-time initial grant for a user
func (s *Service) GrantWelcomeBonus(ctx context.Context, userID string) error {
	return s.granter.Grant(ctx, userID)
}

// StatusForError maps ledger errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errs.IsValidationError(err):
		return http.StatusBadRequest
	case errs.IsInsufficientBalanceError(err):
		return http.StatusBadRequest
	case errs.IsUnknownUserError(err):
		return http.StatusNotFound
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsLedgerHeldError(err):
		return http.StatusConflict
	case errs.IsStorageUnavailableError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) *DeltaResponse {
	return &DeltaResponse{
		Success:      false,
		ErrorMessage: err.Error(),
		StatusCode:   StatusForError(err),
	}
}
