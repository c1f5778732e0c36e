package returns

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sales_backend/internal/sales"
)

// ErrInvalidTransition is returned when a return is not in a state that
// allows the requested status change.
var ErrInvalidTransition = errors.New("invalid return status transition")

// SaleReader looks up the sale a return references. Satisfied by sales.Storage.
type SaleReader interface {
	Read(id string) (*sales.Sale, error)
}

// Service provides return management operations on a Storage backend.
type Service struct {
	storage Storage
	sales   SaleReader
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, saleReader SaleReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage: storage,
		sales:   saleReader,
		logger:  logger,
	}
}

// CreateReturn registers a requested return against an existing sale.
// A cancelled sale cannot accept new returns.
func (s *Service) CreateReturn(saleID, reason string) (*Return, error) {
	sale, err := s.sales.Read(saleID)
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			return nil, &sales.NotFoundError{Resource: "Sale", ID: saleID}
		}
		s.logger.Error("failed to read sale", zap.String("sale_id", saleID), zap.Error(err))
		return nil, fmt.Errorf("failed to read sale: %w", err)
	}

	if sale.Status == sales.StatusCancelled {
		return nil, &sales.BusinessRuleError{
			Message: fmt.Sprintf("Cannot create a return for cancelled sale %s", saleID),
		}
	}

	now := time.Now()
	ret := &Return{
		ID:        uuid.NewString(),
		SaleID:    saleID,
		Reason:    reason,
		Status:    StatusRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Set(ret); err != nil {
		s.logger.Error("failed to save return", zap.String("return_id", ret.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save return: %w", err)
	}

	s.logger.Info("return created", zap.String("return_id", ret.ID), zap.String("sale_id", saleID))
	return ret, nil
}

// ListBySale returns all returns referencing the given sale.
func (s *Service) ListBySale(saleID string) ([]*Return, error) {
	rets, err := s.storage.GetBySaleID(saleID)
	if err != nil {
		s.logger.Error("failed to list returns", zap.String("sale_id", saleID), zap.Error(err))
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	return rets, nil
}

// ProcessReturn marks a requested return as processed.
func (s *Service) ProcessReturn(returnID string) (*Return, error) {
	return s.changeStatus(returnID, StatusProcessed)
}

// CancelReturn marks a requested return as cancelled.
func (s *Service) CancelReturn(returnID string) (*Return, error) {
	return s.changeStatus(returnID, StatusCancelled)
}

func (s *Service) changeStatus(returnID, newStatus string) (*Return, error) {
	ret, err := s.storage.Read(returnID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &sales.NotFoundError{Resource: "Return", ID: returnID}
		}
		s.logger.Error("failed to read return", zap.String("return_id", returnID), zap.Error(err))
		return nil, fmt.Errorf("failed to read return: %w", err)
	}

	if ret.Status != StatusRequested {
		return nil, ErrInvalidTransition
	}

	ret.Status = newStatus
	ret.UpdatedAt = time.Now()

	if err := s.storage.Set(ret); err != nil {
		s.logger.Error("failed to update return", zap.String("return_id", ret.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("return status updated", zap.String("return_id", ret.ID), zap.String("status", newStatus))
	return ret, nil
}
