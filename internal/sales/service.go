package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error para transiciones inválidas
var ErrInvalidTransition = errors.New("invalid status transition")

// Error para estados inválidos
var ErrInvalidStatus = errors.New("invalid status value")

// ErrInvalidAmount is returned when creating a sale with a non-positive amount.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrUserNotFound is returned when the sale's user does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserValidator checks that a user exists in the user service.
type UserValidator interface {
	Exists(userID string) (bool, error)
}

// ReturnCounter reports how many open return records reference a sale.
type ReturnCounter interface {
	CountBySaleID(saleID string) (int, error)
}

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	returns ReturnCounter
	users   UserValidator
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, returns ReturnCounter, users UserValidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage: storage,
		returns: returns,
		users:   users,
		logger:  logger,
	}
}

// CreateSale handles the creation of a new sale.
func (s *Service) CreateSale(userID string, amount float64) (*Sale, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	userExists, err := s.users.Exists(userID)
	if err != nil {
		s.logger.Error("error validating user", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("error validating user: %w", err)
	}
	if !userExists {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	sale := &Sale{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := s.storage.Set(sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("user_id", userID))
	return sale, nil
}

// SearchSale returns sales filtered by user and status, along with aggregate
// metadata over the matching records. Empty filters match everything.
func (s *Service) SearchSale(userID, status string) ([]*Sale, SalesMetadata, error) {
	if status != "" && !ValidStatus(status) {
		s.logger.Warn("invalid status filter provided", zap.String("status_filter", status))
		return nil, SalesMetadata{}, fmt.Errorf("%w: '%s'", ErrInvalidStatus, status)
	}

	allSales, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, SalesMetadata{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	filteredSales := make([]*Sale, 0)
	metadata := SalesMetadata{}

	for _, sale := range allSales {
		if userID != "" && sale.UserID != userID {
			continue
		}
		if status != "" && sale.Status != status {
			continue
		}

		filteredSales = append(filteredSales, sale)

		metadata.Quantity++
		metadata.TotalAmount += sale.Amount
		switch sale.Status {
		case StatusApproved:
			metadata.Approved++
		case StatusRejected:
			metadata.Rejected++
		case StatusPending:
			metadata.Pending++
		case StatusCompleted:
			metadata.Completed++
		case StatusCancelled:
			metadata.Cancelled++
		}
	}

	s.logger.Info("sales search completed",
		zap.String("user_filter", userID),
		zap.String("status_filter", status),
		zap.Int("results_count", len(filteredSales)),
	)

	return filteredSales, metadata, nil
}

// UpdateSaleStatus moves a sale through its lifecycle: a pending sale can be
// approved or rejected, and an approved sale can be completed. Cancellation
// only happens through DeleteSale.
func (s *Service) UpdateSaleStatus(saleID, newStatus string) (*Sale, error) {
	sale, err := s.storage.Read(saleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Resource: "Sale", ID: saleID}
		}
		s.logger.Error("failed to read sale", zap.String("sale_id", saleID), zap.Error(err))
		return nil, fmt.Errorf("failed to read sale: %w", err)
	}

	switch newStatus {
	case StatusApproved, StatusRejected:
		if sale.Status != StatusPending {
			return nil, ErrInvalidTransition
		}
	case StatusCompleted:
		if sale.Status != StatusApproved {
			return nil, ErrInvalidTransition
		}
	default:
		return nil, ErrInvalidStatus
	}

	sale.Status = newStatus
	sale.UpdatedAt = time.Now()
	sale.Version++

	if err := s.storage.Set(sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale status updated", zap.String("sale_id", sale.ID), zap.String("status", newStatus))
	return sale, nil
}

// DeleteSale cancels a sale. A completed sale cannot be deleted, and neither
// can a sale that still has open returns referencing it. On success the sale
// is marked cancelled and persisted; the record itself is kept.
func (s *Service) DeleteSale(saleID string) error {
	sale, err := s.storage.Read(saleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &NotFoundError{Resource: "Sale", ID: saleID}
		}
		s.logger.Error("failed to read sale", zap.String("sale_id", saleID), zap.Error(err))
		return fmt.Errorf("failed to read sale: %w", err)
	}

	if sale.Status == StatusCompleted {
		return &BusinessRuleError{
			Message: fmt.Sprintf("Cannot delete sale %s because it is completed", saleID),
		}
	}

	count, err := s.returns.CountBySaleID(saleID)
	if err != nil {
		s.logger.Error("failed to count returns for sale", zap.String("sale_id", saleID), zap.Error(err))
		return fmt.Errorf("failed to count returns for sale: %w", err)
	}

	if count > 0 {
		msg := fmt.Sprintf("Cannot delete sale because it has %d associated return", count)
		if count != 1 {
			msg += "s"
		}
		return &DataIntegrityError{
			Resource:          "Sale",
			ResourceID:        saleID,
			DependentResource: "Returns",
			Message:           msg,
			Suggestion:        "To delete this sale, process or cancel all associated returns first",
			Code:              "SALE_HAS_RETURNS",
		}
	}

	sale.Status = StatusCancelled
	sale.UpdatedAt = time.Now()
	sale.Version++

	if err := s.storage.Set(sale); err != nil {
		s.logger.Error("failed to cancel sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return fmt.Errorf("failed to cancel sale: %w", err)
	}

	s.logger.Info("sale cancelled", zap.String("sale_id", sale.ID))
	return nil
}
