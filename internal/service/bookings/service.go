package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/integrations/notifier"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть своё бронирование или бронирование своего провайдера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return s.view(ctx, "GetByID", booking, userID)
}

// GetByReference получает бронирование по коду из подтверждения, права те же, что у GetByID
func (s *Service) GetByReference(ctx context.Context, referenceCode string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByReference: fetching booking ref=%s for user=%d", referenceCode, userID)

	booking, err := s.bookingRepo.GetByReference(ctx, referenceCode)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByReference: booking ref=%s not found", referenceCode)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByReference: repository error for booking ref=%s: %v", referenceCode, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %v", ErrInternal, err)
	}

	return s.view(ctx, "GetByReference", booking, userID)
}

// view отдает бронирование клиенту или владельцу провайдера
func (s *Service) view(ctx context.Context, op string, booking *domain.Booking, userID int64) (*models.BookingResponse, error) {
	if booking.UserID != userID {
		if err := s.checkOwnerAccess(ctx, booking.ProviderID, userID); err != nil {
			s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, booking.ID)
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("%s: successfully fetched booking id=%d", op, booking.ID)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя, разделенные на предстоящие и прошедшие
// Пользователь может читать только свой список
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.UserBookingsResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.RequesterID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d tried to read bookings of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	resp := models.SplitUserBookings(bookings, s.timeProvider.Now())

	s.logger.Info("GetUserBookings: fetched %d upcoming and %d past bookings for user=%d",
		len(resp.Upcoming), len(resp.Past), req.UserID)
	return resp, nil
}

// GetProviderBookings получает бронирования провайдера с фильтрацией
// Доступно только владельцу провайдера
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkOwnerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает место в слоте
// Пользователь отменяет своё бронирование (cancelled_by=user),
// владелец провайдера любое бронирование провайдера (cancelled_by=provider)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	// 1. Определяем, кто отменяет
	var cancelledBy domain.CancelledBy
	if booking.UserID == req.UserID {
		cancelledBy = domain.CancelledByUser
	} else {
		if err := s.checkOwnerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return nil, ErrAccessDenied
		}
		cancelledBy = domain.CancelledByProvider
	}

	// 2. Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// 3. Отменяем и освобождаем место в одной транзакции.
	// Отмена условна по прочитанному статусу, место освобождается один раз
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Cancel(ctx, bookingID, booking.Status, cancelledBy, req.CancellationReason); err != nil {
			return err
		}
		return s.slotRepo.DecrementBooked(ctx, booking.TimeSlotID)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d was changed by another request", bookingID)
			return nil, ErrCannotCancel
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - transaction failed: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	booking.Status = domain.StatusCancelled
	booking.CancelledBy = &cancelledBy
	booking.CancellationReason = req.CancellationReason
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.notify(ctx, notifier.EventBookingCancelled, booking)

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, cancelledBy)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus обновляет статус бронирования по таблице переходов
// Доступно только владельцу провайдера
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for booking id=%d", booking.Status, newStatus, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	// Отмена через смену статуса считается отменой со стороны провайдера
	freesSlot := booking.IsActive() && (newStatus == domain.StatusCancelled || newStatus == domain.StatusNoShow)

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if newStatus == domain.StatusCancelled {
			if err := s.bookingRepo.Cancel(ctx, bookingID, booking.Status, domain.CancelledByProvider, nil); err != nil {
				return err
			}
		} else if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus); err != nil {
			return err
		}
		if freesSlot {
			return s.slotRepo.DecrementBooked(ctx, booking.TimeSlotID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: booking id=%d changed from %s by another request", bookingID, booking.Status)
			return nil, fmt.Errorf("%w: status changed from %s by another request", ErrInvalidTransition, booking.Status)
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: failed to update booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - transaction failed: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	booking.Status = newStatus
	booking.UpdatedAt = now
	if newStatus == domain.StatusCancelled {
		by := domain.CancelledByProvider
		booking.CancelledBy = &by
		booking.CancelledAt = &now
	}

	s.notify(ctx, notifier.EventBookingStatusChanged, booking)

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkOwnerAccess проверяет, что пользователь управляет провайдером
func (s *Service) checkOwnerAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := s.catalogRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			s.logger.Warn("checkOwnerAccess: provider id=%d not found", providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get provider id=%d: %v", providerID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of provider=%d", userID, providerID)
		return ErrAccessDenied
	}

	return nil
}

// notify отправляет событие, ошибки только логируются
func (s *Service) notify(ctx context.Context, event string, b *domain.Booking) {
	err := s.notifier.NotifyWithGracefulDegradation(ctx, notifier.BookingEvent{
		Event:         event,
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		UserID:        b.UserID,
		ProviderID:    b.ProviderID,
		Status:        string(b.Status),
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.String(),
		CustomerEmail: b.Customer.Email,
	})
	if err != nil {
		s.logger.Warn("notify: failed to send %s for booking id=%d: %v", event, b.ID, err)
	}
}
