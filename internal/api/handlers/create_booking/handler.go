package create_booking

import (
	"errors"
	"net/http"

	"github.com/dojoworks/MAS-BookingService/internal/api/handlers"
	"github.com/dojoworks/MAS-BookingService/internal/api/middleware"
	createBooking "github.com/dojoworks/MAS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidTime        = "invalid start_time format, expected HH:MM"
	msgClassNotFound      = "class not found"
	msgUserNotFound       = "user not found"
	msgDuplicateBooking   = "you already have a booking for this class on this date"
	msgClassFull          = "this class is full"
	msgAgeRestricted      = "you do not meet the age requirements for this class"
	msgNoMembership       = "an active membership is required to book classes"
	msgLimitExceeded      = "you have reached your monthly class limit"
	msgInvalidSlot        = "this class does not take place at the requested date and time"
	msgInvalidDate        = "bookings can only be made for future class times"

	membershipsRedirect = "/memberships"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "authentication required")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: user_id=%d, class_id=%d", userID, req.ClassID)
			handlers.RespondRejection(w, http.StatusConflict, msgDuplicateBooking, "duplicate_booking", "")

		case errors.Is(err, createBooking.ErrClassFull):
			h.logger.Warn("POST /bookings - Class full: user_id=%d, class_id=%d", userID, req.ClassID)
			handlers.RespondRejection(w, http.StatusConflict, msgClassFull, "class_full", "")

		case errors.Is(err, createBooking.ErrAgeRestricted):
			h.logger.Warn("POST /bookings - Age restricted: user_id=%d, class_id=%d", userID, req.ClassID)
			handlers.RespondRejection(w, http.StatusForbidden, msgAgeRestricted, "age_restricted", "")

		case errors.Is(err, createBooking.ErrNoMembership):
			h.logger.Warn("POST /bookings - No membership: user_id=%d", userID)
			handlers.RespondRejection(w, http.StatusForbidden, msgNoMembership, "no_membership", membershipsRedirect)

		case errors.Is(err, createBooking.ErrLimitExceeded):
			h.logger.Warn("POST /bookings - Monthly limit exceeded: user_id=%d", userID)
			handlers.RespondRejection(w, http.StatusForbidden, msgLimitExceeded, "limit_exceeded", "")

		case errors.Is(err, createBooking.ErrClassNotFound):
			h.logger.Warn("POST /bookings - Class not found: class_id=%d", req.ClassID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, createBooking.ErrUserNotFound):
			h.logger.Warn("POST /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: user_id=%d, class_id=%d, date=%s, time=%s",
				userID, req.ClassID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: user_id=%d, class_id=%d, date=%s", userID, req.ClassID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, class_id=%d, error=%v",
				userID, req.ClassID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, class_id=%d",
		result.BookingID, userID, req.ClassID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
