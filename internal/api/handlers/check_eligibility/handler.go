package check_eligibility

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dojoworks/MAS-BookingService/internal/api/handlers"
	"github.com/dojoworks/MAS-BookingService/internal/api/middleware"
	"github.com/dojoworks/MAS-BookingService/internal/domain"
	"github.com/dojoworks/MAS-BookingService/internal/service/eligibility"
)

const (
	msgInvalidClassID = "invalid class ID"
	msgInvalidDate    = "invalid date, expected YYYY-MM-DD"
	msgClassNotFound  = "class not found"
	msgUserNotFound   = "user not found"
)

// EligibilityResponse HTTP response model
type EligibilityResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"`
	Used    int    `json:"used,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
}

type Handler struct {
	service EligibilityService
	logger  Logger
}

func NewHandler(service EligibilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/classes/{classId}/eligibility?date=YYYY-MM-DD
// Предпросмотр решения: показывает, сможет ли пользователь забронировать
// занятие, не создавая бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "authentication required")
		return
	}

	vars := mux.Vars(r)
	classID, err := strconv.ParseInt(vars["classId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /classes/{classId}/eligibility - Invalid class ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClassID)
		return
	}

	targetDate := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /classes/{classId}/eligibility - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		targetDate = parsed
	}

	decision, err := h.service.EvaluateForClass(r.Context(), userID, classID, targetDate)
	if err != nil {
		switch {
		case errors.Is(err, eligibility.ErrClassNotFound):
			h.logger.Warn("GET /classes/{classId}/eligibility - Class not found: class_id=%d", classID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, eligibility.ErrUserNotFound):
			h.logger.Warn("GET /classes/{classId}/eligibility - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /classes/{classId}/eligibility - Failed to evaluate: user_id=%d, class_id=%d, error=%v",
				userID, classID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /classes/{classId}/eligibility - user_id=%d, class_id=%d, allowed=%t, reason=%s",
		userID, classID, decision.Allowed, decision.Reason)
	handlers.RespondJSON(w, http.StatusOK, EligibilityResponse{
		Allowed: decision.Allowed,
		Reason:  string(decision.Reason),
		Detail:  decision.Detail,
		Used:    decision.Used,
		Limit:   decision.Limit,
	})
}
