package list_class_instances

import (
	"errors"
	"net/http"
	"time"

	"github.com/dojoworks/MAS-BookingService/internal/api/handlers"
	"github.com/dojoworks/MAS-BookingService/internal/domain"
	listInstances "github.com/dojoworks/MAS-BookingService/internal/usecase/list_class_instances"
)

const (
	msgInvalidFrom   = "invalid from date, expected YYYY-MM-DD"
	msgInvalidTo     = "invalid to date, expected YYYY-MM-DD"
	msgInvalidWindow = "invalid date window"
)

type Handler struct {
	useCase ListClassInstancesUseCase
	logger  Logger

	// Дефолтное окно каталога, когда from/to не переданы
	lookbackDays int
	horizonDays  int
}

func NewHandler(useCase ListClassInstancesUseCase, lookbackDays, horizonDays int, logger Logger) *Handler {
	return &Handler{
		useCase:      useCase,
		logger:       logger,
		lookbackDays: lookbackDays,
		horizonDays:  horizonDays,
	}
}

// Handle GET /api/v1/classes/instances?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	from := today.AddDate(0, 0, -h.lookbackDays)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /classes/instances - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = parsed
	}

	to := today.AddDate(0, 0, h.horizonDays)
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /classes/instances - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTo)
			return
		}
		to = parsed
	}

	result, err := h.useCase.Execute(r.Context(), &listInstances.Request{From: from, To: to})
	if err != nil {
		if errors.Is(err, listInstances.ErrInvalidWindow) {
			h.logger.Warn("GET /classes/instances - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWindow)
			return
		}
		h.logger.Error("GET /classes/instances - Failed to list instances: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /classes/instances - Retrieved %d instances for %s..%s",
		len(result.Instances), result.From, result.To)
	handlers.RespondJSON(w, http.StatusOK, result)
}
