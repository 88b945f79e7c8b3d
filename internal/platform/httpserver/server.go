package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	scheduleservice "tranche/contexts/token-vesting/schedule-service"
	vestingerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	vestinghttp "tranche/contexts/token-vesting/schedule-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tranche/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	schedule scheduleservice.Module
}

func New(
	scheduleModule scheduleservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		schedule: scheduleModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/vesting/schedules", s.handleInitializeSchedule)
	s.mux.HandleFunc("GET /v1/vesting/schedules/{schedule_id}", s.handleGetSchedule)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/recipients", s.handleAddRecipients)
	s.mux.HandleFunc("GET /v1/vesting/schedules/{schedule_id}/recipients", s.handleListRecipients)
	s.mux.HandleFunc("GET /v1/vesting/schedules/{schedule_id}/recipients/{wallet}/quote", s.handleQuote)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/deposit", s.handleDeposit)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/release", s.handleRelease)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/release-batch", s.handleBatchRelease)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/pause", s.handlePause)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/unpause", s.handleUnpause)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/distributor", s.handleSetDistributor)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/revoke", s.handleRevokeRecipient)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/withdraw", s.handleWithdraw)
	s.mux.HandleFunc("POST /v1/vesting/schedules/{schedule_id}/sweep", s.handleSweep)
}

func (s *Server) handleInitializeSchedule(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.InitializeScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.schedule.Handler.InitializeScheduleHandler(r.Context(), actor, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.GetScheduleHandler(r.Context(), scheduleID)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddRecipients(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.AddRecipientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.AddRecipientsHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.ListRecipientsHandler(r.Context(), scheduleID)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("schedule_id")
	wallet := r.PathValue("wallet")
	resp, err := s.schedule.Handler.QuoteHandler(r.Context(), scheduleID, wallet)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.DepositHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.ReleaseHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatchRelease(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.BatchReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.BatchReleaseHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.PauseHandler(r.Context(), actor, scheduleID)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.UnpauseHandler(r.Context(), actor, scheduleID)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetDistributor(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.SetDistributorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.SetDistributorHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeRecipient(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.RevokeRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.RevokeRecipientHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.WithdrawHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	actor := r.Header.Get("X-Actor-Id")
	if actor == "" {
		writeVestingError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req vestinghttp.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVestingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	scheduleID := r.PathValue("schedule_id")
	resp, err := s.schedule.Handler.SweepHandler(r.Context(), actor, scheduleID, req)
	if err != nil {
		writeVestingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVestingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vestingerrors.ErrUnauthorizedAdmin):
		writeVestingError(w, http.StatusForbidden, "unauthorized_admin", err.Error())
	case errors.Is(err, vestingerrors.ErrUnauthorizedDistributor):
		writeVestingError(w, http.StatusForbidden, "unauthorized_distributor", err.Error())
	case errors.Is(err, vestingerrors.ErrScheduleNotFound),
		errors.Is(err, vestingerrors.ErrRecipientNotFound):
		writeVestingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, vestingerrors.ErrScheduleExists),
		errors.Is(err, vestingerrors.ErrDuplicateRecipient),
		errors.Is(err, vestingerrors.ErrRecipientsSealed),
		errors.Is(err, vestingerrors.ErrRecipientRevoked),
		errors.Is(err, vestingerrors.ErrSchedulePaused),
		errors.Is(err, vestingerrors.ErrScheduleNotPaused):
		writeVestingError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, vestingerrors.ErrInvalidWallet),
		errors.Is(err, vestingerrors.ErrInvalidConfig),
		errors.Is(err, vestingerrors.ErrInvalidTimestamp),
		errors.Is(err, vestingerrors.ErrInvalidAllocation),
		errors.Is(err, vestingerrors.ErrEmptyBatch),
		errors.Is(err, vestingerrors.ErrBatchTooLarge):
		writeVestingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, vestingerrors.ErrRecipientListFull),
		errors.Is(err, vestingerrors.ErrAllocationSumExceedsTotalSupply),
		errors.Is(err, vestingerrors.ErrAllocationSumMismatchAtSeal),
		errors.Is(err, vestingerrors.ErrOverDeposit):
		writeVestingError(w, http.StatusUnprocessableEntity, "allocation_violation", err.Error())
	case errors.Is(err, vestingerrors.ErrRecipientsNotSealed),
		errors.Is(err, vestingerrors.ErrBeforeStart),
		errors.Is(err, vestingerrors.ErrDepositAfterStart),
		errors.Is(err, vestingerrors.ErrVaultNotExactlyFunded),
		errors.Is(err, vestingerrors.ErrSweepBeforeEnd),
		errors.Is(err, vestingerrors.ErrSweepOutstanding):
		writeVestingError(w, http.StatusUnprocessableEntity, "schedule_state", err.Error())
	case errors.Is(err, vestingerrors.ErrInvalidTokenMint),
		errors.Is(err, vestingerrors.ErrInvalidTokenAccount),
		errors.Is(err, vestingerrors.ErrInvalidRecipientTokenAccount):
		writeVestingError(w, http.StatusUnprocessableEntity, "invalid_token_account", err.Error())
	case errors.Is(err, vestingerrors.ErrInsufficientVaultBalance):
		writeVestingError(w, http.StatusUnprocessableEntity, "insufficient_vault_balance", err.Error())
	default:
		writeVestingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVestingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, vestinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
