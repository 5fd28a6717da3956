package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/utils"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

var (
	statusOK = []byte(`{"status":"OK"}`)
)

// NewHandler wires the bank behind load shedding and circuit breaking
func NewHandler(svc *service.Service, cfg config.ServerConfig, log *zerolog.Logger) http.Handler {
	bank := Chain(NewBankService(svc),
		NewLimitMiddleware(cfg.MaxInflight, cfg.AcquireTimeout),
		NewCircuitBreakMiddleware(cfg.BreakerFailures, cfg.BreakerTimeout, log),
	)
	return NewHTTPHandler(bank, log)
}

func NewHTTPHandler(svc Service, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc: svc,
		Log: log,
	}
	mux := chi.NewMux()
	mux.Use(middleware.RequestID, AccessLog(log), middleware.Recoverer)
	mux.NotFound(HTTPNotFound)
	mux.Get("/health", hndlr.Health)
	mux.Post("/accounts", hndlr.CreateAccount)
	mux.Route("/accounts/{number:[0-9]+}", func(r chi.Router) {
		r.Get("/", hndlr.GetAccount)
		r.Get("/balance", hndlr.Balance)
		r.Get("/transactions", hndlr.History)
		r.Get("/statement", hndlr.Statement)
		r.Post("/deposit", hndlr.Deposit)
		r.Post("/withdraw", hndlr.Withdraw)
	})
	mux.Post("/transfers", hndlr.Transfer)
	mux.Get("/transfers/{transferID}", hndlr.GetTransfer)

	return mux
}

type httpHandler struct {
	Svc Service
	Log *zerolog.Logger
}

func (h *httpHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(statusOK)
}

func (h *httpHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountReq
	if !h.decode(w, r, "create account", &req) {
		return
	}

	acc, err := h.Svc.CreateAccount(r.Context(), req)
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, NewAccountResp(acc))
}

func (h *httpHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Svc.GetAccount(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, NewAccountResp(acc))
}

func (h *httpHandler) Balance(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	bal, err := h.Svc.Balance(r.Context(), number)
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newBalanceResp(number, bal))
}

func (h *httpHandler) History(w http.ResponseWriter, r *http.Request) {
	txns, err := h.Svc.History(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	resp := make([]TransactionResp, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, NewTransactionResp(t))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) Statement(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Svc.Statement(r.Context(), &buf, chi.URLParam(r, "number")); err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := buf.WriteTo(w); err != nil {
		h.Log.Err(err).Str("method", "statement").Msg("error writing statement")
	}
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.charge(w, r, "deposit", h.Svc.Deposit)
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.charge(w, r, "withdraw", h.Svc.Withdraw)
}

func (h *httpHandler) charge(w http.ResponseWriter, r *http.Request, method string,
	op func(context.Context, ChargeReq) (decimal.Decimal, error)) {
	var req ChargeReq
	if !h.decode(w, r, method, &req) {
		return
	}
	req.AccountNumber = chi.URLParam(r, "number")

	bal, err := op(r.Context(), req)
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newBalanceResp(req.AccountNumber, bal))
}

func (h *httpHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferReq
	if !h.decode(w, r, "transfer", &req) {
		return
	}

	receipt, err := h.Svc.Transfer(r.Context(), req)
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, NewReceiptResp(receipt))
}

func (h *httpHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Svc.GetTransfer(r.Context(), chi.URLParam(r, "transferID"))
	if err != nil {
		h.WriteHTTPError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, NewReceiptResp(receipt))
}

func (h *httpHandler) decode(w http.ResponseWriter, r *http.Request, method string, v any) bool {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error reading HTTP request")
		h.WriteHTTPError(w, ErrInternalServer)
		return false
	}
	if err = json.Unmarshal(buf, v); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		h.WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return false
	}
	return true
}

func (h *httpHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Err(err).Msg("error response encoding failed")
	}
}

// WriteHTTPError maps err to a status code. Business outcomes are 4xx,
// shed or short-circuited calls 503, anything else 500.
func (h *httpHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := map[string]any{"error": err.Error()}

	var (
		badReq  ErrBadRequest
		invalid *service.ValidationError
		dup     *service.DuplicateIdentityError
		funds   *service.InsufficientFundsError
	)

	switch {
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
		resp["fields"] = badReq.Fields
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		resp["field"] = invalid.Field
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrSameAccount):
		status = http.StatusBadRequest
	case errors.As(err, &dup):
		status = http.StatusConflict
		resp["id_number"] = dup.IDNumber
	case errors.As(err, &funds):
		status = http.StatusConflict
		resp["account_number"] = funds.AccountNumber
		resp["balance"] = utils.FormatAmount(funds.Balance)
		resp["requested"] = utils.FormatAmount(funds.Requested)
		resp["shortfall"] = utils.FormatAmount(funds.Shortfall)
	case errors.Is(err, service.ErrUnderage):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrTransferNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrOverloaded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		status = http.StatusServiceUnavailable
	default:
		h.Log.Error().Err(err).Msg("request failed")
		resp["error"] = ErrInternalServer.Error()
	}

	h.writeJSON(w, status, resp)
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	resp := map[string]string{
		"path": r.URL.Path,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// AccessLog writes one structured line per request
func AccessLog(log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
