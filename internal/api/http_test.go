package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/api"
	"github.com/hance08/kbank/internal/api/mocks"
	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHTTPCreateAccount(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns Created with the new account", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateAccount(gomock.Any(), api.CreateAccountReq{Name: "Ada", IDNumber: "X1", DateOfBirth: "1990-01-02"}).
			Return(&model.Account{
				AccountNumber: "1234567890",
				HolderName:    "Ada",
				IDNumber:      "X1",
				DateOfBirth:   time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
			}, nil).
			Times(1)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts", `{"name":"Ada","id_number":"X1","date_of_birth":"1990-01-02"}`)

		as.Equal(http.StatusCreated, w.Code)
		resp := decodeBody(tt, w)
		as.Equal("1234567890", resp["account_number"])
		as.Equal("1990-01-02", resp["date_of_birth"])
	})

	t.Run("returns Conflict on a reused id number", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateAccount(gomock.Any(), gomock.Any()).
			Return(nil, &service.DuplicateIdentityError{IDNumber: "X1"})

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts", `{"name":"Ada","id_number":"X1","date_of_birth":"1990-01-02"}`)

		as.Equal(http.StatusConflict, w.Code)
		as.Equal("X1", decodeBody(tt, w)["id_number"])
	})

	t.Run("returns Unprocessable Entity for an underage holder", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateAccount(gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("%w: age 12, minimum 18", service.ErrUnderage))

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts", `{"name":"Kid","id_number":"K1","date_of_birth":"2012-01-02"}`)

		as.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("returns Bad Request on a validation error", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateAccount(gomock.Any(), gomock.Any()).
			Return(nil, &service.ValidationError{Field: "name", Err: errors.New("name can't be empty")})

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts", `{"name":"","id_number":"X1","date_of_birth":"1990-01-02"}`)

		as.Equal(http.StatusBadRequest, w.Code)
		as.Equal("name", decodeBody(tt, w)["field"])
	})

	t.Run("returns Bad Request on malformed request body", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts", `{"name":`)

		as.Equal(http.StatusBadRequest, w.Code)
		as.Contains(decodeBody(tt, w), "fields")
	})
}

func TestHTTPCharge(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("Deposit returns OK with the new balance", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Deposit(gomock.Any(), gomock.AssignableToTypeOf(api.ChargeReq{})).
			DoAndReturn(func(_ context.Context, r api.ChargeReq) (decimal.Decimal, error) {
				as.Equal("1234567890", r.AccountNumber)
				as.True(r.Amount.Equal(decimal.NewFromInt(1234)))
				return decimal.NewFromInt(1234), nil
			}).
			Times(1)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts/1234567890/deposit", `{"amount":1234.00}`)

		as.Equal(http.StatusOK, w.Code)
		resp := decodeBody(tt, w)
		as.Equal("1234.00", resp["balance"])
	})

	t.Run("Withdraw returns Conflict with the shortfall", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(decimal.Zero, &service.InsufficientFundsError{
				AccountNumber: "1234567890",
				Balance:       decimal.NewFromInt(100),
				Requested:     decimal.NewFromInt(150),
				Shortfall:     decimal.NewFromInt(50),
			})

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts/1234567890/withdraw", `{"amount":"150"}`)

		as.Equal(http.StatusConflict, w.Code)
		resp := decodeBody(tt, w)
		as.Equal("50.00", resp["shortfall"])
		as.Equal("100.00", resp["balance"])
		as.Equal("150.00", resp["requested"])
	})

	t.Run("returns Not Found on a non-numeric account number", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts/24j24g*()/deposit", `{"amount":1}`)

		as.Equal(http.StatusNotFound, w.Code)
		as.Contains(decodeBody(tt, w), "path")
	})

	t.Run("returns Bad Request on a non-positive amount", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Deposit(gomock.Any(), gomock.Any()).
			Return(decimal.Zero, service.ErrInvalidAmount)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/accounts/1234567890/deposit", `{"amount":-5}`)

		as.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestHTTPErrors(t *testing.T) {
	nooplog := zerolog.Nop()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown account", fmt.Errorf("account '1': %w", service.ErrAccountNotFound), http.StatusNotFound},
		{"shed call", fmt.Errorf("%w: context deadline exceeded", api.ErrOverloaded), http.StatusServiceUnavailable},
		{"open breaker", gobreaker.ErrOpenState, http.StatusServiceUnavailable},
		{"store fault", errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(tt *testing.T) {
			as := assert.New(tt)
			ctrl := gomock.NewController(tt)
			svc := mocks.NewMockService(ctrl)
			svc.EXPECT().
				Balance(gomock.Any(), "1234567890").
				Return(decimal.Zero, c.err)

			hndlr := api.NewHTTPHandler(svc, &nooplog)
			w := serve(hndlr, http.MethodGet, "/accounts/1234567890/balance", "")

			as.Equal(c.status, w.Code)
			if c.status == http.StatusInternalServerError {
				as.Equal(api.ErrInternalServer.Error(), decodeBody(tt, w)["error"])
			}
		})
	}
}

func TestHTTPTransfer(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns Created with both legs", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		amount := decimal.NewFromInt(60)
		svc.EXPECT().
			Transfer(gomock.Any(), gomock.AssignableToTypeOf(api.TransferReq{})).
			Return(&service.TransferReceipt{
				TransferID: "t-1",
				From:       "1111111111",
				To:         "2222222222",
				Amount:     amount,
				Debit:      &model.Transaction{ID: 7241722241547767808, AccountNumber: "1111111111", Amount: amount.Neg(), Kind: model.KindTransferOut, TransferID: "t-1"},
				Credit:     &model.Transaction{ID: 7241722241547767809, AccountNumber: "2222222222", Amount: amount, Kind: model.KindTransferIn, TransferID: "t-1"},
			}, nil)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodPost, "/transfers", `{"from":"1111111111","to":"2222222222","amount":"60"}`)

		as.Equal(http.StatusCreated, w.Code)
		var resp api.ReceiptResp
		as.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		as.Equal("t-1", resp.TransferID)
		as.Equal("-60.00", resp.Debit.Amount)
		as.Equal("7241722241547767808", resp.Debit.ID)
	})

	t.Run("returns Not Found for an unknown transfer", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			GetTransfer(gomock.Any(), "nope").
			Return(nil, service.ErrTransferNotFound)

		hndlr := api.NewHTTPHandler(svc, &nooplog)
		w := serve(hndlr, http.MethodGet, "/transfers/nope", "")

		as.Equal(http.StatusNotFound, w.Code)
	})
}

func TestHandlerWithFileStore(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	nooplog := zerolog.Nop()

	repo, err := store.OpenFileStore(filepath.Join(t.TempDir(), "kbank.jsonl"), &nooplog)
	reqrd.NoError(err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	cfg := config.NewDefault()
	svc, err := service.NewService(repo, cfg, &nooplog)
	reqrd.NoError(err)
	hndlr := api.NewHandler(svc, cfg.Server, &nooplog)

	open := func(name, id string) string {
		w := serve(hndlr, http.MethodPost, "/accounts",
			fmt.Sprintf(`{"name":%q,"id_number":%q,"date_of_birth":"1980-05-05"}`, name, id))
		reqrd.Equal(http.StatusCreated, w.Code, w.Body.String())
		return decodeBody(t, w)["account_number"].(string)
	}
	alice := open("Alice", "A-1")
	bob := open("Bob", "B-1")

	w := serve(hndlr, http.MethodPost, "/accounts", `{"name":"Alice","id_number":"a-1","date_of_birth":"1980-05-05"}`)
	as.Equal(http.StatusConflict, w.Code)

	w = serve(hndlr, http.MethodPost, "/accounts/"+alice+"/deposit", `{"amount":"100"}`)
	reqrd.Equal(http.StatusOK, w.Code)

	w = serve(hndlr, http.MethodPost, "/transfers", fmt.Sprintf(`{"from":%q,"to":%q,"amount":"160"}`, alice, bob))
	as.Equal(http.StatusConflict, w.Code)
	as.Equal("60.00", decodeBody(t, w)["shortfall"])

	w = serve(hndlr, http.MethodPost, "/transfers", fmt.Sprintf(`{"from":%q,"to":%q,"amount":"60"}`, alice, bob))
	reqrd.Equal(http.StatusCreated, w.Code)
	transferID := decodeBody(t, w)["transfer_id"].(string)

	w = serve(hndlr, http.MethodGet, "/transfers/"+transferID, "")
	as.Equal(http.StatusOK, w.Code)

	w = serve(hndlr, http.MethodGet, "/accounts/"+bob+"/balance", "")
	as.Equal("60.00", decodeBody(t, w)["balance"])

	w = serve(hndlr, http.MethodGet, "/accounts/"+alice+"/transactions", "")
	reqrd.Equal(http.StatusOK, w.Code)
	var txns []api.TransactionResp
	reqrd.NoError(json.Unmarshal(w.Body.Bytes(), &txns))
	as.Len(txns, 2)

	w = serve(hndlr, http.MethodGet, "/accounts/"+alice+"/statement", "")
	as.Equal(http.StatusOK, w.Code)
	as.Equal("application/pdf", w.Header().Get("Content-Type"))
	as.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = serve(hndlr, http.MethodGet, "/accounts/9999999999/balance", "")
	as.Equal(http.StatusNotFound, w.Code)
}
