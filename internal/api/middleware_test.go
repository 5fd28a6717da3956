package api_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/api"
	"github.com/hance08/kbank/internal/api/mocks"
	"github.com/hance08/kbank/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestLimitMiddleware(t *testing.T) {
	t.Run("sheds calls beyond the in-flight limit", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)

		entered := make(chan struct{})
		release := make(chan struct{})
		svc.EXPECT().
			Balance(gomock.Any(), "1111111111").
			DoAndReturn(func(context.Context, string) (decimal.Decimal, error) {
				close(entered)
				<-release
				return decimal.NewFromInt(10), nil
			}).
			Times(1)

		l := api.NewLimitMiddleware(1, 20*time.Millisecond)(svc)

		done := make(chan error, 1)
		go func() {
			_, err := l.Balance(context.Background(), "1111111111")
			done <- err
		}()
		<-entered

		_, err := l.Balance(context.Background(), "1111111111")
		as.ErrorIs(err, api.ErrOverloaded)

		close(release)
		as.NoError(<-done)
	})

	t.Run("frees the slot once a call returns", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			GetAccount(gomock.Any(), gomock.Any()).
			Return(nil, service.ErrAccountNotFound).
			Times(3)

		l := api.NewLimitMiddleware(1, 20*time.Millisecond)(svc)
		for i := 0; i < 3; i++ {
			_, err := l.GetAccount(context.Background(), "1111111111")
			as.ErrorIs(err, service.ErrAccountNotFound)
		}
	})
}

func TestCircuitBreakMiddleware(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("opens after consecutive faults", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		fault := errors.New("database is locked")
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(decimal.Zero, fault).
			Times(2)

		cb := api.NewCircuitBreakMiddleware(2, time.Minute, &nooplog)(svc)
		req := api.ChargeReq{AccountNumber: "1111111111", Amount: decimal.NewFromInt(5)}

		_, err := cb.Withdraw(context.Background(), req)
		as.ErrorIs(err, fault)
		_, err = cb.Withdraw(context.Background(), req)
		as.ErrorIs(err, fault)

		_, err = cb.Withdraw(context.Background(), req)
		as.ErrorIs(err, gobreaker.ErrOpenState)
	})

	t.Run("business errors do not trip the breaker", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		short := &service.InsufficientFundsError{
			AccountNumber: "1111111111",
			Balance:       decimal.Zero,
			Requested:     decimal.NewFromInt(5),
			Shortfall:     decimal.NewFromInt(5),
		}
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(decimal.Zero, short).
			Times(4)

		cb := api.NewCircuitBreakMiddleware(2, time.Minute, &nooplog)(svc)
		req := api.ChargeReq{AccountNumber: "1111111111", Amount: decimal.NewFromInt(5)}

		for i := 0; i < 4; i++ {
			_, err := cb.Withdraw(context.Background(), req)
			var funds *service.InsufficientFundsError
			as.ErrorAs(err, &funds)
		}
	})

	t.Run("passes results through", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Balance(gomock.Any(), "1111111111").
			Return(decimal.NewFromInt(42), nil)

		mw := api.Chain(svc,
			api.NewLimitMiddleware(4, time.Second),
			api.NewCircuitBreakMiddleware(2, time.Minute, &nooplog),
		)
		bal, err := mw.Balance(context.Background(), "1111111111")
		as.NoError(err)
		as.True(bal.Equal(decimal.NewFromInt(42)))
	})
}
