package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

// Chain applies middlewares so that the first one is the outermost
func Chain(svc Service, mws ...Middleware) Service {
	for i := len(mws) - 1; i >= 0; i-- {
		svc = mws[i](svc)
	}
	return svc
}

//
// Load shedding
//

// limitMiddleware bounds the number of in-flight calls with a weighted
// semaphore. A call that can not get a slot within the acquire timeout, or
// before its context ends, fails with ErrOverloaded.
type limitMiddleware struct {
	next    Service
	sem     *semaphore.Weighted
	timeout time.Duration
}

var _ Service = (*limitMiddleware)(nil)

func NewLimitMiddleware(maxInflight int64, timeout time.Duration) Middleware {
	sem := semaphore.NewWeighted(maxInflight)
	return func(next Service) Service {
		return &limitMiddleware{next: next, sem: sem, timeout: timeout}
	}
}

func (l *limitMiddleware) acquire(ctx context.Context) (func(), error) {
	actx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.sem.Acquire(actx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverloaded, err)
	}
	return func() { l.sem.Release(1) }, nil
}

func limited[T any](ctx context.Context, l *limitMiddleware, fn func() (T, error)) (T, error) {
	release, err := l.acquire(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer release()
	return fn()
}

func (l *limitMiddleware) CreateAccount(ctx context.Context, req CreateAccountReq) (*model.Account, error) {
	return limited(ctx, l, func() (*model.Account, error) { return l.next.CreateAccount(ctx, req) })
}

func (l *limitMiddleware) GetAccount(ctx context.Context, number string) (*model.Account, error) {
	return limited(ctx, l, func() (*model.Account, error) { return l.next.GetAccount(ctx, number) })
}

func (l *limitMiddleware) Balance(ctx context.Context, number string) (decimal.Decimal, error) {
	return limited(ctx, l, func() (decimal.Decimal, error) { return l.next.Balance(ctx, number) })
}

func (l *limitMiddleware) History(ctx context.Context, number string) ([]*model.Transaction, error) {
	return limited(ctx, l, func() ([]*model.Transaction, error) { return l.next.History(ctx, number) })
}

func (l *limitMiddleware) Deposit(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	return limited(ctx, l, func() (decimal.Decimal, error) { return l.next.Deposit(ctx, req) })
}

func (l *limitMiddleware) Withdraw(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	return limited(ctx, l, func() (decimal.Decimal, error) { return l.next.Withdraw(ctx, req) })
}

func (l *limitMiddleware) Transfer(ctx context.Context, req TransferReq) (*service.TransferReceipt, error) {
	return limited(ctx, l, func() (*service.TransferReceipt, error) { return l.next.Transfer(ctx, req) })
}

func (l *limitMiddleware) GetTransfer(ctx context.Context, transferID string) (*service.TransferReceipt, error) {
	return limited(ctx, l, func() (*service.TransferReceipt, error) { return l.next.GetTransfer(ctx, transferID) })
}

func (l *limitMiddleware) Statement(ctx context.Context, w io.Writer, number string) error {
	_, err := limited(ctx, l, func() (struct{}, error) { return struct{}{}, l.next.Statement(ctx, w, number) })
	return err
}

//
// Circuit breaking
//

// circuitBreakMiddleware stops calling the store after repeated faults.
// Business outcomes such as insufficient funds count as successes, only
// faults trip the breaker. While open, calls fail fast with
// gobreaker.ErrOpenState.
type circuitBreakMiddleware struct {
	next Service
	cb   *gobreaker.CircuitBreaker[any]
}

var _ Service = (*circuitBreakMiddleware)(nil)

func NewCircuitBreakMiddleware(failures uint32, timeout time.Duration, log *zerolog.Logger) Middleware {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "store",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || service.IsBusinessError(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return func(next Service) Service {
		return &circuitBreakMiddleware{next: next, cb: cb}
	}
}

func guarded[T any](c *circuitBreakMiddleware, fn func() (T, error)) (T, error) {
	res, err := c.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (c *circuitBreakMiddleware) CreateAccount(ctx context.Context, req CreateAccountReq) (*model.Account, error) {
	return guarded(c, func() (*model.Account, error) { return c.next.CreateAccount(ctx, req) })
}

func (c *circuitBreakMiddleware) GetAccount(ctx context.Context, number string) (*model.Account, error) {
	return guarded(c, func() (*model.Account, error) { return c.next.GetAccount(ctx, number) })
}

func (c *circuitBreakMiddleware) Balance(ctx context.Context, number string) (decimal.Decimal, error) {
	return guarded(c, func() (decimal.Decimal, error) { return c.next.Balance(ctx, number) })
}

func (c *circuitBreakMiddleware) History(ctx context.Context, number string) ([]*model.Transaction, error) {
	return guarded(c, func() ([]*model.Transaction, error) { return c.next.History(ctx, number) })
}

func (c *circuitBreakMiddleware) Deposit(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	return guarded(c, func() (decimal.Decimal, error) { return c.next.Deposit(ctx, req) })
}

func (c *circuitBreakMiddleware) Withdraw(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	return guarded(c, func() (decimal.Decimal, error) { return c.next.Withdraw(ctx, req) })
}

func (c *circuitBreakMiddleware) Transfer(ctx context.Context, req TransferReq) (*service.TransferReceipt, error) {
	return guarded(c, func() (*service.TransferReceipt, error) { return c.next.Transfer(ctx, req) })
}

func (c *circuitBreakMiddleware) GetTransfer(ctx context.Context, transferID string) (*service.TransferReceipt, error) {
	return guarded(c, func() (*service.TransferReceipt, error) { return c.next.GetTransfer(ctx, transferID) })
}

func (c *circuitBreakMiddleware) Statement(ctx context.Context, w io.Writer, number string) error {
	_, err := guarded(c, func() (struct{}, error) { return struct{}{}, c.next.Statement(ctx, w, number) })
	return err
}
