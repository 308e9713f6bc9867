package payment

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeportal/internal/student"
)

var txnPattern = regexp.MustCompile(`^TXN_\d+_[0-9a-zA-Z]+$`)

type approveGateway struct{}

func (approveGateway) Charge(ctx context.Context, method string, amount int64) error { return nil }

type declineGateway struct{}

func (declineGateway) Charge(ctx context.Context, method string, amount int64) error {
	return ErrDeclined
}

type paymentEnv struct {
	students *student.MemoryRepository
	store    *MemoryStore
	owner    *student.Student
}

func newPaymentEnv(t *testing.T, gw Gateway) (Service, *paymentEnv) {
	t.Helper()

	students := student.NewMemoryRepository()
	owner, err := students.Create(context.Background(), "Jane Smith", "jane@student.com", "hash")
	require.NoError(t, err)

	store := NewMemoryStore(students)
	svc := NewService(store, students, gw, nil)

	return svc, &paymentEnv{students: students, store: store, owner: owner}
}

func TestProcessSuccess(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})
	ctx := context.Background()

	receipt, err := svc.Process(ctx, env.owner.ID, ProcessRequest{
		PaymentMethod: MethodCard,
		CardNumber:    "4111111111111111",
		Amount:        5000,
	})
	require.NoError(t, err)

	assert.Regexp(t, txnPattern, receipt.TransactionID)
	assert.Equal(t, int64(5000), receipt.Amount)
	assert.Equal(t, MethodCard, receipt.PaymentMethod)

	// Exactly one payment row and the flag flipped together
	assert.Equal(t, 1, env.store.Count())
	updated, err := env.students.FindByID(ctx, env.owner.ID)
	require.NoError(t, err)
	assert.True(t, updated.FeesPaid)
}

func TestProcessDeclinedLeavesNoState(t *testing.T) {
	svc, env := newPaymentEnv(t, declineGateway{})
	ctx := context.Background()

	_, err := svc.Process(ctx, env.owner.ID, ProcessRequest{
		PaymentMethod: MethodCard,
		CardNumber:    "4111111111111111",
		Amount:        5000,
	})
	assert.ErrorIs(t, err, ErrDeclined)

	assert.Equal(t, 0, env.store.Count())
	updated, err := env.students.FindByID(ctx, env.owner.ID)
	require.NoError(t, err)
	assert.False(t, updated.FeesPaid)
}

func TestProcessValidation(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  ProcessRequest
		want error
	}{
		{"missing method", ProcessRequest{Amount: 5000}, ErrMissingFields},
		{"missing amount", ProcessRequest{PaymentMethod: MethodCard, CardNumber: "4111111111111111"}, ErrMissingFields},
		{"negative amount", ProcessRequest{PaymentMethod: MethodBank, Amount: -1}, ErrMissingFields},
		{"unknown method", ProcessRequest{PaymentMethod: "crypto", Amount: 5000}, ErrInvalidMethod},
		{"short card number", ProcessRequest{PaymentMethod: MethodCard, CardNumber: "411111111111", Amount: 5000}, ErrInvalidCard},
		{"card number absent", ProcessRequest{PaymentMethod: MethodCard, Amount: 5000}, ErrInvalidCard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Process(ctx, env.owner.ID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Validation failures never touch storage
	assert.Equal(t, 0, env.store.Count())
}

func TestProcessNonCardMethodsSkipCardCheck(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})

	for _, method := range []string{MethodPaypal, MethodBank} {
		receipt, err := svc.Process(context.Background(), env.owner.ID, ProcessRequest{
			PaymentMethod: method,
			Amount:        5000,
		})
		require.NoError(t, err)
		assert.Equal(t, method, receipt.PaymentMethod)
	}
}

func TestProcessStoreFailureLeavesNoPartialState(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})
	ctx := context.Background()

	env.store.FailRecord = true

	_, err := svc.Process(ctx, env.owner.ID, ProcessRequest{
		PaymentMethod: MethodBank,
		Amount:        5000,
	})
	require.Error(t, err)

	// Neither the payment row nor the flag may survive a failed write
	assert.Equal(t, 0, env.store.Count())
	updated, err := env.students.FindByID(ctx, env.owner.ID)
	require.NoError(t, err)
	assert.False(t, updated.FeesPaid)
}

func TestProcessRepeatPaymentAllowed(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})
	ctx := context.Background()

	req := ProcessRequest{PaymentMethod: MethodBank, Amount: 5000}

	first, err := svc.Process(ctx, env.owner.ID, req)
	require.NoError(t, err)
	second, err := svc.Process(ctx, env.owner.ID, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, 2, env.store.Count())
}

func TestHistoryOnlyOwnPayments(t *testing.T) {
	svc, env := newPaymentEnv(t, approveGateway{})
	ctx := context.Background()

	other, err := env.students.Create(ctx, "Bob Jones", "bob@student.com", "hash")
	require.NoError(t, err)

	_, err = svc.Process(ctx, env.owner.ID, ProcessRequest{PaymentMethod: MethodBank, Amount: 5000})
	require.NoError(t, err)
	_, err = svc.Process(ctx, other.ID, ProcessRequest{PaymentMethod: MethodPaypal, Amount: 5000})
	require.NoError(t, err)

	history, err := svc.History(ctx, env.owner.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, env.owner.ID, history[0].StudentID)
}

func TestNewTransactionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := newTransactionID()
		assert.Regexp(t, txnPattern, id)
		require.False(t, seen[id], "duplicate transaction id %s", id)
		seen[id] = true
	}
}

func TestSimulatedGatewayOutcomes(t *testing.T) {
	always := &SimulatedGateway{successRate: 0.9, draw: func() float64 { return 0.0 }}
	assert.NoError(t, always.Charge(context.Background(), MethodCard, 5000))

	never := &SimulatedGateway{successRate: 0.9, draw: func() float64 { return 0.95 }}
	assert.ErrorIs(t, never.Charge(context.Background(), MethodCard, 5000), ErrDeclined)
}
