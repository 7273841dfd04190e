package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/cart"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/pagseguro"
	"github.com/movase/bookstore/internal/viacep"
	"github.com/movase/bookstore/pkg/errors"
)

const validCPF = "529.982.247-25"

type memStore struct {
	mu    sync.Mutex
	items map[string][]domain.CartItem
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string][]domain.CartItem)}
}

func (s *memStore) Load(_ context.Context, key string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *memStore) Save(_ context.Context, key string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]domain.CartItem(nil), items...)
	return nil
}

func (s *memStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

type stubQuotes struct {
	quotes []correios.Quote
	err    error
	calls  int
}

func (s *stubQuotes) Quote(context.Context, string, float64) ([]correios.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

type stubAddresses struct {
	addr *viacep.Address
	err  error
}

func (s *stubAddresses) Lookup(context.Context, string) (*viacep.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.addr, nil
}

type stubPayments struct {
	order *pagseguro.Order
	resp  *pagseguro.OrderResponse
	err   error
}

func (s *stubPayments) CreateOrder(_ context.Context, order *pagseguro.Order) (*pagseguro.OrderResponse, error) {
	s.order = order
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubRecorder struct {
	order *domain.Order
	items []domain.OrderItem
}

func (s *stubRecorder) Record(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	s.order = order
	s.items = items
	return nil
}

func defaultQuotes() []correios.Quote {
	return []correios.Quote{
		{Codigo: correios.ServicePAC, Valor: "15,50", PrazoEntrega: "8", Erro: "0"},
		{Codigo: correios.ServiceSEDEX, Valor: "25,80", PrazoEntrega: "3", Erro: "0"},
	}
}

type fixture struct {
	wf        *Workflow
	cart      *cart.Cart
	quotes    *stubQuotes
	addresses *stubAddresses
	payments  *stubPayments
	recorder  *stubRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c := cart.New(context.Background(), "test", newMemStore(), zap.NewNop())
	t.Cleanup(c.Close)

	// Two copies of one title plus another book: 2x25.00 + 20.00 = 70.00
	c.AddItem(domain.CartItem{ID: 1, Title: "Dom Casmurro", Author: "Machado de Assis", Price: 25.00})
	c.AddItem(domain.CartItem{ID: 1, Title: "Dom Casmurro", Author: "Machado de Assis", Price: 25.00})
	c.AddItem(domain.CartItem{ID: 2, Title: "Vidas Secas", Author: "Graciliano Ramos", Price: 20.00})

	f := &fixture{
		cart:   c,
		quotes: &stubQuotes{quotes: defaultQuotes()},
		addresses: &stubAddresses{addr: &viacep.Address{
			CEP:      "04538-132",
			Street:   "Avenida Brigadeiro Faria Lima",
			District: "Itaim Bibi",
			City:     "São Paulo",
			State:    "SP",
		}},
		payments: &stubPayments{resp: &pagseguro.OrderResponse{ID: "ORDE_123"}},
		recorder: &stubRecorder{},
	}
	f.wf = New(c, f.quotes, f.addresses, f.payments, f.recorder, zap.NewNop())
	return f
}

func (f *fixture) fillCustomer() {
	f.wf.SetCustomer(CustomerData{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		CPF:   validCPF,
		Phone: "(11) 98765-4321",
	})
}

func (f *fixture) fillAddress() {
	f.wf.SetAddress(context.Background(), Address{CEP: "04538-132", Number: "1000"})
}

func (f *fixture) toConfirmation(t *testing.T) {
	t.Helper()
	f.fillCustomer()
	require.NoError(t, f.wf.Next())
	f.fillAddress()
	require.NoError(t, f.wf.Next())
	require.NoError(t, f.wf.Next())
	require.NoError(t, f.wf.SetPaymentMethod(MethodPix))
	require.NoError(t, f.wf.Next())
	require.Equal(t, StepConfirmation, f.wf.Step())
}

func TestNewStartsAtPersonalData(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, StepPersonalData, f.wf.Step())
	assert.Equal(t, MethodCreditCard, f.wf.Method())
}

func TestNextBlocksOnIncompleteCustomer(t *testing.T) {
	f := newFixture(t)

	err := f.wf.Next()
	require.Error(t, err)
	assert.Equal(t, StepPersonalData, f.wf.Step())

	f.wf.SetCustomer(CustomerData{Name: "Maria", CPF: validCPF, Phone: "11987654321"})
	err = f.wf.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dados pessoais")
}

func TestNextRejectsInvalidCPF(t *testing.T) {
	f := newFixture(t)

	f.wf.SetCustomer(CustomerData{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		CPF:   "111.111.111-11",
		Phone: "11987654321",
	})

	err := f.wf.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPF")
}

func TestNextAdvancesWithValidCustomer(t *testing.T) {
	f := newFixture(t)
	f.fillCustomer()

	require.NoError(t, f.wf.Next())
	assert.Equal(t, StepAddress, f.wf.Step())
}

func TestBackStopsAtFirstStep(t *testing.T) {
	f := newFixture(t)
	f.fillCustomer()
	require.NoError(t, f.wf.Next())

	f.wf.Back()
	assert.Equal(t, StepPersonalData, f.wf.Step())
	f.wf.Back()
	assert.Equal(t, StepPersonalData, f.wf.Step())
}

func TestSetAddressAutofillsAndQuotes(t *testing.T) {
	f := newFixture(t)
	f.fillAddress()

	addr := f.wf.Address()
	assert.Equal(t, "04538-132", addr.CEP)
	assert.Equal(t, "Avenida Brigadeiro Faria Lima", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Equal(t, "1000", addr.Number)

	quotes := f.wf.Quotes()
	require.Len(t, quotes, 2)

	// First quote auto-selected
	selected := f.wf.SelectedQuote()
	require.NotNil(t, selected)
	assert.Equal(t, correios.ServicePAC, selected.Codigo)
}

func TestSetAddressLookupMissKeepsManualEntry(t *testing.T) {
	f := newFixture(t)
	f.addresses.err = &errors.ErrNotFound{Resource: "cep", ID: "99999999"}

	f.wf.SetAddress(context.Background(), Address{CEP: "99999-999", Number: "10"})

	addr := f.wf.Address()
	assert.Empty(t, addr.Street)
	assert.NotEmpty(t, f.wf.Warning())
	// Quotes still computed for the destination
	assert.Len(t, f.wf.Quotes(), 2)
}

func TestSetAddressSameCEPDoesNotRequote(t *testing.T) {
	f := newFixture(t)
	f.fillAddress()
	require.Equal(t, 1, f.quotes.calls)

	f.wf.SetAddress(context.Background(), Address{CEP: "04538-132", Number: "2000"})
	assert.Equal(t, 1, f.quotes.calls)
}

func TestChangingCEPDiscardsQuotes(t *testing.T) {
	f := newFixture(t)
	f.fillAddress()
	require.NotNil(t, f.wf.SelectedQuote())

	f.quotes.err = fmt.Errorf("temporarily offline")
	f.wf.SetAddress(context.Background(), Address{CEP: "01310-100", Number: "900"})

	assert.Empty(t, f.wf.Quotes())
	assert.Nil(t, f.wf.SelectedQuote())
	assert.NotEmpty(t, f.wf.Warning())
}

func TestSelectQuote(t *testing.T) {
	f := newFixture(t)
	f.fillAddress()

	require.NoError(t, f.wf.SelectQuote(correios.ServiceSEDEX))
	assert.Equal(t, correios.ServiceSEDEX, f.wf.SelectedQuote().Codigo)

	err := f.wf.SelectQuote("99999")
	require.Error(t, err)
	_, ok := err.(*errors.ErrInvalidInput)
	assert.True(t, ok)
}

func TestTotalIncludesShipping(t *testing.T) {
	f := newFixture(t)
	assert.InDelta(t, 70.00, f.wf.Total(), 0.001)

	f.fillAddress()
	assert.InDelta(t, 85.50, f.wf.Total(), 0.001)

	require.NoError(t, f.wf.SelectQuote(correios.ServiceSEDEX))
	assert.InDelta(t, 95.80, f.wf.Total(), 0.001)
}

func TestShippingStepRequiresSelection(t *testing.T) {
	f := newFixture(t)
	f.fillCustomer()
	require.NoError(t, f.wf.Next())

	// No address set, so no quotes and no selection
	f.wf.SetAddress(context.Background(), Address{
		CEP: "04538132", Street: "Rua A", Number: "1", District: "Centro", City: "SP", State: "SP",
	})
	require.NoError(t, f.wf.Next())
	require.Equal(t, StepShipping, f.wf.Step())

	// Selection exists because quotes auto-selected; drop it by changing CEP
	f.quotes.err = fmt.Errorf("offline")
	f.wf.SetAddress(context.Background(), Address{
		CEP: "01310100", Street: "Rua B", Number: "2", District: "Centro", City: "SP", State: "SP",
	})

	err := f.wf.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frete")
}

func TestPaymentStepRequiresCardData(t *testing.T) {
	f := newFixture(t)
	f.fillCustomer()
	require.NoError(t, f.wf.Next())
	f.fillAddress()
	require.NoError(t, f.wf.Next())
	require.NoError(t, f.wf.Next())
	require.Equal(t, StepPayment, f.wf.Step())

	err := f.wf.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cartão")

	f.wf.SetCard(CardData{
		Number:       "4111 1111 1111 1111",
		ExpMonth:     "12",
		ExpYear:      "2030",
		SecurityCode: "123",
		HolderName:   "MARIA SILVA",
	})
	require.NoError(t, f.wf.Next())
	assert.Equal(t, StepConfirmation, f.wf.Step())
}

func TestSetPaymentMethodRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	err := f.wf.SetPaymentMethod(PaymentMethod("cheque"))
	require.Error(t, err)
	assert.Equal(t, MethodCreditCard, f.wf.Method())
}

func TestSubmitRequiresConfirmationStep(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, f.cart.ItemCount())
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	f := newFixture(t)
	f.toConfirmation(t)

	orderID, err := f.wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORDE_123", orderID)
	assert.Zero(t, f.cart.ItemCount())

	require.NotNil(t, f.recorder.order)
	assert.Equal(t, "ORDE_123", f.recorder.order.GatewayOrderID)
	assert.Equal(t, domain.OrderStatusPaymentPending, f.recorder.order.Status)
	assert.Len(t, f.recorder.items, 2)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.toConfirmation(t)
	f.payments.err = fmt.Errorf("gateway timeout")

	_, err := f.wf.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagamento")

	assert.Equal(t, 3, f.cart.ItemCount())
	assert.Equal(t, StepConfirmation, f.wf.Step())
	assert.False(t, f.wf.IsProcessing())

	// Retry succeeds once the gateway recovers
	f.payments.err = nil
	orderID, err := f.wf.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORDE_123", orderID)
}

func TestSubmitBuildsGatewayOrder(t *testing.T) {
	f := newFixture(t)
	f.wf.now = func() time.Time { return time.UnixMilli(1700000000000) }
	f.toConfirmation(t)

	_, err := f.wf.Submit(context.Background())
	require.NoError(t, err)

	order := f.payments.order
	require.NotNil(t, order)
	assert.Equal(t, "PED-1700000000000", order.ReferenceID)

	// Phone split into country 55, two-digit area and the rest
	require.Len(t, order.Customer.Phones, 1)
	assert.Equal(t, "55", order.Customer.Phones[0].Country)
	assert.Equal(t, "11", order.Customer.Phones[0].Area)
	assert.Equal(t, "987654321", order.Customer.Phones[0].Number)
	assert.Equal(t, "52998224725", order.Customer.TaxID)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 2500, order.Items[0].Amount)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// 70.00 in items plus 15,50 shipping, in centavos
	require.Len(t, order.Charges, 1)
	assert.Equal(t, 8550, order.Charges[0].Amount.Value)
	assert.Equal(t, "BRL", order.Charges[0].Amount.Currency)
	assert.Equal(t, pagseguro.MethodPix, order.Charges[0].PaymentMethod.Type)
}

func TestSessionsLifecycle(t *testing.T) {
	carts := cart.NewManager(newMemStore(), zap.NewNop())
	t.Cleanup(carts.Close)

	sessions := NewSessions(carts, &stubQuotes{}, &stubAddresses{}, &stubPayments{}, &stubRecorder{}, zap.NewNop())

	id, wf := sessions.Start(context.Background(), "cart-1")
	require.NotEmpty(t, id)
	require.NotNil(t, wf)

	got, ok := sessions.Get(id)
	require.True(t, ok)
	assert.Same(t, wf, got)

	sessions.Remove(id)
	_, ok = sessions.Get(id)
	assert.False(t, ok)
}
