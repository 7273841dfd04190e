// Package checkout drives the multi-step checkout wizard: ordered steps
// gated by validation, shipping-quote recomputation when the destination
// changes, and payment dispatch on final submission.
package checkout

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/cart"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/pagseguro"
	"github.com/movase/bookstore/internal/viacep"
	"github.com/movase/bookstore/pkg/errors"
)

// Step is one stage of the checkout wizard
type Step string

const (
	StepPersonalData Step = "dados-pessoais"
	StepAddress      Step = "endereco"
	StepShipping     Step = "frete"
	StepPayment      Step = "pagamento"
	StepConfirmation Step = "confirmacao"
)

var stepOrder = []Step{StepPersonalData, StepAddress, StepShipping, StepPayment, StepConfirmation}

// PaymentMethod selects how the order is charged
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodBoleto     PaymentMethod = "boleto"
	MethodPix        PaymentMethod = "pix"
)

// CustomerData is the personal-data step payload
type CustomerData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

// Address is the address step payload
type Address struct {
	CEP        string `json:"cep"`
	Street     string `json:"logradouro"`
	Number     string `json:"numero"`
	Complement string `json:"complemento,omitempty"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"uf"`
}

// CardData is the card payment payload
type CardData struct {
	Number       string `json:"number"`
	ExpMonth     string `json:"exp_month"`
	ExpYear      string `json:"exp_year"`
	SecurityCode string `json:"security_code"`
	HolderName   string `json:"holder_name"`
	HolderCPF    string `json:"holder_cpf,omitempty"`
}

var stateRegexp = regexp.MustCompile(`^[A-Z]{2}$`)

// QuoteClient computes shipping quotes for a destination
type QuoteClient interface {
	Quote(ctx context.Context, cepDestino string, pesoKg float64) ([]correios.Quote, error)
}

// AddressClient resolves a CEP to a street address
type AddressClient interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

// PaymentClient submits a gateway order
type PaymentClient interface {
	CreateOrder(ctx context.Context, order *pagseguro.Order) (*pagseguro.OrderResponse, error)
}

// OrderRecorder persists a successful checkout for the back office
type OrderRecorder interface {
	Record(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
}

// Workflow is one checkout session. Suspension points release the lock
// so loading flags stay observable while a network call is in flight.
type Workflow struct {
	cart      *cart.Cart
	quotes    QuoteClient
	addresses AddressClient
	payments  PaymentClient
	recorder  OrderRecorder
	logger    *zap.Logger
	now       func() time.Time

	mu            sync.Mutex
	step          Step
	customer      CustomerData
	address       Address
	quoteOptions  []correios.Quote
	selected      *correios.Quote
	quotedCEP     string
	paymentMethod PaymentMethod
	card          CardData

	calculatingFrete bool
	buscandoEndereco bool
	processing       bool

	// warning holds a non-blocking user notice (address lookup miss,
	// quote failure); cleared on read
	warning string
}

// New creates a checkout session over an existing cart
func New(c *cart.Cart, quotes QuoteClient, addresses AddressClient, payments PaymentClient, recorder OrderRecorder, logger *zap.Logger) *Workflow {
	return &Workflow{
		cart:          c,
		quotes:        quotes,
		addresses:     addresses,
		payments:      payments,
		recorder:      recorder,
		logger:        logger,
		now:           time.Now,
		step:          StepPersonalData,
		paymentMethod: MethodCreditCard,
	}
}

// Step returns the current wizard step
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Next validates the current step and advances on success. On failure
// the step is unchanged and the returned error carries the user-facing
// message.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if msg := w.validateStep(w.step); msg != "" {
		return &errors.ErrInvalidInput{Message: msg}
	}

	for i, s := range stepOrder {
		if s == w.step && i < len(stepOrder)-1 {
			w.step = stepOrder[i+1]
			break
		}
	}
	return nil
}

// Back moves to the previous step; no-op at the first
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, s := range stepOrder {
		if s == w.step && i > 0 {
			w.step = stepOrder[i-1]
			break
		}
	}
}

func (w *Workflow) validateStep(step Step) string {
	switch step {
	case StepPersonalData:
		if w.customer.Name == "" || w.customer.Email == "" || w.customer.CPF == "" || w.customer.Phone == "" {
			return "Preencha todos os dados pessoais"
		}
		if !ValidCPF(w.customer.CPF) {
			return "CPF inválido"
		}
	case StepAddress:
		a := w.address
		if a.CEP == "" || a.Street == "" || a.Number == "" || a.District == "" || a.City == "" || a.State == "" {
			return "Preencha todos os dados do endereço"
		}
		if !correios.ValidCEP(a.CEP) {
			return "CEP deve ter 8 dígitos"
		}
		if !stateRegexp.MatchString(a.State) {
			return "Estado deve ter 2 letras maiúsculas"
		}
	case StepShipping:
		if w.selected == nil {
			return "Selecione uma opção de frete"
		}
	case StepPayment, StepConfirmation:
		if w.paymentMethod == MethodCreditCard {
			c := w.card
			if c.Number == "" || c.ExpMonth == "" || c.ExpYear == "" || c.SecurityCode == "" || c.HolderName == "" {
				return "Preencha todos os dados do cartão"
			}
		}
	}
	return ""
}

// SetCustomer stores the personal-data step fields
func (w *Workflow) SetCustomer(c CustomerData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.customer = c
}

// SetPaymentMethod selects how the order will be charged
func (w *Workflow) SetPaymentMethod(m PaymentMethod) error {
	switch m {
	case MethodCreditCard, MethodBoleto, MethodPix:
	default:
		return &errors.ErrInvalidInput{Field: "method", Message: "Método de pagamento inválido"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paymentMethod = m
	return nil
}

// SetCard stores the card payment fields
func (w *Workflow) SetCard(c CardData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.card = c
}

// SetAddress stores the address step fields. When the CEP reaches 8
// digits and differs from the last quoted one, the address is auto-filled
// from the lookup service and shipping quotes are recomputed. Editing the
// CEP discards previous quotes and the selection.
func (w *Workflow) SetAddress(ctx context.Context, a Address) {
	w.mu.Lock()

	newCEP := correios.OnlyDigits(a.CEP)
	if newCEP != correios.OnlyDigits(w.address.CEP) {
		w.quoteOptions = nil
		w.selected = nil
	}
	w.address = a

	shouldRefresh := len(newCEP) == 8 && newCEP != w.quotedCEP && !w.calculatingFrete
	w.mu.Unlock()

	if shouldRefresh {
		w.autofillAddress(ctx, newCEP)
		w.computeQuotes(ctx, newCEP)
	}
}

// SelectQuote overrides the auto-selected shipping quote
func (w *Workflow) SelectQuote(codigo string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.quoteOptions {
		if w.quoteOptions[i].Codigo == codigo {
			q := w.quoteOptions[i]
			w.selected = &q
			return nil
		}
	}
	return &errors.ErrInvalidInput{Field: "frete", Message: "Opção de frete inválida"}
}

// autofillAddress fills street fields from the lookup service. A miss is
// non-fatal: fields stay editable and a warning is queued.
func (w *Workflow) autofillAddress(ctx context.Context, cep string) {
	w.mu.Lock()
	w.buscandoEndereco = true
	w.mu.Unlock()

	addr, err := w.addresses.Lookup(ctx, cep)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.buscandoEndereco = false

	if err != nil {
		w.logger.Warn("Address lookup failed", zap.String("cep", cep), zap.Error(err))
		w.warning = "CEP não encontrado. Preencha manualmente."
		return
	}
	// Discard a stale result if the CEP changed while we were looking
	if correios.OnlyDigits(w.address.CEP) != cep {
		return
	}
	w.address.CEP = correios.FormatCEP(cep)
	w.address.Street = addr.Street
	w.address.District = addr.District
	w.address.City = addr.City
	w.address.State = addr.State
}

// computeQuotes fetches shipping quotes for the destination. The first
// quote is auto-selected; stale results (CEP changed meanwhile) are
// discarded without touching state.
func (w *Workflow) computeQuotes(ctx context.Context, cep string) {
	w.mu.Lock()
	w.calculatingFrete = true
	w.mu.Unlock()

	weight := correios.TotalWeight(w.cart.ItemCount())
	quotes, err := w.quotes.Quote(ctx, cep, weight)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calculatingFrete = false

	if err != nil {
		w.logger.Warn("Quote computation failed", zap.String("cep", cep), zap.Error(err))
		w.warning = "Erro ao calcular frete. Verifique o CEP."
		return
	}
	if correios.OnlyDigits(w.address.CEP) != cep {
		return
	}
	w.quoteOptions = quotes
	if len(quotes) > 0 {
		q := quotes[0]
		w.selected = &q
	}
	w.quotedCEP = cep
}

// Quotes returns the current quote batch
func (w *Workflow) Quotes() []correios.Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]correios.Quote(nil), w.quoteOptions...)
}

// SelectedQuote returns the chosen quote, nil when none
func (w *Workflow) SelectedQuote() *correios.Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return nil
	}
	q := *w.selected
	return &q
}

// Total is the cart total plus the selected shipping price
func (w *Workflow) Total() float64 {
	w.mu.Lock()
	selected := w.selected
	w.mu.Unlock()

	total := w.cart.Total()
	if selected != nil {
		total += correios.PriceValue(selected.Valor)
	}
	return total
}

// Loading flags let callers disable re-entrant actions
func (w *Workflow) IsCalculatingFrete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calculatingFrete
}

func (w *Workflow) IsBuscandoEndereco() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buscandoEndereco
}

func (w *Workflow) IsProcessing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processing
}

// Warning returns and clears the pending user notice
func (w *Workflow) Warning() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := w.warning
	w.warning = ""
	return msg
}

// Customer returns the personal-data fields
func (w *Workflow) Customer() CustomerData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.customer
}

// Address returns the address fields
func (w *Workflow) Address() Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Method returns the selected payment method
func (w *Workflow) Method() PaymentMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paymentMethod
}

// Submit charges the order. Only valid from the confirmation step, and
// re-entrance is refused while a previous submission is in flight. A
// gateway failure leaves cart and step untouched so the customer can
// retry; success clears the cart and returns the created order id.
func (w *Workflow) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.step != StepConfirmation {
		w.mu.Unlock()
		return "", &errors.ErrInvalidInput{Message: "Finalize as etapas anteriores antes de confirmar"}
	}
	if w.processing {
		w.mu.Unlock()
		return "", &errors.ErrInvalidInput{Message: "Pagamento em processamento"}
	}
	if msg := w.validateStep(StepPayment); msg != "" {
		w.mu.Unlock()
		return "", &errors.ErrInvalidInput{Message: msg}
	}

	w.processing = true
	reference := fmt.Sprintf("PED-%d", w.now().UnixMilli())
	order, record, recordItems := w.buildOrder(reference)
	w.mu.Unlock()

	resp, err := w.payments.CreateOrder(ctx, order)

	w.mu.Lock()
	w.processing = false
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Payment dispatch failed", zap.String("reference", reference), zap.Error(err))
		return "", fmt.Errorf("erro ao processar pagamento: %w", err)
	}

	record.GatewayOrderID = resp.ID
	if w.recorder != nil {
		if err := w.recorder.Record(ctx, record, recordItems); err != nil {
			// The charge went through; losing the back-office record is
			// recoverable via gateway reconciliation
			w.logger.Error("Failed to record order", zap.String("reference", reference), zap.Error(err))
		}
	}

	w.cart.Clear()
	return resp.ID, nil
}

// buildOrder assembles the gateway payload and the back-office record
// from the session snapshot. Caller holds the lock.
func (w *Workflow) buildOrder(reference string) (*pagseguro.Order, *domain.Order, []domain.OrderItem) {
	phone := correios.OnlyDigits(w.customer.Phone)
	area, number := "", phone
	if len(phone) > 2 {
		area, number = phone[:2], phone[2:]
	}

	addr := pagseguro.Address{
		Street:     w.address.Street,
		Number:     w.address.Number,
		Complement: w.address.Complement,
		District:   w.address.District,
		City:       w.address.City,
		State:      w.address.State,
		Country:    "BR",
		PostalCode: correios.OnlyDigits(w.address.CEP),
	}

	cartItems := w.cart.Items()
	items := make([]pagseguro.Item, 0, len(cartItems))
	recordItems := make([]domain.OrderItem, 0, len(cartItems))
	itemsCents := 0
	subtotal := 0.0
	for _, it := range cartItems {
		cents := int(math.Round(it.Price * 100))
		items = append(items, pagseguro.Item{
			ID:          strconv.Itoa(it.ID),
			Description: it.Title,
			Amount:      cents,
			Quantity:    it.Quantity,
			Weight:      500,
		})
		recordItems = append(recordItems, domain.OrderItem{
			BookID:   it.ID,
			Title:    it.Title,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
		itemsCents += cents * it.Quantity
		subtotal += it.Price * float64(it.Quantity)
	}

	shippingPrice := 0.0
	shippingService := ""
	if w.selected != nil {
		shippingPrice = correios.PriceValue(w.selected.Valor)
		shippingService = correios.ServiceName(w.selected.Codigo)
	}
	amountCents := itemsCents + int(math.Round(shippingPrice*100))

	customer := pagseguro.Customer{
		Name:    w.customer.Name,
		Email:   w.customer.Email,
		TaxID:   correios.OnlyDigits(w.customer.CPF),
		Phones:  []pagseguro.Phone{{Country: "55", Area: area, Number: number}},
		Address: addr,
	}

	var method pagseguro.PaymentMethod
	switch w.paymentMethod {
	case MethodBoleto:
		method = pagseguro.BoletoMethod(pagseguro.BoletoHolder{
			Name:    w.customer.Name,
			TaxID:   correios.OnlyDigits(w.customer.CPF),
			Email:   w.customer.Email,
			Address: addr,
		}, w.now())
	case MethodPix:
		method = pagseguro.PixMethod()
	default:
		method = pagseguro.CreditCardMethod(pagseguro.Card{
			Number:       correios.OnlyDigits(w.card.Number),
			ExpMonth:     w.card.ExpMonth,
			ExpYear:      w.card.ExpYear,
			SecurityCode: w.card.SecurityCode,
			Holder: pagseguro.CardHolder{
				Name:  w.card.HolderName,
				TaxID: correios.OnlyDigits(w.card.HolderCPF),
			},
		})
	}

	order := &pagseguro.Order{
		ReferenceID: reference,
		Customer:    customer,
		Items:       items,
		Shipping:    pagseguro.Shipping{Address: addr},
		Charges:     []pagseguro.Charge{pagseguro.NewCharge(reference, amountCents, method)},
	}

	record := &domain.Order{
		ID:            uuid.New(),
		Reference:     reference,
		Status:        domain.OrderStatusPaymentPending,
		CustomerName:  w.customer.Name,
		CustomerEmail: w.customer.Email,
		CustomerTaxID: correios.OnlyDigits(w.customer.CPF),
		CustomerPhone: phone,
		ShippingAddress: map[string]interface{}{
			"cep":         correios.FormatCEP(w.address.CEP),
			"logradouro":  w.address.Street,
			"numero":      w.address.Number,
			"complemento": w.address.Complement,
			"bairro":      w.address.District,
			"cidade":      w.address.City,
			"uf":          w.address.State,
		},
		ShippingService: shippingService,
		ShippingPrice:   shippingPrice,
		Subtotal:        subtotal,
		Total:           subtotal + shippingPrice,
		PaymentMethod:   string(w.paymentMethod),
	}

	return order, record, recordItems
}
