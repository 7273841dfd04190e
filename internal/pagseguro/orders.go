package pagseguro

// Wire types for the PagSeguro order-creation API. Field layout follows
// the gateway contract; amounts are integer centavos.

// Item is one purchased unit on the order
type Item struct {
	ID          string `json:"reference_id"`
	Description string `json:"name"`
	Amount      int    `json:"unit_amount"`
	Quantity    int    `json:"quantity"`
	Weight      int    `json:"weight,omitempty"` // grams
}

// Address is a billing or shipping address
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"locality"`
	City       string `json:"city"`
	State      string `json:"region_code"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Phone is a customer phone split the way the gateway expects
type Phone struct {
	Country string `json:"country"`
	Area    string `json:"area"`
	Number  string `json:"number"`
}

// Customer identifies the buyer
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	TaxID   string  `json:"tax_id"`
	Phones  []Phone `json:"phones"`
	Address Address `json:"address"`
}

// Card carries credit card data for a CREDIT_CARD charge
type Card struct {
	Number       string     `json:"number"`
	ExpMonth     string     `json:"exp_month"`
	ExpYear      string     `json:"exp_year"`
	SecurityCode string     `json:"security_code"`
	Holder       CardHolder `json:"holder"`
}

type CardHolder struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
}

// Boleto configures a bank-slip charge
type Boleto struct {
	DueDate          string           `json:"due_date"`
	InstructionLines InstructionLines `json:"instruction_lines"`
	Holder           BoletoHolder     `json:"holder"`
}

type InstructionLines struct {
	Line1 string `json:"line_1"`
	Line2 string `json:"line_2"`
}

type BoletoHolder struct {
	Name    string  `json:"name"`
	TaxID   string  `json:"tax_id"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// Pix configures an instant-payment charge
type Pix struct {
	ExpiresIn int `json:"expires_in"`
}

// Payment method types
const (
	MethodCreditCard = "CREDIT_CARD"
	MethodBoleto     = "BOLETO"
	MethodPix        = "PIX"
)

// PaymentMethod is the method-specific block of a charge
type PaymentMethod struct {
	Type         string  `json:"type"`
	Installments int     `json:"installments,omitempty"`
	Capture      bool    `json:"capture,omitempty"`
	Card         *Card   `json:"card,omitempty"`
	Boleto       *Boleto `json:"boleto,omitempty"`
	Pix          *Pix    `json:"pix,omitempty"`
}

// Amount is a charge value in a given currency
type Amount struct {
	Value    int    `json:"value"`
	Currency string `json:"currency"`
}

// Charge is one payment attempt on an order
type Charge struct {
	ReferenceID   string        `json:"reference_id"`
	Description   string        `json:"description"`
	Amount        Amount        `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// Order is the order-creation request payload
type Order struct {
	ReferenceID string   `json:"reference_id"`
	Customer    Customer `json:"customer"`
	Items       []Item   `json:"items"`
	Shipping    Shipping `json:"shipping"`
	Charges     []Charge `json:"charges"`
}

type Shipping struct {
	Address Address `json:"address"`
}

// ChargeResponse is one charge in the gateway's order response
type ChargeResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	PaidAt      string `json:"paid_at,omitempty"`
	Amount      Amount `json:"amount"`
	PaymentResponse struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"payment_response"`
}

// OrderResponse is the gateway's created-order payload
type OrderResponse struct {
	ID          string           `json:"id"`
	ReferenceID string           `json:"reference_id"`
	CreatedAt   string           `json:"created_at"`
	Charges     []ChargeResponse `json:"charges"`
}
