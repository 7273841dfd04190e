package pagseguro

import "time"

// BoletoDueDays is how long a bank slip stays payable
const BoletoDueDays = 3

// PixExpirySeconds is the validity window of a PIX charge
const PixExpirySeconds = 3600

// CreditCardMethod builds a single-installment, immediate-capture card charge
func CreditCardMethod(card Card) PaymentMethod {
	return PaymentMethod{
		Type:         MethodCreditCard,
		Installments: 1,
		Capture:      true,
		Card:         &card,
	}
}

// BoletoMethod builds a bank-slip charge due BoletoDueDays from now
func BoletoMethod(holder BoletoHolder, now time.Time) PaymentMethod {
	return PaymentMethod{
		Type: MethodBoleto,
		Boleto: &Boleto{
			DueDate: now.Add(BoletoDueDays * 24 * time.Hour).Format("2006-01-02"),
			InstructionLines: InstructionLines{
				Line1: "Pagamento processado via PagSeguro",
				Line2: "Após o pagamento, seu pedido será processado",
			},
			Holder: holder,
		},
	}
}

// PixMethod builds an instant-payment charge with a fixed expiry window
func PixMethod() PaymentMethod {
	return PaymentMethod{
		Type: MethodPix,
		Pix:  &Pix{ExpiresIn: PixExpirySeconds},
	}
}

// NewCharge assembles the single charge attached to an order
func NewCharge(referenceID string, amountCents int, method PaymentMethod) Charge {
	return Charge{
		ReferenceID: referenceID,
		Description: "Pedido " + referenceID,
		Amount: Amount{
			Value:    amountCents,
			Currency: "BRL",
		},
		PaymentMethod: method,
	}
}
