package correios

import "sort"

// DeliveryMode selects how quote options are presented to the customer
type DeliveryMode string

const (
	ModeFastest  DeliveryMode = "mais_rapida"
	ModeCheapest DeliveryMode = "mais_barata"
	ModeAll      DeliveryMode = "personalizada"
)

// SortByDeadline returns a copy ordered by ascending delivery days
func SortByDeadline(quotes []Quote) []Quote {
	out := append([]Quote(nil), quotes...)
	sort.SliceStable(out, func(i, j int) bool {
		return DeliveryDays(out[i].PrazoEntrega) < DeliveryDays(out[j].PrazoEntrega)
	})
	return out
}

// SortByPrice returns a copy ordered by ascending price
func SortByPrice(quotes []Quote) []Quote {
	out := append([]Quote(nil), quotes...)
	sort.SliceStable(out, func(i, j int) bool {
		return PriceValue(out[i].Valor) < PriceValue(out[j].Valor)
	})
	return out
}

// DeliveryOptions narrows the quote batch to what the selected mode
// shows: the two fastest, the two cheapest, or everything.
func DeliveryOptions(quotes []Quote, mode DeliveryMode) []Quote {
	switch mode {
	case ModeCheapest:
		return topTwo(SortByPrice(quotes))
	case ModeAll:
		return append([]Quote(nil), quotes...)
	default:
		return topTwo(SortByDeadline(quotes))
	}
}

func topTwo(quotes []Quote) []Quote {
	if len(quotes) > 2 {
		return quotes[:2]
	}
	return quotes
}
