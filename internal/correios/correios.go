// Package correios computes shipping quotes against the Correios
// CalcPrecoPrazo service. The upstream answers quasi-XML; quotes are
// scraped per <cServico> block and the whole batch is rejected when any
// service reports a business error.
package correios

import (
	"strconv"
	"strings"
)

// Correios service tier codes
const (
	ServicePAC       = "04510"
	ServiceSEDEX     = "04014"
	ServiceSEDEX10   = "40215"
	ServiceSEDEX12   = "40290"
	ServiceSEDEXHoje = "40886"
)

var serviceNames = map[string]string{
	ServicePAC:       "PAC",
	ServiceSEDEX:     "SEDEX",
	ServiceSEDEX10:   "SEDEX 10",
	ServiceSEDEX12:   "SEDEX 12",
	ServiceSEDEXHoje: "SEDEX Hoje",
}

// Fixed package dimensions used for every quote (small book parcel)
const (
	defaultLength   = 16
	defaultHeight   = 2
	defaultWidth    = 11
	defaultDiameter = 0
	// nCdFormato 1 = box
	defaultFormat = "1"
)

// UnitWeightKg is the per-book weight approximation used for quotes
const UnitWeightKg = 0.5

// Quote is one service tier returned by the carrier. All fields are the
// textual values from the response; Valor uses a locale comma separator.
type Quote struct {
	Codigo                string
	Valor                 string
	PrazoEntrega          string
	ValorSemAdicionais    string
	ValorMaoPropria       string
	ValorAvisoRecebimento string
	ValorDeclarado        string
	EntregaDomiciliar     string
	EntregaSabado         string
	Erro                  string
	MsgErro               string
}

// ServiceName resolves a carrier service code to its display name
func ServiceName(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return "Serviço não identificado"
}

// OnlyDigits strips everything but digits from a CEP or phone string
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCEP reports whether the string holds exactly 8 digits after cleanup
func ValidCEP(cep string) bool {
	return len(OnlyDigits(cep)) == 8
}

// FormatCEP renders a CEP as 00000-000. Inputs that do not hold 8 digits
// are returned unchanged.
func FormatCEP(cep string) string {
	clean := OnlyDigits(cep)
	if len(clean) != 8 {
		return cep
	}
	return clean[:5] + "-" + clean[5:]
}

// TotalWeight approximates the parcel weight for a quantity of books
func TotalWeight(itemCount int) float64 {
	return float64(itemCount) * UnitWeightKg
}

// PriceValue parses the carrier's comma-decimal price. Unparsable values
// yield 0 so presentation sorting never fails.
func PriceValue(valor string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(valor, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// DeliveryDays parses the quote's delivery estimate, 0 when absent
func DeliveryDays(prazo string) int {
	d, err := strconv.Atoi(strings.TrimSpace(prazo))
	if err != nil {
		return 0
	}
	return d
}
