package correios

import (
	"regexp"
	"strings"

	"github.com/movase/bookstore/pkg/errors"
)

var servicoRegexp = regexp.MustCompile(`(?s)<cServico>(.*?)</cServico>`)

// ParseResponse extracts all <cServico> blocks from the carrier response.
// Extraction is literal: a missing leaf element yields an empty field,
// never a parse failure. The upstream payload is trusted-format but not
// well-formed enough for encoding/xml.
func ParseResponse(xml string) []Quote {
	blocks := servicoRegexp.FindAllStringSubmatch(xml, -1)

	quotes := make([]Quote, 0, len(blocks))
	for _, block := range blocks {
		quotes = append(quotes, parseServico(block[1]))
	}
	return quotes
}

func parseServico(block string) Quote {
	return Quote{
		Codigo:                extractField(block, "Codigo"),
		Valor:                 extractField(block, "Valor"),
		PrazoEntrega:          extractField(block, "PrazoEntrega"),
		ValorSemAdicionais:    extractField(block, "ValorSemAdicionais"),
		ValorMaoPropria:       extractField(block, "ValorMaoPropria"),
		ValorAvisoRecebimento: extractField(block, "ValorAvisoRecebimento"),
		ValorDeclarado:        extractField(block, "ValorDeclarado"),
		EntregaDomiciliar:     extractField(block, "EntregaDomiciliar"),
		EntregaSabado:         extractField(block, "EntregaSabado"),
		Erro:                  extractField(block, "Erro"),
		MsgErro:               extractField(block, "MsgErro"),
	}
}

func extractField(block, field string) string {
	open := "<" + field + ">"
	closing := "</" + field + ">"

	start := strings.Index(block, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(block[start:], closing)
	if end < 0 {
		return ""
	}
	return block[start : start+end]
}

// ValidateQuotes fails the whole batch when any quote carries a non-zero
// error code. Erro "0" means success; anything else makes the quote
// unusable and its message is surfaced.
func ValidateQuotes(quotes []Quote) error {
	var failed bool
	var msgs []string
	for _, q := range quotes {
		if q.Erro == "0" {
			continue
		}
		failed = true
		if q.MsgErro != "" {
			msgs = append(msgs, q.MsgErro)
		}
	}
	if failed {
		return &errors.ErrCarrier{Message: strings.Join(msgs, ", ")}
	}
	return nil
}
