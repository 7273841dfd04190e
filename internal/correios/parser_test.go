package correios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movase/bookstore/pkg/errors"
)

const healthyResponse = `<?xml version="1.0" encoding="UTF-8"?>
<Servicos>
  <cServico>
    <Codigo>04510</Codigo>
    <Valor>22,10</Valor>
    <PrazoEntrega>9</PrazoEntrega>
    <EntregaDomiciliar>S</EntregaDomiciliar>
    <EntregaSabado>N</EntregaSabado>
    <Erro>0</Erro>
    <MsgErro></MsgErro>
  </cServico>
  <cServico>
    <Codigo>04014</Codigo>
    <Valor>42,90</Valor>
    <PrazoEntrega>4</PrazoEntrega>
    <EntregaDomiciliar>S</EntregaDomiciliar>
    <EntregaSabado>S</EntregaSabado>
    <Erro>0</Erro>
    <MsgErro></MsgErro>
  </cServico>
</Servicos>`

func TestParseResponseExtractsAllServices(t *testing.T) {
	quotes := ParseResponse(healthyResponse)
	require.Len(t, quotes, 2)

	assert.Equal(t, "04510", quotes[0].Codigo)
	assert.Equal(t, "22,10", quotes[0].Valor)
	assert.Equal(t, "9", quotes[0].PrazoEntrega)
	assert.Equal(t, "0", quotes[0].Erro)
	assert.Empty(t, quotes[0].MsgErro)

	assert.Equal(t, "04014", quotes[1].Codigo)
	assert.Equal(t, "42,90", quotes[1].Valor)
}

func TestParseResponseMissingElementsYieldEmptyFields(t *testing.T) {
	quotes := ParseResponse(`<Servicos><cServico><Codigo>04510</Codigo></cServico></Servicos>`)
	require.Len(t, quotes, 1)

	assert.Equal(t, "04510", quotes[0].Codigo)
	assert.Empty(t, quotes[0].Valor)
	assert.Empty(t, quotes[0].PrazoEntrega)
	assert.Empty(t, quotes[0].Erro)
}

func TestParseResponseNoBlocks(t *testing.T) {
	assert.Empty(t, ParseResponse(`<Servicos></Servicos>`))
	assert.Empty(t, ParseResponse(""))
}

func TestValidateQuotesAllHealthy(t *testing.T) {
	quotes := ParseResponse(healthyResponse)
	assert.NoError(t, ValidateQuotes(quotes))
}

func TestValidateQuotesFailsWholeBatchOnAnyError(t *testing.T) {
	quotes := []Quote{
		{Codigo: "04510", Erro: "0"},
		{Codigo: "04014", Erro: "-888", MsgErro: "peso excede o limite"},
	}

	err := ValidateQuotes(quotes)
	require.Error(t, err)

	carrierErr, ok := err.(*errors.ErrCarrier)
	require.True(t, ok)
	assert.Contains(t, carrierErr.Error(), "peso excede o limite")
}

func TestValidateQuotesJoinsMessages(t *testing.T) {
	quotes := []Quote{
		{Codigo: "04510", Erro: "-3", MsgErro: "CEP de origem inválido"},
		{Codigo: "04014", Erro: "-888", MsgErro: "peso excede o limite"},
	}

	err := ValidateQuotes(quotes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CEP de origem inválido, peso excede o limite")
}

func TestValidateQuotesErrorWithoutMessage(t *testing.T) {
	err := ValidateQuotes([]Quote{{Codigo: "04510", Erro: "7"}})
	require.Error(t, err)
	_, ok := err.(*errors.ErrCarrier)
	assert.True(t, ok)
}
