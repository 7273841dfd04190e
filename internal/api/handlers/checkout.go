package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/checkout"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/pkg/errors"
)

func sessionState(w *checkout.Workflow) gin.H {
	state := gin.H{
		"step":                 w.Step(),
		"customer":             w.Customer(),
		"address":              w.Address(),
		"fretes":               w.Quotes(),
		"forma_pagamento":      w.Method(),
		"total":                w.Total(),
		"is_calculating_frete": w.IsCalculatingFrete(),
		"is_buscando_endereco": w.IsBuscandoEndereco(),
		"is_processing":        w.IsProcessing(),
	}
	if q := w.SelectedQuote(); q != nil {
		state["frete_selecionado"] = q
	}
	if msg := w.Warning(); msg != "" {
		state["aviso"] = msg
	}
	return state
}

func sessionFromPath(sessions *checkout.Sessions, c *gin.Context) (*checkout.Workflow, bool) {
	wf, ok := sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sessão de checkout não encontrada"})
		return nil, false
	}
	return wf, true
}

// HandleStartCheckout handles POST /api/checkout
func HandleStartCheckout(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CartKey string `json:"cart_key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_key é obrigatório"})
			return
		}

		id, wf := sessions.Start(c.Request.Context(), req.CartKey)
		c.JSON(http.StatusCreated, gin.H{"id": id, "step": wf.Step()})
	}
}

// HandleCheckoutState handles GET /api/checkout/:id
func HandleCheckoutState(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutNext handles POST /api/checkout/:id/next
func HandleCheckoutNext(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}
		if err := wf.Next(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutBack handles POST /api/checkout/:id/back
func HandleCheckoutBack(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}
		wf.Back()
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutCustomer handles PUT /api/checkout/:id/cliente
func HandleCheckoutCustomer(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		var data checkout.CustomerData
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		wf.SetCustomer(data)
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutAddress handles PUT /api/checkout/:id/endereco. Setting a
// complete CEP triggers address auto-fill and quote recomputation before
// the response, so the returned state already carries the new quotes.
func HandleCheckoutAddress(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		var addr checkout.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		wf.SetAddress(c.Request.Context(), addr)
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutQuotes handles GET /api/checkout/:id/fretes?forma=.
// The forma parameter narrows the batch for display: mais_rapida orders
// by deadline, mais_barata by price, personalizada returns everything.
func HandleCheckoutQuotes(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		mode := correios.DeliveryMode(c.DefaultQuery("forma", string(correios.ModeAll)))
		quotes := correios.DeliveryOptions(wf.Quotes(), mode)

		type option struct {
			Codigo  string  `json:"codigo"`
			Servico string  `json:"servico"`
			Valor   float64 `json:"valor"`
			Prazo   int     `json:"prazo_dias"`
		}
		options := make([]option, 0, len(quotes))
		for _, q := range quotes {
			options = append(options, option{
				Codigo:  q.Codigo,
				Servico: correios.ServiceName(q.Codigo),
				Valor:   correios.PriceValue(q.Valor),
				Prazo:   correios.DeliveryDays(q.PrazoEntrega),
			})
		}

		c.JSON(http.StatusOK, gin.H{"fretes": options})
	}
}

// HandleCheckoutSelectQuote handles PUT /api/checkout/:id/frete
func HandleCheckoutSelectQuote(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		var req struct {
			Codigo string `json:"codigo" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "codigo é obrigatório"})
			return
		}

		if err := wf.SelectQuote(req.Codigo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutPayment handles PUT /api/checkout/:id/pagamento
func HandleCheckoutPayment(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		var req struct {
			Method checkout.PaymentMethod `json:"method" binding:"required"`
			Card   *checkout.CardData     `json:"card"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := wf.SetPaymentMethod(req.Method); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Card != nil {
			wf.SetCard(*req.Card)
		}
		c.JSON(http.StatusOK, sessionState(wf))
	}
}

// HandleCheckoutSubmit handles POST /api/checkout/:id/confirmar. On
// success the session is torn down; a gateway failure keeps it alive so
// the customer can retry.
func HandleCheckoutSubmit(sessions *checkout.Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf, ok := sessionFromPath(sessions, c)
		if !ok {
			return
		}

		orderID, err := wf.Submit(c.Request.Context())
		if err != nil {
			if _, ok := err.(*errors.ErrInvalidInput); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Checkout submission failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "erro ao processar pagamento"})
			return
		}

		sessions.Remove(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"order_id": orderID})
	}
}
