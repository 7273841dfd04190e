package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/internal/viacep"
	"github.com/movase/bookstore/pkg/errors"
)

// HandleCorreiosProxy handles GET /api/correios?cep=&peso=. It forwards
// the carrier XML unchanged; upstream unavailability is already absorbed
// by the client's synthetic fallback, so a 200 XML body is the only
// success shape.
func HandleCorreiosProxy(client *correios.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cep := c.Query("cep")
		peso := c.Query("peso")

		if cep == "" || peso == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CEP e peso são obrigatórios"})
			return
		}
		if len(correios.OnlyDigits(cep)) != 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CEP deve ter 8 dígitos"})
			return
		}

		pesoKg, err := strconv.ParseFloat(peso, 64)
		if err != nil || pesoKg <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peso inválido"})
			return
		}

		xml := client.FetchXML(c.Request.Context(), correios.OnlyDigits(cep), pesoKg)
		c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
	}
}

// HandleCEPLookup handles GET /api/cep/:cep
func HandleCEPLookup(client *viacep.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, err := client.Lookup(c.Request.Context(), c.Param("cep"))
		if err != nil {
			switch err.(type) {
			case *errors.ErrInvalidInput:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "CEP não encontrado"})
			default:
				logger.Error("Address lookup failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, addr)
	}
}
