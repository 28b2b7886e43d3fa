package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/internal/service"
)

type LanguageHandler struct {
	catalog *service.LanguageCatalog
}

func NewLanguageHandler(catalog *service.LanguageCatalog) *LanguageHandler {
	return &LanguageHandler{catalog: catalog}
}

// List returns the supported-language catalog, optionally filtered by the
// query parameter.
func (h *LanguageHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Search(c.Query("query")))
}
