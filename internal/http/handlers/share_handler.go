// Share HTTP handlers.
//
// This file exposes endpoints that render a ruling for export:
//   - POST /share/whatsapp  (share text and a wa.me link)
//   - POST /share/print     (standalone printable HTML document)
//
// The language parameter selects the localized framing (share header, print
// chrome); the ruling content itself is passed through verbatim.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

//
// DTOs
//

// ShareRequest is the JSON payload for either export surface.
type ShareRequest struct {
	// Content is the ruling text to export. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"ملخص الحكم: الوضوء بالماء المستعمل مختلف فيه بين المذاهب..."`
	// Language selects the localized framing; defaults to the conversation
	// language when omitted.
	Language string `json:"language" example:"ar"`
}

// WhatsAppShareResponse carries the prepared share text and link.
type WhatsAppShareResponse struct {
	// Text is the content prefixed with the localized share header.
	Text string `json:"text"`
	// URL is the wa.me link that opens WhatsApp with Text prefilled.
	URL string `json:"url"`
}

// shareLanguage resolves the effective language for an export request.
func (h *Handlers) shareLanguage(requested string) i18n.Language {
	if requested == "" {
		return h.convSvc.Language()
	}
	return i18n.Parse(requested)
}

//
// Handlers
//

// ShareWhatsApp godoc
// @ID          shareWhatsApp
// @Summary     Prepare a ruling for WhatsApp
// @Description Returns the ruling prefixed with the localized share header,
// @Description plus a wa.me link carrying the same text URL-encoded.
// @Tags        Share
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.ShareRequest  true  "Ruling to share"
// @Success     200  {object}  handlers.WhatsAppShareResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /share/whatsapp [post]
func (h *Handlers) ShareWhatsApp(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	lang := h.shareLanguage(req.Language)
	ok(c, http.StatusOK, WhatsAppShareResponse{
		Text: h.shareSvc.WhatsAppText(req.Content, lang),
		URL:  h.shareSvc.WhatsAppURL(req.Content, lang),
	})
}

// SharePrint godoc
// @ID          sharePrint
// @Summary     Render a ruling as a printable document
// @Description Returns a standalone HTML page with the ruling typeset for
// @Description print, right-to-left for Arabic.
// @Tags        Share
// @Accept      json
// @Produce     html
// @Param       body  body  handlers.ShareRequest  true  "Ruling to print"
// @Success     200  {string}  string  "HTML document"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Render failure"
// @Router      /share/print [post]
func (h *Handlers) SharePrint(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	lang := h.shareLanguage(req.Language)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.shareSvc.PrintDocument(c.Writer, req.Content, lang); err != nil {
		// Headers are already committed; surface the failure in logs only.
		_ = c.Error(err)
	}
}
