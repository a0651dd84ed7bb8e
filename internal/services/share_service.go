// Package services – ShareService
//
// This file formats a message's content for the one-way share and print
// collaborators: a WhatsApp text blob with a localized header (plus the
// wa.me link carrying it), and a printable HTML document. Both are
// fire-and-forget exports; nothing downstream feeds back into the stores.
package services

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

// ShareService renders share and print payloads.
type ShareService struct{}

// NewShareService returns a ShareService.
func NewShareService() *ShareService { return &ShareService{} }

// WhatsAppText prefixes content with the fixed localized share header.
func (s *ShareService) WhatsAppText(content string, lang i18n.Language) string {
	return i18n.Lookup(lang).ShareHeader + content
}

// WhatsAppURL builds the wa.me share link for content.
func (s *ShareService) WhatsAppURL(content string, lang i18n.Language) string {
	return "https://wa.me/?text=" + url.QueryEscape(s.WhatsAppText(content, lang))
}

// printTmpl is the printable document. Content is injected through
// html/template so reply text can never break out into markup.
var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html dir="{{.Dir}}" lang="{{.Lang}}">
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <link href="https://fonts.googleapis.com/css2?family=Amiri:wght@400;700&display=swap" rel="stylesheet">
    <style>
      body { font-family: 'Amiri', serif; padding: 40px; color: #333; line-height: 1.8; }
      .header { border-bottom: 2px solid #b8860b; margin-bottom: 30px; padding-bottom: 10px; text-align: center; }
      .content { white-space: pre-wrap; font-size: 20px; }
      .footer { margin-top: 50px; font-size: 14px; text-align: center; color: #777; border-top: 1px solid #eee; padding-top: 20px; }
    </style>
  </head>
  <body>
    <div class="header">
      <h1>{{.Title}}</h1>
      <p>{{.Subtitle}}</p>
    </div>
    <div class="content">{{.Content}}</div>
    <div class="footer">{{.Footer}}</div>
    <script>window.onload = () => { window.print(); window.close(); }</script>
  </body>
</html>
`))

// printData feeds printTmpl.
type printData struct {
	Dir      string
	Lang     string
	Title    string
	Subtitle string
	Footer   string
	Content  string
}

// PrintDocument writes the printable HTML document for content to w.
func (s *ShareService) PrintDocument(w io.Writer, content string, lang i18n.Language) error {
	table := i18n.Lookup(lang)
	dir := "rtl"
	if lang == i18n.English {
		dir = "ltr"
	}
	data := printData{
		Dir:      dir,
		Lang:     string(lang),
		Title:    table.PrintTitle,
		Subtitle: table.PrintSubtitle,
		Footer:   table.PrintFooter,
		Content:  strings.TrimSpace(content),
	}
	if err := printTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render print document: %w", err)
	}
	return nil
}
