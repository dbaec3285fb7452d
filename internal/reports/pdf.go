package reports

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/Edinam27/lect-next/web"
)

// PDFRenderer turns rendered report HTML into a PDF document.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter renders reports through an HTML template and a Gotenberg
// backend.
type PDFExporter struct {
	renderer  PDFRenderer
	templates *template.Template
}

// NewPDFExporter parses the report template and wires the renderer.
func NewPDFExporter(renderer PDFRenderer) (*PDFExporter, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"now": func() string {
			return time.Now().Format("January 2, 2006 at 3:04 PM")
		},
	}
	tpl, err := template.New("attendance_report_pdf.html").Funcs(funcMap).ParseFS(
		web.Templates, "templates/reports/attendance_report_pdf.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &PDFExporter{renderer: renderer, templates: tpl}, nil
}

// Render produces PDF bytes for a report.
func (p *PDFExporter) Render(ctx context.Context, report Report) ([]byte, error) {
	if p == nil || p.renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	html, err := p.buildHTML(report)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return p.renderer.RenderHTML(ctx, html)
}

func (p *PDFExporter) buildHTML(report Report) (string, error) {
	if p.templates == nil {
		return "", fmt.Errorf("templates not initialised")
	}
	buf := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(buf, "attendance_report_pdf.html", report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
