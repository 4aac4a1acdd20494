package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// View names.
const (
	ViewIndex  = "index.html"
	ViewEdit   = "edit.html"
	ViewAdd    = "add.html"
	ViewSelect = "select.html"
	ViewError  = "error.html"
)

// Page is the outcome of a page operation: a view to render or a location
// to redirect to.
type Page struct {
	View     string
	Data     interface{}
	Redirect string
}

func redirect(location string) *Page {
	return &Page{Redirect: location}
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template once.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"rating": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, view := range []string{ViewIndex, ViewEdit, ViewAdd, ViewSelect, ViewError} {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+view)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.pages[view] = t
	}
	return r, nil
}

// Render executes view with data into w.
func (r *Renderer) Render(w io.Writer, view string, data interface{}) error {
	t, ok := r.pages[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	return t.ExecuteTemplate(w, "base.html", data)
}

// Write sends p: a 302 for redirects, otherwise the rendered view.
func (r *Renderer) Write(w http.ResponseWriter, req *http.Request, p *Page) error {
	if p.Redirect != "" {
		http.Redirect(w, req, p.Redirect, http.StatusFound)
		return nil
	}
	return r.write(w, http.StatusOK, p.View, p.Data)
}

// WriteError renders err as the error page with its kratos status code.
func (r *Renderer) WriteError(w http.ResponseWriter, err error) {
	se := errors.FromError(err)
	data := errorView{Code: int(se.Code), Reason: se.Reason, Message: se.Message}
	if werr := r.write(w, data.Code, ViewError, data); werr != nil {
		http.Error(w, se.Message, data.Code)
	}
}

func (r *Renderer) write(w http.ResponseWriter, status int, view string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, view, data); err != nil {
		return errors.InternalServer("RENDER_FAILED", "failed to render page").WithCause(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
