package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-lending-server/session"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}

// Page carries the fields every template shares. Building it consumes the
// pending flash message, which is what limits a flash to a single render.
type Page struct {
	Title    string
	Flash    *session.Flash
	Nav      []NavItem
	LoggedIn bool
}

func (s *Server) newPage(r *http.Request, sess *session.Context, title string) Page {
	return Page{
		Title:    title,
		Flash:    sess.ConsumeFlash(),
		Nav:      navItems(sess, r.URL.Path),
		LoggedIn: sess.Authenticated(),
	}
}

func render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("failed to render template")
	}
}

// renderErrorPage is the 5xx-equivalent surface for collaborator failures.
func (s *Server) renderErrorPage(w http.ResponseWriter, status int, message string) {
	tmpl, err := ParseTemplate("error.html")
	if err != nil {
		http.Error(w, message, status)
		return
	}

	title := "500 - Internal Server Error"
	if status == http.StatusNotFound {
		title = "404 - Not Found"
	}

	data := struct {
		Title   string
		Message string
	}{Title: title, Message: message}

	render(w, tmpl, status, data)
}
