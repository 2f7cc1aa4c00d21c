package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/upload"
)

//go:embed templates/index.html static/*
var assets embed.FS

type imageView struct {
	Caption string
	Src     template.URL
}

type pageView struct {
	Question string
	State    models.DisplayState
	Images   []imageView
}

func newPageView(question string, state models.DisplayState) pageView {
	view := pageView{Question: question, State: state}
	for _, img := range state.Images {
		// data URLs are built by the presenter from validated image bytes
		view.Images = append(view.Images, imageView{Caption: img.Caption, Src: template.URL(img.URL)})
	}
	return view
}

// HandleIndex renders the empty form
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, newPageView("", models.DisplayState{}), http.StatusOK)
}

// HandleSubmitForm runs a submission from the HTML form and renders the result
func (h *Handler) HandleSubmitForm(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	file, err := upload.FromMultipart(r, h.opts.MaxUploadBytes)
	if err != nil {
		slog.Warn("Failed to read form upload", "err", err)
		state := models.DisplayState{ErrorKind: "file", Error: "Could not read the uploaded file: " + err.Error()}
		h.renderPage(w, newPageView(r.FormValue("question"), state), http.StatusBadRequest)
		return
	}

	question := r.FormValue("question")
	ctx, cancel := h.requestContext(r)
	defer cancel()

	state := h.service.HandleSubmit(ctx, file, question)
	h.renderPage(w, newPageView(question, state), http.StatusOK)
}

func (h *Handler) renderPage(w http.ResponseWriter, view pageView, code int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := h.page.Execute(w, view); err != nil {
		slog.Error("Unable to render page", "err", err)
	}
}

// StaticHandler serves the embedded stylesheet and scripts under /static/
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent directory listings
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}
