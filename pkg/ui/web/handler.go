package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/adrianliechti/wingman-ask/pkg/ask"

	"github.com/go-chi/chi/v5"
)

func (u *UI) handlePage(w http.ResponseWriter, r *http.Request) {
	d := u.lookup(chi.URLParam(r, "id"))

	if d == nil {
		renderClosed(w, http.StatusGone, "This question is no longer open.")
		return
	}

	renderQuestion(w, http.StatusOK, d)
}

func (u *UI) handleSubmit(w http.ResponseWriter, r *http.Request) {
	d := u.lookup(chi.URLParam(r, "id"))

	if d == nil {
		renderClosed(w, http.StatusGone, "This question is no longer open.")
		return
	}

	d.postMu.Lock()
	defer d.postMu.Unlock()

	d.drain()

	r.Body = http.MaxBytesReader(w, r.Body, u.maxBody())

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		status := http.StatusBadRequest

		var maxErr *http.MaxBytesError

		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}

		d.mu.Lock()
		d.err = "The upload could not be read: " + err.Error()
		d.mu.Unlock()

		renderQuestion(w, status, d)
		return
	}

	if r.FormValue("action") == "cancel" {
		d.send(ask.Cancelled{})
		u.awaitClose(w, r, d, "The question was cancelled.")
		return
	}

	events, err := u.formEvents(d, r.MultipartForm, r.FormValue("option"), r.FormValue("text"))

	if err != nil {
		d.mu.Lock()
		d.err = err.Error()
		d.mu.Unlock()

		renderQuestion(w, http.StatusBadRequest, d)
		return
	}

	for _, e := range events {
		if !d.send(e) {
			renderClosed(w, http.StatusGone, "This question is no longer open.")
			return
		}
	}

	select {
	case <-d.replies:
		renderQuestion(w, http.StatusUnprocessableEntity, d)

	case <-d.closed:
		renderClosed(w, http.StatusOK, "Your answer was sent. You can close this tab.")

	case <-r.Context().Done():
	}
}

func (u *UI) awaitClose(w http.ResponseWriter, r *http.Request, d *dialog, message string) {
	select {
	case <-d.closed:
		renderClosed(w, http.StatusOK, message)
	case <-r.Context().Done():
	}
}

// formEvents turns one form post into the dialog's event sequence, ending in Submitted.
func (u *UI) formEvents(d *dialog, form *multipart.Form, option, text string) ([]ask.Event, error) {
	var events []ask.Event

	d.mu.Lock()
	defer d.mu.Unlock()

	d.err = ""

	if d.question.IsChoice() && option != "" {
		d.selected = option
		events = append(events, ask.OptionSelected{Value: option})
	}

	d.text = text
	events = append(events, ask.TextChanged{Text: text})

	if form != nil {
		for _, header := range form.File["images"] {
			if header.Size == 0 && header.Filename == "" {
				continue
			}

			data, err := u.readFile(header)

			if err != nil {
				return nil, err
			}

			d.attachments = append(d.attachments, header.Filename)

			events = append(events, ask.ImageAttached{
				Data:     data,
				MimeType: http.DetectContentType(data),
			})
		}
	}

	return append(events, ask.Submitted{}), nil
}

// readFile reads at most one byte over the limit so the bridge can report oversized files.
func (u *UI) readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()

	if err != nil {
		return nil, err
	}

	defer f.Close()

	return io.ReadAll(io.LimitReader(f, int64(u.limits.MaxImageBytes)+1))
}

func (u *UI) maxBody() int64 {
	return int64(u.limits.MaxImages+1)*int64(u.limits.MaxImageBytes) + 1<<20
}
