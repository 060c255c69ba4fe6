package handlers

import (
	"cmp"
	"errors"
	"log"
	"net/http"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/views"
)

// respondWithError writes a plain-text error. The cause, when present, is
// logged under logMsg or, failing that, the user-facing message.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", cmp.Or(logMsg, userMsg), err)
	}
	http.Error(w, userMsg, status)
}

// toLogin sends the browser to the login page with a toast when the backend
// session could not be refreshed
func (rd *Renderer) toLogin(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	rd.Flash(w, r, views.ToastError, apiclient.UserMessage(err))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// failAndRedirect handles a failed backend call from a form post
func (rd *Renderer) failAndRedirect(w http.ResponseWriter, r *http.Request, target, logMsg string, err error) {
	log.Printf("%s: %v", logMsg, err)
	if rd.toLogin(w, r, err) {
		return
	}
	rd.Flash(w, r, views.ToastError, apiclient.UserMessage(err))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageLoadFailed handles a failed backend call while rendering a page
func (rd *Renderer) pageLoadFailed(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		log.Printf("%s: %v", logMsg, err)
		rd.toLogin(w, r, err)
	case apiclient.IsStatus(err, http.StatusNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", logMsg, err)
	default:
		respondWithError(w, http.StatusBadGateway, apiclient.UserMessage(err), logMsg, err)
	}
}
