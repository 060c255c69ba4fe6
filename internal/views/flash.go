package views

import (
	"encoding/gob"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSessionName = "lingoplay_flash"

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a one-shot notification shown on the next rendered page
type Toast struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Toast{})
}

// Flasher stores toasts in a signed cookie between a redirect and the next page
type Flasher struct {
	store sessions.Store
}

// NewFlasher creates a flasher signing its cookie with secret
func NewFlasher(secret string, secure bool) *Flasher {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flasher{store: store}
}

// Add queues a toast for the next page
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		// A cookie signed with an old secret still yields a usable new session
		log.Printf("Flash cookie unreadable, starting fresh: %v", err)
	}
	session.AddFlash(Toast{Kind: kind, Message: message})
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving flash: %v", err)
	}
}

// Pop returns and clears the queued toasts
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Toast {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		return nil
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		log.Printf("Error clearing flash: %v", err)
	}
	toasts := make([]Toast, 0, len(flashes))
	for _, flash := range flashes {
		if toast, ok := flash.(Toast); ok {
			toasts = append(toasts, toast)
		}
	}
	return toasts
}
