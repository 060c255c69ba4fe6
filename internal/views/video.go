package views

import (
	"net/url"
	"strings"
)

// EmbedURL turns a YouTube watch or share link into an embeddable URL. Other
// links are returned unchanged with ok false so the page can fall back to a
// plain video element.
func EmbedURL(videoURL string) (embed string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil || u.Host == "" {
		return videoURL, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}
	if id == "" || strings.Contains(id, "/") {
		return videoURL, false
	}
	return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id), true
}
