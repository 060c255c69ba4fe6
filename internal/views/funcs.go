// Package views holds presentation helpers shared by the page templates.
package views

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

// FuncMap returns the template functions available to every page
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"t":            T,
		"levelStyle":   StyleForLevel,
		"errorMessage": apiclient.UserMessage,
		"join":         strings.Join,
		"markdown": func(source string) template.HTML {
			html, err := RenderMarkdown(source)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(source))
			}
			return html
		},
		"embedURL": func(videoURL string) string {
			embed, _ := EmbedURL(videoURL)
			return embed
		},
		"isEmbed": func(videoURL string) bool {
			_, ok := EmbedURL(videoURL)
			return ok
		},
		"localized": func(text models.Localized, locale string) string {
			return text.In(locale)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"until": func(count int) []int {
			result := make([]int, count)
			for i := 0; i < count; i++ {
				result[i] = i
			}
			return result
		},
		"mb": func(size int64) int64 {
			return size >> 20
		},
		"optionLetter": func(i int) string {
			if i < 0 || i > 25 {
				return ""
			}
			return string(rune('A' + i))
		},
		"pageURL": func(query url.Values, page int) string {
			q := url.Values{}
			for key, values := range query {
				q[key] = values
			}
			q.Set("page", strconv.Itoa(page))
			return "?" + q.Encode()
		},
		"questionForm": NewQuestionForm,
		"seconds": func(d time.Duration) int {
			s := int(d.Seconds() + 0.999)
			if s < 0 {
				return 0
			}
			return s
		},
	}
}
