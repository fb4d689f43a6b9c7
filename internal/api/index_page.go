package api

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"codebrush/internal/question"
)

// indexPage renders the catalog as a small HTML page.
func indexPage(catalog *question.Catalog) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head><meta charset=\"utf-8\"><title>codebrush</title></head>\n<body>\n")
		b.WriteString("<h1>codebrush</h1>\n")
		if catalog == nil || catalog.Len() == 0 {
			b.WriteString("<p>No questions loaded.</p>\n")
		} else {
			b.WriteString("<table>\n<thead><tr><th>ID</th><th>Title</th><th>Difficulty</th><th>Topics</th><th>Minutes</th></tr></thead>\n<tbody>\n")
			for _, q := range catalog.List() {
				topics := make([]string, 0, len(q.Topics))
				for _, topic := range q.Topics {
					topics = append(topics, string(topic))
				}
				fmt.Fprintf(&b, "<tr><td><a href=\"/questions/%s\">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>\n",
					templ.EscapeString(q.ID),
					templ.EscapeString(q.ID),
					templ.EscapeString(q.Title),
					templ.EscapeString(string(q.Difficulty)),
					templ.EscapeString(strings.Join(topics, ", ")),
					q.AverageTimeMin,
				)
			}
			b.WriteString("</tbody>\n</table>\n")
		}
		b.WriteString("<p>POST <code>/run-tests</code> with <code>{\"questionId\":\"q1\"}</code> to run a question's tests.</p>\n")
		b.WriteString("</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
