package web

import (
	"html/template"
	"net/http"

	"github.com/adrianliechti/wingman-ask/pkg/question"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ if .Question }}{{ .Question.Title }}{{ else }}Question{{ end }}</title>
<style>
  body { font-family: system-ui, sans-serif; background: linear-gradient(#667eea, #764ba2); min-height: 100vh; margin: 0; display: flex; align-items: center; justify-content: center; }
  main { background: #fff; border-radius: 16px; box-shadow: 0 8px 25px rgba(0,0,0,.25); padding: 32px; width: min(600px, 90vw); }
  h1 { font-size: 1.3rem; margin-top: 0; }
  .body { white-space: pre-wrap; color: #444; }
  .error { color: #c0392b; background: #fdecea; border-radius: 8px; padding: 10px; }
  .option { display: block; padding: 8px 12px; margin: 4px 0; border: 1px solid #ddd; border-radius: 8px; }
  textarea { width: 100%; box-sizing: border-box; min-height: 120px; border-radius: 8px; padding: 10px; }
  .files { color: #555; font-size: .9rem; }
  .buttons { display: flex; justify-content: flex-end; gap: 12px; margin-top: 16px; }
  button { padding: 8px 20px; border-radius: 8px; border: 0; cursor: pointer; }
  button[value=submit] { background: #667eea; color: #fff; }
</style>
</head>
<body>
<main>
{{ if .Question }}
  <h1>{{ .Question.Title }}</h1>
  {{ if .Question.Body }}<p class="body">{{ .Question.Body }}</p>{{ end }}
  {{ if .State.Error }}<p class="error">{{ .State.Error }}</p>{{ end }}
  <form method="post" enctype="multipart/form-data">
    {{ range .Question.Options }}
    <label class="option"><input type="radio" name="option" value="{{ .Value }}"{{ if eq .Value $.State.Selected }} checked{{ end }}> {{ .Label }}</label>
    {{ end }}
    <p><textarea name="text" placeholder="{{ if .Question.IsChoice }}Your own answer, or a note for the chosen option{{ else }}Your answer{{ end }}" autofocus>{{ .State.Text }}</textarea></p>
    {{ if .State.Attachments }}<p class="files">Attached: {{ range $i, $f := .State.Attachments }}{{ if $i }}, {{ end }}{{ $f }}{{ end }}</p>{{ end }}
    <p><input type="file" name="images" accept="image/png,image/jpeg,image/gif,image/bmp" multiple></p>
    <div class="buttons">
      <button type="submit" name="action" value="cancel" formnovalidate>Cancel</button>
      <button type="submit" name="action" value="submit">Submit</button>
    </div>
  </form>
{{ else }}
  <p>{{ .Message }}</p>
{{ end }}
</main>
</body>
</html>
`))

type pageData struct {
	Question *question.Question
	State    pageState
	Message  string
}

func renderQuestion(w http.ResponseWriter, status int, d *dialog) {
	render(w, status, pageData{
		Question: d.question,
		State:    d.state(),
	})
}

func renderClosed(w http.ResponseWriter, status int, message string) {
	render(w, status, pageData{
		Message: message,
	})
}

func render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	pageTemplate.Execute(w, data)
}
