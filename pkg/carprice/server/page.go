package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
)

type pageData struct {
	View   session.View
	Notice string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"selected": func(value string, code int) bool {
		return value == strconv.Itoa(code)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Used Car Price Predictor</title></head>
<body>
<h1>Used Car Price Predictor</h1>
{{with .Notice}}<p class="notice">{{.}}</p>{{end}}
<form method="post" action="/">
{{range .View.Fields}}
  <label for="{{.Name}}">{{.Label}}</label>
  {{if eq .Kind "categorical"}}
  {{$value := .Value}}
  <select id="{{.Name}}" name="{{.Name}}">
    {{range .Options}}<option value="{{.Code}}"{{if selected $value .Code}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  {{else}}
  <input type="number" step="any" id="{{.Name}}" name="{{.Name}}" value="{{.Value}}" placeholder="{{.Placeholder}}" required>
  {{end}}
{{end}}
  <button type="submit"{{if .View.Busy}} disabled{{end}}>{{.View.ButtonLabel}}</button>
</form>
<section>
<h2>Prediction Result</h2>
{{with .View.Error}}<p class="error">{{.}}</p>{{end}}
{{if .View.HasPrediction}}
<p class="estimate">Estimated Price: <strong>{{.View.Prediction}}</strong>{{with .View.Unit}} {{.}}{{end}}</p>
{{else}}
<p class="placeholder">{{.View.Placeholder}}</p>
{{end}}
</section>
</body>
</html>
`))

func (h *httpServer) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("render form page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
