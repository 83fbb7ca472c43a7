package server

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>cosmos</title></head>
<body>
<h1>Fixtures</h1>
<ul>
{{- range .}}
<li><a href="/fixtures/{{.Name}}">{{.Name}}</a>{{if .Mounted}} <small>mounted</small>{{end}}</li>
{{- else}}
<li>No fixtures found.</li>
{{- end}}
</ul>
</body>
</html>
`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}} - cosmos</title></head>
<body>
<div id="cosmos-root">{{.Output}}</div>
<pre id="cosmos-error" hidden></pre>
<script>
(function() {
    var root = document.getElementById('cosmos-root');
    var errorBox = document.getElementById('cosmos-error');
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws/' + {{.Name}});
    window.cosmos = {
        dispatch: function(type, payload) {
            ws.send(JSON.stringify({type: type, payload: payload}));
        }
    };
    ws.onmessage = function(e) {
        var msg = JSON.parse(e.data);
        switch (msg.type) {
        case 'rendered':
        case 'fixtureUpdated':
            errorBox.hidden = true;
            root.innerHTML = msg.output;
            break;
        case 'error':
            errorBox.textContent = msg.error;
            errorBox.hidden = false;
            break;
        }
    };
})();
</script>
</body>
</html>
`))

type pageData struct {
	Name   string
	Output template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := s.listFixtures(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, list); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// handlePage serves the preview page. The component output is trusted HTML.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := s.entry(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Name: name, Output: template.HTML(e.loader.Output())}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err, "fixture", name)
	}
}
