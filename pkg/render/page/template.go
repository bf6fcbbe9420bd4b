package page

import "html/template"

type pageData struct {
	Title          string
	ChartJSURL     string
	PluginURLs     []string
	HookSource     template.JS
	Script         template.JS
	LiveReloadPath string
	Charts         []Chart
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Title}}{{.Title}}{{else}}chartwire{{end}}</title>
<script src="{{.ChartJSURL}}"></script>
{{- range .PluginURLs}}
<script src="{{.}}"></script>
{{- end}}
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
section.chart { margin-bottom: 3rem; }
.description { color: #555; }
.canvas { position: relative; }
</style>
</head>
<body>
{{- if .Title}}
<h1>{{.Title}}</h1>
{{- end}}
{{- range .Charts}}
<section class="chart">
{{- if .Title}}
<h2>{{.Title}}</h2>
{{- end}}
{{- if .Description}}
<div class="description">{{.Description}}</div>
{{- end}}
<div class="canvas"><canvas id="{{.ID}}"></canvas></div>
</section>
{{- end}}
{{- if .HookSource}}
<script>
{{.HookSource}}
</script>
{{- end}}
<script>
{{.Script}}
</script>
{{- if .LiveReloadPath}}
<script>
(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + {{.LiveReloadPath}});
  ws.onmessage = function (ev) {
    var msg = {};
    try { msg = JSON.parse(ev.data); } catch (e) {}
    if (msg.type === "reload") { location.reload(); }
    if (msg.type === "error") { console.error("chartwire: " + msg.error); }
  };
})();
</script>
{{- end}}
</body>
</html>
`))
