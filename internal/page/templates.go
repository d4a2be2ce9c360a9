package page

import "html/template"

var loaderTmpl = template.Must(template.New("loader").Parse(`<script id="{{.ID}}" src="{{.ExecURL}}"></script>
<script>
(function () {
  var config = {{.Config}};
  var go = new Go();
  WebAssembly.instantiateStreaming(fetch({{.WasmURL}}), go.importObject)
    .then(function (result) {
      go.run(result.instance);
      var res = window.qrchatMount(config, window.qrchatNotify);
      if (!res.ok) {
        console.error("qrchat: " + res.error);
      }
    })
    .catch(function (err) { console.error("qrchat: " + err); });
{{- if .Reload}}
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + {{.Reload}});
  ws.onmessage = function () { location.reload(); };
{{- end}}
})();
</script>
`))

var demoTmpl = template.Must(template.New("demo").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; padding: 3rem; color: #1f2933; background: #f5f7fa; }
  main { max-width: 40rem; }
  code { background: #e4e7eb; padding: 0 .25rem; border-radius: 3px; }
  #qrchat-toast { position: fixed; left: 20px; bottom: 20px; padding: .75rem 1rem; border-radius: 6px; color: #fff; display: none; }
  #qrchat-toast.validation { background: #b7791f; display: block; }
  #qrchat-toast.success { background: #2f855a; display: block; }
  #qrchat-toast.failure { background: #c53030; display: block; }
</style>
</head>
<body>
<main>
  <h1>{{.Title}}</h1>
  <p>The contact button in the corner opens a panel with a QR code for <code>+{{.Number}}</code> and a short message form.</p>
  <p>Submission mode: <code>{{.Mode}}</code>{{if .Endpoint}}, posting to <code>{{.Endpoint}}</code>{{end}}.</p>
  <p><a href="/preview">Server-side preview</a></p>
</main>
<div id="qrchat-toast" role="status"></div>
<script>
window.qrchatNotify = function (notice) {
  var el = document.getElementById("qrchat-toast");
  el.textContent = notice.message;
  el.className = notice.kind;
  clearTimeout(window.qrchatToastTimer);
  window.qrchatToastTimer = setTimeout(function () { el.className = ""; }, 4000);
};
</script>
{{.Loader}}
</body>
</html>
`))
