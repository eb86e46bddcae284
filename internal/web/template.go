package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/doorway-counter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Doorway Counter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.count { font-size: 1.6em; font-weight: bold; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.alert { color: red; font-weight: bold; }
.ok { color: green; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Doorway Counter{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Occupancy</h2>
<table>
<tr><th>Persons</th><td id="count" class="count">{{.Count}}</td></tr>
<tr><th>Light</th><td id="light" class="{{if .Light}}on{{else}}off{{end}}">{{onOff .Light}}</td></tr>
<tr><th>Emergency Override</th><td class="{{if .Override}}alert{{else}}off{{end}}">{{if .Override}}ACTIVE{{else}}inactive{{end}}</td></tr>
{{if .ConfigMode}}<tr><th>Config Mode</th><td class="alert">editing {{.EditingParam}}</td></tr>{{end}}
</table>

<h2>Sensor Health</h2>
<table>
<tr><th>Entry Sensor</th><td class="{{if .Health.EntryStuck}}alert{{else}}ok{{end}}">{{if .Health.EntryStuck}}STUCK{{else}}ok{{end}}</td></tr>
<tr><th>Exit Sensor</th><td class="{{if .Health.ExitStuck}}alert{{else}}ok{{end}}">{{if .Health.ExitStuck}}STUCK{{else}}ok{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Entered</th><td>{{.Counts.Entered}}</td></tr>
<tr><th>Exited</th><td>{{.Counts.Exited}}</td></tr>
<tr><th>Manual +1</th><td>{{.Counts.Manual}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
<tr><th>Capacity Hits</th><td>{{.Counts.CapacityHits}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Pairing Timeout</th><td>{{.Config.TimeoutMs}}ms</td></tr>
<tr><th>Sensor Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Button Debounce</th><td>{{.Config.BtnDebounceMs}}ms</td></tr>
<tr><th>Max Persons</th><td>{{.Config.MaxPersons}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "building/doorway/counter/events";
  var dot = document.getElementById("live-dot");
  var countEl = document.getElementById("count");
  var lightEl = document.getElementById("light");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.doorway) {
        countEl.textContent = msg.doorway.count;
        lightEl.textContent = msg.doorway.light;
        lightEl.className = msg.doorway.light === "ON" ? "on" : "off";
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
