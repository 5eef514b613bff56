package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/mftecnologia/air-monitor/internal/status"
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
	"onoff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"lower": strings.ToLower,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>Air Monitor · {{.Config.Site}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.critical { color: white; background: #c00; font-weight: bold; }
.warning { color: #b60; font-weight: bold; }
.heat { color: #d50; font-weight: bold; }
.dry { color: #06c; font-weight: bold; }
.normal { color: green; font-weight: bold; }
.unknown { color: orange; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Air Monitor · {{.Config.Site}}</h1>

<h2>Environment</h2>
<table>
<tr><th>State</th><td id="state" class="{{lower .StateLabel}}">{{.StateLabel}}</td></tr>
{{if .HasReading}}<tr><th>Temperature</th><td>{{printf "%.1f" .Reading.Temperature}} °C</td></tr>
<tr><th>Humidity</th><td>{{printf "%.1f" .Reading.Humidity}} %</td></tr>
<tr><th>CO2 (estimate)</th><td>{{.Reading.GasPPM}} ppm</td></tr>{{end}}
<tr><th>Gas sensor</th><td>{{if .WarmingUp}}warming up ({{uptime .WarmupRemaining}} left){{else}}ready{{end}}</td></tr>
</table>

<h2>Actuators</h2>
<table>
<tr><th>Exhaust (relay 1)</th><td class="{{lower (onoff .Command.Relay1)}}">{{onoff .Command.Relay1}}</td></tr>
<tr><th>Humidifier (relay 2)</th><td class="{{lower (onoff .Command.Relay2)}}">{{onoff .Command.Relay2}}</td></tr>
<tr><th>LED</th><td>{{.Command.LED.Mode}}</td></tr>
<tr><th>Buzzer</th><td class="{{lower (onoff .Command.Buzzer)}}">{{onoff .Command.Buzzer}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic</th><td>{{.Config.Topic}}</td></tr>
<tr><th>Published</th><td>{{.Published}} ok / {{.PublishFailed}} failed</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Cycle Counts</h2>
<table>
<tr><th>CRITICAL</th><td>{{.Counts.Critical}}</td></tr>
<tr><th>WARNING</th><td>{{.Counts.Warning}}</td></tr>
<tr><th>HEAT</th><td>{{.Counts.Heat}}</td></tr>
<tr><th>DRY</th><td>{{.Counts.Dry}}</td></tr>
<tr><th>NORMAL</th><td>{{.Counts.Normal}}</td></tr>
<tr><th>Invalid readings</th><td>{{.Counts.Invalid}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Interval</th><td>{{.Config.IntervalMs}}ms</td></tr>
<tr><th>Thresholds</th><td>CO2 {{.Config.Thresholds.CO2Warning}}/{{.Config.Thresholds.CO2Critical}} ppm, {{printf "%.1f" .Config.Thresholds.TempLimit}} °C, {{printf "%.1f" .Config.Thresholds.HumidityMinimum}} %</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	refresh := snap.Config.IntervalMs / 1000
	if refresh < 1 {
		refresh = 5
	}
	data := struct {
		status.Snapshot
		Uptime         time.Duration
		RefreshSeconds int64
	}{
		Snapshot:       snap,
		Uptime:         snap.Uptime(),
		RefreshSeconds: refresh,
	}
	indexTmpl.Execute(w, data)
}
