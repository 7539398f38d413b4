package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>ZetShopUz Bot Status</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 800px; margin: 0 auto; background: white;
                     padding: 20px; border-radius: 10px;
                     box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; margin-bottom: 20px; }
        .status-healthy { font-weight: bold; color: #28a745; }
        .status-degraded { font-weight: bold; color: #dc3545; }
        .footer { margin-top: 20px; color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="container">
        <h1>ZetShopUz Telegram Bot</h1>
        <p>Status: <span class="status-{{.Status}}">{{if .Healthy}}Online{{else}}Offline{{end}}</span></p>
        <p>Bot Username: @{{if .Bot.Username}}{{.Bot.Username}}{{else}}Unknown{{end}}</p>
        <p>Process: {{.Process.Status}} &middot; Restarts in last 24h: {{.Process.RestartCount}}</p>
        <p>CPU: {{printf "%.1f" .System.CPUPercent}}% &middot;
           Memory: {{printf "%.1f" .System.MemoryPercent}}% &middot;
           Disk: {{printf "%.1f" .System.DiskPercent}}%</p>
        <p>Last check: {{.Now.Format "2006-01-02 15:04:05"}}</p>
        <div class="footer">zetshopd supervisor</div>
    </div>
</body>
</html>
`))

type statusPageData struct {
	healthResponse
	Healthy bool
	Now     time.Time
}

// handleStatusPage renders the same health signal as /health for humans.
func (r *Router) handleStatusPage(c *gin.Context) {
	resp, healthy := r.probeAll(c.Request.Context())
	data := statusPageData{healthResponse: resp, Healthy: healthy, Now: time.Now()}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := statusTmpl.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
