package handler

import (
	"github.com/gofiber/fiber/v2"

	"docsign-client/internal/domain/repository"
)

type LogHandler struct {
	logRepo repository.APILogRepository
}

func NewLogHandler(logRepo repository.APILogRepository) *LogHandler {
	return &LogHandler{logRepo: logRepo}
}

// LogViewer serves a small HTML page listing the newest exchanges
func (h *LogHandler) LogViewer(c *fiber.Ctx) error {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Signing Service Exchanges</title>
    <style>
        body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #1a1a2e; color: #eee; padding: 20px; }
        h1 { color: #00d4ff; }
        table { width: 100%; border-collapse: collapse; background: #16213e; }
        th, td { padding: 8px 12px; text-align: left; border-bottom: 1px solid #0f3460; }
        th { background: #0f3460; color: #00d4ff; }
        .ok { color: #00ff88; font-weight: bold; }
        .err { color: #ff4757; font-weight: bold; }
        pre { white-space: pre-wrap; word-wrap: break-word; font-size: 12px; max-width: 600px; }
    </style>
</head>
<body>
    <h1>Signing Service Exchanges</h1>
    <table>
        <thead><tr><th>Time</th><th>Method</th><th>Endpoint</th><th>Status</th><th>Duration</th><th>Response</th></tr></thead>
        <tbody id="rows"><tr><td colspan="6">Loading...</td></tr></tbody>
    </table>
    <script>
        function esc(s) { const d = document.createElement('div'); d.textContent = s || ''; return d.innerHTML; }
        fetch('/api/v1/logs?limit=100').then(r => r.json()).then(data => {
            const rows = (data.data || []).map(l =>
                '<tr><td>' + new Date(l.created_at).toLocaleString() + '</td>' +
                '<td>' + esc(l.method) + '</td>' +
                '<td>' + esc(l.endpoint) + '</td>' +
                '<td class="' + (l.status_code < 400 ? 'ok' : 'err') + '">' + l.status_code + '</td>' +
                '<td>' + l.duration_ms + 'ms</td>' +
                '<td><pre>' + esc(l.response_body) + '</pre></td></tr>');
            document.getElementById('rows').innerHTML = rows.join('') || '<tr><td colspan="6">No logs</td></tr>';
        });
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(html)
}

// GetLogs returns the newest API logs
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit > 500 {
		limit = 500
	}

	logs, err := h.logRepo.FindRecent(c.UserContext(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": logs})
}
