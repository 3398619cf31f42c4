package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(indexPage)); err != nil {
			log.Warnf("handleIndex write err %v", err)
		}
	}
}

const indexPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>snake</title>
<style>
body { background: #18181c; color: #ddd; font-family: sans-serif; text-align: center; }
canvas { background: #28282f; margin-top: 16px; }
</style>
</head>
<body>
<canvas id="board" width="400" height="400"></canvas>
<p id="status">connecting</p>
<script>
const keys = {
  ArrowUp: "up", ArrowDown: "down", ArrowLeft: "left", ArrowRight: "right",
  Space: "pause", Escape: "restart",
};
const canvas = document.getElementById("board");
const ctx = canvas.getContext("2d");
const status = document.getElementById("status");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/play");
const send = (command) => ws.send(JSON.stringify({command}));

function draw(s) {
  const cell = canvas.width / s.boardSize;
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  ctx.fillStyle = "#e64646";
  ctx.fillRect(s.food.x * cell, s.food.y * cell, cell - 1, cell - 1);
  s.snake.forEach((c, i) => {
    ctx.fillStyle = i === 0 ? "#50dc78" : "#3cb464";
    ctx.fillRect(c.x * cell, c.y * cell, cell - 1, cell - 1);
  });
  status.textContent = s.status + " | score " + s.score + " | " + s.interval + "ms";
}

ws.onmessage = (ev) => {
  const m = JSON.parse(ev.data);
  (m.snapshots || []).forEach(draw);
  (m.overs || []).forEach((o) => alert("Game Over, your score is " + o.score));
  (m.confirms || []).forEach((c) => send(confirm(c.question) ? "confirm" : "cancel"));
};
ws.onclose = () => { status.textContent = "disconnected"; };
window.addEventListener("keydown", (ev) => {
  const command = keys[ev.code];
  if (command && ws.readyState === WebSocket.OPEN) {
    ev.preventDefault();
    send(command);
  }
});
</script>
</body>
</html>
`
