package livereload

import "strconv"

// Path is the route of the reload websocket.
const Path = "/_r"

// Script returns the browser snippet that connects to the reload endpoint at
// path. The page reloads when a message arrives, and when the connection
// comes back after the server went away.
func Script(path string) string {
	return `(() => {
  if (window.__liveReload) return;
  window.__liveReload = true;
  const url = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + ` + strconv.Quote(path) + `;
  let seen = false;
  function connect() {
    const ws = new WebSocket(url);
    ws.onopen = () => { if (seen) location.reload(); seen = true; };
    ws.onmessage = () => location.reload();
    ws.onclose = () => setTimeout(connect, 1000);
  }
  connect();
})();`
}
