// Package livereload tells open browser tabs to reload when files change.
//
// A Hub holds one websocket per connected page, served by Hub.Handler on the
// reload route (Path). A Watcher observes a directory tree with fsnotify and
// reports each settled burst of changes; the application wires the two:
//
//	hub := livereload.NewHub(livereload.WithLogger(log))
//	r.Get(livereload.Path, func(*router.Context) handler.Response { return hub.Handler() })
//
//	w := livereload.NewWatcher("public", func(string) { hub.Broadcast("reload") })
//	g.Go(func() error { return w.Run(ctx) })
//
// Pages embed Script(Path), which reloads on any message and after
// reconnecting to a restarted server. Clients that fall behind are dropped.
// Hub.Shutdown disconnects everyone; hijacked websocket connections are not
// closed by http.Server.Shutdown, so call it when the server stops.
package livereload
