// Package server exposes tree diffing over HTTP and WebSocket.
//
// Routes:
//
//	POST /diff                         {"old": html, "new": html} -> {"patches": [...]}
//	POST /diff?format=binary           same input, encoded FramePatches reply
//	GET  /ws                           websocket diff session
//	GET  /sessions/{id}/frames         sequence numbers held for a session
//	GET  /sessions/{id}/frames/{seq}   one encoded patch frame
//	GET  /metrics                      Prometheus metrics, when a registry is set
//	GET  /healthz                      liveness
//
// # Sessions
//
// Each websocket connection is a session whose ID (a UUID) is returned in
// the X-Vdiff-Session header of the upgrade response. Every text message is
// an HTML document; the session replies with a binary FramePatches frame
// whose sequence number increases by one per document. A client can send a
// binary FrameTree frame to replace the baseline the next document is
// diffed against. Malformed input is answered with a FrameError frame and
// the session stays open.
//
// Sent frames are kept in a per-session PatchHistory and, when a Store is
// configured, archived under "<session>/<seq>.vdp" so they stay available
// after the session ends.
//
// # Usage
//
//	srv := server.New(server.FromConfig(cfg))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
