package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/petervdpas/sdcpp-webui/internal/metrics"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The UI is served from the same process; any local origin is fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func registerProgressRoutes(mux *http.ServeMux, d Deps) {
	mux.HandleFunc("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		if d.Hub == nil {
			http.Error(w, "progress not available", http.StatusServiceUnavailable)
			return
		}
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("VIEWER: progress websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		metrics.IncProgressClients()
		defer metrics.DecProgressClients()

		events, cancel := d.Hub.Subscribe()
		defer cancel()

		// Drain incoming frames so close and pong are processed.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if e, ok := d.Hub.Last(); ok {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		}

		ping := time.NewTicker(wsPingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-closed:
				return
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			case e, ok := <-events:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			}
		}
	})
}
