// internal/app/helpers.go
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"
)

// ListenAddr returns the listen addr, the browser URL and the TCP check
// addr. Without listen the UI only binds to loopback.
func ListenAddr(listen bool, port int) (listenAddr string, url string, tcpAddr string) {
	p := strconv.Itoa(port)
	tcpAddr = "127.0.0.1:" + p
	listenAddr = tcpAddr
	if listen {
		listenAddr = "0.0.0.0:" + p
	}
	url = "http://" + tcpAddr
	return
}

// WaitTCP polls addr until it accepts a connection, ctx ends or timeout
// passes.
func WaitTCP(ctx context.Context, addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var d net.Dialer
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		c, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			return c.Close()
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", addr, ctx.Err())
		case <-tick.C:
		}
	}
}

type killer interface{ Kill() bool }

// killOnDone stops the running generation once ctx ends. Runs are detached
// from request contexts, so nothing else would stop sd on shutdown.
func killOnDone(ctx context.Context, k killer) {
	<-ctx.Done()
	if k.Kill() {
		log.Printf("SDCPP: stopped the running generation on shutdown")
	}
}

func logBanner(cfgPath, binary, url string) {
	log.Println("────────────────────────────────────────")
	log.Println("stable-diffusion.cpp web UI")
	log.Printf(" Config file : %s", cfgPath)
	log.Printf(" sd binary   : %s", binary)
	log.Printf(" UI          : %s", url)
	log.Println("────────────────────────────────────────")
}
