// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package dashboard serves two things on two neighboring ports during a
// long-running simulation: statsview's process runtime chart (goroutines,
// heap, GC pause) and a small JSON endpoint polling the simulator's own
// Snapshot.
// It is a pure observer: the goroutine that polls the simulator never
// touches simulator state directly except through the Snapshot method,
// which keeps the single-threaded core's no-shared-mutable-state design
// intact.
package dashboard

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/rs/cors"

	"github.com/tinunadno/stm32-emulator/logger"
	"github.com/tinunadno/stm32-emulator/simulator"
)

// Source is implemented by *simulator.Simulator: a read of its current
// state for display purposes only, never a handle to mutate it.
type Source interface {
	Snapshot() simulator.Snapshot
}

// Dashboard polls a Source on a fixed interval and serves the result as
// JSON, alongside statsview's runtime chart on a neighboring port, with
// CORS enabled so a browser frontend on a different origin can poll it
// during development.
type Dashboard struct {
	src      Source
	addr     string
	snapAddr string
	interval time.Duration

	mu   sync.Mutex
	last simulator.Snapshot
}

// New creates a Dashboard that will poll src every interval once Start is
// called, serving statsview's runtime chart at addr and the simulator's
// own /snapshot JSON endpoint on the next port up.
func New(src Source, addr string, interval time.Duration) *Dashboard {
	if interval <= 0 {
		interval = time.Second
	}
	return &Dashboard{src: src, addr: addr, snapAddr: neighboringAddr(addr), interval: interval}
}

// neighboringAddr returns host:port+1 for a host:port address, so the
// snapshot endpoint doesn't collide with statsview's own listener on addr.
func neighboringAddr(addr string) string {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return addr
	}
	return net.JoinHostPort(host, strconv.Itoa(port+1))
}

// Start launches the statsview runtime chart, a /snapshot JSON endpoint
// for the simulator's own state, and the polling goroutine. It returns
// immediately; everything runs until the returned stop function is called.
func (d *Dashboard) Start() (stop func(), err error) {
	mgr := statsview.New(viewer.WithAddr(d.addr))
	go mgr.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		snap := d.last
		d.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			logger.Logf("sim", "dashboard: encoding snapshot: %v", err)
		}
	})

	handler := cors.New(cors.Options{AllowedOrigins: []string{"*"}}).Handler(mux)
	srv := &http.Server{Addr: d.snapAddr, Handler: handler}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logf("sim", "dashboard snapshot server stopped: %v", err)
		}
	}()

	done := make(chan struct{})
	go d.poll(done)

	stop = func() {
		close(done)
		srv.Close()
	}
	return stop, nil
}

func (d *Dashboard) poll(done chan struct{}) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := d.src.Snapshot()
			d.mu.Lock()
			d.last = snap
			d.mu.Unlock()
		}
	}
}
