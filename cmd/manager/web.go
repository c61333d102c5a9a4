package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	suture "github.com/thejerf/suture/v4"
)

type debugWeb struct {
	srv *http.Server
}

func NewWeb(address string) *debugWeb {
	return &debugWeb{
		srv: &http.Server{
			Addr: address,
		},
	}
}

func (g *debugWeb) String() string {
	return "debugWeb"
}

func (g *debugWeb) Serve(haltCtx context.Context) error {
	errCh := make(chan error)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/logs", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsDebug != "no" {
			fmt.Fprintf(w, "Logging to file is not enabled on debug build")
			return
		}
		osFile, err := os.Open(logLocation)
		if err != nil {
			fmt.Fprintf(w, "Unable to open log file: %+v", err)
			return
		}
		defer osFile.Close()
		io.Copy(w, osFile)
	}))
	// net/http/pprof registers on the default mux
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	g.srv.Handler = mux

	go func() {
		log.Printf("[debugWeb] debugWeb available at %s\n", g.srv.Addr)
		errCh <- g.srv.ListenAndServe()
	}()
	for {
		select {
		case <-haltCtx.Done():
			log.Println("[debugWeb] exiting debugWeb server")
			g.srv.Shutdown(context.Background())
			return nil
		case err := <-errCh:
			if err == nil || err == http.ErrServerClosed {
				return nil
			}
			log.Printf("[debugWeb] error channel: %s\n", err)
			return suture.ErrTerminateSupervisorTree
		}
	}
}
