package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"

	"quickdrop/internal/config"
	"quickdrop/internal/httpserver"
	"quickdrop/internal/netinfo"
	"quickdrop/internal/share"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config yaml (optional)")
		root    = flag.String("root", "", "shared folder (default: ~/Downloads/PhoneTransfer)")
		port    = flag.Int("port", 0, "listen port (default: 5000)")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *port != 0 {
		cfg.Port = *port
	}

	folder, err := share.New(cfg.Root)
	if err != nil {
		logrus.WithError(err).Fatal("preparing shared folder")
	}

	url := fmt.Sprintf("http://%s:%d", netinfo.LocalIP(), cfg.Port)

	srv, err := httpserver.New(httpserver.Options{
		Config:   cfg,
		Folder:   folder,
		ShareURL: url,
	})
	if err != nil {
		logrus.WithError(err).Fatal("server init")
	}

	printBanner(folder.Root(), url)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen")
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}
}

func printBanner(root, url string) {
	fmt.Println()
	fmt.Println("==================================================")
	fmt.Println("  ⚡ QuickDrop - File Transfer Server")
	fmt.Println("==================================================")
	fmt.Printf("\n  📁 Shared folder: %s\n", root)
	fmt.Printf("\n  🌐 Open this URL on your phone's browser:\n\n     %s\n", url)
	fmt.Printf("\n  📱 Or scan the QR code below:\n\n")
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     os.Stdout,
		HalfBlocks: true,
		QuietZone:  1,
	})
	fmt.Println()
	fmt.Println("==================================================")
	fmt.Println("  Press Ctrl+C to stop the server")
	fmt.Println("==================================================")
	fmt.Println()
}
