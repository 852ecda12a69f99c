package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickcrawford/wpmarkdown/internal/certs"
	"github.com/rickcrawford/wpmarkdown/internal/config"
	"github.com/rickcrawford/wpmarkdown/internal/server"
	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTML to Markdown conversion over HTTP",
	Long: `Start an HTTP server with POST /convert, which converts a WordPress post
body to Markdown (?save_scraped_images=true rewrites image paths,
?format=html returns a rendered preview), and GET /healthz.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().String("tiktoken-encoding", "", "report token counts using this TikToken encoding")
	serveCmd.Flags().Bool("tls", false, "enable TLS on the listener (overrides config)")
	serveCmd.Flags().Bool("auto-cert", false, "auto-generate a self-signed certificate (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v, _ := cmd.Flags().GetString("tiktoken-encoding"); v != "" {
		cfg.Stats.TiktokenEncoding = v
	}
	if v, _ := cmd.Flags().GetBool("tls"); v {
		cfg.Server.TLS.Enabled = true
	}
	if v, _ := cmd.Flags().GetBool("auto-cert"); v {
		cfg.Server.TLS.AutoCert = true
	}

	counter, err := stats.NewCounter(cfg.Stats.TiktokenEncoding)
	if err != nil {
		return fmt.Errorf("initializing token counter: %w", err)
	}

	srv := server.New(server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Translator:   translator.New(),
		Stats:        counter,
	})

	tc := cfg.Server.TLS
	if tc.Enabled {
		cert, err := certs.LoadOrGenerate(tc.CertFile, tc.KeyFile, tc.AutoCert, tc.AutoCertHost, tc.AutoCertDir)
		if err != nil {
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("starting server on %s (TLS: %v)", cfg.Server.Addr, tc.Enabled)
	if tc.Enabled {
		// Certificates are already in TLSConfig.
		err = srv.ListenAndServeTLS("", "")
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
