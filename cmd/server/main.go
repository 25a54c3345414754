// filedrop server: accepts connections, stores one incoming file per
// connection under the destination directory.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dev.c0redev.filedrop/internal/server"
	"dev.c0redev.filedrop/internal/store"
	"dev.c0redev.filedrop/internal/transport"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := flag.String("addr", envOr("FILEDROP_ADDR", "127.0.0.1:8888"), "listen address")
	dir := flag.String("dir", envOr("FILEDROP_DIR", "received_files"), "destination directory")
	network := flag.String("network", envOr("FILEDROP_NETWORK", "tcp"), "transport: tcp or quic")
	dbPath := flag.String("db", os.Getenv("FILEDROP_DB"), "sqlite transfer history path (empty disables)")
	certFile := flag.String("cert", os.Getenv("FILEDROP_CERT"), "TLS certificate for quic (empty = self-signed)")
	keyFile := flag.String("key", os.Getenv("FILEDROP_KEY"), "TLS key for quic")
	flag.Parse()

	var db *store.DB
	if *dbPath != "" {
		var err error
		db, err = store.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		log.Println("transfer history in", *dbPath)
	}

	var tlsConf *tls.Config
	if *network == "quic" && *certFile != "" {
		var err error
		tlsConf, err = transport.LoadServerTLS(*certFile, *keyFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	srv := server.New(server.Config{
		Network: *network,
		Addr:    *addr,
		Dir:     *dir,
		TLS:     tlsConf,
		Status:  func(msg string) { log.Println(msg) },
		History: db,
	})
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
	if abs, err := filepath.Abs(*dir); err == nil {
		log.Println("files will be saved to", abs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Println("shutting down")
	srv.Stop()
}
