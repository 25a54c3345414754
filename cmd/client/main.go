// filedrop client: sends files to a server, one connection per file.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"dev.c0redev.filedrop/internal/client"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := flag.String("addr", envOr("FILEDROP_ADDR", "127.0.0.1:8888"), "server address")
	network := flag.String("network", envOr("FILEDROP_NETWORK", "tcp"), "transport: tcp or quic")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: client [flags] FILE...")
	}

	c := &client.Client{
		Network: *network,
		Addr:    *addr,
		Status:  func(msg string) { log.Println(msg) },
	}
	failed := 0
	for _, res := range c.SendFiles(context.Background(), paths) {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Printf("%d of %d transfers failed", failed, len(paths))
		os.Exit(1)
	}
}
