package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/vsariola/pianoroll/host"
	"github.com/vsariola/pianoroll/transport"
	"github.com/vsariola/pianoroll/version"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "Address where the HTTP interface listens.")
	rpcAddr := flag.String("rpc", "", "Address where the net/rpc interface listens, e.g. 127.0.0.1:31337. Empty disables it.")
	dataDir := flag.String("d", "", "Directory where the player rolls are loaded from and saved to. Empty keeps the rolls in memory only.")
	bpm := flag.Float64("bpm", host.DefaultBPM, "Tempo of the playhead clock, in beats per minute.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	server, err := host.New(host.WithDataDir(*dataDir), host.WithBPM(*bpm))
	if err != nil {
		log.Fatalf("could not start host: %v", err)
	}
	if *rpcAddr != "" {
		l, err := net.Listen("tcp", *rpcAddr)
		if err != nil {
			log.Fatalf("could not listen on %v: %v", *rpcAddr, err)
		}
		if err := transport.ServeRPC(l, server); err != nil {
			log.Fatal(err)
		}
		log.Printf("net/rpc listening on %v", l.Addr())
	}
	log.Printf("pianoroll host %v listening on %v", version.VersionOrHash, *addr)
	log.Fatal(http.ListenAndServe(*addr, server.Router()))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Piano roll host. Keeps the rolls of %d players and serves them over HTTP.\nUsage: %s [flags]\n", host.MaxPlayers, os.Args[0])
	flag.PrintDefaults()
}
