package main

import (
	"flag"
	"log"

	"github.com/wkyin9211-crypto/mediarelay/internal/config"
)

// dumpconfig prints the resolved webhook routing so a deployment can be
// checked without starting the server.
func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	log.Printf("listen_addr: %s", cfg.Server.ListenAddr)
	log.Printf("upload limits: image %dMB audio %dMB", cfg.Uploads.MaxImageMB, cfg.Uploads.MaxAudioMB)
	for _, op := range config.KnownOperations {
		if url, ok := cfg.EndpointFor(op); ok {
			log.Printf("%s -> %s", op, url)
		} else {
			log.Printf("%s -> simulator", op)
		}
	}
}
