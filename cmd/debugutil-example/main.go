// Command debugutil-example shows the debug console facade at a call site.
//
// A normal build prints nothing:
//
//	go run ./cmd/debugutil-example
//
// A debug build writes to the console, waiting for the host first:
//
//	go run -tags debug ./cmd/debugutil-example -config console.yaml
package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/debugutil"
)

func main() {
	configFile := flag.String("config", "", "Console configuration file (YAML)")
	flag.Parse()

	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
		if err := debugutil.Configure(cfg); err != nil {
			log.Fatalf("Failed to configure console: %v", err)
		}
	}

	debugutil.Begin()
	debugutil.Println("ready")

	if debugutil.Enabled {
		debugutil.Print("go: ")
		debugutil.Println(runtime.Version())
		debugutil.Print("cpus: ")
		debugutil.Println(runtime.NumCPU())
	}
}
