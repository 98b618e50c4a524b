// Command fisheries-daemon is the long-running process that keeps the
// matrix cache and assembled trips current: it ticks the trip
// assembler and matrix refresher on a schedule and answers gRPC health
// checks until it receives a termination signal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kyogre-go/fisheries/internal/adapters/cli"
	"github.com/kyogre-go/fisheries/internal/infrastructure/config"
	"github.com/kyogre-go/fisheries/internal/infrastructure/pidfile"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Fisheries Daemon v0.1.0")
	fmt.Println("=======================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			fmt.Printf("warning: failed to release PID file: %v\n", err)
		}
	}()

	fmt.Println("Starting refresh loop and health listener...")
	args := []string{"serve"}
	if *configFlag != "" {
		args = append(args, "--config", *configFlag)
	}
	os.Args = append([]string{os.Args[0]}, args...)
	cli.Execute()
}
