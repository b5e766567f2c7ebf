package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/core"
	"dev.lkm.one/crosscheck/db"
	"dev.lkm.one/crosscheck/failures"
	"dev.lkm.one/crosscheck/sources"
	"dev.lkm.one/crosscheck/util"
)

func main() {
	log.Infof("Starting %v version %v by %v", common.AppName, common.AppVersion, common.AppAuthor)

	// Parse CLI args (may exit)
	debug := false
	configPath := ""
	serve := false
	jsonOutput := false
	flag.BoolVar(&debug, "debug", debug, "Show debug messages.")
	flag.StringVar(&configPath, "config", configPath, "Config file path.")
	flag.BoolVar(&serve, "serve", serve, "Run as an HTTP service instead of a one-shot diagnostic.")
	flag.BoolVar(&jsonOutput, "json", jsonOutput, "Print the structured payload instead of the console listing.")
	flag.Parse()
	if debug {
		log.SetLevel(log.TraceLevel)
		log.Info("Debug mode enabled")
	}

	// Load config
	config, err := common.LoadConfig(configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	// Load decrypted credentials (startup-fatal if missing)
	credentials, err := common.LoadCredentials(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to load credentials")
	}

	// Open the failure catalog
	store, err := failures.Open(config.FailureDBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open failure catalog")
	}

	db.Open(config)
	defer db.Close()

	engine := core.NewEngine(config,
		sources.NewISEClient(credentials, config),
		sources.NewDNACClient(credentials, config),
		store)

	if serve {
		runServer(config, engine)
		return
	}

	identity := flag.Arg(0)
	if identity == "" {
		printUsage()
		return
	}

	runOnce(engine, identity, jsonOutput)
}

func runOnce(engine *core.Engine, identity string, jsonOutput bool) {
	startTime := time.Now()
	result, err := engine.RunDiagnostic(context.Background(), identity)
	if err != nil {
		db.Close()
		log.WithError(err).Fatal("Diagnostic run failed")
	}

	if jsonOutput {
		payload, err := result.MarshalJSON()
		if err != nil {
			db.Close()
			log.WithError(err).Fatal("Failed to encode report")
		}
		fmt.Println(string(payload))
	} else {
		result.RenderText(os.Stdout)
	}

	log.Infof("Total time taken: %.2fs", time.Since(startTime).Seconds())
}

func runServer(config *common.Config, engine *core.Engine) {
	// Setup internal shutdown mechanism
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
	shutdown := util.NewShutdownChannelDistributor(shutdownChannel)

	// Run internal services in background and wait for all to finish
	var waitGroup sync.WaitGroup
	core.StartServer(&waitGroup, shutdown, config, engine)
	waitGroup.Wait()
}

func printUsage() {
	banner := "HOW TO USE THIS TOOL"
	fmt.Println(banner)
	for range banner {
		fmt.Print("=")
	}
	fmt.Println()
	fmt.Println("Pass a user identity as the positional argument, e.g.:")
	fmt.Printf("  %v foobar\n", os.Args[0])
	fmt.Println("Flags must come before the identity. See -help for flags.")
}
