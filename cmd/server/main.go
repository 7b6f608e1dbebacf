package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jacogrande/high-noon-sub002/internal/api"
	"github.com/jacogrande/high-noon-sub002/internal/config"
	"github.com/jacogrande/high-noon-sub002/internal/netio"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.LoadAppConfig()

	seed := uint32(getEnvInt("SEED", 0))
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	matchCfg := netio.DefaultMatchConfig(seed)
	matchCfg.Limits = appConfig.Limits

	match := netio.NewMatch(matchCfg)
	match.Start()
	log.Printf("match started, seed=%d", seed)

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	server := api.NewServer(match)

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	go func() {
		log.Printf("api server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("api server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	server.Stop()
	match.Stop()
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
