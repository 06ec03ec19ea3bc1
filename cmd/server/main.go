package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"cosmic-arena/internal/api"
	"cosmic-arena/internal/config"
	"cosmic-arena/internal/room"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("================================")
	log.Println(" COSMIC ARENA - GO ENGINE")
	log.Println("================================")

	appConfig := config.Load()
	arenaCfg := appConfig.Arena
	serverCfg := appConfig.Server

	// TickRate/Width/Height/MaxPlayersPerRoom are logged for operator visibility
	// only; the simulation's tick rate and bounds are fixed constants
	// (arena.SimRate, arena.DefaultArenaWidth/Height) so every room's clock
	// stays deterministic regardless of the environment it runs in.
	log.Printf("arena: %d Hz, %.0fx%.0f, %d players/room",
		arenaCfg.TickRate, arenaCfg.Width, arenaCfg.Height, arenaCfg.MaxPlayersPerRoom)

	api.SetClientOrigin(serverCfg.ClientOrigin())

	directory := room.NewDirectory()
	directory.StartSweeper()
	log.Println("room directory sweeper started")

	if appConfig.Debug.Enabled {
		if err := api.StartDebugServer(api.ObservabilityConfig{
			Enabled:    true,
			ListenAddr: appConfig.Debug.ListenAddr,
		}); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	server := api.NewServer(directory)

	addr := serverCfg.Host + ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		log.Printf("🚀 arena server on http://%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	server.Stop()
	directory.Stop()
	log.Println("goodbye")
}
