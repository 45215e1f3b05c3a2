package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/game-catalog-backend/api"
	"github.com/rpupo63/game-catalog-backend/config"
	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rpupo63/game-catalog-backend/storage"
)

func main() {
	c := config.New(".env")

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.GetBool(c, "DEBUG", false) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Info().Msg("Initializing app...")

	dbConfig := database.ConfigFromEnv(c)
	log.Info().Str("dbType", dbConfig.Type).Int("replicas", len(dbConfig.ReplicaDSNs)).Msg("Connecting to database...")
	db, err := database.Open(dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	currentDB := database.New(db)
	defer currentDB.Close()

	if err := currentDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := services.NewAccounts(currentDB.Query())
	if err := accounts.EnsureAdmin(ctx, config.GetString(c, "ADMIN_USERNAME", ""), config.GetString(c, "ADMIN_PASSWORD", "")); err != nil {
		log.Fatal().Err(err).Msg("Error creating the administrator account")
	}

	images, err := storage.New(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing image storage")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, currentDB, api.WithImageStore(images), api.WithAccounts(accounts))
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
