package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confbot/boardbot/internal/common/clock"
	"github.com/confbot/boardbot/internal/common/uuid"
	"github.com/confbot/boardbot/internal/config"
	"github.com/confbot/boardbot/internal/handlers/irc"
	boardRepo "github.com/confbot/boardbot/internal/repositories/board"
	boardService "github.com/confbot/boardbot/internal/services/board"
	"github.com/confbot/boardbot/internal/services/publisher"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real deployments set the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize the board repository
	repo, err := boardRepo.NewRedis(&boardRepo.Config{
		RedisClient: redisClient,
		Clock:       &clock.DefaultClock{},
	})
	if err != nil {
		log.Fatalf("Failed to create board repository: %v", err)
	}

	// Load the (room, slot) → cell table
	cellMap, err := config.LoadCellMap(cfg.CellMapPath)
	if err != nil {
		log.Fatalf("Failed to load cell map: %v", err)
	}

	// Pick the published-view backend: Google Sheets when configured,
	// log-only otherwise
	writer, err := newWriter(cfg, cellMap)
	if err != nil {
		log.Fatalf("Failed to create view writer: %v", err)
	}

	// Initialize the publisher service
	publisherSvc, err := publisher.NewService(&publisher.Config{
		Writer:        writer,
		CellMap:       cellMap,
		QueueSize:     cfg.PublishQueueSize,
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create publisher service: %v", err)
	}
	publisherSvc.Start()

	// Initialize the board service
	boardSvc, err := boardService.NewService(&boardService.Config{
		Repo:      repo,
		Publisher: publisherSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create board service: %v", err)
	}

	// Initialize the IRC bot
	bot, err := irc.New(&irc.Config{
		Server:           cfg.IRCServer,
		UseTLS:           cfg.IRCUseTLS,
		Nick:             cfg.IRCNick,
		NickservPassword: cfg.NickservPassword,
		Channels:         cfg.Channels,
		BoardService:     boardSvc,
		AntiFloodDelay:   cfg.AntiFloodDelay,
	})
	if err != nil {
		log.Fatalf("Failed to create IRC bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start IRC bot: %v", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	publisherSvc.Stop()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Bot has been shut down")
}

// newWriter selects the published-view backend from the configuration
func newWriter(cfg *config.Config, cellMap publisher.CellMap) (publisher.Writer, error) {
	if cfg.SpreadsheetID == "" {
		log.Println("No spreadsheet configured, publishing to the log only")
		return &publisher.LogWriter{}, nil
	}

	ctx := context.Background()
	httpClient, err := publisher.NewOAuthClient(ctx, cfg.CredentialsPath, cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	return publisher.NewSheetsWriter(ctx, &publisher.SheetsConfig{
		SpreadsheetID: cfg.SpreadsheetID,
		HTTPClient:    httpClient,
		Ranges:        cellMap.Ranges(),
	})
}
