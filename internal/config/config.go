package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/confbot/boardbot/internal/models"
	"github.com/confbot/boardbot/internal/services/publisher"
)

// Config is the full startup configuration, read from the
// environment. The cell map is loaded separately from a JSON file so
// the room layout can change without touching the environment.
type Config struct {
	// IRC
	IRCServer        string        `env:"IRC_SERVER,required"`
	IRCUseTLS        bool          `env:"IRC_USE_TLS" envDefault:"true"`
	IRCNick          string        `env:"IRC_NICK,required"`
	NickservPassword string        `env:"NICKSERV_PASSWORD"`
	Channels         []string      `env:"IRC_CHANNELS,required" envSeparator:","`
	AntiFloodDelay   time.Duration `env:"ANTI_FLOOD_DELAY" envDefault:"2s"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Published view
	CellMapPath      string `env:"CELL_MAP_PATH" envDefault:"data/cellmap.json"`
	SpreadsheetID    string `env:"SPREADSHEET_ID"`
	CredentialsPath  string `env:"GOOGLE_CREDENTIALS_PATH" envDefault:"credentials.json"`
	TokenPath        string `env:"GOOGLE_TOKEN_PATH" envDefault:"token.json"`
	PublishQueueSize int    `env:"PUBLISH_QUEUE_SIZE" envDefault:"64"`
}

// New reads the configuration from the environment
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// cellMapFile is the on-disk layout: room → {"now": range, "next": range}
type cellMapFile map[string]map[string]string

// LoadCellMap reads and validates the (room, slot) → cell table
func LoadCellMap(path string) (publisher.CellMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell map: %w", err)
	}

	var file cellMapFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse cell map: %w", err)
	}

	cellMap := make(publisher.CellMap, len(file))
	for room, slots := range file {
		cellMap[room] = make(map[models.Slot]string, len(slots))
		for rawSlot, cellRange := range slots {
			slot, ok := models.ParseSlot(rawSlot)
			if !ok {
				return nil, fmt.Errorf("cell map: room %q has unknown slot %q", room, rawSlot)
			}
			if cellRange == "" {
				return nil, fmt.Errorf("cell map: room %q slot %q has an empty range", room, rawSlot)
			}
			cellMap[room][slot] = cellRange
		}
	}

	return cellMap, nil
}
