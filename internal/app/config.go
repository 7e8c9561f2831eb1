package app

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type RabbitConfig struct {
	Address  string `yaml:"address"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ConsulConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	Scheme  string `yaml:"scheme"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LyricsConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	UserAgent string `yaml:"userAgent"`
	// requests per second sent to the lyrics provider
	RateLimit float64 `yaml:"rateLimit"`
}

type ProbeConfig struct {
	Enabled bool `yaml:"enabled"`
	// seconds
	Timeout int `yaml:"timeout"`
}

type Config struct {
	Name     string       `yaml:"name"`
	Scheme   string       `yaml:"scheme"`
	Port     int          `yaml:"port"`
	LogLevel string       `yaml:"logLevel"`
	MongoURI string       `yaml:"mongoUri"`
	Rabbit   RabbitConfig `yaml:"rabbit"`
	Consul   ConsulConfig `yaml:"consul"`
	Redis    RedisConfig  `yaml:"redis"`
	Lyrics   LyricsConfig `yaml:"lyrics"`
	Probe    ProbeConfig  `yaml:"probe"`
}

func defaultConfig() Config {
	return Config{
		Name:     "default",
		Scheme:   "http",
		Port:     9899,
		LogLevel: "info",
		MongoURI: "mongodb://localhost:27017",
		Rabbit:   RabbitConfig{Address: "localhost", Port: 5672, Username: "guest", Password: "guest"},
		Consul:   ConsulConfig{Address: "localhost", Port: 8500, Scheme: "http"},
		Redis:    RedisConfig{Address: "localhost:6379"},
		Lyrics: LyricsConfig{
			BaseURL:   "https://lrclib.net",
			UserAgent: "OSDLyrics (https://github.com/osdlyrics/osdlyrics)",
			RateLimit: 2,
		},
		Probe: ProbeConfig{Enabled: true, Timeout: 5},
	}
}

// parseConfigFile overlays the yaml document in r on top of cfg.
func parseConfigFile(r io.Reader, cfg Config) (Config, error) {
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err == io.EOF {
		// empty file
		return cfg, nil
	}

	return cfg, err
}

func loadConfigFile(path string, cfg Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	return parseConfigFile(f, cfg)
}

func parseConfig(args []string) Config {
	cfg := defaultConfig()

	var (
		configPath string
		port       int
	)

	// packages register themselves from init, so unknown flags (go test) must not abort
	fs := flag.NewFlagSet("osdlyrics", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&configPath, "config", "", "Path to the yaml configuration file")
	fs.IntVar(&port, "port", 0, "Server port to listen on")

	if err := fs.Parse(args); err != nil {
		log.Debug().Err(err).Msg("Ignoring unparsed command line flags")
	}

	if configPath != "" {
		var err error
		cfg, err = loadConfigFile(configPath, cfg)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to load config file %s, using defaults", configPath)
			cfg = defaultConfig()
		}
	}

	if port != 0 {
		cfg.Port = port
	}

	return cfg
}
