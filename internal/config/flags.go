package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultEndpoint    = "http://localhost:8000"
	DefaultAddr        = ":8000"
	DefaultModel       = "gemini-2.5-flash"
	DefaultSileroModel = "./internal/files/silero_vad.onnx"
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "llama3:latest"

	BackendGemini = "gemini"
	BackendOllama = "ollama"
)

// Config is everything the client and the companion server read at start-up.
type Config struct {
	Dev     bool
	LogPath string

	// Client
	Endpoint string
	Timeout  time.Duration

	// Server
	Addr         string
	Backend      string
	GeminiAPIKey string
	Model        string
	OllamaHost   string
	OllamaModel  string

	// Speech
	SpeechAPIKey    string
	SileroModelPath string
}

// Load reads .env if present and fills a Config from the environment.
// Flags bound with BindFlags override these values afterwards.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Dev:             getEnvAsBoolOrDefault("CHIARELLA_DEV", false),
		LogPath:         getEnvOrDefault("CHIARELLA_LOG_PATH", ""),
		Endpoint:        getEnvOrDefault("CHIARELLA_ENDPOINT", DefaultEndpoint),
		Timeout:         getEnvAsDurationOrDefault("CHIARELLA_TIMEOUT", 0),
		Addr:            addrFromPort(os.Getenv("PORT")),
		Backend:         getEnvOrDefault("CHIARELLA_BACKEND", BackendGemini),
		GeminiAPIKey:    getEnvOrDefault("GEMINI_API_KEY", ""),
		Model:           getEnvOrDefault("GEMINI_MODEL", DefaultModel),
		OllamaHost:      getEnvOrDefault("OLLAMA_HOST", DefaultOllamaHost),
		OllamaModel:     getEnvOrDefault("OLLAMA_MODEL", DefaultOllamaModel),
		SpeechAPIKey:    getEnvOrDefault("API_KEY", ""),
		SileroModelPath: getEnvOrDefault("SILERO_MODEL_PATH", DefaultSileroModel),
	}
}

// BindFlags registers the flags shared by every command.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Dev, "dev", c.Dev, "Development mode")
	fs.StringVar(&c.LogPath, "log-path", c.LogPath, "Directory to save the log file in")
}

// BindClientFlags registers the chat client flags.
func (c *Config) BindClientFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "Base URL of the chat server")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Per-request timeout, 0 waits for the transport")
	fs.StringVar(&c.SileroModelPath, "silero-model", c.SileroModelPath, "Path to the Silero VAD onnx model")
}

// BindServerFlags registers the serve command flags.
func (c *Config) BindServerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "Listen address")
	fs.StringVar(&c.Backend, "backend", c.Backend, "Reply backend: gemini or ollama")
	fs.StringVar(&c.Model, "model", c.Model, "Gemini model name")
	fs.StringVar(&c.OllamaHost, "ollama-host", c.OllamaHost, "Base URL of the Ollama server")
	fs.StringVar(&c.OllamaModel, "ollama-model", c.OllamaModel, "Ollama model name")
}

// VoiceEnabled reports whether a speech-to-text key is configured.
func (c *Config) VoiceEnabled() bool {
	return c.SpeechAPIKey != ""
}

func addrFromPort(port string) string {
	if port == "" {
		return DefaultAddr
	}
	return ":" + port
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
