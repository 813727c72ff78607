// Package config loads daemon configuration from a YAML file with
// environment overrides.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App       App       `yaml:"app"`
	Checker   Checker   `yaml:"checker"`
	Assistant Assistant `yaml:"assistant"`
	Weather   Weather   `yaml:"weather"`
	News      News      `yaml:"news"`
	Translate Translate `yaml:"translate"`
	Mail      Mail      `yaml:"mail"`
	Bus       Bus       `yaml:"bus"`
	Proxy     Proxy     `yaml:"proxy"`
	Log       Log       `yaml:"log"`

	// Apps maps spoken application names to executables.
	Apps map[string]string `yaml:"apps"`
	// Contacts maps spoken names to email addresses.
	Contacts map[string]string `yaml:"contacts"`
}

type App struct {
	Name         string `yaml:"name" env:"NOVA_NAME" env-default:"Nova"`
	DataFile     string `yaml:"data_file" env:"NOVA_DATA_FILE" env-default:"alarms.json"`
	DefaultSound string `yaml:"default_sound" env:"NOVA_DEFAULT_SOUND"`
	SocketPath   string `yaml:"socket_path" env:"NOVA_SOCKET" env-default:"/tmp/nova.sock"`
}

type Checker struct {
	Interval time.Duration `yaml:"interval" env:"NOVA_CHECK_INTERVAL" env-default:"30s"`
}

type Assistant struct {
	Language      string `yaml:"language" env:"NOVA_LANGUAGE" env-default:"en"`
	Voice         bool   `yaml:"voice" env:"NOVA_VOICE" env-default:"false"`
	WhisperModel  string `yaml:"whisper_model" env:"NOVA_WHISPER_MODEL"`
	SpeechRate    int    `yaml:"speech_rate" env:"NOVA_SPEECH_RATE" env-default:"170"`
	DumpDir       string `yaml:"dump_dir" env:"NOVA_DUMP_DIR"`
	DictationFile string `yaml:"dictation_file" env:"NOVA_DICTATION_FILE" env-default:"dictation.txt"`
	VolumeStep    int    `yaml:"volume_step" env:"NOVA_VOLUME_STEP" env-default:"10"`
	LLMModel      string `yaml:"llm_model" env:"NOVA_LLM_MODEL" env-default:"gpt-4o-mini"`
	LLMAPIKey     string `yaml:"-" env:"OPENAI_API_KEY"`
}

type Weather struct {
	APIKey  string `yaml:"-" env:"OPENWEATHER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENWEATHER_URL" env-default:"https://api.openweathermap.org"`
}

type News struct {
	APIKey  string `yaml:"-" env:"NEWSAPI_KEY"`
	BaseURL string `yaml:"base_url" env:"NEWSAPI_URL" env-default:"https://newsapi.org"`
	Country string `yaml:"country" env:"NEWSAPI_COUNTRY" env-default:"us"`
}

type Translate struct {
	APIKey  string `yaml:"-" env:"TRANSLATE_API_KEY"`
	BaseURL string `yaml:"base_url" env:"TRANSLATE_URL" env-default:"https://libretranslate.de"`
}

type Mail struct {
	Host     string `yaml:"host" env:"NOVA_SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int    `yaml:"port" env:"NOVA_SMTP_PORT" env-default:"587"`
	From     string `yaml:"from" env:"NOVA_SMTP_FROM"`
	Password string `yaml:"-" env:"NOVA_SMTP_PASSWORD"`
}

type Bus struct {
	Addr string `yaml:"addr" env:"NOVA_BUS_ADDR" env-default:"127.0.0.1:8765"`
}

type Proxy struct {
	SOCKS string `yaml:"socks" env:"NOVA_SOCKS_PROXY"`
}

type Log struct {
	Level string `yaml:"level" env:"NOVA_LOG_LEVEL" env-default:"info"`
}

// Load reads the YAML file at path, then lets environment variables override.
// An empty path skips the file and reads the environment alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
