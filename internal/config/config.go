// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for the YAML config when --config is not given.
const DefaultPath = "configs/config.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Interactive modes for challenge handling.
const (
	InteractiveAuto   = "auto"
	InteractiveAlways = "always"
	InteractiveNever  = "never"
)

type Config struct {
	LoginURL   string `yaml:"login_url"`
	ProfileURL string `yaml:"profile_url"`
	Headline   string `yaml:"headline" env:"RESUME_HEADLINE"`

	//Browser behaviour
	Headless           bool   `yaml:"headless" env:"HEADLINE_SYNC_HEADLESS"`
	Interactive        string `yaml:"interactive"`
	HumanTyping        bool   `yaml:"human_typing"`
	StrictVerification bool   `yaml:"strict_verification"`
	Retries            int    `yaml:"retries"`
	UserAgent          string `yaml:"user_agent"`

	Waits     Waits     `yaml:"waits"`
	Selectors Selectors `yaml:"selectors"`

	//Paths
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	HistoryPath   string `yaml:"history_path"`

	LogLevel   string   `yaml:"log_level"`
	LogFile    string   `yaml:"log_file"`
	RunTimeout Duration `yaml:"run_timeout"`

	TelegramToken  string `yaml:"-" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"-" env:"TELEGRAM_CHAT_ID"`
}

// Waits are the pauses and poll bounds used by the workflow.
type Waits struct {
	WebDriver Duration `yaml:"webdriver"`
	Login     Duration `yaml:"login"`
	PageLoad  Duration `yaml:"page_load"`
	Animation Duration `yaml:"animation"`
	Input     Duration `yaml:"input"`
	Challenge Duration `yaml:"challenge"`
	Poll      Duration `yaml:"poll"`
	Keystroke Duration `yaml:"keystroke"`
}

// Selectors maps each page role to a locator expression. XPath and CSS are both accepted.
type Selectors struct {
	UsernameField       string   `yaml:"username_field"`
	PasswordField       string   `yaml:"password_field"`
	LoginButton         string   `yaml:"login_button"`
	LoginPrompt         string   `yaml:"login_prompt"`
	HeadlineSection     string   `yaml:"headline_section"`
	HeadlineEditButton  string   `yaml:"headline_edit_button"`
	HeadlineTextarea    string   `yaml:"headline_textarea"`
	HeadlineDialog      string   `yaml:"headline_dialog"`
	SaveButton          string   `yaml:"save_button"`
	SaveButtonAlt       string   `yaml:"save_button_alt"`
	SuccessMessage      string   `yaml:"success_message"`
	HeadlineText        string   `yaml:"headline_text"`
	ChallengeIndicators []string `yaml:"challenge_indicators"`
	AuthErrorIndicators []string `yaml:"auth_error_indicators"`
}

// Load reads .env, the YAML file at path, env overrides, the given overrides
// (command-line flags) and defaults, then validates.
// A missing file is not an error: defaults cover every field.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	_ = godotenv.Load()

	//yaml only overwrites keys that are present, so defaults for bools go here
	cfg := &Config{Headless: true}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Warnf("⚠️ Could not read %s, using defaults", path)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if headline := os.Getenv("RESUME_HEADLINE"); headline != "" {
		c.Headline = headline
	}

	if headless := os.Getenv("HEADLINE_SYNC_HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("%w: HEADLINE_SYNC_HEADLESS: %v", ErrInvalid, err)
		}
		c.Headless = v
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TELEGRAM_CHAT_ID: %v", ErrInvalid, err)
		}
		c.TelegramChatID = id
	}
	return nil
}

// Validate reports the first field that cannot drive a run.
func (c *Config) Validate() error {
	if c.LoginURL == "" || c.ProfileURL == "" {
		return fmt.Errorf("%w: login_url and profile_url are required", ErrInvalid)
	}
	if strings.TrimSpace(c.Headline) == "" {
		return fmt.Errorf("%w: headline is empty", ErrInvalid)
	}
	if c.Retries < 1 {
		return fmt.Errorf("%w: retries must be at least 1", ErrInvalid)
	}

	switch c.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("%w: interactive must be auto, always or never, got %q", ErrInvalid, c.Interactive)
	}

	waits := map[string]Duration{
		"webdriver": c.Waits.WebDriver,
		"login":     c.Waits.Login,
		"page_load": c.Waits.PageLoad,
		"animation": c.Waits.Animation,
		"input":     c.Waits.Input,
		"challenge": c.Waits.Challenge,
		"poll":      c.Waits.Poll,
	}
	for name, d := range waits {
		if d <= 0 {
			return fmt.Errorf("%w: waits.%s must be positive", ErrInvalid, name)
		}
	}

	required := map[string]string{
		"username_field":       c.Selectors.UsernameField,
		"password_field":       c.Selectors.PasswordField,
		"login_button":         c.Selectors.LoginButton,
		"headline_section":     c.Selectors.HeadlineSection,
		"headline_edit_button": c.Selectors.HeadlineEditButton,
		"headline_textarea":    c.Selectors.HeadlineTextarea,
		"headline_dialog":      c.Selectors.HeadlineDialog,
		"save_button":          c.Selectors.SaveButton,
		"save_button_alt":      c.Selectors.SaveButtonAlt,
	}
	for role, sel := range required {
		if strings.TrimSpace(sel) == "" {
			return fmt.Errorf("%w: selectors.%s is empty", ErrInvalid, role)
		}
	}
	return nil
}

// TelegramEnabled reports whether run notifications can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Timeout is the bound for a whole run.
func (c *Config) Timeout() time.Duration {
	return c.RunTimeout.Std()
}

// InteractiveEnabled decides whether a challenge may wait for a human. In auto
// mode that needs a visible browser and a terminal on stdin.
func (c *Config) InteractiveEnabled(stdinTerminal bool) bool {
	switch c.Interactive {
	case InteractiveAlways:
		return true
	case InteractiveNever:
		return false
	default:
		return !c.Headless && stdinTerminal
	}
}
