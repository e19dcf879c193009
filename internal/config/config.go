package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rorical/RoriBoard/internal/confirm"
	"github.com/Rorical/RoriBoard/internal/pager"
)

const (
	DefaultProfile        = "default"
	DefaultBaseURL        = "http://localhost:8000"
	DefaultRequestTimeout = 10 * time.Second
)

// ConfirmConfig tunes the staged confirmation shown before destructive actions.
type ConfirmConfig struct {
	P           float64       `yaml:"p"`
	Max         int           `yaml:"max"`
	Delay       time.Duration `yaml:"delay"`
	DeleteP     float64       `yaml:"delete_p"`
	DeleteMax   int           `yaml:"delete_max"`
	Token       string        `yaml:"token"`
	StepTimeout time.Duration `yaml:"step_timeout,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Policy      string        `yaml:"policy"`
}

type Profile struct {
	BaseURL        string        `yaml:"base_url"`
	PageSize       int           `yaml:"page_size"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionPath    string        `yaml:"session_path,omitempty"`
	Pager          pager.Bounds  `yaml:"pager"`
	Confirm        ConfirmConfig `yaml:"confirm"`
}

type Config struct {
	Profiles       map[string]Profile `yaml:"profiles"`
	ActiveProfile  string             `yaml:"active_profile"`
	path           string
	currentProfile *Profile
}

func DefaultConfirm() ConfirmConfig {
	def := confirm.DefaultSequence()
	del := confirm.DeleteSequence()
	return ConfirmConfig{
		P:         def.P,
		Max:       def.Max,
		Delay:     def.Delay,
		DeleteP:   del.P,
		DeleteMax: del.Max,
		Token:     confirm.DefaultToken,
		Policy:    confirm.PolicyQueue.String(),
	}
}

func NewProfile() Profile {
	return Profile{
		BaseURL:        DefaultBaseURL,
		PageSize:       pager.DefaultPageSize,
		RequestTimeout: DefaultRequestTimeout,
		Pager:          pager.TerminalBounds(),
		Confirm:        DefaultConfirm(),
	}
}

// LoadConfig reads the config file from the config home, creating a default
// one on first run.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return Load(configPath)
}

// Load reads the config at configPath, creating it when missing.
func Load(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}
	return config, nil
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.BaseURL != ""
}

// Current returns the active profile with defaults applied.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return NewProfile()
	}
	return *c.currentProfile
}

// Use makes name the active profile for this process without saving.
func (c *Config) Use(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// ProfileNames lists profiles in a stable order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) GetBaseURL() string {
	return c.Current().BaseURL
}

// Dir is the directory holding the config file, logs and session stores.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// SessionPath is where the active profile keeps its token.
func (c *Config) SessionPath() string {
	p := c.Current()
	if p.SessionPath != "" {
		return p.SessionPath
	}
	return filepath.Join(c.Dir(), "sessions", c.ActiveProfile+".db")
}

// Sequence builds the general confirmation sequence for the active profile.
func (cc ConfirmConfig) Sequence() confirm.Sequence {
	return confirm.Sequence{P: cc.P, Max: cc.Max, Delay: cc.Delay, StepTimeout: cc.StepTimeout, Token: cc.Token}
}

// DeleteSequence builds the sequence shown before deleting a post.
func (cc ConfirmConfig) DeleteSequence() confirm.Sequence {
	return confirm.Sequence{P: cc.DeleteP, Max: cc.DeleteMax, Delay: cc.Delay, StepTimeout: cc.StepTimeout, Token: cc.Token}
}

// Normalized fills zero and out-of-range values from the defaults.
func (p Profile) Normalized() Profile {
	def := NewProfile()
	if p.BaseURL == "" {
		p.BaseURL = def.BaseURL
	}
	_, p.PageSize = pager.Normalize(1, p.PageSize)
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = def.RequestTimeout
	}
	p.Pager = p.Pager.Normalized()

	cc := &p.Confirm
	if !validProbability(cc.P) {
		cc.P = def.Confirm.P
	}
	if cc.Max < 1 {
		cc.Max = def.Confirm.Max
	}
	if !validProbability(cc.DeleteP) {
		cc.DeleteP = def.Confirm.DeleteP
	}
	if cc.DeleteMax < 1 {
		cc.DeleteMax = def.Confirm.DeleteMax
	}
	if cc.Delay < 0 {
		cc.Delay = 0
	}
	if cc.Token == "" {
		cc.Token = def.Confirm.Token
	}
	if cc.StepTimeout < 0 {
		cc.StepTimeout = 0
	}
	if cc.Timeout < 0 {
		cc.Timeout = 0
	}
	cc.Policy = confirm.ParsePolicy(cc.Policy).String()
	return p
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORIBOARD_HOME if set, otherwise use user's home directory
	if roriHome := os.Getenv("RORIBOARD_HOME"); roriHome != "" {
		configDir = roriHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roriboard", "config.yaml"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles:      map[string]Profile{DefaultProfile: NewProfile()},
		ActiveProfile: DefaultProfile,
	}
	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}
	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}

func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name
		c.ActiveProfile = c.ProfileNames()[0]
		profile = c.Profiles[c.ActiveProfile]
	}

	normalized := profile.Normalized()
	c.currentProfile = &normalized
	return nil
}
