package config

import (
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

type Config struct {
	Whisper    WhisperConfig    `yaml:"whisper" toml:"whisper"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg" toml:"ffmpeg"`
	Paths      PathsConfig      `yaml:"paths" toml:"paths"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Summarizer SummarizerConfig `yaml:"summarizer" toml:"summarizer"`
	Classifier ClassifierConfig `yaml:"classifier" toml:"classifier"`
	Notion     NotionConfig     `yaml:"notion" toml:"notion"`
	Pipeline   PipelineConfig   `yaml:"pipeline" toml:"pipeline"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	ModelDir   string `yaml:"model_dir" toml:"model_dir"`
	Model      string `yaml:"model" toml:"model"`
	Language   string `yaml:"language" toml:"language"`
	Task       string `yaml:"task" toml:"task"`
	Prompt     string `yaml:"prompt" toml:"prompt"`
	Threads    int    `yaml:"threads" toml:"threads"`
	Timestamps *bool  `yaml:"timestamps" toml:"timestamps"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	SampleRate int    `yaml:"sample_rate" toml:"sample_rate"`
	Channels   int    `yaml:"channels" toml:"channels"`
}

type PathsConfig struct {
	Input          string `yaml:"input" toml:"input"`
	Transcriptions string `yaml:"transcriptions" toml:"transcriptions"`
	Summaries      string `yaml:"summaries" toml:"summaries"`
	Processed      string `yaml:"processed" toml:"processed"`
	Archive        string `yaml:"archive" toml:"archive"`
	Temp           string `yaml:"temp" toml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type SummarizerConfig struct {
	Provider     string        `yaml:"provider" toml:"provider"`
	Model        string        `yaml:"model" toml:"model"`
	MaxTokens    int           `yaml:"max_tokens" toml:"max_tokens"`
	Temperature  float64       `yaml:"temperature" toml:"temperature"`
	BaseURL      string        `yaml:"base_url" toml:"base_url"`
	APIKey       string        `yaml:"api_key" toml:"api_key"`
	Timeout      time.Duration `yaml:"timeout" toml:"timeout"`
	CustomPrompt string        `yaml:"custom_prompt" toml:"custom_prompt"`
	UserContext  UserContext   `yaml:"user_context" toml:"user_context"`
}

// UserContext personalizes the summary prompts.
type UserContext struct {
	Role     string `yaml:"role" toml:"role"`
	Region   string `yaml:"region" toml:"region"`
	Company  string `yaml:"company" toml:"company"`
	TeamSize int    `yaml:"team_size" toml:"team_size"`
}

type ClassifierConfig struct {
	Fallback string              `yaml:"fallback" toml:"fallback"`
	Keywords map[string][]string `yaml:"keywords" toml:"keywords"`
}

type NotionConfig struct {
	Token          string         `yaml:"token" toml:"token"`
	DatabaseID     string         `yaml:"database_id" toml:"database_id"`
	TaskDatabaseID string         `yaml:"task_database_id" toml:"task_database_id"`
	Properties     PageProperties `yaml:"properties" toml:"properties"`
	TaskProperties TaskProperties `yaml:"task_properties" toml:"task_properties"`
}

// PageProperties names the meeting database columns.
type PageProperties struct {
	Title       string `yaml:"title" toml:"title"`
	Date        string `yaml:"date" toml:"date"`
	Type        string `yaml:"type" toml:"type"`
	Status      string `yaml:"status" toml:"status"`
	StatusValue string `yaml:"status_value" toml:"status_value"`
}

// TaskProperties names the task database columns.
type TaskProperties struct {
	Title       string `yaml:"title" toml:"title"`
	Meeting     string `yaml:"meeting" toml:"meeting"`
	Owner       string `yaml:"owner" toml:"owner"`
	Due         string `yaml:"due" toml:"due"`
	Status      string `yaml:"status" toml:"status"`
	StatusValue string `yaml:"status_value" toml:"status_value"`
}

type PipelineConfig struct {
	WriteDocx        bool  `yaml:"write_docx" toml:"write_docx"`
	ArchiveProcessed *bool `yaml:"archive_processed" toml:"archive_processed"`
	KeepTemp         bool  `yaml:"keep_temp" toml:"keep_temp"`
}

// Summarizer providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var (
	modelSizes = []string{"tiny", "base", "small", "medium", "large"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	tasks      = []string{"transcribe", "translate"}
	providers  = []string{ProviderAnthropic, ProviderGemini}
)

// Default returns a Config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "models"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Task == "" {
		c.Whisper.Task = "transcribe"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.Timestamps == nil {
		on := true
		c.Whisper.Timestamps = &on
	}

	if c.Pipeline.ArchiveProcessed == nil {
		on := true
		c.Pipeline.ArchiveProcessed = &on
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "audio_input"
	}
	if c.Paths.Transcriptions == "" {
		c.Paths.Transcriptions = "transcriptions"
	}
	if c.Paths.Summaries == "" {
		c.Paths.Summaries = "summaries"
	}
	if c.Paths.Processed == "" {
		c.Paths.Processed = "processed"
	}
	if c.Paths.Archive == "" {
		c.Paths.Archive = "archive"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "temp"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = ProviderAnthropic
	}
	if c.Summarizer.Model == "" {
		switch c.Summarizer.Provider {
		case ProviderGemini:
			c.Summarizer.Model = "gemini-2.5-flash"
		default:
			c.Summarizer.Model = "claude-sonnet-4-20250514"
		}
	}
	if c.Summarizer.MaxTokens == 0 {
		c.Summarizer.MaxTokens = 4000
	}
	if c.Summarizer.Temperature == 0 {
		c.Summarizer.Temperature = 0.1
	}
	if c.Summarizer.BaseURL == "" && c.Summarizer.Provider == ProviderAnthropic {
		c.Summarizer.BaseURL = "https://api.anthropic.com"
	}
	if c.Summarizer.Timeout == 0 {
		c.Summarizer.Timeout = 5 * time.Minute
	}
	if c.Summarizer.UserContext.Role == "" {
		c.Summarizer.UserContext.Role = "Sales Leader"
	}

	if c.Classifier.Fallback == "" {
		c.Classifier.Fallback = string(meeting.Team)
	}

	p := &c.Notion.Properties
	if p.Title == "" {
		p.Title = "Name"
	}
	if p.Date == "" {
		p.Date = "Date"
	}
	if p.Type == "" {
		p.Type = "Type"
	}
	if p.Status == "" {
		p.Status = "Status"
	}
	if p.StatusValue == "" {
		p.StatusValue = "Processed"
	}

	tp := &c.Notion.TaskProperties
	if tp.Title == "" {
		tp.Title = "Name"
	}
	if tp.Meeting == "" {
		tp.Meeting = "Meeting"
	}
	if tp.Owner == "" {
		tp.Owner = "Owner"
	}
	if tp.Due == "" {
		tp.Due = "Due"
	}
	if tp.Status == "" {
		tp.Status = "Status"
	}
	if tp.StatusValue == "" {
		tp.StatusValue = "Not started"
	}

	if err := oneOf("whisper.model", c.Whisper.Model, modelSizes); err != nil {
		return err
	}
	if err := oneOf("whisper.task", c.Whisper.Task, tasks); err != nil {
		return err
	}
	if err := oneOf("logging.level", strings.ToLower(c.Logging.Level), logLevels); err != nil {
		return err
	}
	if err := oneOf("logging.format", strings.ToLower(c.Logging.Format), logFormats); err != nil {
		return err
	}
	if err := oneOf("summarizer.provider", c.Summarizer.Provider, providers); err != nil {
		return err
	}
	if c.Whisper.Threads < 0 {
		return errdefs.Configf("whisper.threads must be positive, got %d", c.Whisper.Threads)
	}
	if c.Summarizer.Temperature < 0 || c.Summarizer.Temperature > 1 {
		return errdefs.Configf("summarizer.temperature must be within 0..1, got %g", c.Summarizer.Temperature)
	}
	if c.Summarizer.MaxTokens < 0 {
		return errdefs.Configf("summarizer.max_tokens must be positive, got %d", c.Summarizer.MaxTokens)
	}
	if _, err := meeting.ParseMeetingType(c.Classifier.Fallback); err != nil {
		return errdefs.Configf("classifier.fallback: %v", err)
	}
	for key := range c.Classifier.Keywords {
		if _, err := meeting.ParseMeetingType(key); err != nil {
			return errdefs.Configf("classifier.keywords: %v", err)
		}
	}

	return nil
}

// FallbackType is the parsed classifier fallback. Validate must have passed.
func (c *Config) FallbackType() meeting.MeetingType {
	mt, err := meeting.ParseMeetingType(c.Classifier.Fallback)
	if err != nil {
		return meeting.Team
	}
	return mt
}

// KeywordOverrides returns the configured keyword lists keyed by their
// canonical type name.
func (c *Config) KeywordOverrides() map[string][]string {
	if len(c.Classifier.Keywords) == 0 {
		return nil
	}
	out := make(map[string][]string, len(c.Classifier.Keywords))
	for key, phrases := range c.Classifier.Keywords {
		mt, err := meeting.ParseMeetingType(key)
		if err != nil {
			continue
		}
		out[string(mt)] = phrases
	}
	return out
}

// Timestamps reports whether transcript files include segment timings.
func (c *Config) Timestamps() bool {
	return c.Whisper.Timestamps == nil || *c.Whisper.Timestamps
}

// ArchiveProcessed reports whether processed audio is moved out of the input dir.
func (c *Config) ArchiveProcessed() bool {
	return c.Pipeline.ArchiveProcessed == nil || *c.Pipeline.ArchiveProcessed
}

// SummarizerKeyEnv is the environment variable holding the active provider's key.
func (c *Config) SummarizerKeyEnv() string {
	if c.Summarizer.Provider == ProviderGemini {
		return EnvGeminiKey
	}
	return EnvAnthropicKey
}

// RequireSummarizer fails when the summarizer has no credential.
func (c *Config) RequireSummarizer() error {
	if strings.TrimSpace(c.Summarizer.APIKey) == "" {
		return errdefs.Configf("%s is not set", c.SummarizerKeyEnv())
	}
	return nil
}

// RequirePublisher fails when any Notion credential or database id is missing.
func (c *Config) RequirePublisher() error {
	var missing []string
	if strings.TrimSpace(c.Notion.Token) == "" {
		missing = append(missing, EnvNotionToken)
	}
	if strings.TrimSpace(c.Notion.DatabaseID) == "" {
		missing = append(missing, EnvNotionDatabase)
	}
	if strings.TrimSpace(c.Notion.TaskDatabaseID) == "" {
		missing = append(missing, EnvNotionTaskDatabase)
	}
	if len(missing) > 0 {
		return errdefs.Configf("missing notion settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errdefs.Configf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value)
}
