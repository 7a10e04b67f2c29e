// Package config loads boqloom settings from .boqloom.yaml, BOQLOOM_*
// environment variables and bound command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshharrison/boqloom/internal/calendar"
	"github.com/joshharrison/boqloom/internal/schedule"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// FileName is the config file name looked up without its extension.
const FileName = ".boqloom"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the fully resolved configuration.
type Config struct {
	Schedule ScheduleConfig
	Calendar CalendarConfig
	Rules    RulesConfig
	Input    InputConfig
	Log      LogConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type ScheduleConfig struct {
	StartDate          string
	WorkingDaysPerWeek int
	WorkingHoursPerDay float64
	DurationMonths     int
	IncludeBuffers     bool
	BufferPercentage   float64
}

type CalendarConfig struct {
	Weekend []string
}

// RulesConfig points at a YAML ruleset; empty means the built-in rules.
type RulesConfig struct {
	File string
}

type InputConfig struct {
	Path     string
	Selector string
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

// New returns a viper instance with boqloom's defaults, search paths and
// environment binding. Callers may bind flags to it before calling Load.
// With no paths given it searches the working directory and $HOME.
func New(paths ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, home)
		}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BOQLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("schedule.start_date", "")
	v.SetDefault("schedule.working_days_per_week", calendar.DefaultWorkingDaysPerWeek)
	v.SetDefault("schedule.working_hours_per_day", 8.0)
	v.SetDefault("schedule.duration_months", 0)
	v.SetDefault("schedule.include_buffers", false)
	v.SetDefault("schedule.buffer_percentage", 10.0)
	v.SetDefault("calendar.weekend", []string{})
	v.SetDefault("rules.file", "")
	v.SetDefault("input.path", "")
	v.SetDefault("input.selector", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	return v
}

// Load reads the config file if one exists and resolves every key.
// A missing file is not an error; defaults and environment still apply.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Schedule: ScheduleConfig{
			StartDate:          v.GetString("schedule.start_date"),
			WorkingDaysPerWeek: v.GetInt("schedule.working_days_per_week"),
			WorkingHoursPerDay: v.GetFloat64("schedule.working_hours_per_day"),
			DurationMonths:     v.GetInt("schedule.duration_months"),
			IncludeBuffers:     v.GetBool("schedule.include_buffers"),
			BufferPercentage:   v.GetFloat64("schedule.buffer_percentage"),
		},
		Calendar: CalendarConfig{Weekend: v.GetStringSlice("calendar.weekend")},
		Rules:    RulesConfig{File: v.GetString("rules.file")},
		Input: InputConfig{
			Path:     v.GetString("input.path"),
			Selector: v.GetString("input.selector"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		File: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that do not need a start date.
func (c *Config) Validate() error {
	var errs []error
	s := c.Schedule

	switch s.WorkingDaysPerWeek {
	case 0, 5, 6, 7:
	default:
		errs = append(errs, fmt.Errorf("schedule.working_days_per_week: %d is not 5, 6 or 7", s.WorkingDaysPerWeek))
	}
	if s.WorkingHoursPerDay <= 0 || s.WorkingHoursPerDay > 24 {
		errs = append(errs, fmt.Errorf("schedule.working_hours_per_day: %v is outside (0, 24]", s.WorkingHoursPerDay))
	}
	if s.DurationMonths < 0 {
		errs = append(errs, fmt.Errorf("schedule.duration_months: %d is negative", s.DurationMonths))
	}
	if s.BufferPercentage < 0 || s.BufferPercentage > 100 {
		errs = append(errs, fmt.Errorf("schedule.buffer_percentage: %v is outside [0, 100]", s.BufferPercentage))
	}
	if s.StartDate != "" {
		if _, err := calendar.ParseDate(s.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("schedule.start_date: %w", err))
		}
	}
	if _, err := calendar.ParseWeekdays(c.Calendar.Weekend); err != nil {
		errs = append(errs, fmt.Errorf("calendar.weekend: %w", err))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format: %q is not text or json", f))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ScheduleOptions converts the schedule and calendar sections into generator
// options. The start date is required here.
func (c *Config) ScheduleOptions() (schedule.Options, error) {
	if c.Schedule.StartDate == "" {
		return schedule.Options{}, schedule.ErrMissingStartDate
	}
	start, err := calendar.ParseDate(c.Schedule.StartDate)
	if err != nil {
		return schedule.Options{}, fmt.Errorf("%w: schedule.start_date: %w", ErrInvalidConfig, err)
	}
	weekend, err := calendar.ParseWeekdays(c.Calendar.Weekend)
	if err != nil {
		return schedule.Options{}, fmt.Errorf("%w: calendar.weekend: %w", ErrInvalidConfig, err)
	}

	return schedule.Options{
		ProjectStartDate:      start,
		WorkingDaysPerWeek:    c.Schedule.WorkingDaysPerWeek,
		Weekend:               weekend,
		WorkingHoursPerDay:    c.Schedule.WorkingHoursPerDay,
		ProjectDurationMonths: c.Schedule.DurationMonths,
		IncludeBuffers:        c.Schedule.IncludeBuffers,
		BufferPercentage:      c.Schedule.BufferPercentage,
	}, nil
}

// Logger builds a logrus logger writing to w at the configured level.
func (l LogConfig) Logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	if l.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log, nil
}
