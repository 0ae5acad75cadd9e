package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"
)

// Constants
const (
	DefaultStreetFile   = "street-schedule.csv"
	DefaultHolidayFile  = "holidays.json"
	DefaultTimezone     = "America/New_York"
	BackupDir           = "backup"
	BackupSuffix        = ".backup"
	TmpSuffix           = ".tmp.csv"
	FilePermissions     = 0644
	DefaultReminderDays = 1
	DefaultReminderHour = 18

	// Error messages
	ErrEditModeDisabled = "Edit mode disabled"
	ErrInvalidYear      = "Invalid year"
	ErrInvalidMonth     = "Invalid month"
	ErrInvalidFormat    = "Invalid format"
	ErrInvalidReminder  = "Invalid reminder"
	ErrInvalidDay       = "Invalid collection day"
	ErrMissingStreet    = "Missing street"
	ErrStreetNotFound   = "Street not found"
	ErrInternalServer   = "Internal server error"
	ErrFailedToSave     = "Failed to save street schedule"
	ErrFailedToGenerate = "Failed to generate export"

	// Mode strings
	ModeServe = "serve"
	ModeEdit  = "edit"

	// ICS constants
	ICSProductID = "-//Mt. Lebo Trash//Trash Collection Calendar//EN"
	ICSDomain    = "mtlebotrash.com"
	ICSLocation  = "Mt. Lebanon, PA"
)

// CollectionDays maps the day names used in the street schedule to weekdays
var CollectionDays = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
}

// ParseCollectionDay resolves a day name, ignoring case
func ParseCollectionDay(day string) (string, time.Weekday, error) {
	day = strings.TrimSpace(day)
	for name, weekday := range CollectionDays {
		if strings.EqualFold(name, day) {
			return name, weekday, nil
		}
	}
	return "", 0, fmt.Errorf("unknown collection day %q", day)
}

// Config holds everything the server needs at startup
type Config struct {
	DataDir      string
	StreetFile   string
	HolidayFile  string
	Timezone     string
	EditMode     bool
	Port         int
	ReminderDays int
	ReminderHour int
}

// DefaultConfig resolves the data directory from DATA_DIR or the working directory
func DefaultConfig() Config {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dataDir = filepath.Join(cwd, "data")
		} else {
			dataDir = "data"
		}
	}

	return Config{
		DataDir:      dataDir,
		StreetFile:   DefaultStreetFile,
		HolidayFile:  DefaultHolidayFile,
		Timezone:     DefaultTimezone,
		Port:         8080,
		ReminderDays: DefaultReminderDays,
		ReminderHour: DefaultReminderHour,
	}
}

// StreetPath returns the location of the street schedule CSV
func (c Config) StreetPath() string {
	return filepath.Join(c.DataDir, c.StreetFile)
}

// HolidayPath returns the location of the optional holiday overrides
func (c Config) HolidayPath() string {
	return filepath.Join(c.DataDir, c.HolidayFile)
}

// Mode returns the mode string for logging
func (c Config) Mode() string {
	if c.EditMode {
		return ModeEdit
	}
	return ModeServe
}

// Location loads the town's timezone, falling back to UTC
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}
