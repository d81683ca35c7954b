// Package config loads glasscam settings from .env, the environment and flags.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Probe backends
const (
	ProbeMediaDevices = "mediadevices"
	ProbeV4L2         = "v4l2"
)

// Config holds all runtime settings
type Config struct {
	OverlayImage string `validate:"required"`
	ModelDir     string `validate:"required"`
	ORTLibrary   string

	// UserCamera and EnvironmentCamera are the capture device indices used for each facing mode
	UserCamera        int `validate:"gte=0"`
	EnvironmentCamera int `validate:"gte=0"`

	Width     int `validate:"gt=0"`
	Height    int `validate:"gt=0"`
	TargetFPS int `validate:"gt=0,lte=240"`

	UserAgent string
	Probe     string `validate:"oneof=mediadevices v4l2"`

	ProbeTimeout   time.Duration `validate:"gt=0"`
	ResizeDebounce time.Duration `validate:"gte=0"`
	StallTimeout   time.Duration `validate:"gte=0"`

	DebugMarkers       bool
	MirrorCompensation bool
	Preview            bool
	ShowTiming         bool
	// FakeCamera replaces capture devices with blank synthetic frames
	FakeCamera bool

	LogLevel string `validate:"oneof=trace debug info warn warning error"`
	LogFile  string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		OverlayImage:       "assets/glasses.png",
		ModelDir:           "models",
		ORTLibrary:         "",
		UserCamera:         0,
		EnvironmentCamera:  1,
		Width:              1280,
		Height:             720,
		TargetFPS:          30,
		Probe:              ProbeMediaDevices,
		ProbeTimeout:       3 * time.Second,
		ResizeDebounce:     250 * time.Millisecond,
		StallTimeout:       3 * time.Second,
		DebugMarkers:       true,
		MirrorCompensation: true,
		Preview:            true,
		ShowTiming:         true,
		LogLevel:           "info",
	}
}

// Load reads an optional .env file and applies GLASSCAM_* variables on top of the defaults
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}

	cfg := Default()
	var err error

	setString(&cfg.OverlayImage, "GLASSCAM_OVERLAY")
	setString(&cfg.ModelDir, "GLASSCAM_MODEL_DIR")
	setString(&cfg.ORTLibrary, "GLASSCAM_ORT_LIB")
	setString(&cfg.UserAgent, "GLASSCAM_USER_AGENT")
	setString(&cfg.Probe, "GLASSCAM_PROBE")
	setString(&cfg.LogLevel, "GLASSCAM_LOG_LEVEL")
	setString(&cfg.LogFile, "GLASSCAM_LOG_FILE")

	for key, dst := range map[string]*int{
		"GLASSCAM_CAMERA_USER":        &cfg.UserCamera,
		"GLASSCAM_CAMERA_ENVIRONMENT": &cfg.EnvironmentCamera,
		"GLASSCAM_WIDTH":              &cfg.Width,
		"GLASSCAM_HEIGHT":             &cfg.Height,
		"GLASSCAM_FPS":                &cfg.TargetFPS,
	} {
		if err = setInt(dst, key); err != nil {
			return Config{}, err
		}
	}

	for key, dst := range map[string]*time.Duration{
		"GLASSCAM_PROBE_TIMEOUT":   &cfg.ProbeTimeout,
		"GLASSCAM_RESIZE_DEBOUNCE": &cfg.ResizeDebounce,
		"GLASSCAM_STALL_TIMEOUT":   &cfg.StallTimeout,
	} {
		if err = setDuration(dst, key); err != nil {
			return Config{}, err
		}
	}

	for key, dst := range map[string]*bool{
		"GLASSCAM_DEBUG_MARKERS":       &cfg.DebugMarkers,
		"GLASSCAM_MIRROR_COMPENSATION": &cfg.MirrorCompensation,
		"GLASSCAM_PREVIEW":             &cfg.Preview,
		"GLASSCAM_SHOW_TIMING":         &cfg.ShowTiming,
		"GLASSCAM_FAKE_CAMERA":         &cfg.FakeCamera,
	} {
		if err = setBool(dst, key); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s", key)
	}
	*dst = b
	return nil
}
