package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/pkg/formatting"
	"github.com/JaimeStill/stapler/pkg/imaging"
	"github.com/JaimeStill/stapler/pkg/rasterize"
)

const (
	EnvPreprocessTargetDPI       = "STAPLER_PREPROCESS_TARGET_DPI"
	EnvPreprocessReferenceDPI    = "STAPLER_PREPROCESS_REFERENCE_DPI"
	EnvPreprocessAngleThreshold  = "STAPLER_PREPROCESS_SMALL_ANGLE_THRESHOLD_DEGREES"
	EnvPreprocessOutputFormat    = "STAPLER_PREPROCESS_OUTPUT_IMAGE_FORMAT"
	EnvPreprocessAlpha           = "STAPLER_PREPROCESS_SHARPEN_CONTRAST_ALPHA"
	EnvPreprocessBeta            = "STAPLER_PREPROCESS_SHARPEN_CONTRAST_BETA"
	EnvPreprocessDenoiseStrength = "STAPLER_PREPROCESS_DENOISE_STRENGTH"
	EnvPreprocessTemplateWindow  = "STAPLER_PREPROCESS_DENOISE_TEMPLATE_WINDOW"
	EnvPreprocessSearchWindow    = "STAPLER_PREPROCESS_DENOISE_SEARCH_WINDOW"
	EnvPreprocessWorkers         = "STAPLER_PREPROCESS_WORKERS"
	EnvPreprocessMaxFileSize     = "STAPLER_PREPROCESS_MAX_FILE_SIZE"
)

// PreprocessConfig holds rasterization and enhancement parameters.
// The angle threshold, Beta, and DenoiseStrength are pointers so an explicit
// zero survives defaults.
type PreprocessConfig struct {
	TargetDPI                  int      `toml:"target_dpi"`
	ReferenceDPI               int      `toml:"reference_dpi"`
	SmallAngleThresholdDegrees *float64 `toml:"small_angle_threshold_degrees"`
	OutputImageFormat          string   `toml:"output_image_format"`
	SharpenContrastAlpha       float64  `toml:"sharpen_contrast_alpha"`
	SharpenContrastBeta        *float64 `toml:"sharpen_contrast_beta"`
	DenoiseStrength            *float64 `toml:"denoise_strength"`
	DenoiseTemplateWindow      int      `toml:"denoise_template_window"`
	DenoiseSearchWindow        int      `toml:"denoise_search_window"`
	Workers                    int      `toml:"workers"`
	MaxFileSize                string   `toml:"max_file_size"`
}

// Rasterize returns the rasterizer configuration.
func (c *PreprocessConfig) Rasterize() rasterize.Config {
	return rasterize.Config{TargetDPI: c.TargetDPI, ReferenceDPI: c.ReferenceDPI}
}

// Enhance returns the enhancer configuration.
func (c *PreprocessConfig) Enhance() imaging.Config {
	return imaging.Config{
		DenoiseStrength: deref(c.DenoiseStrength),
		TemplateWindow:  c.DenoiseTemplateWindow,
		SearchWindow:    c.DenoiseSearchWindow,
		AngleThreshold:  deref(c.SmallAngleThresholdDegrees),
		Alpha:           c.SharpenContrastAlpha,
		Beta:            deref(c.SharpenContrastBeta),
	}
}

// Manifest returns the folder builder configuration. Call after Finalize.
func (c *PreprocessConfig) Manifest() manifest.Config {
	format, _ := imaging.ParseFormat(c.OutputImageFormat)
	size, _ := formatting.ParseBytes(c.MaxFileSize)
	return manifest.Config{
		Workers:     c.Workers,
		MaxFileSize: size,
		Format:      format,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PreprocessConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PreprocessConfig) Merge(overlay *PreprocessConfig) {
	if overlay.TargetDPI != 0 {
		c.TargetDPI = overlay.TargetDPI
	}
	if overlay.ReferenceDPI != 0 {
		c.ReferenceDPI = overlay.ReferenceDPI
	}
	if overlay.SmallAngleThresholdDegrees != nil {
		c.SmallAngleThresholdDegrees = overlay.SmallAngleThresholdDegrees
	}
	if overlay.OutputImageFormat != "" {
		c.OutputImageFormat = overlay.OutputImageFormat
	}
	if overlay.SharpenContrastAlpha != 0 {
		c.SharpenContrastAlpha = overlay.SharpenContrastAlpha
	}
	if overlay.SharpenContrastBeta != nil {
		c.SharpenContrastBeta = overlay.SharpenContrastBeta
	}
	if overlay.DenoiseStrength != nil {
		c.DenoiseStrength = overlay.DenoiseStrength
	}
	if overlay.DenoiseTemplateWindow != 0 {
		c.DenoiseTemplateWindow = overlay.DenoiseTemplateWindow
	}
	if overlay.DenoiseSearchWindow != 0 {
		c.DenoiseSearchWindow = overlay.DenoiseSearchWindow
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
}

func (c *PreprocessConfig) loadDefaults() {
	rd := rasterize.DefaultConfig()
	ed := imaging.DefaultConfig()

	if c.TargetDPI == 0 {
		c.TargetDPI = rd.TargetDPI
	}
	if c.ReferenceDPI == 0 {
		c.ReferenceDPI = rd.ReferenceDPI
	}
	if c.SmallAngleThresholdDegrees == nil {
		c.SmallAngleThresholdDegrees = &ed.AngleThreshold
	}
	if c.OutputImageFormat == "" {
		c.OutputImageFormat = string(imaging.PNG)
	}
	if c.SharpenContrastAlpha == 0 {
		c.SharpenContrastAlpha = ed.Alpha
	}
	if c.SharpenContrastBeta == nil {
		c.SharpenContrastBeta = &ed.Beta
	}
	if c.DenoiseStrength == nil {
		c.DenoiseStrength = &ed.DenoiseStrength
	}
	if c.DenoiseTemplateWindow == 0 {
		c.DenoiseTemplateWindow = ed.TemplateWindow
	}
	if c.DenoiseSearchWindow == 0 {
		c.DenoiseSearchWindow = ed.SearchWindow
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = "100MB"
	}
}

func (c *PreprocessConfig) loadEnv() error {
	ints := []struct {
		env string
		dst *int
	}{
		{EnvPreprocessTargetDPI, &c.TargetDPI},
		{EnvPreprocessReferenceDPI, &c.ReferenceDPI},
		{EnvPreprocessTemplateWindow, &c.DenoiseTemplateWindow},
		{EnvPreprocessSearchWindow, &c.DenoiseSearchWindow},
		{EnvPreprocessWorkers, &c.Workers},
	}
	for _, f := range ints {
		if v := os.Getenv(f.env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = n
		}
	}

	floats := []struct {
		env string
		dst *float64
	}{
		{EnvPreprocessAlpha, &c.SharpenContrastAlpha},
	}
	for _, f := range floats {
		if v := os.Getenv(f.env); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = n
		}
	}

	optional := []struct {
		env string
		dst **float64
	}{
		{EnvPreprocessAngleThreshold, &c.SmallAngleThresholdDegrees},
		{EnvPreprocessBeta, &c.SharpenContrastBeta},
		{EnvPreprocessDenoiseStrength, &c.DenoiseStrength},
	}
	for _, f := range optional {
		if v := os.Getenv(f.env); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = &n
		}
	}

	if v := os.Getenv(EnvPreprocessOutputFormat); v != "" {
		c.OutputImageFormat = v
	}
	if v := os.Getenv(EnvPreprocessMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
	return nil
}

func (c *PreprocessConfig) validate() error {
	if err := c.Rasterize().Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseFormat(c.OutputImageFormat); err != nil {
		return fmt.Errorf("invalid output_image_format: %w", err)
	}
	if c.SharpenContrastAlpha <= 0 {
		return fmt.Errorf("sharpen_contrast_alpha must be positive")
	}
	if *c.SmallAngleThresholdDegrees < 0 {
		return fmt.Errorf("small_angle_threshold_degrees must not be negative")
	}
	if *c.DenoiseStrength < 0 {
		return fmt.Errorf("denoise_strength must not be negative")
	}
	if c.DenoiseTemplateWindow < 1 || c.DenoiseTemplateWindow%2 == 0 {
		return fmt.Errorf("denoise_template_window must be a positive odd number")
	}
	if c.DenoiseSearchWindow < c.DenoiseTemplateWindow || c.DenoiseSearchWindow%2 == 0 {
		return fmt.Errorf("denoise_search_window must be odd and at least denoise_template_window")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
