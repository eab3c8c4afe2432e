package reconcile

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// FileOptions is the on-disk shape of a reconciliation run's defaults,
// read by cmd/reconcile so a host can pin an author/thresholds/validation
// policy once instead of repeating flags.
type FileOptions struct {
	Author             string `yaml:"author"`
	GenerateRedlines   *bool  `yaml:"generateRedlines"`
	ValidateOutput     bool   `yaml:"validateOutput"`
	ValidationMode     string `yaml:"validationMode"` // "auto", "always", "never"
	YieldRunThreshold  int    `yaml:"yieldRunThreshold"`
	YieldCharThreshold int    `yaml:"yieldCharThreshold"`
}

// LoadOptionsYAML parses a FileOptions document, per spec.md §9's "config
// layer" ambient concern.
func LoadOptionsYAML(data []byte) (FileOptions, error) {
	var fo FileOptions
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return FileOptions{}, fmt.Errorf("parse options yaml: %w", err)
	}
	return fo, nil
}

// ApplyTo seeds a Context's author and yield thresholds from fo, leaving
// zero-valued fields at the Context's existing defaults.
func (fo FileOptions) ApplyTo(ctx *Context) {
	if fo.Author != "" {
		ctx.Author = fo.Author
	}
	if fo.YieldRunThreshold > 0 {
		ctx.YieldRunThreshold = fo.YieldRunThreshold
	}
	if fo.YieldCharThreshold > 0 {
		ctx.YieldCharThreshold = fo.YieldCharThreshold
	}
}

// RedlineOptions builds a RedlineOptions from fo, defaulting
// GenerateRedlines to true when unset in the file.
func (fo FileOptions) RedlineOptions() RedlineOptions {
	opts := NewRedlineOptions(fo.Author)
	if fo.GenerateRedlines != nil {
		opts.GenerateRedlines = *fo.GenerateRedlines
	}
	opts.ValidateOutput = fo.ValidateOutput
	switch fo.ValidationMode {
	case "always":
		opts.ValidationMode = ValidationAlways
	case "never":
		opts.ValidationMode = ValidationNever
	default:
		opts.ValidationMode = ValidationAuto
	}
	return opts
}
