package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration document encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf returns the format implied by a file name extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: unsupported config extension %q", ErrInvalid, filepath.Ext(filename))
}

// Decoder is implemented by the TOML and YAML decoders.
type Decoder interface {
	Decode(v any) error
}

// DecoderFunc creates a strict decoder reading r: unknown fields are errors.
type DecoderFunc func(r io.Reader) Decoder

func (f Format) decoder() (DecoderFunc, error) {
	switch f {
	case TOML:
		return func(r io.Reader) Decoder { return toml.NewDecoder(r).DisallowUnknownFields() }, nil
	case YAML:
		return func(r io.Reader) Decoder {
			d := yaml.NewDecoder(r)
			d.KnownFields(true)
			return d
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrInvalid, f)
}

// Decode reads a document on top of [Default] and validates it.
func Decode(r io.Reader, f Format) (Config, error) {
	cfg := Default()
	newDecoder, err := f.decoder()
	if err != nil {
		return cfg, err
	}
	err = newDecoder(r).Decode(&cfg)
	if err != nil && err != io.EOF {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalid, f, err)
	}
	return cfg, cfg.Validate()
}

// Load reads the configuration file at filename, choosing the format by extension.
func Load(filename string) (Config, error) {
	f, err := FormatOf(filename)
	if err != nil {
		return Config{}, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := Decode(bufio.NewReader(fp), f)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Encode writes c in format f.
func (c *Config) Encode(w io.Writer, f Format) error {
	switch f {
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: unknown format %q", ErrInvalid, f)
}
