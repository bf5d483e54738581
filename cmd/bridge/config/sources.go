package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Sources []models.SourceCredential `yaml:"sources" validate:"required,unique=ID,dive"`
}

// LoadSources reads source credentials from YAML file.
// ${VAR} references are expanded from environment, so secrets don't have to be stored in file.
// Sources without timeout get defaultTimeout.
func LoadSources(path string, defaultTimeout time.Duration) ([]models.SourceCredential, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open sources file: %w", err)
	}
	defer file.Close()

	return ParseSources(file, defaultTimeout)
}

// ParseSources parses and validates source credentials.
func ParseSources(r io.Reader, defaultTimeout time.Duration) ([]models.SourceCredential, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't read sources: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &file); err != nil {
		return nil, fmt.Errorf("can't decode sources: %w", err)
	}

	if err := validator.New().Struct(file); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, fmt.Errorf("invalid sources: %w", validationErrs)
		}
		return nil, fmt.Errorf("can't validate sources: %w", err)
	}

	for ix := range file.Sources {
		if file.Sources[ix].Timeout == 0 {
			file.Sources[ix].Timeout = defaultTimeout
		}
	}

	return file.Sources, nil
}
