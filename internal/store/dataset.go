package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/farolescolar/farol/schema"
	"gopkg.in/yaml.v3"
)

// Dataset file formats accepted by LoadDataset.
const (
	YAMLFormat = "yaml"
	JSONFormat = "json"
)

// DatasetFormat infers the dataset format from a file extension.
func DatasetFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".json":
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unsupported dataset file %q. must end in .yaml, .yml or .json", path)
	}
}

// LoadDataset reads a dataset file. Unknown keys are rejected.
func LoadDataset(path string) (*schema.Dataset, error) {
	format, err := DatasetFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeDataset(f, format)
}

// DecodeDataset decodes a dataset in the given format.
func DecodeDataset(r io.Reader, format string) (*schema.Dataset, error) {
	var data schema.Dataset
	switch format {
	case YAMLFormat:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: failed to decode YAML dataset: %w", schema.ErrInvalidInput, err)
		}
	case JSONFormat:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: failed to decode JSON dataset: %w", schema.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
	return &data, nil
}
