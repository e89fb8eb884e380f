package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bytedance/sonic"
	"guitarla/internal/domain"
	"guitarla/internal/importer"
)

// tomlCatalog is the on-disk TOML shape: a [[items]] table array.
type tomlCatalog struct {
	Items []domain.Item `toml:"items"`
}

// LoadFile builds a catalog from a .json, .toml or .csv file.
func LoadFile(path string) (*Service, error) {
	items, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	svc, err := New(items)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return svc, nil
}

// ReadFile parses items without validating them.
func ReadFile(path string) ([]domain.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var items []domain.Item
		if err := sonic.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
		return items, nil
	case ".toml":
		var doc tomlCatalog
		if _, err := toml.Decode(string(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode catalog toml: %w", err)
		}
		return doc.Items, nil
	case ".csv":
		items, err := importer.NewCSVImporter(bytes.NewReader(raw)).Run()
		if err != nil {
			return nil, fmt.Errorf("import catalog csv: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}

// WriteFile writes items as JSON or TOML depending on the extension of path.
func WriteFile(path string, items []domain.Item) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		b, err := sonic.ConfigStd.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("encode catalog json: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(tomlCatalog{Items: items}); err != nil {
			return fmt.Errorf("encode catalog toml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported catalog format %q", ext)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
