// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package definition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the definition from the file at path. The format is chosen by
// the file extension: ".yaml", ".yml" or ".toml". Defaults are applied and
// the result is validated.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read definition: %w", err)
	}

	def, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// Parse parses the definition data in the format given by its file
// extension.
func Parse(ext string, data []byte) (Definition, error) {
	var (
		def Definition
		err error
	)

	switch ext {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&def)
	case ".toml":
		var meta toml.MetaData

		meta, err = toml.Decode(string(data), &def)
		if err == nil && len(meta.Undecoded()) > 0 {
			err = fmt.Errorf("unknown field: %s", meta.Undecoded()[0])
		}
	default:
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err != nil {
		return Definition{}, fmt.Errorf("decode: %w", err)
	}

	def = def.WithDefaults()

	err = def.Validate()
	if err != nil {
		return Definition{}, err
	}

	return def, nil
}

// LoadAll loads all definitions at the given paths. Definition names must be
// unique.
func LoadAll(paths ...string) ([]Definition, error) {
	defs := make([]Definition, 0, len(paths))
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		def, err := Load(path)
		if err != nil {
			return nil, err
		}

		if other, exists := seen[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s in %s and %s",
				ErrDuplicateName, def.Name, other, path)
		}

		seen[def.Name] = path

		defs = append(defs, def)
	}

	return defs, nil
}
