// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package definition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/anactest/internal/definition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := func() definition.Definition {
		return definition.Definition{
			Name:   "rootpassword",
			Drives: []definition.Drive{{Name: "data", Size: 5}},
			Tests: []definition.TestCase{
				{Module: "rootpassword", Class: "BasicRootPasswordTestCase"},
			},
		}
	}

	tests := []struct {
		name    string
		modify  func(*definition.Definition)
		invalid bool
	}{
		{
			name:   "valid",
			modify: func(*definition.Definition) {},
		},
		{
			name:   "dotted module",
			modify: func(d *definition.Definition) { d.Tests[0].Module = "hub.storage" },
		},
		{
			name:    "empty name",
			modify:  func(d *definition.Definition) { d.Name = "" },
			invalid: true,
		},
		{
			name:    "name with separator",
			modify:  func(d *definition.Definition) { d.Name = "a/b" },
			invalid: true,
		},
		{
			name:    "drive name with separator",
			modify:  func(d *definition.Definition) { d.Drives[0].Name = "a/b" },
			invalid: true,
		},
		{
			name:    "reserved drive name",
			modify:  func(d *definition.Definition) { d.Drives[0].Name = "suite" },
			invalid: true,
		},
		{
			name:    "zero drive size",
			modify:  func(d *definition.Definition) { d.Drives[0].Size = 0 },
			invalid: true,
		},
		{
			name: "invalid environ name",
			modify: func(d *definition.Definition) {
				d.Environ = map[string]string{"A=B": "c"}
			},
			invalid: true,
		},
		{
			name: "invalid UTF-8 environ name",
			modify: func(d *definition.Definition) {
				d.Environ = map[string]string{"LANG\xff": "C"}
			},
			invalid: true,
		},
		{
			name: "invalid UTF-8 environ value",
			modify: func(d *definition.Definition) {
				d.Environ = map[string]string{"LANG": "en_US.\xff"}
			},
			invalid: true,
		},
		{
			name: "non-ASCII environ value",
			modify: func(d *definition.Definition) {
				d.Environ = map[string]string{"GREETING": "grüß dich"}
			},
		},
		{
			name:    "invalid module",
			modify:  func(d *definition.Definition) { d.Tests[0].Module = "root-password" },
			invalid: true,
		},
		{
			name:    "invalid class",
			modify:  func(d *definition.Definition) { d.Tests[0].Class = "Root Password" },
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid()
			tt.modify(&def)

			err := def.Validate()
			if tt.invalid {
				assert.ErrorIs(t, err, &definition.ValidationError{})
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	def := definition.Definition{Name: "a"}.WithDefaults()
	assert.Equal(t, uint(definition.DefaultMemory), def.ReqMemory)

	def = definition.Definition{Name: "a", ReqMemory: 512}.WithDefaults()
	assert.Equal(t, uint(512), def.ReqMemory)
}

func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		def, err := definition.Load("testdata/rootpassword.yaml")
		require.NoError(t, err)

		expected := definition.Definition{
			Name:      "rootpassword",
			Drives:    []definition.Drive{{Name: "data", Size: 5}},
			Environ:   map[string]string{"LANG": "en_US.UTF-8"},
			ReqMemory: definition.DefaultMemory,
			Tests: []definition.TestCase{
				{Module: "rootpassword", Class: "BasicRootPasswordTestCase"},
			},
		}
		assert.Equal(t, expected, def)
	})

	t.Run("toml", func(t *testing.T) {
		def, err := definition.Load("testdata/rootpassword.toml")
		require.NoError(t, err)

		assert.Equal(t, "rootpassword-toml", def.Name)
		assert.Equal(t, uint(4096), def.ReqMemory)
		assert.Equal(t, []definition.Drive{{Name: "data", Size: 5}}, def.Drives)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := definition.Parse(".yaml", []byte("name: a\nmemory: 3\n"))
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := definition.Parse(".json", []byte("{}"))
		assert.ErrorIs(t, err, definition.ErrUnknownFormat)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := definition.Parse(".yaml", []byte("drives: []\n"))
		assert.ErrorIs(t, err, &definition.ValidationError{})
	})
}

func TestLoadAllDuplicateName(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yml")

	for _, path := range []string{first, second} {
		require.NoError(t, os.WriteFile(path, []byte("name: same\n"), 0o600))
	}

	_, err := definition.LoadAll(first, second)
	assert.ErrorIs(t, err, definition.ErrDuplicateName)

	defs, err := definition.LoadAll(first)
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}
