package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/horai/pkg/cli/config"
)

func TestCatalogConfigure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid catalog",
			content: `
[[impact]]
score = 1
name = "Mineur"
description = "Negligible consequences"

[[impact]]
score = 4
name = "Majeur"

[[criticality]]
score = 1
name = "Faible"

[[criticality]]
score = 4
name = "Critique"
`,
			wantErr: false,
		},
		{
			name: "score out of range",
			content: `
[[probability]]
score = 7
name = "off the scale"
`,
			wantErr: true,
		},
		{
			name: "missing name",
			content: `
[[control_effectiveness]]
score = 2
`,
			wantErr: true,
		},
		{
			name:    "broken TOML",
			content: `[[impact` + "\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.toml")
			gt.NoError(t, os.WriteFile(path, []byte(tt.content), 0600)).Required()

			catalog, err := config.NewCatalogForTest(path).Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, catalog).NotNil()
		})
	}

	t.Run("no path configured", func(t *testing.T) {
		catalog, err := config.NewCatalogForTest("").Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, catalog).Nil()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewCatalogForTest("/no/such/catalog.toml").Configure()
		gt.Error(t, err)
	})
}
