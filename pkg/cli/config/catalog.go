package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/horai/pkg/domain/model"
)

// Catalog holds the CLI flag for the rating catalog file
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the TOML rating catalog (display labels for rating scales)",
			Sources:     cli.EnvVars("HORAI_CATALOG"),
			Destination: &c.path,
		},
	}
}

type catalogLevel struct {
	Score       int    `toml:"score"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type catalogFile struct {
	Impact               []catalogLevel `toml:"impact"`
	ControlEffectiveness []catalogLevel `toml:"control_effectiveness"`
	Probability          []catalogLevel `toml:"probability"`
	Criticality          []catalogLevel `toml:"criticality"`
}

func toRatingLevels(levels []catalogLevel) []model.RatingLevel {
	out := make([]model.RatingLevel, len(levels))
	for i, l := range levels {
		out[i] = model.RatingLevel{
			Score:       l.Score,
			Name:        l.Name,
			Description: l.Description,
		}
	}
	return out
}

// Configure loads and validates the catalog file. No file configured
// returns (nil, nil) and the built-in labels apply.
func (c *Catalog) Configure() (*model.RatingCatalog, error) {
	if c.path == "" {
		return nil, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", c.path))
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", c.path))
	}

	catalog := &model.RatingCatalog{
		Impact:               toRatingLevels(file.Impact),
		ControlEffectiveness: toRatingLevels(file.ControlEffectiveness),
		Probability:          toRatingLevels(file.Probability),
		Criticality:          toRatingLevels(file.Criticality),
	}
	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", c.path))
	}

	return catalog, nil
}
