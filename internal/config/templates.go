package config

import (
	"fmt"
	"os"
)

// Template returns a commented starting config.
func Template() string {
	return configTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}

const configTemplate = `# muon seed producer
scale_inner_state_error = 10.0
propagator = "stepping-helix.along"
debug = false
valid_hits_only = false
cleaner = "duplicates"
geometry = "geometry.toml"

[quality]
enabled = false
max_normalized_chi2 = 20.0
min_valid_hits = 5
min_pixel_hits = 0

[field]
model = "solenoid"
central = 3.8
radius = 300.0
half_length = 600.0
yoke_field = -1.8
yoke_outer_radius = 700.0
`
