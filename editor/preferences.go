package editor

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type Preferences struct {
	Layout   Layout
	Velocity int
	YmlError error `yaml:"-"`
}

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfig modifies the target argument, i.e. needs a pointer
func ReadCustomConfig(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "pianoroll", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.UnmarshalStrict(bytes, target)
	return true, err
}

// MakePreferences returns the built-in preferences overridden by the user's
// preferences.yml, if there is one. A broken user file is reported in
// YmlError and the fields that parsed are still used.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	exists, err := ReadCustomConfig("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}
