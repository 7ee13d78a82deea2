package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsariola/pianoroll"
	"gopkg.in/yaml.v3"
)

func rollPath(dir string, idx int) string {
	return filepath.Join(dir, fmt.Sprintf("player%02d.yml", idx))
}

// save writes the roll through a temporary file that is renamed in place.
// The caller holds the lock.
func (s *Server) save(idx int, roll *pianoroll.Roll) error {
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	contents, err := yaml.Marshal(roll)
	if err != nil {
		return fmt.Errorf("could not marshal roll: %w", err)
	}
	path := rollPath(s.dir, idx)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, contents, 0644); err != nil {
		return fmt.Errorf("could not write roll file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace roll file: %w", err)
	}
	return nil
}

func (s *Server) load() error {
	for idx := range s.players {
		bytes, err := os.ReadFile(rollPath(s.dir, idx))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not read roll file: %w", err)
		}
		roll, err := UnmarshalRoll(bytes)
		if err != nil {
			return fmt.Errorf("player %d: %w", idx, err)
		}
		s.players[idx] = &roll
	}
	return nil
}

// UnmarshalRoll parses a roll from .yml, filling in defaults for anything
// missing.
func UnmarshalRoll(bytes []byte) (pianoroll.Roll, error) {
	roll := pianoroll.DefaultRoll()
	roll.Keys = nil
	if err := yaml.Unmarshal(bytes, &roll); err != nil {
		return pianoroll.Roll{}, fmt.Errorf("could not unmarshal roll: %w", err)
	}
	if roll.Keys == nil {
		roll.Keys = pianoroll.DefaultKeys()
	}
	roll.Keys = pianoroll.SortKeys(roll.Keys)
	if err := roll.Validate(); err != nil {
		return pianoroll.Roll{}, err
	}
	return roll, nil
}
