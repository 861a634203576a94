package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoArchetypes is returned when an archetype file lists nothing spawnable.
var ErrNoArchetypes = errors.New("no spawnable archetypes")

// Archetype is an enemy look. Only the renderer cares about Sprite; Health
// overrides the configured base health when non-zero.
type Archetype struct {
	Name   string  `yaml:"name"`
	Sprite int     `yaml:"sprite"`
	Weight int     `yaml:"weight"`
	Health float32 `yaml:"health"`
}

type archetypeListFile struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

// ArchetypeTable holds the spawnable enemy archetypes.
type ArchetypeTable struct {
	list  []Archetype
	total int
}

// DefaultArchetypes returns the three stock enemy looks with equal odds.
func DefaultArchetypes() *ArchetypeTable {
	t, _ := NewArchetypeTable([]Archetype{
		{Name: "green", Sprite: 8, Weight: 1},
		{Name: "red", Sprite: 12, Weight: 1},
		{Name: "skin", Sprite: 20, Weight: 1},
	})
	return t
}

// NewArchetypeTable keeps entries with a positive weight. Entries missing a
// weight count as weight 1.
func NewArchetypeTable(list []Archetype) (*ArchetypeTable, error) {
	t := &ArchetypeTable{list: make([]Archetype, 0, len(list))}
	for _, a := range list {
		if a.Weight == 0 {
			a.Weight = 1
		}
		if a.Weight < 0 {
			continue
		}
		t.list = append(t.list, a)
		t.total += a.Weight
	}
	if len(t.list) == 0 {
		return nil, ErrNoArchetypes
	}
	return t, nil
}

// LoadArchetypes loads enemy archetypes from a YAML file.
func LoadArchetypes(path string) (*ArchetypeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	var f archetypeListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	t, err := NewArchetypeTable(f.Archetypes)
	if err != nil {
		return nil, fmt.Errorf("archetypes %s: %w", path, err)
	}
	return t, nil
}

// Pick maps roll, uniform in [0, TotalWeight), onto an archetype.
// Out-of-range rolls clamp to the ends.
func (t *ArchetypeTable) Pick(roll int) Archetype {
	for _, a := range t.list {
		if roll < a.Weight {
			return a
		}
		roll -= a.Weight
	}
	return t.list[len(t.list)-1]
}

func (t *ArchetypeTable) TotalWeight() int { return t.total }

// Count returns the number of loaded archetypes.
func (t *ArchetypeTable) Count() int { return len(t.list) }

// Get returns an archetype by name, or nil if not found.
func (t *ArchetypeTable) Get(name string) *Archetype {
	for i := range t.list {
		if t.list[i].Name == name {
			return &t.list[i]
		}
	}
	return nil
}
