package knowledge

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"HotelAssistant/pkg/nlp"

	"gopkg.in/yaml.v3"
)

//go:embed data/knowledge.yaml
var defaultData []byte

type Weather struct {
	Summer  string `yaml:"summer"`
	Winter  string `yaml:"winter"`
	Monsoon string `yaml:"monsoon"`
}

type City struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	BestTimeToVisit string   `yaml:"best_time_to_visit"`
	Weather         Weather  `yaml:"weather"`
	Attractions     []string `yaml:"attractions"`
	Activities      []string `yaml:"activities"`
	Specialities    []string `yaml:"specialities"`
}

type document struct {
	Cities           []City              `yaml:"cities"`
	Distances        map[string]string   `yaml:"distances"`
	TravelTimes      map[string]string   `yaml:"travel_times"`
	BestBeaches      []string            `yaml:"best_beaches"`
	BestHillStations []string            `yaml:"best_hill_stations"`
	BestTemples      []string            `yaml:"best_temples"`
	MustTryFood      map[string][]string `yaml:"must_try_food"`
}

type IKnowledgeBase interface {
	City(key string) (City, bool)
	CityFromText(text string) (City, bool)
	CityKeys() []nlp.CityKey
	Distance(from, to string) (string, bool)
	TravelTime(from, to string) (string, bool)
	BestBeaches() []string
	BestHillStations() []string
	BestTemples() []string
	MustTryFood(key string) []string
}

// Base is a read-only knowledge base. A nil *Base answers every lookup with
// a miss.
type Base struct {
	cities map[string]City
	keys   []string
	doc    document
}

func New() (IKnowledgeBase, error) {
	b, err := Parse(defaultData)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func Parse(data []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	b := &Base{
		cities: make(map[string]City, len(doc.Cities)),
		doc:    doc,
	}
	for _, c := range doc.Cities {
		key := strings.ToLower(strings.TrimSpace(c.Key))
		if key == "" {
			continue
		}
		c.Key = key
		b.cities[key] = c
		b.keys = append(b.keys, key)
	}

	// longest key first so "new delhi" is tried before "delhi"
	sort.SliceStable(b.keys, func(i, j int) bool {
		return len(b.keys[i]) > len(b.keys[j])
	})

	return b, nil
}

func (b *Base) City(key string) (City, bool) {
	if b == nil {
		return City{}, false
	}
	c, ok := b.cities[strings.ToLower(strings.TrimSpace(key))]
	return c, ok
}

// CityFromText finds the first city key contained in text.
func (b *Base) CityFromText(text string) (City, bool) {
	if b == nil {
		return City{}, false
	}
	text = nlp.Normalize(text)
	for _, key := range b.keys {
		if strings.Contains(text, key) {
			return b.cities[key], true
		}
	}
	return City{}, false
}

func (b *Base) CityKeys() []nlp.CityKey {
	if b == nil {
		return nil
	}
	keys := make([]nlp.CityKey, 0, len(b.keys))
	for _, key := range b.keys {
		keys = append(keys, nlp.CityKey{Key: key, Name: b.cities[key].Name})
	}
	return keys
}

func (b *Base) Distance(from, to string) (string, bool) {
	if b == nil {
		return "", false
	}
	return pairLookup(b.doc.Distances, from, to)
}

func (b *Base) TravelTime(from, to string) (string, bool) {
	if b == nil {
		return "", false
	}
	return pairLookup(b.doc.TravelTimes, from, to)
}

func (b *Base) BestBeaches() []string {
	if b == nil {
		return nil
	}
	return b.doc.BestBeaches
}

func (b *Base) BestHillStations() []string {
	if b == nil {
		return nil
	}
	return b.doc.BestHillStations
}

func (b *Base) BestTemples() []string {
	if b == nil {
		return nil
	}
	return b.doc.BestTemples
}

func (b *Base) MustTryFood(key string) []string {
	if b == nil {
		return nil
	}
	return b.doc.MustTryFood[strings.ToLower(strings.TrimSpace(key))]
}

// pairLookup checks "a-b" then "b-a".
func pairLookup(m map[string]string, from, to string) (string, bool) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if v, ok := m[from+"-"+to]; ok {
		return v, true
	}
	v, ok := m[to+"-"+from]
	return v, ok
}
