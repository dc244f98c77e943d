package circuit

import (
	"fmt"
	"os"
	"sort"
	"strings"

	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"

	"gopkg.in/yaml.v3"
)

// Locations lists the canonical circuit identifiers for the 2025 season.
var Locations = []string{
	"Abu_Dhabi", "Australia", "Austria", "Bahrain", "Baku", "Belgium",
	"Brazil", "Canada", "China", "Emilia_Romagna", "Great_Britain",
	"Hungary", "Italy", "Japan", "Las_Vegas", "Mexico", "Miami",
	"Monaco", "Netherlands", "Qatar", "Saudi_Arabia", "Singapore",
	"Spain", "USA",
}

// defaultAliases maps common nicknames and casual names to canonical identifiers.
var defaultAliases = map[string]string{
	"vegas":         "Las_Vegas",
	"las vegas":     "Las_Vegas",
	"british gp":    "Great_Britain",
	"britain":       "Great_Britain",
	"silverstone":   "Great_Britain",
	"uk":            "Great_Britain",
	"cota":          "USA",
	"austin":        "USA",
	"imola":         "Emilia_Romagna",
	"monza":         "Italy",
	"suzuka":        "Japan",
	"spa":           "Belgium",
	"zandvoort":     "Netherlands",
	"interlagos":    "Brazil",
	"jeddah":        "Saudi_Arabia",
	"azerbaijan":    "Baku",
	"montreal":      "Canada",
	"melbourne":     "Australia",
	"barcelona":     "Spain",
	"yas marina":    "Abu_Dhabi",
	"marina bay":    "Singapore",
	"hungaroring":   "Hungary",
	"red bull ring": "Austria",
	"shanghai":      "China",
}

// Catalog resolves free-text circuit names to canonical identifiers.
type Catalog struct {
	locations []string
	aliases   map[string]string
}

func NewCatalog() *Catalog {
	aliases := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}

	locations := make([]string, len(Locations))
	copy(locations, Locations)

	return &Catalog{
		locations: locations,
		aliases:   aliases,
	}
}

type catalogOverride struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadOverrides merges extra aliases from a circuits.yaml file. Override
// targets must name a known canonical identifier.
func (c *Catalog) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog overrides: %w", err)
	}

	var override catalogOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parse catalog overrides: %w", err)
	}

	for alias, target := range override.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		target = strings.TrimSpace(target)
		if alias == "" || target == "" {
			continue
		}
		if !c.isKnown(target) {
			return pitwallErrors.InvalidInput(fmt.Sprintf("alias %q targets unknown circuit %q", alias, target))
		}
		c.aliases[alias] = target
	}

	return nil
}

// Resolve normalizes a free-text location to a canonical identifier.
// Matching stages: exact (case-insensitive), alias substring, then partial
// word overlap. Returns ErrNotFound when nothing matches.
func (c *Catalog) Resolve(location string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(location))
	if query == "" {
		return "", pitwallErrors.InvalidInput("location is empty")
	}

	// Exact match, treating spaces and underscores as equivalent
	normalized := strings.ReplaceAll(query, " ", "_")
	for _, loc := range c.locations {
		if strings.EqualFold(loc, normalized) {
			return loc, nil
		}
	}

	// Alias substring match, longest alias first so "las vegas" wins over "vegas"
	aliasKeys := make([]string, 0, len(c.aliases))
	for alias := range c.aliases {
		aliasKeys = append(aliasKeys, alias)
	}
	sort.Slice(aliasKeys, func(i, j int) bool {
		if len(aliasKeys[i]) != len(aliasKeys[j]) {
			return len(aliasKeys[i]) > len(aliasKeys[j])
		}
		return aliasKeys[i] < aliasKeys[j]
	})
	for _, alias := range aliasKeys {
		if strings.Contains(query, alias) {
			return c.aliases[alias], nil
		}
	}

	// Partial word overlap against identifier tokens
	queryTokens := tokenize(query)
	for _, loc := range c.locations {
		for _, locToken := range tokenize(strings.ToLower(loc)) {
			for _, queryToken := range queryTokens {
				if len(queryToken) < 3 {
					continue
				}
				if locToken == queryToken || strings.Contains(locToken, queryToken) {
					return loc, nil
				}
			}
		}
	}

	return "", pitwallErrors.NotFound(fmt.Sprintf("no circuit matches %q", location))
}

// Names returns all canonical identifiers in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.locations))
	copy(out, c.locations)
	sort.Strings(out)
	return out
}

func (c *Catalog) isKnown(identifier string) bool {
	for _, loc := range c.locations {
		if loc == identifier {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == ',' || r == '.' || r == '?' || r == '!'
	})
}
