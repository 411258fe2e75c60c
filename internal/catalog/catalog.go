package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toria-lab/logosurvey/internal/models"
)

// Catalog is the fixed, ordered list of ratable items for a survey instance,
// plus the attention-check settings. Read-only after Load.
type Catalog struct {
	Items        []models.Item `yaml:"items"`
	TrapItemID   string        `yaml:"trap_item_id"`
	TrapPosition int           `yaml:"trap_position"` // 1-indexed

	byID map[string]models.Item
}

// Load reads and parses a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog YAML: %w", err)
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return &c, nil
}

// New builds a catalog from an in-memory item list. Used by tests and seeds.
func New(items []models.Item, trapID string, trapPosition int) (*Catalog, error) {
	c := &Catalog{Items: items, TrapItemID: trapID, TrapPosition: trapPosition}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) init() error {
	if len(c.Items) == 0 {
		return fmt.Errorf("catalog has no items")
	}
	c.byID = make(map[string]models.Item, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("catalog item %q has empty id", it.Name)
		}
		if _, dup := c.byID[it.ID]; dup {
			return fmt.Errorf("duplicate catalog item id %q", it.ID)
		}
		c.byID[it.ID] = it
	}
	if c.TrapPosition < 1 {
		c.TrapPosition = len(c.Items)
	}
	return nil
}

// Size returns the number of catalog items.
func (c *Catalog) Size() int { return len(c.Items) }

// ByID looks up an item by id.
func (c *Catalog) ByID(id string) (models.Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Contains reports whether id belongs to the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}
