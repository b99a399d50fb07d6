package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownItem   = errors.New("unknown catalog item")
	ErrDuplicateItem = errors.New("duplicate catalog item")
	ErrInvalidItem   = errors.New("invalid catalog item")
)

// Catalog is a read-only set of items in the order they were supplied.
type Catalog struct {
	items []types.CatalogItem
	byId  map[types.ItemId]int
}

func New(items ...types.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]types.CatalogItem, 0, len(items)),
		byId:  make(map[types.ItemId]int, len(items)),
	}
	for _, item := range items {
		if item.Id == "" {
			return nil, errors.Wrapf(ErrInvalidItem, "item %q has no id", item.Name)
		}
		if item.Price < 0 {
			return nil, errors.Wrapf(ErrInvalidItem, "item %s has negative price", item.Id)
		}
		if _, found := c.byId[item.Id]; found {
			return nil, errors.Wrapf(ErrDuplicateItem, "id %s", item.Id)
		}
		c.byId[item.Id] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

func (c *Catalog) All() []types.CatalogItem {
	ret := make([]types.CatalogItem, len(c.items))
	copy(ret, c.items)
	return ret
}

func (c *Catalog) Len() int {
	return len(c.items)
}

func (c *Catalog) Get(id types.ItemId) (types.CatalogItem, bool) {
	idx, ok := c.byId[id]
	if !ok {
		return types.CatalogItem{}, false
	}
	return c.items[idx], true
}

// Resolve completes an item that only carries an id. Items that already
// have a name are returned as supplied.
func (c *Catalog) Resolve(item types.CatalogItem) (types.CatalogItem, error) {
	if item.Name != "" {
		return item, nil
	}
	found, ok := c.Get(item.Id)
	if !ok {
		return item, errors.Wrapf(ErrUnknownItem, "id %s", item.Id)
	}
	return found, nil
}

// ResolveAction resolves the item carried by add actions.
func (c *Catalog) ResolveAction(action store.Action) (store.Action, error) {
	switch a := action.(type) {
	case store.AddToCart:
		item, err := c.Resolve(a.Item)
		if err != nil {
			return nil, err
		}
		return store.AddToCart{Item: item}, nil
	case store.AddToFavorites:
		item, err := c.Resolve(a.Item)
		if err != nil {
			return nil, err
		}
		return store.AddToFavorites{Item: item}, nil
	}
	return action, nil
}

type catalogFile struct {
	Items []types.CatalogItem `json:"items" yaml:"items"`
}

// LoadFile reads a catalog from a yaml or json file, chosen by extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	var file catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = jsoncompat.Unmarshal(data, &file)
	default:
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}
	return New(file.Items...)
}
