package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// storeEntry is the YAML shape of one store. Grocery stores carry lat/lng
// directly; food and generic stores carry a sites list addressed by index.
type storeEntry struct {
	Name  string      `yaml:"name"`
	Lat   float64     `yaml:"lat"`
	Lng   float64     `yaml:"lng"`
	Sites []siteEntry `yaml:"sites"`
}

type siteEntry struct {
	Address string  `yaml:"address"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

type catalogsFile struct {
	Grocery map[string]storeEntry `yaml:"grocery"`
	Food    map[string]storeEntry `yaml:"food"`
	Generic map[string]storeEntry `yaml:"generic"`
}

// LoadStoreCatalogs reads the store catalogs YAML the coordinate resolver
// is configured with.
func LoadStoreCatalogs(path string) (services.StoreCatalogs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.StoreCatalogs{}, fmt.Errorf("reading store catalogs: %w", err)
	}

	var file catalogsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return services.StoreCatalogs{}, fmt.Errorf("parsing store catalogs: %w", err)
	}

	catalogs := services.StoreCatalogs{}
	if catalogs.Grocery, err = buildCatalog(file.Grocery); err != nil {
		return services.StoreCatalogs{}, fmt.Errorf("grocery catalog: %w", err)
	}
	if catalogs.Food, err = buildCatalog(file.Food); err != nil {
		return services.StoreCatalogs{}, fmt.Errorf("food catalog: %w", err)
	}
	if catalogs.Generic, err = buildCatalog(file.Generic); err != nil {
		return services.StoreCatalogs{}, fmt.Errorf("generic catalog: %w", err)
	}

	return catalogs, nil
}

func buildCatalog(entries map[string]storeEntry) (map[string]services.Store, error) {
	catalog := make(map[string]services.Store, len(entries))

	for key, entry := range entries {
		store := services.Store{Name: entry.Name}

		if entry.Lat != 0 || entry.Lng != 0 {
			point, err := kernel.NewGeoPoint(entry.Lat, entry.Lng)
			if err != nil {
				return nil, fmt.Errorf("store %q: %w", key, err)
			}
			store.Point = point
		}

		for i, site := range entry.Sites {
			point, err := kernel.NewGeoPoint(site.Lat, site.Lng)
			if err != nil {
				return nil, fmt.Errorf("store %q site %d: %w", key, i, err)
			}
			store.Sites = append(store.Sites, services.StoreSite{
				Address: site.Address,
				Point:   point,
			})
		}

		catalog[key] = store
	}

	return catalog, nil
}
