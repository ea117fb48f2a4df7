package config

import (
	"fmt"
	"os"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultStores é o catálogo usado quando STORES_FILE não é informado
var DefaultStores = []domain.Store{
	{ID: domain.PizzaStore, Name: "Pizza Store"},
	{ID: domain.Decathlon, Name: "Decathlon"},
	{ID: domain.CanadaGoose, Name: "Canada Goose"},
}

type storesFile struct {
	Stores []domain.Store `yaml:"stores"`
}

// LoadStores lê o catálogo de lojas do arquivo YAML, ou retorna o catálogo padrão
func LoadStores(path string) ([]domain.Store, error) {
	if path == "" {
		stores := make([]domain.Store, len(DefaultStores))
		copy(stores, DefaultStores)
		return stores, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler catálogo de lojas %s: %w", path, err)
	}

	var file storesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("erro ao interpretar catálogo de lojas %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Stores))
	for i, store := range file.Stores {
		if store.ID == "" {
			return nil, fmt.Errorf("loja na posição %d sem id", i)
		}
		if seen[store.ID] {
			return nil, fmt.Errorf("loja duplicada no catálogo: %s", store.ID)
		}
		seen[store.ID] = true

		if store.Name == "" {
			file.Stores[i].Name = store.ID
		}
	}

	if len(file.Stores) == 0 {
		return nil, fmt.Errorf("catálogo de lojas %s está vazio", path)
	}

	return file.Stores, nil
}

// StoreIDs retorna apenas os identificadores do catálogo
func StoreIDs(stores []domain.Store) []string {
	ids := make([]string, 0, len(stores))
	for _, store := range stores {
		ids = append(ids, store.ID)
	}
	return ids
}
