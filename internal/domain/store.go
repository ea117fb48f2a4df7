package domain

// Store é um item do catálogo de lojas exibido no seletor do dashboard
type Store struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Available bool   `json:"available" yaml:"-"`
}
