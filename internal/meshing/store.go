package meshing

import "sync"

// ResultKey identifica uma malha pronta.
type ResultKey struct {
	Block string
	Biome string
}

// ResultStore armazena as malhas prontas na RAM para evitar re-processamento.
type ResultStore struct {
	mu      sync.RWMutex
	results map[ResultKey]*Node
}

// NewResultStore cria um novo repositório de resultados.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[ResultKey]*Node),
	}
}

// Get retorna um clone do resultado, se existir.
func (s *ResultStore) Get(key ResultKey) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.results[key]
	if !ok {
		return nil, false
	}
	// Retornamos um clone para evitar que modificações externas afetem o cache
	return node.Clone(), true
}

// Store salva um resultado no repositório.
func (s *ResultStore) Store(key ResultKey, node *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Guardamos um clone para garantir que o cache seja imutável
	s.results[key] = node.Clone()
}

// Len retorna quantos resultados estão guardados.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Clear limpa todo o cache de resultados.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[ResultKey]*Node)
}
