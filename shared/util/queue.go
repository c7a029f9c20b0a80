package util

import "sync"

// WorkQueue é uma fila thread-safe de trabalhos únicos por chave.
// A chave fica reservada do Enqueue até Done, inclusive enquanto é processada,
// então pedidos repetidos nesse intervalo não geram trabalho novo.
// Quem precisa do resultado aguarda com Wait.
type WorkQueue[K comparable, R any] struct {
	mu      sync.Mutex
	items   []K
	pending map[K]*work[R]
}

type work[R any] struct {
	queued  bool
	waiters []chan R
}

// NewWorkQueue cria uma fila vazia.
func NewWorkQueue[K comparable, R any]() *WorkQueue[K, R] {
	return &WorkQueue[K, R]{
		items:   make([]K, 0, 64),
		pending: make(map[K]*work[R]),
	}
}

// Enqueue adiciona a chave. Retorna false se ela já estava na fila ou em processamento.
func (q *WorkQueue[K, R]) Enqueue(key K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.pending[key]; ok {
		return false
	}
	q.push(key, &work[R]{})
	return true
}

// Wait registra interesse no resultado da chave, enfileirando-a se preciso.
// O canal recebe exatamente um valor, entregue por Done.
func (q *WorkQueue[K, R]) Wait(key K) <-chan R {
	ch := make(chan R, 1)
	q.mu.Lock()
	defer q.mu.Unlock()
	w, ok := q.pending[key]
	if !ok {
		w = &work[R]{}
		q.push(key, w)
	}
	w.waiters = append(w.waiters, ch)
	return ch
}

func (q *WorkQueue[K, R]) push(key K, w *work[R]) {
	w.queued = true
	q.items = append(q.items, key)
	q.pending[key] = w
}

// Dequeue remove a primeira chave da fila. Ela continua reservada até Done.
func (q *WorkQueue[K, R]) Dequeue() (K, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero K
		return zero, false
	}
	key := q.items[0]
	q.items = q.items[1:]
	if w, ok := q.pending[key]; ok {
		w.queued = false
	}
	return key, true
}

// Done entrega o resultado a todos que aguardam a chave e a libera.
// Retorna quantos aguardavam.
func (q *WorkQueue[K, R]) Done(key K, result R) int {
	q.mu.Lock()
	w, ok := q.pending[key]
	delete(q.pending, key)
	q.mu.Unlock()
	if !ok {
		return 0
	}
	for _, ch := range w.waiters {
		ch <- result
	}
	return len(w.waiters)
}

// DropUnwaited descarta as chaves ainda na fila que ninguém aguarda.
// Chaves com Wait pendente e as que já estão em processamento ficam.
func (q *WorkQueue[K, R]) DropUnwaited() []K {
	q.mu.Lock()
	defer q.mu.Unlock()
	var dropped []K
	kept := q.items[:0]
	for _, key := range q.items {
		if w := q.pending[key]; w != nil && len(w.waiters) == 0 {
			delete(q.pending, key)
			dropped = append(dropped, key)
			continue
		}
		kept = append(kept, key)
	}
	q.items = kept
	return dropped
}

// Len retorna quantas chaves aguardam na fila.
func (q *WorkQueue[K, R]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending retorna quantas chaves estão reservadas (na fila ou em processamento).
func (q *WorkQueue[K, R]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
