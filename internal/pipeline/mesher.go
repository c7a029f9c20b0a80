package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"BlockVision/internal/meshing"
	"BlockVision/shared/util"
)

// Request é um pedido de malha para o pool de workers.
type Request struct {
	Block string
	Biome string
}

// Result é a malha pronta (ou o erro) de um Request.
type Result struct {
	Request
	Node *meshing.Node
	Err  error
}

// ErrStopped é retornado a quem aguarda quando o Mesher é encerrado.
var ErrStopped = errors.New("mesher encerrado")

// Mesher processa pedidos em segundo plano com um pool de workers.
// Pedidos repetidos enquanto ainda estão na fila ou em processamento são fundidos.
type Mesher struct {
	pipeline *Pipeline
	queue    *util.WorkQueue[Request, Result]
	wake     chan struct{}
	results  chan Result
	stop     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	notifyMu sync.Mutex
	notify   map[Request]bool // Pedidos feitos por Enqueue, entregues em Results
}

// NewMesher cria e inicia o pool.
func NewMesher(p *Pipeline, workers int) *Mesher {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Mesher{
		pipeline: p,
		queue:    util.NewWorkQueue[Request, Result](),
		wake:     make(chan struct{}, workers),
		results:  make(chan Result, 256),
		stop:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		notify:   make(map[Request]bool),
	}

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	// Packs trocados: pedidos que ninguém aguarda são descartados.
	// Os aguardados seguem e são gerados com os packs novos.
	p.OnInvalidate(m.dropUnwaited)
	return m
}

func (m *Mesher) normalize(req Request) Request {
	if req.Biome == "" {
		req.Biome = m.pipeline.cfg.DefaultBiome
	}
	return req
}

func (m *Mesher) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Enqueue adiciona um pedido cujo resultado sai em Results.
// Retorna false se ele já estava pendente.
func (m *Mesher) Enqueue(req Request) bool {
	req = m.normalize(req)
	m.notifyMu.Lock()
	m.notify[req] = true
	m.notifyMu.Unlock()
	added := m.queue.Enqueue(req)
	m.signal()
	return added
}

// Submit enfileira o pedido e espera a malha. Cancelar ctx só abandona a espera.
// O nó retornado é uma cópia de quem chamou.
func (m *Mesher) Submit(ctx context.Context, req Request) (*meshing.Node, error) {
	req = m.normalize(req)
	ch := m.queue.Wait(req)
	m.signal()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.stop:
		return nil, ErrStopped
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Node.Clone(), nil
	}
}

// Pending retorna quantos pedidos aguardam na fila.
func (m *Mesher) Pending() int {
	return m.queue.Len()
}

// Results é o canal de malhas prontas dos pedidos feitos com Enqueue.
func (m *Mesher) Results() <-chan Result {
	return m.results
}

// Stop encerra os workers e espera o término.
func (m *Mesher) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.cancel()
	})
	m.wg.Wait()
}

func (m *Mesher) dropUnwaited() {
	dropped := m.queue.DropUnwaited()
	if len(dropped) == 0 {
		return
	}
	m.notifyMu.Lock()
	for _, req := range dropped {
		delete(m.notify, req)
	}
	m.notifyMu.Unlock()
	log.Printf("[Mesher] %d pedidos descartados na troca de packs", len(dropped))
}

func (m *Mesher) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stop:
			return
		case <-m.wake:
		}
		for {
			req, ok := m.queue.Dequeue()
			if !ok {
				break
			}
			res := m.process(req)
			m.queue.Done(req, res)

			m.notifyMu.Lock()
			notify := m.notify[req]
			delete(m.notify, req)
			m.notifyMu.Unlock()
			if !notify {
				continue
			}
			select {
			case m.results <- res:
			case <-m.stop:
				return
			}
		}
	}
}

func (m *Mesher) process(req Request) (res Result) {
	res.Request = req
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro no Mesher Worker (%s): %v", req.Block, r)
			res.Node = nil
			res.Err = fmt.Errorf("pânico ao gerar %s: %v", req.Block, r)
		}
	}()
	res.Node, res.Err = m.pipeline.GetBlockMesh(m.ctx, req.Block, req.Biome)
	return res
}
