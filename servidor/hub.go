package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"BlockVision/internal/pipeline"
	"BlockVision/shared/proto/meshnet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// maxInFlight limita os pedidos abertos por conexão; acima disso a leitura espera.
const maxInFlight = 64

// Hub gerencia as conexões WebSocket ativas e atende pedidos de malha.
// As malhas são geradas pelo pool de workers do Mesher.
type Hub struct {
	pipeline *pipeline.Pipeline
	mesher   *pipeline.Mesher
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.Mutex
}

func newHub(p *pipeline.Pipeline, workers int) *Hub {
	return &Hub{
		pipeline: p,
		mesher:   pipeline.NewMesher(p, workers),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Close encerra o pool de workers.
func (h *Hub) Close() {
	h.mesher.Stop()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	log.Printf("[Hub] Cliente registrado: %s", conn.RemoteAddr())
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if !ok {
		return
	}
	lock.Lock()
	conn.Close()
	lock.Unlock()
	log.Printf("[Hub] Cliente desregistrado: %s", conn.RemoteAddr())
}

// ClientCount retorna quantos clientes estão conectados.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez.
func (h *Hub) WriteSafe(conn *websocket.Conn, messageType int, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}
	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(messageType, data)
}

// serveWs lê pedidos do cliente até a conexão cair. Cada pedido aguarda o
// Mesher em sua própria goroutine; as respostas podem chegar fora de ordem (casadas pelo ID).
func (h *Hub) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] Erro no upgrade: %v", err)
		return
	}
	h.register(conn)

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	slots := make(chan struct{}, maxInFlight)
	defer func() {
		cancel()
		wg.Wait()
		h.unregister(conn)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Hub] Conexão perdida: %v", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		var req meshnet.MeshRequest
		if err := req.Unmarshal(data); err != nil {
			log.Printf("[Hub] Pedido malformado de %s: %v", conn.RemoteAddr(), err)
			continue
		}
		slots <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-slots
				wg.Done()
			}()
			h.handleRequest(ctx, conn, &req)
		}()
	}
}

func (h *Hub) handleRequest(ctx context.Context, conn *websocket.Conn, req *meshnet.MeshRequest) {
	reply := meshnet.MeshReply{ID: req.ID, Block: req.Block, Biome: req.Biome}
	node, err := h.mesher.Submit(ctx, pipeline.Request{Block: req.Block, Biome: req.Biome})
	if err != nil {
		reply.Error = err.Error()
	} else {
		reply.Node = node
	}
	if err := h.WriteSafe(conn, websocket.BinaryMessage, reply.Marshal()); err != nil {
		log.Printf("[Hub] Erro ao enviar malha %s: %v", req.Block, err)
	}
}

// serveAtlas devolve o atlas atual em PNG, montando-o se ainda não existir.
func (h *Hub) serveAtlas(w http.ResponseWriter, r *http.Request) {
	a := h.pipeline.Atlas()
	if a == nil {
		var err error
		if a, err = h.pipeline.BuildAtlas(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Image); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

type statsResponse struct {
	Clients   int  `json:"clients"`
	Meshes    int  `json:"meshes"`
	Materials int  `json:"materials"`
	HasAtlas  bool `json:"has_atlas"`
	Queued    int  `json:"queued"`
}

func (h *Hub) serveStats(w http.ResponseWriter, r *http.Request) {
	s := h.pipeline.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		Clients:   h.ClientCount(),
		Meshes:    s.Meshes,
		Materials: s.Materials,
		HasAtlas:  s.HasAtlas,
		Queued:    h.mesher.Pending(),
	})
}

func (h *Hub) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWs)
	mux.HandleFunc("/atlas.png", h.serveAtlas)
	mux.HandleFunc("/stats", h.serveStats)
	return mux
}
