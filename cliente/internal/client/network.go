// Package client fala com o servidor de malhas do BlockVision.
package client

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"BlockVision/internal/meshing"
	"BlockVision/shared/proto/meshnet"
)

// ErrClosed é retornado quando a conexão cai com pedidos pendentes.
var ErrClosed = errors.New("conexão com o servidor encerrada")

// NetworkClient lida com a comunicação com o servidor BlockVision.
// Pedidos podem ser feitos de várias goroutines; respostas são casadas pelo ID.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	connected bool
	mu        sync.RWMutex
	writeMu   sync.Mutex

	nextID  atomic.Uint32
	pending map[uint32]chan *meshnet.MeshReply
	pendMu  sync.Mutex

	// Retries e espera da conexão inicial
	MaxRetries int
	RetryDelay time.Duration
}

func NewNetworkClient(url string) *NetworkClient {
	return &NetworkClient{
		url:        url,
		pending:    make(map[uint32]chan *meshnet.MeshReply),
		MaxRetries: 10,
		RetryDelay: 2 * time.Second,
	}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var conn *websocket.Conn
	var err error
	for i := 0; i < c.MaxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, c.MaxRetries, c.url)
		conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(c.RetryDelay)
	}
	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", c.MaxRetries, err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close encerra a conexão. Pedidos pendentes recebem ErrClosed.
func (c *NetworkClient) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.connected = false
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// RequestMesh pede a malha de um bloco e espera a resposta.
func (c *NetworkClient) RequestMesh(ctx context.Context, block, biome string) (*meshing.Node, error) {
	if !c.IsConnected() {
		return nil, ErrClosed
	}
	id := c.nextID.Add(1)
	ch := make(chan *meshnet.MeshReply, 1)
	c.pendMu.Lock()
	c.pending[id] = ch
	c.pendMu.Unlock()
	defer func() {
		c.pendMu.Lock()
		delete(c.pending, id)
		c.pendMu.Unlock()
	}()

	req := meshnet.MeshRequest{ID: id, Block: block, Biome: biome}
	if err := c.send(req.Marshal()); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if reply.Error != "" {
			return nil, fmt.Errorf("servidor: %s", reply.Error)
		}
		return reply.Node, nil
	}
}

func (c *NetworkClient) send(data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}
	return err
}

func (c *NetworkClient) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.conn.Close()

		// Libera quem ainda espera resposta
		c.pendMu.Lock()
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.pendMu.Unlock()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if c.IsConnected() {
				log.Printf("[Network] Conexão perdida: %v", err)
			}
			return
		}

		var reply meshnet.MeshReply
		if err := reply.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar resposta: %v", err)
			continue
		}
		c.pendMu.Lock()
		ch, ok := c.pending[reply.ID]
		c.pendMu.Unlock()
		if !ok {
			log.Printf("[Network] Resposta sem pedido (id %d, %s)", reply.ID, reply.Block)
			continue
		}
		ch <- &reply
	}
}

// AtlasURL deriva o endereço HTTP do atlas a partir da URL do WebSocket.
func AtlasURL(wsURL string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	u.Path = strings.TrimSuffix(u.Path, "/ws") + "/atlas.png"
	return u.String(), nil
}

// FetchAtlas baixa o PNG do atlas do servidor.
func (c *NetworkClient) FetchAtlas(ctx context.Context) (image.Image, error) {
	atlasURL, err := AtlasURL(c.url)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, atlasURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("atlas: status %s", resp.Status)
	}
	return png.Decode(resp.Body)
}
