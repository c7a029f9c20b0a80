package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlockVision/internal/meshing"
	"BlockVision/shared/proto/meshnet"
)

// fakeServer responde cada pedido com um nó vazio nomeado pelo bloco,
// ou com erro para blocos "minecraft:erro".
func fakeServer(t *testing.T) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req meshnet.MeshRequest
			if err := req.Unmarshal(data); err != nil {
				return
			}
			reply := meshnet.MeshReply{ID: req.ID, Block: req.Block, Biome: req.Biome}
			if req.Block == "minecraft:erro" {
				reply.Error = "falhou"
			} else {
				reply.Node = meshing.NewNode(req.Block)
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, reply.Marshal()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func connect(t *testing.T, srv *httptest.Server) *NetworkClient {
	c := NewNetworkClient("ws" + strings.TrimPrefix(srv.URL, "http") + "/ws")
	c.MaxRetries = 1
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRequestMesh(t *testing.T) {
	c := connect(t, fakeServer(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := c.RequestMesh(ctx, "minecraft:stone", "plains")
	require.NoError(t, err)
	assert.Equal(t, "minecraft:stone", n.Name)

	_, err = c.RequestMesh(ctx, "minecraft:erro", "plains")
	assert.ErrorContains(t, err, "falhou")
}

func TestRequestMeshConcurrent(t *testing.T) {
	c := connect(t, fakeServer(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	blocks := []string{"minecraft:a", "minecraft:b", "minecraft:c", "minecraft:d"}
	errs := make(chan error, len(blocks))
	for _, b := range blocks {
		go func() {
			n, err := c.RequestMesh(ctx, b, "")
			if err == nil && n.Name != b {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	for range blocks {
		assert.NoError(t, <-errs)
	}
}

func TestRequestAfterClose(t *testing.T) {
	c := connect(t, fakeServer(t))
	require.NoError(t, c.Close())
	_, err := c.RequestMesh(context.Background(), "minecraft:stone", "")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAtlasURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ws://127.0.0.1:8080/ws", "http://127.0.0.1:8080/atlas.png"},
		{"wss://example.com/blocks/ws", "https://example.com/blocks/atlas.png"},
	}
	for _, tt := range tests {
		got, err := AtlasURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
