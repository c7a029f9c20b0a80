package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"BlockVision/cliente/internal/client"
	"BlockVision/internal/atlas"
	"BlockVision/internal/meshing"
	"BlockVision/internal/pack"
	"BlockVision/internal/pipeline"
	"BlockVision/internal/render"
	"BlockVision/internal/store"
	"BlockVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configPath := flag.String("config", config.DefaultPath(), "Arquivo de configuração (json ou yaml)")
	block := flag.String("block", "minecraft:stone", "Bloco, ex: minecraft:oak_log[axis=x]")
	biome := flag.String("biome", "", "Bioma para cores de tint (padrão: default_biome do config)")
	serverURL := flag.String("server", "", "URL do servidor (ws://host:porta/ws). Vazio roda localmente")
	atlasOut := flag.String("atlas-out", "", "Salva o atlas em PNG neste caminho")
	remote := flag.Bool("remote", false, "Usa o servidor de server_url do config")
	view := flag.Bool("view", false, "Abre o visualizador 3D")
	packs := flag.String("packs", "", "Packs separados por vírgula (sobrescreve pack_dirs)")
	verbose := flag.Bool("v", false, "Mostra o log no terminal")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("config: %v", err)
	}
	if *packs != "" {
		cfg.PackDirs = strings.Split(*packs, ",")
	}
	if *remote && *serverURL == "" {
		*serverURL = cfg.ServerURL
	}
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var src source
	if *serverURL != "" {
		src, err = newRemote(*serverURL)
	} else {
		src, err = newLocal(cfg)
	}
	if err != nil {
		fatalf("%v", err)
	}
	defer src.Close()

	start := time.Now()
	node, err := src.Mesh(ctx, *block, *biome)
	if err != nil {
		fatalf("malha de %s: %v", *block, err)
	}
	printStats(os.Stdout, node, time.Since(start))

	var atlasImg image.Image
	if *atlasOut != "" || *view {
		atlasImg, err = src.Atlas(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "atlas indisponível: %v\n", err)
		}
	}
	if *atlasOut != "" && atlasImg != nil {
		if err := writePNG(*atlasOut, atlasImg); err != nil {
			fatalf("salvar atlas: %v", err)
		}
		fmt.Printf("atlas salvo em %s (%dx%d)\n", *atlasOut, atlasImg.Bounds().Dx(), atlasImg.Bounds().Dy())
	}

	if *view {
		// Com atlas novo os UVs mudam: pede a malha de novo
		if atlasImg != nil {
			if n, err := src.Mesh(ctx, *block, *biome); err == nil {
				node = n
			}
		}
		render.NewViewer(cfg, src.Texture).Run(node, atlasImg)
	}
}

// source abstrai pipeline local e servidor remoto.
type source interface {
	Mesh(ctx context.Context, block, biome string) (*meshing.Node, error)
	Atlas(ctx context.Context) (image.Image, error)
	Texture(path string) image.Image
	Close()
}

type localSource struct {
	p  *pipeline.Pipeline
	db *store.Store
}

func newLocal(cfg *config.Config) (*localSource, error) {
	s := &localSource{}
	var opts []pipeline.Option
	if cfg.CacheDB != "" {
		db, err := store.Open(cfg.CacheDB)
		if err != nil {
			return nil, err
		}
		s.db = db
		opts = append(opts, pipeline.WithStore(db))
	}
	s.p = pipeline.New(cfg, pack.OpenDirs(cfg.PackDirs), opts...)
	return s, nil
}

func (s *localSource) Mesh(ctx context.Context, block, biome string) (*meshing.Node, error) {
	return s.p.GetBlockMesh(ctx, block, biome)
}

func (s *localSource) Atlas(ctx context.Context) (image.Image, error) {
	a, err := s.p.BuildAtlas(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf("atlas: %d texturas, %.1f%% ocupado, %d descartadas\n",
		len(a.Layout.Placements), a.Layout.Efficiency(), len(a.Layout.Dropped))
	return a.Image, nil
}

func (s *localSource) Texture(path string) image.Image {
	tex, err := atlas.LoadTextures(context.Background(), s.p.Stack(), []string{path}, 1)
	if err != nil || len(tex) == 0 {
		return nil
	}
	return tex[0].Image
}

func (s *localSource) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

type remoteSource struct {
	c *client.NetworkClient
}

func newRemote(url string) (*remoteSource, error) {
	c := client.NewNetworkClient(url)
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return &remoteSource{c: c}, nil
}

func (s *remoteSource) Mesh(ctx context.Context, block, biome string) (*meshing.Node, error) {
	return s.c.RequestMesh(ctx, block, biome)
}

func (s *remoteSource) Atlas(ctx context.Context) (image.Image, error) {
	return s.c.FetchAtlas(ctx)
}

// Texturas individuais não são servidas; só o atlas.
func (s *remoteSource) Texture(string) image.Image { return nil }

func (s *remoteSource) Close() { s.c.Close() }

func printStats(w io.Writer, n *meshing.Node, took time.Duration) {
	fmt.Fprintf(w, "%s\n", n.Name)
	fmt.Fprintf(w, "  malhas: %d  vértices: %d  índices: %d  tempo: %s\n",
		n.MeshCount(), n.VertexCount(), n.IndexCount(), took.Round(time.Microsecond))
	if n.Placeholder {
		fmt.Fprintln(w, "  (placeholder: bloco sem modelo)")
	}
	if min, max, ok := n.Bounds(); ok {
		fmt.Fprintf(w, "  limites: %v .. %v\n", min, max)
	}
	printTree(w, n, 1)
}

func printTree(w io.Writer, n *meshing.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	flags := ""
	if n.IsWater {
		flags += " [água]"
	}
	if n.Placeholder {
		flags += " [placeholder]"
	}
	fmt.Fprintf(w, "%s- %s%s\n", indent, n.Name, flags)
	for _, m := range n.Meshes {
		tex := ""
		if m.Material != nil {
			tex = m.Material.Texture
		}
		fmt.Fprintf(w, "%s    %-6s %-32s %d tris\n", indent, m.Key.Direction, tex, m.Geometry.IndexCount()/3)
	}
	for _, c := range n.Children {
		printTree(w, c, depth+1)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "blockvision: "+format+"\n", args...)
	os.Exit(1)
}
