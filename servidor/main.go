package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BlockVision/internal/pack"
	"BlockVision/internal/pipeline"
	"BlockVision/internal/store"
	"BlockVision/shared/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Arquivo de configuração (json ou yaml)")
	addr := flag.String("addr", "", "Endereço de escuta (padrão: server_addr do config)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Erro fatal: %v", err)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	// Log em arquivo e console ao mesmo tempo
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
			defer logFile.Close()
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║       BlockVision SERVER v0.1.0      ║")
	log.Println("╚══════════════════════════════════════╝")

	var opts []pipeline.Option
	if cfg.CacheDB != "" {
		db, err := store.Open(cfg.CacheDB)
		if err != nil {
			log.Printf("[Startup] Cache persistente desativado: %v", err)
		} else {
			defer db.Close()
			opts = append(opts, pipeline.WithStore(db))
		}
	}

	p := pipeline.New(cfg, pack.OpenDirs(cfg.PackDirs), opts...)
	if cfg.UseAtlas {
		if _, err := p.BuildAtlas(context.Background()); err != nil {
			log.Printf("[Startup] Falha ao montar atlas: %v", err)
		}
	}

	// SIGHUP recarrega os packs do config
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			log.Printf("[Servidor] Recarregando packs...")
			p.SetPacks(pack.OpenDirs(cfg.PackDirs))
			if cfg.UseAtlas {
				if _, err := p.BuildAtlas(context.Background()); err != nil {
					log.Printf("[Servidor] Falha ao montar atlas: %v", err)
				}
			}
		}
	}()

	hub := newHub(p, cfg.MesherThreads)
	defer hub.Close()
	srv := &http.Server{Addr: cfg.ServerAddr, Handler: hub.routes()}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Printf("[Servidor] Encerrando...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("[Servidor] Escutando em %s (ws: /ws, atlas: /atlas.png)", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Erro no servidor HTTP: %v", err)
	}
}
