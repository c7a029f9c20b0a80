package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

func exe(name string) string {
	dir := "."
	if self, err := os.Executable(); err == nil {
		dir = filepath.Dir(self)
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}

// waitServer espera o endpoint /stats responder.
func waitServer(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return false
}

func main() {
	configPath := flag.String("config", "config.json", "Configuração repassada para servidor e cliente")
	addr := flag.String("addr", "127.0.0.1:8080", "Endereço do servidor")
	block := flag.String("block", "minecraft:grass_block", "Bloco aberto no visualizador")
	biome := flag.String("biome", "", "Bioma")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║         BlockVision Launcher         ║")
	fmt.Println("╚══════════════════════════════════════╝")

	fmt.Println("[1/2] Iniciando Servidor...")
	server := exec.Command(exe("servidor"), "-config", *configPath, "-addr", *addr)
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	if err := server.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	defer server.Process.Kill()

	fmt.Println("Aguardando inicialização do servidor e montagem do atlas...")
	if !waitServer("http://"+*addr+"/stats", 30*time.Second) {
		log.Fatalf("Servidor não respondeu em %s", *addr)
	}

	fmt.Println("[2/2] Abrindo Cliente...")
	client := exec.Command(exe("cliente"),
		"-config", *configPath,
		"-server", "ws://"+*addr+"/ws",
		"-block", *block, "-biome", *biome, "-view")
	client.Stdout = os.Stdout
	client.Stderr = os.Stderr
	if err := client.Run(); err != nil {
		fmt.Printf("Cliente encerrado com erro: %v\n", err)
	}
}
