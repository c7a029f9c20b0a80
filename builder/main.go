package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// component é um binário do repositório.
type component struct {
	name    string
	dir     string
	cgo     bool // raylib e sqlite exigem CGO
	ldflags string
}

var components = []component{
	{"SERVIDOR (CGO)", "servidor", true, "-s -w"},
	{"CLIENTE (CGO + raylib)", "cliente", true, "-s -w"},
	{"LAUNCHER (Pure Go)", "launcher", false, "-s -w"},
}

func main() {
	outDir := flag.String("out", "bin", "Diretório de saída")
	test := flag.Bool("test", false, "Roda go test ./... antes de compilar")
	flag.Parse()

	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║       BlockVision Native Builder     ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()
	setupEnvironment()

	if *test {
		if err := run("TESTES", true, "go", "test", "./..."); err != nil {
			fatal(err)
		}
	}

	for i, c := range components {
		fmt.Printf(ColorYellow+"\n[%d/%d]"+ColorReset, i+1, len(components))
		output := filepath.Join(*outDir, binaryName(c.dir))
		if err := buildComponent(c, output); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Printf(ColorYellow+"Dica: execute %s para subir servidor e visualizador."+ColorReset+"\n",
		filepath.Join(*outDir, binaryName("launcher")))
}

func binaryName(dir string) string {
	if runtime.GOOS == "windows" {
		return dir + ".exe"
	}
	return dir
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(c component, output string) error {
	fmt.Printf(ColorYellow+" Compilando %s..."+ColorReset+"\n", c.name)
	ldflags := c.ldflags
	if c.dir == "cliente" && runtime.GOOS == "windows" {
		ldflags += " -H=windowsgui"
	}
	if err := run(c.name, c.cgo, "go", "build", "-ldflags", ldflags, "-o", output, "./"+c.dir); err != nil {
		return err
	}
	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", c.name, output)
	return nil
}

func run(name string, cgo bool, bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cgoValue := "0"
	if cgo {
		cgoValue = "1"
	}
	cmd.Env = append(os.Environ(), "CGO_ENABLED="+cgoValue)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha em %s: %v", name, err)
	}
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
