// Package pack implementa o acesso a arquivos de resource packs.
// Cada pack é uma Source (diretório, zip ou memória) e o Stack
// resolve caminhos na ordem de prioridade, retornando o primeiro acerto.
package pack

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound indica que nenhuma fonte possui o caminho pedido.
var ErrNotFound = errors.New("pack: recurso não encontrado")

// Source é um resource pack individual.
// Os caminhos são relativos a "assets/minecraft" (ex: "models/block/stone.json").
type Source interface {
	Name() string
	ReadFile(name string) ([]byte, error)
	List(prefix string) ([]string, error)
}

// Versioned é implementado pelas fontes que sabem identificar o próprio conteúdo.
// A versão muda quando arquivos do pack são editados.
type Versioned interface {
	Version() string
}

// cleanPath normaliza um caminho de recurso (barras, sem "./" nem "/" inicial).
func cleanPath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// --- Diretório ---

// DirSource lê um pack descompactado em disco.
type DirSource struct {
	root    string
	version string
}

// NewDirSource abre um pack em diretório. Se existir "assets/minecraft" dentro
// da raiz, ele é usado como base.
func NewDirSource(root string) (*DirSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir pack %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pack %s não é um diretório", root)
	}
	assets := filepath.Join(root, "assets", "minecraft")
	if st, err := os.Stat(assets); err == nil && st.IsDir() {
		root = assets
	}
	version, err := dirVersion(root)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler pack %s: %w", root, err)
	}
	return &DirSource{root: root, version: version}, nil
}

// dirVersion resume caminho, tamanho e mtime de cada arquivo do pack.
func dirVersion(root string) (string, error) {
	h := sha1.New()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		fmt.Fprintf(h, "%s:%d:%d;", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *DirSource) Name() string { return s.root }

// Version é o resumo dos arquivos tirado na abertura.
func (s *DirSource) Version() string { return s.version }

func (s *DirSource) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(cleanPath(name))))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *DirSource) List(prefix string) ([]string, error) {
	prefix = cleanPath(prefix)
	base := filepath.Join(s.root, filepath.FromSlash(prefix))
	var out []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

// --- Zip ---

// ZipSource lê um pack compactado (.zip). O índice de arquivos é montado uma vez na abertura.
type ZipSource struct {
	name    string
	closer  io.Closer
	files   map[string]*zip.File
	version string
}

// NewZipSource abre um pack .zip.
func NewZipSource(zipPath string) (*ZipSource, error) {
	rc, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir zip %s: %w", zipPath, err)
	}
	s := &ZipSource{name: zipPath, closer: rc, files: make(map[string]*zip.File)}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := cleanPath(f.Name)
		name = strings.TrimPrefix(name, "assets/minecraft/")
		s.files[name] = f
	}
	s.version = zipVersion(s.files)
	return s, nil
}

// zipVersion usa o CRC32 que o zip já guarda por arquivo.
func zipVersion(files map[string]*zip.File) string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha1.New()
	for _, name := range names {
		f := files[name]
		fmt.Fprintf(h, "%s:%d:%08x;", name, f.UncompressedSize64, f.CRC32)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *ZipSource) Name() string { return s.name }

func (s *ZipSource) Version() string { return s.version }

func (s *ZipSource) ReadFile(name string) ([]byte, error) {
	f, ok := s.files[cleanPath(name)]
	if !ok {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *ZipSource) List(prefix string) ([]string, error) {
	prefix = cleanPath(prefix)
	var out []string
	for name := range s.files {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

var (
	_ Versioned = (*DirSource)(nil)
	_ Versioned = (*ZipSource)(nil)
	_ Versioned = (*MemSource)(nil)
	_ io.Closer = (*ZipSource)(nil)
)

// Close libera o arquivo zip.
func (s *ZipSource) Close() error {
	return s.closer.Close()
}

// --- Memória ---

// MemSource guarda arquivos em memória. Usado em testes e em packs gerados.
type MemSource struct {
	name  string
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemSource cria uma fonte em memória com os arquivos dados.
func NewMemSource(name string, files map[string][]byte) *MemSource {
	s := &MemSource{name: name, files: make(map[string][]byte, len(files))}
	for k, v := range files {
		s.files[cleanPath(k)] = v
	}
	return s
}

func (s *MemSource) Name() string { return s.name }

// Version resume o conteúdo atual; muda a cada Put.
func (s *MemSource) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha1.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s:%d;", name, len(s.files[name]))
		h.Write(s.files[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Put adiciona ou substitui um arquivo.
func (s *MemSource) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[cleanPath(name)] = data
}

func (s *MemSource) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[cleanPath(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *MemSource) List(prefix string) ([]string, error) {
	prefix = cleanPath(prefix)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for name := range s.files {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
