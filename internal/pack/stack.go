package pack

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Stack resolve caminhos em várias Sources, da mais prioritária para a menos.
// É imutável depois de criado: trocar de packs significa criar outro Stack.
type Stack struct {
	sources []Source
}

// NewStack cria um Stack com as fontes na ordem de prioridade dada.
func NewStack(sources ...Source) *Stack {
	return &Stack{sources: append([]Source(nil), sources...)}
}

// OpenDirs abre cada caminho como diretório ou zip (pelo sufixo).
// Packs que falham ao abrir são ignorados com log, não interrompem a carga.
func OpenDirs(paths []string) *Stack {
	var sources []Source
	for _, p := range paths {
		var src Source
		var err error
		if strings.HasSuffix(strings.ToLower(p), ".zip") {
			src, err = NewZipSource(p)
		} else {
			src, err = NewDirSource(p)
		}
		if err != nil {
			log.Printf("[Pack] Ignorando pack %s: %v", p, err)
			continue
		}
		log.Printf("[Pack] Pack carregado: %s", p)
		sources = append(sources, src)
	}
	return NewStack(sources...)
}

// Sources retorna as fontes na ordem de prioridade.
func (s *Stack) Sources() []Source {
	return s.sources
}

// GetBytes retorna o conteúdo do primeiro pack que possuir o caminho.
func (s *Stack) GetBytes(name string) ([]byte, bool) {
	for _, src := range s.sources {
		data, err := src.ReadFile(name)
		if err == nil {
			return data, true
		}
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[Pack] Erro ao ler %s em %s: %v", name, src.Name(), err)
		}
	}
	return nil, false
}

// GetString é GetBytes convertido para texto.
func (s *Stack) GetString(name string) (string, bool) {
	data, ok := s.GetBytes(name)
	if !ok {
		return "", false
	}
	return string(data), true
}

// Has indica se algum pack possui o caminho.
func (s *Stack) Has(name string) bool {
	_, ok := s.GetBytes(name)
	return ok
}

// List retorna a união (sem repetição, ordenada) dos arquivos sob o prefixo em todos os packs.
func (s *Stack) List(prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, src := range s.sources {
		names, err := src.List(prefix)
		if err != nil {
			log.Printf("[Pack] Erro ao listar %s em %s: %v", prefix, src.Name(), err)
			continue
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Fingerprint identifica o conjunto de packs ativo: nomes, ordem e a versão
// do conteúdo de cada fonte. Usado como chave do cache persistente.
func (s *Stack) Fingerprint() string {
	h := sha1.New()
	for i, src := range s.sources {
		fmt.Fprintf(h, "%d:%s", i, src.Name())
		if v, ok := src.(Versioned); ok {
			fmt.Fprintf(h, "@%s", v.Version())
		}
		h.Write([]byte{';'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Close libera as fontes que mantêm arquivos abertos (zips).
func (s *Stack) Close() error {
	var errs []error
	for _, src := range s.sources {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Accessor é a visão mínima de leitura usada pelos resolvedores.
type Accessor interface {
	GetBytes(name string) ([]byte, bool)
	GetString(name string) (string, bool)
}

var _ Accessor = (*Stack)(nil)
