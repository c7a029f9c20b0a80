// Package store é o cache persistente (SQLite) de malhas e layouts de atlas,
// indexado pela impressão digital do conjunto de packs.
package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"BlockVision/internal/atlas"
	"BlockVision/internal/meshing"
	"BlockVision/shared/proto/meshnet"
)

// MeshRecord é uma malha pronta de um bloco num bioma.
type MeshRecord struct {
	Fingerprint string `gorm:"primaryKey"`
	Block       string `gorm:"primaryKey"`
	Biome       string `gorm:"primaryKey"`
	Data        []byte // Nó serializado em protobuf
	UpdatedAt   time.Time
}

// AtlasRecord guarda o layout do atlas de um conjunto de packs.
type AtlasRecord struct {
	Fingerprint string `gorm:"primaryKey"`
	Size        int    `gorm:"primaryKey;autoIncrement:false"`
	Data        []byte
	UpdatedAt   time.Time
}

// Metadata armazena informações globais do cache.
type Metadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// Store envolve a conexão GORM.
type Store struct {
	DB *gorm.DB
}

// Open abre (ou cria) o banco SQLite e roda as migrações.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&MeshRecord{}, &AtlasRecord{}, &Metadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	s := &Store{DB: db}
	if v, ok := s.Meta("FormatVersion"); ok && v != fmt.Sprint(CurrentFormatVersion) {
		log.Printf("[Persistence] Formato %s desatualizado, limpando cache", v)
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MeshRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AtlasRecord{})
	}
	db.Save(&Metadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	log.Printf("[Persistence] Banco de dados SQLite aberto: %s", path)
	return s, nil
}

// Close fecha a conexão.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Meta lê um metadado.
func (s *Store) Meta(key string) (string, bool) {
	var m Metadata
	if err := s.DB.First(&m, "key = ?", key).Error; err != nil {
		return "", false
	}
	return m.Value, true
}

// SetMeta grava um metadado.
func (s *Store) SetMeta(key, value string) error {
	return s.DB.Save(&Metadata{Key: key, Value: value}).Error
}

// SaveMesh grava (ou substitui) a malha de um bloco.
func (s *Store) SaveMesh(fingerprint, block, biome string, node *meshing.Node) error {
	rec := MeshRecord{
		Fingerprint: fingerprint,
		Block:       block,
		Biome:       biome,
		Data:        meshnet.EncodeNode(node),
	}
	if err := s.DB.Save(&rec).Error; err != nil {
		log.Printf("[Persistence] ERRO ao salvar malha %s: %v", block, err)
		return err
	}
	return nil
}

// LoadMesh lê a malha de um bloco. Retorna gorm.ErrRecordNotFound se não houver.
func (s *Store) LoadMesh(fingerprint, block, biome string) (*meshing.Node, error) {
	var rec MeshRecord
	err := s.DB.First(&rec, "fingerprint = ? AND block = ? AND biome = ?", fingerprint, block, biome).Error
	if err != nil {
		return nil, err
	}
	return meshnet.DecodeNode(rec.Data)
}

// SaveAtlasLayout grava o layout do atlas.
func (s *Store) SaveAtlasLayout(fingerprint string, l *atlas.Layout) error {
	rec := AtlasRecord{Fingerprint: fingerprint, Size: l.Size, Data: meshnet.EncodeLayout(l)}
	return s.DB.Save(&rec).Error
}

// LoadAtlasLayout lê o layout do atlas para o tamanho dado.
func (s *Store) LoadAtlasLayout(fingerprint string, size int) (*atlas.Layout, error) {
	var rec AtlasRecord
	if err := s.DB.First(&rec, "fingerprint = ? AND size = ?", fingerprint, size).Error; err != nil {
		return nil, err
	}
	return meshnet.DecodeLayout(rec.Data)
}

// Purge remove tudo que não pertence ao conjunto de packs atual.
// Chaves derivadas ("<fingerprint>+...") do mesmo conjunto são mantidas.
func (s *Store) Purge(keepFingerprint string) (int64, error) {
	res := s.DB.Where("fingerprint <> ? AND fingerprint NOT LIKE ?", keepFingerprint, keepFingerprint+"+%").Delete(&MeshRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	removed := res.RowsAffected
	res = s.DB.Where("fingerprint <> ?", keepFingerprint).Delete(&AtlasRecord{})
	if res.Error != nil {
		return removed, res.Error
	}
	removed += res.RowsAffected
	if removed > 0 {
		log.Printf("[Persistence] %d registros antigos removidos", removed)
	}
	return removed, nil
}

// IsNotFound indica erro de registro inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
