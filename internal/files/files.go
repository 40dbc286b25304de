// Package files предоставляет доступ к файлам цифрового контента
// по относительным путям из каталога. Хранилищу нужны только семантики
// "файл существует" и "открыть на чтение".
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store — файловое хранилище контента с корневым каталогом вида
//
//	<root>/Characters/... — файлы персонажей
//	<root>/Protos/...     — proto-описания
//	<root>/Pictures/...   — превью
type Store struct {
	root string
}

// NewStore создаёт хранилище с указанным корневым каталогом.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// CharacterPath возвращает абсолютный путь к файлу персонажа.
func (s *Store) CharacterPath(relative string) string {
	return filepath.Join(s.root, "Characters", relative)
}

// ProtoPath возвращает абсолютный путь к proto-файлу.
func (s *Store) ProtoPath(relative string) string {
	return filepath.Join(s.root, "Protos", relative)
}

// PicturePath возвращает абсолютный путь к файлу превью.
func (s *Store) PicturePath(name string) string {
	return filepath.Join(s.root, "Pictures", name)
}

// Open открывает файл на чтение. Относительные пути, выходящие за пределы
// корневого каталога, отклоняются.
func (s *Store) Open(path string) (io.ReadSeekCloser, os.FileInfo, error) {
	const op = "files.Open"

	relative, err := filepath.Rel(s.root, path)
	if err != nil || !filepath.IsLocal(relative) {
		return nil, nil, fmt.Errorf("%s: path %q escapes content root", op, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, info, nil
}

// Exists сообщает, присутствует ли файл в хранилище.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
