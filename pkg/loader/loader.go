// Package loader resolves binary class names to decoded class files, the
// way a JVM class path search does. Loaders delegate parent-first and
// memoize decoded classes in a bounded LRU cache, so hot lookups cost a
// map probe instead of a decode.
package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JavaPerformance/jvmti/pkg/classfile"
)

// ClassLoader loads class files by binary class name ("java/lang/String").
type ClassLoader interface {
	LoadClass(name string) (*classfile.ClassFile, error)
}

// defaultCacheSize bounds each loader's decoded-class cache.
const defaultCacheSize = 1024

// jmodMagic prefixes every jmod file ahead of its zip payload.
var jmodMagic = []byte{'J', 'M', 0x01, 0x00}

// ArchiveLoader loads classes from a jar or jmod archive. The archive is
// opened lazily on first use and its directory is indexed once. jmod
// archives are detected by their magic and their "classes/" entry prefix
// is handled transparently.
type ArchiveLoader struct {
	ArchivePath string

	once    sync.Once
	openErr error
	entries map[string]*zip.File
	prefix  string
	cache   *lru.Cache[string, *classfile.ClassFile]
}

// NewArchiveLoader creates a loader over a .jar or .jmod file. The file is
// not opened until the first LoadClass or Scan call.
func NewArchiveLoader(archivePath string) (*ArchiveLoader, error) {
	cache, err := lru.New[string, *classfile.ClassFile](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &ArchiveLoader{ArchivePath: archivePath, cache: cache}, nil
}

func (l *ArchiveLoader) open() error {
	l.once.Do(func() {
		data, err := os.ReadFile(l.ArchivePath)
		if err != nil {
			l.openErr = fmt.Errorf("archive: reading %s: %w", l.ArchivePath, err)
			return
		}
		if bytes.HasPrefix(data, jmodMagic) {
			data = data[len(jmodMagic):]
			l.prefix = "classes/"
		}
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			l.openErr = fmt.Errorf("archive: opening %s: %w", l.ArchivePath, err)
			return
		}
		l.entries = make(map[string]*zip.File, len(r.File))
		for _, f := range r.File {
			l.entries[f.Name] = f
		}
	})
	return l.openErr
}

func (l *ArchiveLoader) LoadClass(name string) (*classfile.ClassFile, error) {
	if cf, ok := l.cache.Get(name); ok {
		return cf, nil
	}
	if err := l.open(); err != nil {
		return nil, err
	}

	entry, ok := l.entries[l.prefix+name+".class"]
	if !ok {
		return nil, fmt.Errorf("archive: class %s not found in %s", name, l.ArchivePath)
	}
	cf, err := l.parseEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("archive: parsing %s: %w", name, err)
	}
	l.cache.Add(name, cf)
	return cf, nil
}

func (l *ArchiveLoader) parseEntry(entry *zip.File) (*classfile.ClassFile, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return classfile.ParseReader(rc)
}

// DirLoader loads classes from a class path directory, delegating to its
// parent loader first the way JVM loaders do.
type DirLoader struct {
	ClassPath string
	Parent    ClassLoader

	cache *lru.Cache[string, *classfile.ClassFile]
}

// NewDirLoader creates a loader rooted at a class path directory. Parent
// may be nil for a loader with no delegation.
func NewDirLoader(classPath string, parent ClassLoader) (*DirLoader, error) {
	cache, err := lru.New[string, *classfile.ClassFile](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &DirLoader{ClassPath: classPath, Parent: parent, cache: cache}, nil
}

func (l *DirLoader) LoadClass(name string) (*classfile.ClassFile, error) {
	if cf, ok := l.cache.Get(name); ok {
		return cf, nil
	}
	if l.Parent != nil {
		if cf, err := l.Parent.LoadClass(name); err == nil {
			return cf, nil
		}
	}
	path := filepath.Join(l.ClassPath, filepath.FromSlash(name)+".class")
	cf, err := classfile.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("dir: class %s not found: %w", name, err)
	}
	l.cache.Add(name, cf)
	return cf, nil
}
