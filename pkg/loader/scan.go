package loader

import (
	"strings"

	"github.com/JavaPerformance/jvmti/pkg/classfile"
)

// ScanStats summarizes a bulk decode over every class in an archive.
type ScanStats struct {
	ClassFiles int
	Parsed     int
	Failed     int
	TotalBytes int64
}

// Scan decodes every .class entry in the archive and reports aggregate
// stats. A corrupt entry counts as failed and does not stop the scan. The
// visit callback, if non-nil, is invoked for each successfully decoded
// class with its entry name.
func (l *ArchiveLoader) Scan(visit func(name string, cf *classfile.ClassFile)) (ScanStats, error) {
	if err := l.open(); err != nil {
		return ScanStats{}, err
	}

	var stats ScanStats
	for name, entry := range l.entries {
		if !strings.HasSuffix(name, ".class") {
			continue
		}
		stats.ClassFiles++
		stats.TotalBytes += int64(entry.UncompressedSize64)

		cf, err := l.parseEntry(entry)
		if err != nil {
			stats.Failed++
			continue
		}
		stats.Parsed++
		if visit != nil {
			visit(strings.TrimPrefix(strings.TrimSuffix(name, ".class"), l.prefix), cf)
		}
	}
	return stats, nil
}
