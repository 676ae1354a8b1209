package report

import (
	"os"
	"strings"
	"sync"
	"time"
)

// lineCache caches source files split into lines, keyed by path. Entries are
// revalidated against the file's size and mtime on every lookup so a source
// file edited between process start and failure is re-read.
type lineCache struct {
	mu    sync.Mutex
	files map[string]*cachedFile
}

type cachedFile struct {
	size  int64
	mtime time.Time
	lines []string
}

var sourceCache = &lineCache{files: map[string]*cachedFile{}}

// getLine returns the trimmed source line at the 1-based line number, or ""
// when the file or line cannot be resolved. A missing source is not an error.
func (c *lineCache) getLine(path string, line int) string {
	if path == "" || line <= 0 {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		delete(c.files, path)
		return ""
	}

	cached, ok := c.files[path]
	if !ok || cached.size != info.Size() || !cached.mtime.Equal(info.ModTime()) {
		data, err := os.ReadFile(path)
		if err != nil {
			delete(c.files, path)
			return ""
		}
		cached = &cachedFile{
			size:  info.Size(),
			mtime: info.ModTime(),
			lines: strings.Split(string(data), "\n"),
		}
		c.files[path] = cached
	}

	if line > len(cached.lines) {
		return ""
	}
	return strings.TrimSpace(cached.lines[line-1])
}
