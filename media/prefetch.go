// ABOUTME: Bulk tag reading for a scanned folder
// ABOUTME: Reads every track's metadata in parallel on a worker pool

package media

import (
	"path/filepath"

	"folder-player/pool"
)

// ReadFolderTags reads tag metadata for every track in a scanned
// folder, in parallel. The result is indexed like names; tracks whose
// tags cannot be read carry the file-name fallback.
func ReadFolderTags(dir string, names []string) []Track {
	tracks := make([]Track, len(names))

	p := pool.NewWorkerPool(len(names))
	defer p.Close()

	for i, name := range names {
		p.Submit(func() {
			tracks[i], _ = TrackInfo(filepath.Join(dir, name))
		})
	}
	p.Wait()

	return tracks
}
