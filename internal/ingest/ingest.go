// ABOUTME: File ingestion adapter for dropped audio files
// ABOUTME: Validates types, extracts metadata with fallbacks, and decodes batches concurrently
package ingest

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhowden/tag"

	"github.com/platterfm/platter/internal/audio"
	"github.com/platterfm/platter/internal/library"
)

// UnknownArtist is the fallback when a file carries no artist tag.
const UnknownArtist = "Unknown"

// maxConcurrentDecodes bounds the decode worker pool for a batch.
const maxConcurrentDecodes = 4

// acceptedExtensions maps file extensions to accepted MIME families.
var acceptedExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".flac": "audio/flac",
}

// Accepted reports whether a file is an ingestible audio type. Rejected
// files are silently dropped from a batch.
func Accepted(path string) bool {
	_, ok := acceptedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Batch validates and decodes a set of files into playable tracks.
// Decoding runs concurrently across the batch, but the whole batch is
// collected before anything is returned, so callers never see a track
// whose audio is still decoding. Per-file failures drop that file only.
func Batch(paths []string) []*library.Track {
	type slot struct {
		track *library.Track
	}

	slots := make([]slot, len(paths))
	sem := make(chan struct{}, maxConcurrentDecodes)
	var wg sync.WaitGroup

	for i, path := range paths {
		if !Accepted(path) {
			log.Printf("Ingestion: rejected %s (unsupported type)", path)
			continue
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			tr, err := ingestFile(path)
			if err != nil {
				log.Printf("Ingestion: dropped %s: %v", path, err)
				return
			}
			slots[i].track = tr
		}(i, path)
	}
	wg.Wait()

	tracks := make([]*library.Track, 0, len(paths))
	for _, s := range slots {
		if s.track != nil {
			tracks = append(tracks, s.track)
		}
	}
	return tracks
}

// ingestFile extracts metadata and decodes a single file.
func ingestFile(path string) (*library.Track, error) {
	title, artist, album, cover := readMetadata(path)

	buf, err := audio.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	tr := library.NewTrack(title, artist, album, path, buf)
	tr.Cover = cover

	log.Printf("Ingested %s - %s (%v, %dHz)", artist, title, buf.Duration().Round(0), buf.Format.SampleRate)
	return tr, nil
}

// readMetadata reads tags from the file, falling back to the filename
// stem and "Unknown" artist when tags are absent or unreadable.
// Metadata failures never abort ingestion of the file.
func readMetadata(path string) (title, artist, album string, cover []byte) {
	title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist = UnknownArtist

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return
	}

	if t := strings.TrimSpace(m.Title()); t != "" {
		title = t
	}
	if a := strings.TrimSpace(m.Artist()); a != "" {
		artist = a
	}
	album = strings.TrimSpace(m.Album())
	if pic := m.Picture(); pic != nil {
		cover = pic.Data
	}
	return
}
