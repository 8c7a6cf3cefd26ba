package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/moderato-fm/songscreen/internal/model"
)

// Processor assesses a single song. Implemented by pipeline.Pipeline;
// tests substitute a fake.
type Processor interface {
	Process(ctx context.Context, req model.SongRequest) (*model.SongAssessment, error)
}

// SongJob is one song assessment job
type SongJob struct {
	Request   model.SongRequest
	Processor Processor
}

// Execute runs the pipeline for this job's song
func (j *SongJob) Execute(ctx context.Context) Result {
	assessment, err := j.Processor.Process(ctx, j.Request)
	return &SongResult{
		Request:    j.Request,
		Assessment: assessment,
		Err:        err,
	}
}

// SongResult is the outcome of one song job
type SongResult struct {
	Request    model.SongRequest
	Assessment *model.SongAssessment
	Err        error
}

// GetError returns the job's error, if any
func (r *SongResult) GetError() error {
	return r.Err
}

// BatchProcessor runs many songs through the pipeline concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given worker count
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessSongs assesses the given songs concurrently. Result order is
// not guaranteed to match input order.
func (b *BatchProcessor) ProcessSongs(ctx context.Context, songs []model.SongRequest) []*SongResult {
	if len(songs) == 0 {
		return []*SongResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, song := range songs {
		pool.Submit(&SongJob{Request: song, Processor: b.processor})
	}

	results := pool.Wait()

	songResults := make([]*SongResult, len(results))
	for i, result := range results {
		songResults[i] = result.(*SongResult)
	}
	return songResults
}

// ProcessFile reads songs from a file and assesses them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*SongResult, error) {
	songs, err := ReadSongsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read songs: %w", err)
	}
	return b.ProcessSongs(ctx, songs), nil
}

// ReadSongsFromFile reads "Artist - Title" lines, skipping blanks,
// comments, and duplicates.
func ReadSongsFromFile(path string) ([]model.SongRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var songs []model.SongRequest
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := ParseSongLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := strings.ToLower(req.Artist + "\x00" + req.Title)
		if !seen[key] {
			seen[key] = true
			songs = append(songs, req)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return songs, nil
}

// ParseSongLine splits an "Artist - Title" line on the first separator
func ParseSongLine(line string) (model.SongRequest, error) {
	artist, title, found := strings.Cut(line, " - ")
	if !found {
		return model.SongRequest{}, fmt.Errorf("expected \"Artist - Title\", got %q", line)
	}

	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return model.SongRequest{}, fmt.Errorf("empty artist or title in %q", line)
	}

	return model.SongRequest{Artist: artist, Title: title}, nil
}
