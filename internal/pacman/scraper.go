package pacman

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/runner"
)

// DefaultBatchSize is the number of packages queried per `pacman -Si` call.
const DefaultBatchSize = 50

// Scraper collects tool records from pacman.
type Scraper struct {
	Runner    runner.Runner
	Logger    *zap.Logger
	BatchSize int

	// Progress, when set, is called after each batch.
	Progress func(done, total int)
}

// NewScraper returns a Scraper using r with the default batch size.
func NewScraper(r runner.Runner, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{Runner: r, Logger: logger, BatchSize: DefaultBatchSize}
}

// Packages lists every package in a blackarch group.
func (s *Scraper) Packages(ctx context.Context) ([]string, error) {
	out, err := s.Runner.Run(ctx, "pacman", "-Sgg")
	if err != nil {
		return nil, fmt.Errorf("failed to list package groups: %w", err)
	}
	names := ParseGroupList(out)
	if len(names) == 0 {
		return nil, fmt.Errorf("no blackarch packages found; is the BlackArch repository configured?")
	}
	return names, nil
}

// Scrape queries every blackarch package and returns the resulting corpus.
// A batch that fails is retried one package at a time; packages that still
// fail are logged and skipped.
func (s *Scraper) Scrape(ctx context.Context) (*catalog.Corpus, error) {
	names, err := s.Packages(ctx)
	if err != nil {
		return nil, err
	}

	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var records []catalog.ToolRecord
	seen := make(map[string]bool)
	for start := 0; start < len(names); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, len(names))
		batch := names[start:end]

		infos, err := s.query(ctx, batch)
		if err != nil {
			s.logger().Warn("batch query failed, retrying per package",
				zap.Int("start", start), zap.Int("size", len(batch)), zap.Error(err))
			infos = s.queryEach(ctx, batch)
		}
		for _, info := range infos {
			// pacman prints a block per repository carrying the package.
			if seen[info.Name] {
				continue
			}
			seen[info.Name] = true
			records = append(records, info.Record())
		}

		s.logger().Info("scraped batch", zap.Int("done", end), zap.Int("total", len(names)))
		if s.Progress != nil {
			s.Progress(end, len(names))
		}
	}

	return catalog.New(records)
}

func (s *Scraper) query(ctx context.Context, names []string) ([]Info, error) {
	args := append([]string{"-Si"}, names...)
	out, err := s.Runner.Run(ctx, "pacman", args...)
	if err != nil {
		return nil, err
	}
	return ParseInfos(out), nil
}

func (s *Scraper) queryEach(ctx context.Context, names []string) []Info {
	var infos []Info
	for _, name := range names {
		out, err := s.Runner.Run(ctx, "pacman", "-Si", name)
		if err != nil {
			s.logger().Warn("skipping package", zap.String("package", name), zap.Error(err))
			continue
		}
		info, ok := ParseInfo(out)
		if !ok {
			s.logger().Warn("no package info", zap.String("package", name))
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

func (s *Scraper) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
