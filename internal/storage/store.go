package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/experiment"
)

// ErrRunNotFound indicates a run directory without readable metadata.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	roundsFile   = "rounds.csv"
	framesFile   = "frames.msgpack"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Strategy  string             `json:"strategy"`
	TickRate  int                `json:"tick_rate"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Rounds    int                `json:"rounds"`
	Ticks     int                `json:"ticks"`
	Frames    int                `json:"frames"`
	Coins     int64              `json:"coins"`
	Rank      int                `json:"rank"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json, rounds.csv and, when the
// result sampled any, frames.msgpack. It returns the run ID.
func (s *Store) Save(name string, cfg *config.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	sc := cfg.SimConfig()
	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      result.Seed,
		Strategy:  cfg.Strategy,
		TickRate:  cfg.TickRate,
		Width:     sc.Spawn.Width,
		Height:    sc.Spawn.Height,
		Rounds:    len(result.Rounds),
		Ticks:     result.Ticks,
		Frames:    len(result.Frames),
		Coins:     result.Coins,
		Rank:      result.Rank,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeRounds(filepath.Join(runDir, roundsFile), result.Rounds); err != nil {
		return "", err
	}
	if len(result.Frames) > 0 {
		if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var roundsHeader = []string{
	"index", "reason", "ticks", "duration_ms", "clicks", "destroyed", "specials",
	"max_chain", "pending", "payout", "banked",
}

func writeRounds(path string, rounds []experiment.RoundSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(roundsHeader); err != nil {
		return err
	}
	for _, r := range rounds {
		row := []string{
			strconv.Itoa(r.Index),
			r.Reason,
			strconv.Itoa(r.Ticks),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
			strconv.Itoa(r.Clicks),
			strconv.Itoa(r.Destroyed),
			strconv.Itoa(r.Specials),
			strconv.Itoa(r.MaxChain),
			strconv.FormatInt(r.Pending, 10),
			strconv.FormatInt(r.Payout, 10),
			strconv.FormatInt(r.Banked, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadRounds(runID string) ([]experiment.RoundSummary, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, roundsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = len(roundsHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.RoundSummary{}, nil
	}

	rounds := make([]experiment.RoundSummary, 0, len(records)-1)
	for _, rec := range records[1:] {
		var p parser
		r := experiment.RoundSummary{
			Index:     p.int(rec[0]),
			Reason:    rec[1],
			Ticks:     p.int(rec[2]),
			Duration:  time.Duration(p.int64(rec[3])) * time.Millisecond,
			Clicks:    p.int(rec[4]),
			Destroyed: p.int(rec[5]),
			Specials:  p.int(rec[6]),
			MaxChain:  p.int(rec[7]),
			Pending:   p.int64(rec[8]),
			Payout:    p.int64(rec[9]),
			Banked:    p.int64(rec[10]),
		}
		if p.err != nil {
			return nil, fmt.Errorf("rounds.csv row %d: %w", r.Index, p.err)
		}
		rounds = append(rounds, r)
	}
	return rounds, nil
}

// parser keeps the first conversion error.
type parser struct{ err error }

func (p *parser) int64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) int(s string) int { return int(p.int64(s)) }
