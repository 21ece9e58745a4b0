package storage

import "github.com/san-kum/fission/internal/experiment"

type ExportData struct {
	RunMetadata
	RoundData []experiment.RoundSummary `json:"round_data"`
}

// ExportJSON writes the metadata and per-round rows of a stored run as one
// JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rounds, err := s.LoadRounds(runID)
	if err != nil {
		return err
	}
	return writeJSON(path, ExportData{RunMetadata: *meta, RoundData: rounds})
}
