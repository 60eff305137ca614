package export

import (
	"encoding/json"
	"fmt"

	"github.com/reportchat/reportchat/internal/session"
)

// JSONExporter renders the transcript as an array of [speaker, message]
// pairs, the same shape the state file uses.
type JSONExporter struct{}

func (e *JSONExporter) Export(transcript []session.Turn) (string, error) {
	if transcript == nil {
		transcript = []session.Turn{}
	}
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export json: %w", err)
	}
	return string(data) + "\n", nil
}
