package report

import (
	"encoding/json"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
)

func (f *formatter) formatJSON(result copier.Result) (string, error) {
	bytes, err := json.MarshalIndent(newSummary(result), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes) + "\n", nil
}
