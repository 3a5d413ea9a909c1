package report

import (
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(result copier.Result) (string, error) {
	bytes, err := yaml.Marshal(newSummary(result))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
