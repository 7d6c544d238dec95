package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlOutput mirrors jsonOutput.
type yamlOutput struct {
	Records []recordView `yaml:"records"`
	Meta    yamlMeta     `yaml:"meta"`
}

type yamlMeta struct {
	Total      int    `yaml:"total"`
	TotalBytes uint64 `yaml:"total_bytes"`
}

// YAMLFormatter formats output as YAML with the same structure as
// JSONFormatter.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	out := yamlOutput{
		Records: viewsOf(r),
		Meta: yamlMeta{
			Total:      len(r.Records),
			TotalBytes: r.TotalBytes(),
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
