package exportcmd

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/fictags/internal/batch"
	"github.com/lehigh-university-libraries/fictags/internal/metadata"
	"github.com/lehigh-university-libraries/fictags/internal/tags"
)

type inspection struct {
	Meta    metadata.MetaInfo `yaml:"meta"`
	Tags    *tags.Record      `yaml:"tags,omitempty"`
	Unknown []string          `yaml:"unknown_labels,omitempty"`
	Error   string            `yaml:"error,omitempty"`
}

func executeInspect(path string, format metadata.Format, verbose bool, out, logOut io.Writer) error {
	logger := setupLogger(verbose, logOut)

	res := batch.NewDriver(logger, batch.WithDescriptionFormat(format)).Inspect(path)
	view := inspection{
		Meta:    res.Record.Meta,
		Tags:    res.Record.Tags,
		Unknown: res.Unknown,
	}
	if res.Record.Err != nil {
		view.Error = res.Record.Err.Error()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode inspection: %w", err)
	}
	return enc.Close()
}
