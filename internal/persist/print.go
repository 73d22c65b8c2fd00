package persist

import (
	"bufio"
	"bytes"
	"io"

	"github.com/spf13/afero"
	"github.com/tidwall/pretty"
	"go.uber.org/zap/zapcore"

	"github.com/muurk/squixl-settings/internal/logging"
)

// PrintFile writes the persisted document to w, one line per write, or to the
// log at debug level when w is nil. It never changes engine state; failures
// are logged and returned for callers that care.
func (e *Engine) PrintFile(w io.Writer) error {
	if w == nil {
		w = logging.SinkWriter(zapcore.DebugLevel)
	}

	data, err := afero.ReadFile(e.fs, e.opts.Path)
	if err != nil {
		logging.LogStorageFailure("print", e.opts.Path, err)
		return newStoreError(ErrTypeRead, "print", e.opts.Path, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(pretty.PrettyOptions(data, prettyOptions)))
	for sc.Scan() {
		if _, err := io.WriteString(w, sc.Text()+"\n"); err != nil {
			logging.LogStorageFailure("print", e.opts.Path, err)
			return err
		}
	}
	return sc.Err()
}
