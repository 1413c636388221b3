// backend-go/pkg/logger/logger_test.go
package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	lg := Component("pipeline").Output(&buf)

	lg.Info().Msg("worker started")

	out := buf.String()
	if !strings.Contains(out, `"component":"pipeline"`) {
		t.Errorf("log output missing component field: %s", out)
	}
	if !strings.Contains(out, "worker started") {
		t.Errorf("log output missing message: %s", out)
	}
}

func TestComponentsAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	lg := Component("importer").Output(&buf)

	lg.Info().Msg("sweep done")

	if strings.Contains(buf.String(), `"component":"pipeline"`) {
		t.Error("importer logger carries another component's tag")
	}
}
