package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Debug, &buf)

	logger.Info("settled", "active", 2)
	logger.V(Debug).Info("gesture started", "modality", "mouse")
	logger.V(Trace).Info("frame", "offset", -42.5)

	out := buf.String()
	assert.Contains(t, out, `"msg"="settled"`)
	assert.Contains(t, out, `"active"=2`)
	assert.Contains(t, out, "gesture started")
	assert.NotContains(t, out, "frame")
}
