package notice

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Notice{Level: Success, Title: "Sucesso!"})
	r.Notify(Notice{Level: Error, Title: "Erro", Message: "falhou"})

	all := r.All()
	require.Len(t, all, 2)
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "falhou", last.Message)

	r.Reset()
	assert.Empty(t, r.All())
}

func TestMultiAndFuncSink(t *testing.T) {
	var r1, r2 Recorder
	var seen []Level
	s := Multi(&r1, &r2, FuncSink(func(n Notice) { seen = append(seen, n.Level) }), Discard)

	s.Notify(Notice{Level: Info, Title: "x"})
	assert.Len(t, r1.All(), 1)
	assert.Len(t, r2.All(), 1)
	assert.Equal(t, []Level{Info}, seen)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.FormatText, "info", &buf)
	require.NoError(t, err)

	LogSink{Log: log}.Notify(Notice{Level: Error, Title: "Erro", Message: "boom"})
	LogSink{Log: log}.Notify(Notice{Level: Success, Title: "Sucesso!", Message: "ok"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN msg=Erro message=boom")
	assert.Contains(t, out, "level=INFO msg=Sucesso! message=ok")
}
