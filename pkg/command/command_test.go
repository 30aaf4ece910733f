package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse(t *testing.T) {
	tests := map[string]Command{
		"":        Empty,
		"   ":     Empty,
		"e":       OpenBrowser,
		" E ":     OpenBrowser,
		"h":       Help,
		"help":    Help,
		"HELP":    Help,
		"q":       Quit,
		"quit":    Quit,
		"Exit":    Quit,
		"restart": Unknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}

func TestChannelDispatchesCommands(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var opened []string
	open := func(url string) error {
		opened = append(opened, url)
		return nil
	}
	quitCalled := false
	var out bytes.Buffer

	in := strings.NewReader("e\n\nh\nbogus\nq\nh\n")
	ch := NewChannel(in, &out, "http://127.0.0.1:9091/", open, func() { quitCalled = true }, zap.New(core))

	require.NoError(t, ch.Run(context.Background()))
	assert.Equal(t, []string{"http://127.0.0.1:9091/"}, opened)
	assert.True(t, quitCalled)
	// 只处理到 q 为止，帮助只打印一次
	assert.Equal(t, 1, strings.Count(out.String(), "COMMANDS"))
	assert.Equal(t, 1, logs.FilterMessage("unrecognised command, type H for help").Len())
}

func TestChannelOpenFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	open := func(string) error { return errors.New("no browser") }
	ch := NewChannel(strings.NewReader("E\n"), io.Discard, "http://x/", open, nil, zap.New(core))

	require.NoError(t, ch.Run(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("open browser failed").Len())
}

func TestChannelStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ch := NewChannel(r, io.Discard, "http://x/", nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not stop")
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "quit", Quit.String())
	assert.Equal(t, "unknown", Unknown.String())
}
