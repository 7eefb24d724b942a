//go:build debug

package debugutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console/mocks"
)

type writeRecorder struct {
	writes []string
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func install(t *testing.T, c *console.Console) {
	t.Helper()
	SetConsole(c)
	t.Cleanup(func() { SetConsole(nil) })
}

func TestEnabled(t *testing.T) {
	require.True(t, Enabled)
}

func TestBeginThenPrintlnReady(t *testing.T) {
	port := mocks.NewMockPort(t)

	open := port.EXPECT().Open(115200).Return(nil).Once()
	notReady := port.EXPECT().Ready().Return(false, nil).Once()
	ready := port.EXPECT().Ready().Return(true, nil).Once()
	text := port.EXPECT().Write([]byte("ready")).Return(5, nil).Once()
	term := port.EXPECT().Write([]byte("\r\n")).Return(2, nil).Once()
	mock.InOrder(open, notReady, ready, text, term)

	install(t, console.New(port, console.WithPollInterval(time.Millisecond)))

	Begin()
	Println("ready")
}

func TestPrintlnMatchesPrintPlusTerminator(t *testing.T) {
	for _, v := range []any{"x", 7, 55.125, false} {
		printRec := &writeRecorder{}
		install(t, console.New(console.NewWriterPort("print", printRec)))
		Begin()
		Print(v)

		lineRec := &writeRecorder{}
		install(t, console.New(console.NewWriterPort("line", lineRec)))
		Begin()
		Println(v)

		want := append(append([]string{}, printRec.writes...), "\r\n")
		assert.Equal(t, want, lineRec.writes, "value %v", v)
	}
}

func TestTransportErrorsAreSwallowed(t *testing.T) {
	port := mocks.NewMockPort(t)
	port.EXPECT().Open(115200).Return(assert.AnError).Once()
	install(t, console.New(port))

	Begin()
	Print("dropped")
	Println("dropped")
}

func TestBeginContextCancel(t *testing.T) {
	port := mocks.NewMockPort(t)
	port.EXPECT().Open(115200).Return(nil).Once()
	port.EXPECT().Ready().Return(false, nil)
	install(t, console.New(port, console.WithPollInterval(time.Millisecond)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, BeginContext(ctx), context.DeadlineExceeded)
}

func TestConfigureWithCapture(t *testing.T) {
	cfg := config.Default()
	cfg.Port = config.PortStderr
	cfg.LineEnding = config.LineEndingLF
	cfg.Capture = filepath.Join(t.TempDir(), "session.dlog")

	require.NoError(t, Configure(cfg))
	t.Cleanup(func() { SetConsole(nil) })

	Begin()
	Print("humidity=")
	Println(41.2)

	mu.Lock()
	c := out
	mu.Unlock()
	require.NoError(t, c.Close())

	r, err := capture.NewReader(cfg.Capture)
	require.NoError(t, err)
	defer r.Close()

	var texts []string
	for {
		e, err := r.Next()
		if err != nil {
			break
		}
		texts = append(texts, e.Text)
	}
	assert.Equal(t, "humidity=41.20\n", strings.Join(texts, ""))
}

func TestConfigureInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Baud = -1
	assert.ErrorIs(t, Configure(cfg), config.ErrInvalid)
}
