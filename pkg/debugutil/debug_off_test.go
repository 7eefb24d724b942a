//go:build !debug

package debugutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console/mocks"
)

func TestDisabled(t *testing.T) {
	if Enabled {
		t.Fatal("Enabled = true without the debug tag")
	}
}

func TestDisabledCallsNeverTouchConsole(t *testing.T) {
	// No expectations: any call on the port fails the test.
	port := mocks.NewMockPort(t)
	SetConsole(console.New(port))
	t.Cleanup(func() { SetConsole(nil) })

	Begin()
	Print("x")
	Println("y")

	if err := BeginContext(context.Background()); err != nil {
		t.Errorf("BeginContext = %v, want nil", err)
	}
}

func TestDisabledProducesNoOutput(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	Begin()
	Print("x")
	Println("y")

	w.Close()
	os.Stdout = stdout

	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	r.Close()
	if n != 0 {
		t.Errorf("disabled build wrote %q", buf[:n])
	}
}

func TestDisabledConfigureOpensNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "/dev/ttyDOESNOTEXIST"
	cfg.Capture = filepath.Join(t.TempDir(), "capture.dlog")

	if err := Configure(cfg); err != nil {
		t.Fatalf("Configure = %v", err)
	}
	if _, err := os.Stat(cfg.Capture); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("capture file created in disabled build: %v", err)
	}
}

func TestDisabledConfigureValidates(t *testing.T) {
	cfg := config.Default()
	cfg.LineEnding = "cr"
	if err := Configure(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Configure = %v, want ErrInvalid", err)
	}
}

func TestDisabledCallsDoNotAllocate(t *testing.T) {
	label := os.Getenv("DEBUGUTIL_TEST_LABEL") + "humidity "
	reading := 41.2
	sensor := struct{ pin, rh int }{pin: 4, rh: len(label)}

	allocs := testing.AllocsPerRun(100, func() {
		reading += 0.1
		Begin()
		Print(label)
		Println(reading)
		Println(sensor)
	})
	if allocs != 0 {
		t.Errorf("disabled calls allocate %v times per run, want 0", allocs)
	}
}

func BenchmarkDisabledPrintln(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Print("humidity ")
		Println(48.5)
	}
}
