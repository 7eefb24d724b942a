package debugutil

import (
	"sync"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console"
)

var (
	mu  sync.Mutex
	out *console.Console
)

// SetConsole installs the console used by Begin, Print and Println.
// Passing nil restores the default console on standard output. It has no
// effect on output in builds without the debug tag.
func SetConsole(c *console.Console) {
	mu.Lock()
	out = c
	mu.Unlock()
}
