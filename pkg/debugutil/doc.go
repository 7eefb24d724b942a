// Package debugutil is the debug console facade used by the monitor firmware
// host code.
//
// Output is compiled in only when the binary is built with the debug tag:
//
//	go build -tags debug ./...
//
// In that build Begin opens the console at 115200 baud and blocks until the
// host side of the connection is ready, and Print and Println write to it.
// In a normal build all three are empty and the compiler removes the calls.
// Expensive arguments can be guarded with the Enabled constant:
//
//	debugutil.Begin()
//	debugutil.Println("ready")
//	if debugutil.Enabled {
//	    debugutil.Println(buildReport())
//	}
package debugutil
