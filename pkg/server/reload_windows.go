//go:build windows

package server

import "os"

func notifyReload(chan<- os.Signal) {}

func stopReload(ch chan os.Signal) {
	close(ch)
}
