package utils

import (
	"os"
	"os/signal"
	"syscall"
)

func WaitTerminate() <-chan os.Signal {
	c := make(chan os.Signal, 3)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	return c
}

// RedirectFile points the from descriptor at to, used to send stderr (and
// panics) into the log file.
func RedirectFile(from, to *os.File) error {
	return syscall.Dup2(int(to.Fd()), int(from.Fd()))
}

// OpenLogFile opens path for appending and routes the logger into it.
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	SetOutput(f)
	return f, nil
}
