// Package safeio implements the non-abandonable write used for assembly
// state. A snapshot or archive write must never be left partial because the
// user hit Ctrl-C at the wrong moment: the write is idempotent and targets a
// fresh file handle per attempt, so the whole attempt is simply repeated
// until one completes without interruption.
package safeio

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// WriteFileUninterruptible writes data to path, treating interrupt signals as
// transient for the duration of the write window. A signal received mid-write
// triggers a full retry; once an attempt completes cleanly, the most recent
// deferred signal is re-delivered to the process so normal handling resumes.
func WriteFileUninterruptible(path string, data []byte, perm os.FileMode) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	var deferred os.Signal
	for {
		err := writeOnce(path, data, perm)
		select {
		case s := <-sig:
			// Interrupted during the window: remember the signal and
			// repeat the entire write with a fresh handle.
			deferred = s
			continue
		default:
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		break
	}

	if deferred != nil {
		signal.Stop(sig)
		redeliver(deferred)
	}
	return nil
}

func writeOnce(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func redeliver(s os.Signal) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(s)
}
