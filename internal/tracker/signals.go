package tracker

import (
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
)

// holdInterrupts keeps an interrupt from killing this process while a child
// runs. The terminal delivers the same signal to the child, which decides
// how to exit; we stay alive to clean up and report.
func holdInterrupts(logger *log.Logger) (release func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				logger.Warn("interrupt received; waiting for the command to exit")
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
