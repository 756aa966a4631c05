package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrSessionBusy    = fmt.Errorf("a breakout run is already in progress")
	ErrNotProvisioned = fmt.Errorf("lobby is not set up")
	ErrNotInVoice     = fmt.Errorf("member is not connected to voice")
)
