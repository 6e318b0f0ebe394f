package tui

import (
	"log/slog"

	"github.com/neilberkman/habitrider/internal/core/timer"
)

// chanNotifier hands engine notifications to the bubbletea loop. Notify
// never blocks the engine; a full buffer drops the message.
type chanNotifier struct {
	ch     chan toastMsg
	logger *slog.Logger
}

func newChanNotifier(logger *slog.Logger) *chanNotifier {
	return &chanNotifier{ch: make(chan toastMsg, 16), logger: logger}
}

func (n *chanNotifier) Notify(message string, kind timer.Kind) {
	select {
	case n.ch <- toastMsg{text: message, kind: kind}:
	default:
		n.logger.Warn("dropped notification", "message", message)
	}
}
