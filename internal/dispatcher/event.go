package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriBoard/internal/eventbus"
	"github.com/Rorical/RoriBoard/internal/update"
)

// EventDispatcher handles routing events between core and UI
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ListenForCoreEvents waits for the next core event and hands it to the
// program as a CoreEventMsg. The model re-arms it after every event.
func (ed *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	events := ed.eventBus.CoreToUI()
	return func() tea.Msg {
		select {
		case <-ed.ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			return update.CoreEventMsg{Event: ev}
		}
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
