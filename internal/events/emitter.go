package events

import (
	"context"
	"log"
)

// Emit is the process-wide event sink. The default emitter writes to the
// standard logger; tests swap it via SetCustomEmitter.
var Emit = logEmitter

func logEmitter(ctx context.Context, name string, evt ToolEvent) {
	if evt.SessionKey == "" {
		if session := SessionFromContext(ctx); session != "" {
			evt.SessionKey = session
		}
	}
	if evt.SessionKey != "" {
		log.Printf("[%s] %s %s: %s", evt.SessionKey, name, evt.Type, evt.Message)
		return
	}
	log.Printf("%s %s: %s", name, evt.Type, evt.Message)
}

// SetCustomEmitter replaces the sink; passing nil silences events entirely.
func SetCustomEmitter(f func(ctx context.Context, name string, evt ToolEvent)) {
	if f == nil {
		Emit = func(context.Context, string, ToolEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt ToolEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}

// ResetEmitter restores the default log-backed emitter.
func ResetEmitter() {
	Emit = logEmitter
}
