package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// New creates a synchronous event bus. One instance is shared by the whole
// process and passed explicitly through the bootstrap wiring.
func New() evbus.Bus {
	return evbus.New()
}
