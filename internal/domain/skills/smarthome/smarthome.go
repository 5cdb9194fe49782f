package smarthome

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"smartface-server-go/internal/platform/config"
)

// Device is the mutable state of one simulated device.
type Device struct {
	Type        string `json:"type"`
	State       string `json:"state"`
	Brightness  int    `json:"brightness,omitempty"`
	Temperature int    `json:"temperature,omitempty"`
}

// Controller simulates a smart home. All state lives in memory; the point is
// exercising the voice pipeline, not talking to real hardware.
type Controller struct {
	mu      sync.Mutex
	devices map[string]*Device
}

// New copies the configured device map into a fresh controller.
func New(cfg config.SmartHomeConfig) *Controller {
	devices := make(map[string]*Device, len(cfg.Devices))
	for name, d := range cfg.Devices {
		devices[name] = &Device{
			Type:        d.Type,
			State:       d.State,
			Brightness:  d.Brightness,
			Temperature: d.Temperature,
		}
	}
	return &Controller{devices: devices}
}

// TurnOnLight switches on the light in the named room, or every light when
// room is empty.
func (c *Controller) TurnOnLight(room string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if room == "" {
		count := 0
		for _, d := range c.devices {
			if d.Type == "light" {
				d.State = "on"
				d.Brightness = 100
				count++
			}
		}
		return fmt.Sprintf("Turned on %d %s.", count, plural("light", count))
	}

	key := lightKey(room)
	d, ok := c.devices[key]
	if !ok {
		return fmt.Sprintf("I couldn't find a light in the %s. Available rooms: %s.", room, c.lightRoomsLocked())
	}
	d.State = "on"
	d.Brightness = 100
	return fmt.Sprintf("Turned on the %s light.", room)
}

// TurnOffLight switches off the light in the named room, or every light when
// room is empty.
func (c *Controller) TurnOffLight(room string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if room == "" {
		count := 0
		for _, d := range c.devices {
			if d.Type == "light" {
				d.State = "off"
				d.Brightness = 0
				count++
			}
		}
		return fmt.Sprintf("Turned off %d %s.", count, plural("light", count))
	}

	key := lightKey(room)
	d, ok := c.devices[key]
	if !ok {
		return fmt.Sprintf("I couldn't find a light in the %s.", room)
	}
	d.State = "off"
	d.Brightness = 0
	return fmt.Sprintf("Turned off the %s light.", room)
}

// SetBrightness clamps to 0-100 and applies to one room or every light.
func (c *Controller) SetBrightness(brightness int, room string) string {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}
	state := "on"
	if brightness == 0 {
		state = "off"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if room == "" {
		count := 0
		for _, d := range c.devices {
			if d.Type == "light" {
				d.Brightness = brightness
				d.State = state
				count++
			}
		}
		return fmt.Sprintf("Set brightness to %d%% for %d %s.", brightness, count, plural("light", count))
	}

	key := lightKey(room)
	d, ok := c.devices[key]
	if !ok {
		return fmt.Sprintf("I couldn't find a light in the %s.", room)
	}
	d.Brightness = brightness
	d.State = state
	return fmt.Sprintf("Set %s light brightness to %d%%.", room, brightness)
}

// SetTemperature adjusts the thermostat. Values outside 10-35 degrees are
// rejected with an explanation instead of being clamped.
func (c *Controller) SetTemperature(temperature int) string {
	if temperature < 10 || temperature > 35 {
		return "Temperature should be between 10 and 35 degrees Celsius."
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.devices["thermostat"]
	if !ok {
		return "I couldn't find the thermostat."
	}
	d.Temperature = temperature
	d.State = "on"
	return fmt.Sprintf("Set thermostat to %d degrees Celsius.", temperature)
}

// OpenGarage opens the garage door.
func (c *Controller) OpenGarage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.devices["garage_door"]
	if !ok {
		return "Garage door not found."
	}
	d.State = "open"
	return "Opening garage door."
}

// CloseGarage closes the garage door.
func (c *Controller) CloseGarage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.devices["garage_door"]
	if !ok {
		return "Garage door not found."
	}
	d.State = "closed"
	return "Closing garage door."
}

// Status summarizes every device in a speakable form.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := []string{"Here's your smart home status:"}

	var lightsOn, lightsOff []string
	for _, name := range c.sortedNamesLocked() {
		d := c.devices[name]
		if d.Type != "light" {
			continue
		}
		room := strings.ReplaceAll(strings.TrimSuffix(name, "_light"), "_", " ")
		if d.State == "on" {
			lightsOn = append(lightsOn, fmt.Sprintf("%s (%d%%)", room, d.Brightness))
		} else {
			lightsOff = append(lightsOff, room)
		}
	}
	if len(lightsOn) > 0 {
		parts = append(parts, "Lights on: "+strings.Join(lightsOn, ", "))
	}
	if len(lightsOff) > 0 {
		parts = append(parts, "Lights off: "+strings.Join(lightsOff, ", "))
	}

	if d, ok := c.devices["thermostat"]; ok {
		parts = append(parts, fmt.Sprintf("Thermostat: %d°C (%s)", d.Temperature, d.State))
	}

	for _, name := range c.sortedNamesLocked() {
		d := c.devices[name]
		if d.Type == "light" || d.Type == "thermostat" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(name, "_", " "), d.State))
	}

	return strings.Join(parts, "\n")
}

// Devices returns a snapshot for inspection endpoints.
func (c *Controller) Devices() map[string]Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Device, len(c.devices))
	for name, d := range c.devices {
		out[name] = *d
	}
	return out
}

func (c *Controller) lightRoomsLocked() string {
	var rooms []string
	for _, name := range c.sortedNamesLocked() {
		if c.devices[name].Type == "light" {
			rooms = append(rooms, strings.ReplaceAll(strings.TrimSuffix(name, "_light"), "_", " "))
		}
	}
	return strings.Join(rooms, ", ")
}

func (c *Controller) sortedNamesLocked() []string {
	names := make([]string, 0, len(c.devices))
	for name := range c.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lightKey(room string) string {
	return strings.ReplaceAll(room, " ", "_") + "_light"
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
