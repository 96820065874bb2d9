// Package devclass implements the device classifier (component E): it
// either produces the fixed uinput defaults or discovers real devices by
// parsing /proc/bus/input/devices, then resolves a logical kind to an event
// number for callers that omit one explicitly. The /proc/bus/input/devices
// parsing generalizes a name-scoring heuristic into the exact classification
// rules in spec §4.E.
package devclass

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Kind is a logical device kind the rest of the backend reasons about.
type Kind int

const (
	KindKeyboard Kind = iota
	KindMouse
	KindTrackpad
	KindTouchscreen
	kindNone
)

func (k Kind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindMouse:
		return "mouse"
	case KindTrackpad:
		return "trackpad"
	case KindTouchscreen:
		return "touchscreen"
	default:
		return "none"
	}
}

// Mapping is (event_number, relevance, kind) from spec §3.
type Mapping struct {
	EventNumber int
	Relevance   int
	Kind        Kind
}

// DefaultUinputMappings returns the fixed uinput triple: mouse=0, keyboard=1,
// touchscreen=2, each with relevance 1.
func DefaultUinputMappings() []Mapping {
	return []Mapping{
		{EventNumber: 0, Relevance: 1, Kind: KindMouse},
		{EventNumber: 1, Relevance: 1, Kind: KindKeyboard},
		{EventNumber: 2, Relevance: 1, Kind: KindTouchscreen},
	}
}

// classify applies the case-insensitive substring rules from spec §4.E.
// Order matters only in that each name maps to at most one kind; the rules
// are disjoint in practice except for the known "mouse"/"mouseemul"
// ambiguity called out as unresolved in spec §9.
func classify(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "keyboard"):
		return KindKeyboard
	case strings.Contains(lower, "mouse"):
		return KindMouse
	case strings.Contains(lower, "touchpad"):
		return KindTrackpad
	case strings.Contains(lower, "touchinput"):
		return KindTouchscreen
	default:
		return kindNone
	}
}

// ParseProcInputDevices implements the evdev-discovery mode: read
// /proc/bus/input/devices line by line, tracking the current device's
// N: Name= and S: Sysfs=; once both are set, extract the event number from
// the sysfs path's trailing "inputN" component and classify by name. Returns
// nil if no mapping survives, per spec §4.E ("the mapping list is left
// absent").
func ParseProcInputDevices(r io.Reader) []Mapping {
	var mappings []Mapping
	relevance := map[Kind]int{}

	var name, sysfs string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "N: Name="):
			name = extractQuoted(line, "N: Name=")
		case strings.HasPrefix(line, "S: Sysfs="):
			sysfs = strings.TrimPrefix(line, "S: Sysfs=")
		}

		if name == "" || sysfs == "" {
			continue
		}

		if eventNumber, ok := eventNumberFromSysfs(sysfs); ok {
			if kind := classify(name); kind != kindNone {
				relevance[kind]++
				mappings = append(mappings, Mapping{
					EventNumber: eventNumber,
					Relevance:   relevance[kind],
					Kind:        kind,
				})
			}
		}
		name, sysfs = "", ""
	}

	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].EventNumber != mappings[j].EventNumber {
			return mappings[i].EventNumber < mappings[j].EventNumber
		}
		return mappings[i].Relevance < mappings[j].Relevance
	})

	return mappings
}

func extractQuoted(line, prefix string) string {
	return strings.Trim(strings.TrimPrefix(line, prefix), "\"")
}

// eventNumberFromSysfs splits the sysfs path on "/", finds the trailing
// component starting with "input", strips the prefix and parses the rest.
func eventNumberFromSysfs(sysfs string) (int, bool) {
	parts := strings.Split(sysfs, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.HasPrefix(parts[i], "input") {
			n, err := strconv.Atoi(strings.TrimPrefix(parts[i], "input"))
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

// Resolve finds the first mapping matching kind in sort order, i.e. the
// one with the lowest (event_number, relevance). Returns (0, false) if
// mappings is empty or no mapping of that kind exists (P4, spec §4.E: "the
// request fails with BadInput").
func Resolve(mappings []Mapping, kind Kind) (int, bool) {
	for _, m := range mappings {
		if m.Kind == kind {
			return m.EventNumber, true
		}
	}
	return 0, false
}
