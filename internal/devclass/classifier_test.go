package devclass

import (
	"strings"
	"testing"
)

func TestDefaultUinputMappings(t *testing.T) {
	got := DefaultUinputMappings()
	if len(got) != 3 {
		t.Fatalf("got %d mappings, want 3", len(got))
	}
	want := []Mapping{
		{0, 1, KindMouse},
		{1, 1, KindKeyboard},
		{2, 1, KindTouchscreen},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mapping %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// Scenario 6 in spec §8: a tablet classifies as none and is discarded, a
// keyboard at input3 survives.
func TestParseProcInputDevicesScenario6(t *testing.T) {
	const devices = `I: Bus=0003 Vendor=80ee Product=0021 Version=0110
N: Name="VirtualBox USB Tablet"
P: Phys=
S: Sysfs=/devices/pci0000:00/0000:00:06.0/usb1/1-1/1-1:1.0/0003:80EE:0021.0001/input/input7
U: Uniq=
H: Handlers=mouse0 event7
B: PROP=0
B: EV=b

I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
P: Phys=isa0060/serio0/input0
S: Sysfs=/devices/platform/i8042/serio0/input/input3
U: Uniq=
H: Handlers=sysrq kbd event3
B: PROP=0
B: EV=120013
`
	got := ParseProcInputDevices(strings.NewReader(devices))
	want := []Mapping{{EventNumber: 3, Relevance: 1, Kind: KindKeyboard}}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got[0] != want[0] {
		t.Fatalf("got %+v, want %+v", got[0], want[0])
	}
}

func TestParseProcInputDevicesEmptyWhenNothingMatches(t *testing.T) {
	const devices = `N: Name="Some Tablet"
S: Sysfs=/devices/.../input9
`
	got := ParseProcInputDevices(strings.NewReader(devices))
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestResolveReturnsFirstMatchingKind(t *testing.T) {
	mappings := []Mapping{
		{EventNumber: 3, Relevance: 1, Kind: KindKeyboard},
		{EventNumber: 7, Relevance: 1, Kind: KindMouse},
	}
	ev, ok := Resolve(mappings, KindMouse)
	if !ok || ev != 7 {
		t.Fatalf("Resolve(mouse) = (%d, %v), want (7, true)", ev, ok)
	}

	_, ok = Resolve(mappings, KindTouchscreen)
	if ok {
		t.Fatal("Resolve(touchscreen) should fail on empty match")
	}
}

func TestResolveOnEmptyMappingsIsAbsent(t *testing.T) {
	_, ok := Resolve(nil, KindMouse)
	if ok {
		t.Fatal("Resolve on nil mappings should be absent")
	}
}

func TestMultipleKeyboardsRankByRelevance(t *testing.T) {
	const devices = `N: Name="keyboard one"
S: Sysfs=/x/input1

N: Name="keyboard two"
S: Sysfs=/x/input4
`
	got := ParseProcInputDevices(strings.NewReader(devices))
	want := []Mapping{
		{EventNumber: 1, Relevance: 1, Kind: KindKeyboard},
		{EventNumber: 4, Relevance: 2, Kind: KindKeyboard},
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mapping %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
