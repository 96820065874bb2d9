package backend

import (
	"sync"
	"testing"
	"time"
)

type fakeInput struct{ id int }

func (f *fakeInput) Move(event int, x, y int32) error                       { return nil }
func (f *fakeInput) Button(event int, value int32) error                    { return nil }
func (f *fakeInput) Touch(event int, x, y int32, d time.Duration) error     { return nil }
func (f *fakeInput) Swipe(event int, x1, y1, x2, y2 int32, steps int) error { return nil }
func (f *fakeInput) Key(event int, code uint16) error                      { return nil }
func (f *fakeInput) Text(event int, codes []uint16) error                  { return nil }

func TestRegistryConstructsInputBackendOnce(t *testing.T) {
	calls := 0
	reg := New(map[InputKind]InputFactory{
		InputUinput: func() (InputBackend, error) {
			calls++
			return &fakeInput{id: calls}, nil
		},
	}, nil)

	var wg sync.WaitGroup
	results := make([]InputBackend, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := reg.Input(InputUinput)
			if err != nil {
				t.Errorf("Input: %v", err)
			}
			results[i] = inst
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
	first := results[0]
	for _, r := range results {
		if r != first {
			t.Fatalf("got distinct instances across concurrent callers")
		}
	}
}

func TestRegistryCachesConstructionError(t *testing.T) {
	calls := 0
	reg := New(map[InputKind]InputFactory{
		InputUinput: func() (InputBackend, error) {
			calls++
			return nil, NewError(DeviceUnavailable, "test", nil)
		},
	}, nil)

	_, err1 := reg.Input(InputUinput)
	_, err2 := reg.Input(InputUinput)
	if err1 == nil || err2 == nil {
		t.Fatal("expected cached error on both calls")
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestRegistryUnknownKindIsBadInput(t *testing.T) {
	reg := New(map[InputKind]InputFactory{}, map[ScreenKind]ScreenFactory{})
	_, err := reg.Input(InputKind(99))
	if err == nil {
		t.Fatal("expected error for unregistered kind")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != BadInput {
		t.Fatalf("got %v, want BadInput", err)
	}
}
