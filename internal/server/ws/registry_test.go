package ws

import (
	"testing"
)

func TestRegistry_DeliverToAllConnections(t *testing.T) {
	r := NewRegistry()

	id1, send1, err := r.Register("u1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	id2, send2, err := r.Register("u1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("connection ids collide: %q", id1)
	}

	r.Deliver("u1", []byte("hello"))

	for i, send := range []chan []byte{send1, send2} {
		select {
		case got := <-send:
			if string(got) != "hello" {
				t.Errorf("conn %d: unexpected payload %q", i, got)
			}
		default:
			t.Errorf("conn %d: no payload delivered", i)
		}
	}
}

func TestRegistry_DeliverToUnknownUser(t *testing.T) {
	r := NewRegistry()
	// Must not panic or block.
	r.Deliver("nobody", []byte("x"))
}

func TestRegistry_UnregisterPrunes(t *testing.T) {
	r := NewRegistry()

	id, send, err := r.Register("u1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !r.IsOnline("u1") {
		t.Fatal("expected u1 online")
	}

	r.Unregister("u1", id)
	if r.IsOnline("u1") {
		t.Fatal("expected u1 offline after unregister")
	}

	r.Deliver("u1", []byte("late"))
	select {
	case <-send:
		t.Error("payload delivered after unregister")
	default:
	}
}

func TestRegistry_FullBufferSkipped(t *testing.T) {
	r := NewRegistry()

	_, send, err := r.Register("u1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	for i := 0; i < sendBufferSize; i++ {
		r.Deliver("u1", []byte("fill"))
	}

	// One more must not block.
	done := make(chan struct{})
	go func() {
		r.Deliver("u1", []byte("overflow"))
		close(done)
	}()
	<-done

	if len(send) != sendBufferSize {
		t.Errorf("expected buffer to stay at %d, got %d", sendBufferSize, len(send))
	}
}
