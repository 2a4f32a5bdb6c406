package netif

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, f.err
}

func TestAddTemporaryAddress(t *testing.T) {
	f := &fakeRunner{}
	m := NewMutator("eth0")
	m.run = f.run

	if err := m.AddTemporaryAddress(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("AddTemporaryAddress: %v", err)
	}
	got := strings.Join(f.calls[0], " ")
	if got != "ip addr add 10.0.0.1/24 dev eth0" {
		t.Errorf("command = %q", got)
	}
}

func TestAddTemporaryAddressFailure(t *testing.T) {
	f := &fakeRunner{output: []byte("RTNETLINK answers: Operation not permitted"), err: errors.New("exit status 2")}
	m := NewMutator("eth0")
	m.run = f.run

	err := m.AddTemporaryAddress(context.Background(), "10.0.0.1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "10.0.0.1/24") {
		t.Errorf("error %q should name the address", err)
	}
}

func TestRemoveTemporaryAddress(t *testing.T) {
	f := &fakeRunner{}
	m := NewMutator("eno1")
	m.run = f.run

	if err := m.RemoveTemporaryAddress(context.Background(), "10.0.0.1"); err != nil {
		t.Fatalf("RemoveTemporaryAddress: %v", err)
	}
	got := strings.Join(f.calls[0], " ")
	if got != "ip addr del 10.0.0.1/24 dev eno1" {
		t.Errorf("command = %q", got)
	}
}

func TestRemoveMissingAddressIsSuccess(t *testing.T) {
	f := &fakeRunner{output: []byte("RTNETLINK answers: Cannot assign requested address"), err: errors.New("exit status 2")}
	m := NewMutator("eth0")
	m.run = f.run

	if err := m.RemoveTemporaryAddress(context.Background(), "10.0.0.1"); err != nil {
		t.Errorf("removing an absent address should succeed, got %v", err)
	}
}

func TestRemoveRealFailure(t *testing.T) {
	f := &fakeRunner{output: []byte("RTNETLINK answers: Operation not permitted"), err: errors.New("exit status 2")}
	m := NewMutator("eth0")
	m.run = f.run

	if err := m.RemoveTemporaryAddress(context.Background(), "10.0.0.1"); err == nil {
		t.Error("permission failure must surface as an error")
	}
}
