package upnp

import (
	"context"
	"errors"
	"net"
	"testing"
)

// fakeIGD implements igdClient in memory: a set of occupied external ports
// and the gateway's external address.
type fakeIGD struct {
	externalIP string
	occupied   map[uint16]bool
	mapped     map[uint16]uint16
	deleted    []uint16
}

func newFakeIGD() *fakeIGD {
	return &fakeIGD{
		externalIP: "203.0.113.77",
		occupied:   map[uint16]bool{},
		mapped:     map[uint16]uint16{},
	}
}

func (f *fakeIGD) GetExternalIPAddressCtx(context.Context) (string, error) {
	return f.externalIP, nil
}

func (f *fakeIGD) AddPortMappingCtx(_ context.Context, _ string, externalPort uint16, _ string,
	internalPort uint16, _ string, _ bool, _ string, _ uint32,
) error {
	if f.occupied[externalPort] {
		return errors.New("ConflictInMappingEntry")
	}
	f.mapped[externalPort] = internalPort
	return nil
}

func (f *fakeIGD) DeletePortMappingCtx(_ context.Context, _ string, externalPort uint16, _ string) error {
	if _, ok := f.mapped[externalPort]; !ok {
		return errors.New("NoSuchEntryInArray")
	}
	delete(f.mapped, externalPort)
	f.deleted = append(f.deleted, externalPort)
	return nil
}

func testController(igd *fakeIGD) *Controller {
	return &Controller{
		client:  igd,
		localIP: net.ParseIP("192.168.1.10"),
	}
}

func TestReserveMapping_Hint(t *testing.T) {
	t.Parallel()

	igd := newFakeIGD()
	c := testController(igd)

	m, err := c.ReserveMapping(context.Background(), "UDP", 5060, 5060)
	if err != nil {
		t.Fatalf("ReserveMapping() = %v", err)
	}
	if m.State != MappingOpen {
		t.Errorf("m.State = %v, want %v", m.State, MappingOpen)
	}
	if m.ExternalPort != 5060 || m.InternalPort != 5060 {
		t.Errorf("mapping ports = (%d -> %d), want (5060 -> 5060)", m.ExternalPort, m.InternalPort)
	}
	if want := net.ParseIP(igd.externalIP); !m.ExternalIP.Equal(want) {
		t.Errorf("m.ExternalIP = %v, want %v", m.ExternalIP, want)
	}
}

func TestReserveMapping_ScansPastConflicts(t *testing.T) {
	t.Parallel()

	igd := newFakeIGD()
	igd.occupied[5060] = true
	igd.occupied[5061] = true
	c := testController(igd)

	m, err := c.ReserveMapping(context.Background(), "UDP", 5060, 5060)
	if err != nil {
		t.Fatalf("ReserveMapping() = %v", err)
	}
	if m.ExternalPort != 5062 {
		t.Errorf("m.ExternalPort = %d, want first free 5062", m.ExternalPort)
	}
	if m.InternalPort != 5060 {
		t.Errorf("m.InternalPort = %d, want 5060", m.InternalPort)
	}
}

func TestReserveMapping_Exhausted(t *testing.T) {
	t.Parallel()

	igd := newFakeIGD()
	for p := uint16(5060); p < 5060+20; p++ {
		igd.occupied[p] = true
	}
	c := testController(igd)

	m, err := c.ReserveMapping(context.Background(), "UDP", 5060, 5060)
	if !errors.Is(err, ErrMappingFailed) {
		t.Fatalf("ReserveMapping() = %v, want %v", err, ErrMappingFailed)
	}
	if m == nil || m.State != MappingFailed {
		t.Errorf("m = %+v, want failed mapping", m)
	}
}

func TestReserveMapping_ZeroHintUsesInternalPort(t *testing.T) {
	t.Parallel()

	igd := newFakeIGD()
	c := testController(igd)

	m, err := c.ReserveMapping(context.Background(), "TCP", 5062, 0)
	if err != nil {
		t.Fatalf("ReserveMapping() = %v", err)
	}
	if m.ExternalPort != 5062 {
		t.Errorf("m.ExternalPort = %d, want internal port 5062", m.ExternalPort)
	}
}

func TestReleaseMapping(t *testing.T) {
	t.Parallel()

	igd := newFakeIGD()
	c := testController(igd)

	m, err := c.ReserveMapping(context.Background(), "UDP", 5060, 5060)
	if err != nil {
		t.Fatalf("ReserveMapping() = %v", err)
	}
	if err := c.ReleaseMapping(context.Background(), m); err != nil {
		t.Fatalf("ReleaseMapping() = %v", err)
	}
	if m.State == MappingOpen {
		t.Error("mapping still open after release")
	}
	if len(igd.deleted) != 1 || igd.deleted[0] != 5060 {
		t.Errorf("deleted ports = %v, want [5060]", igd.deleted)
	}

	// Releasing again, or releasing nothing, is a no-op.
	if err := c.ReleaseMapping(context.Background(), m); err != nil {
		t.Errorf("second ReleaseMapping() = %v", err)
	}
	if err := c.ReleaseMapping(context.Background(), nil); err != nil {
		t.Errorf("ReleaseMapping(nil) = %v", err)
	}
}

func TestExternalIP(t *testing.T) {
	t.Parallel()

	c := testController(newFakeIGD())
	addr, err := c.ExternalIP(context.Background())
	if err != nil {
		t.Fatalf("ExternalIP() = %v", err)
	}
	if got := addr.Host(); got != "203.0.113.77" {
		t.Errorf("ExternalIP() = %q, want 203.0.113.77", got)
	}

	var empty Controller
	if _, err := empty.ExternalIP(context.Background()); !errors.Is(err, ErrNoGateway) {
		t.Errorf("ExternalIP() without gateway = %v, want %v", err, ErrNoGateway)
	}
}
