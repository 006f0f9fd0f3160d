// Package wifi brings up the Pico W's CYW43439 radio and runs an lneto
// network stack on top of it.
//
// Bring-up follows the soypat/cyw43439 examples:
// https://github.com/soypat/cyw43439/tree/main/examples/common
package wifi

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

const mtu = cyw43439.MTU

// Config describes the network to join and how to set up the stack.
type Config struct {
	SSID     string
	Password string // empty joins an open network
	Hostname string // sent with DHCP requests
	// StaticAddr is requested from DHCP and used as-is when DHCP fails.
	StaticAddr netip.Addr
	// MaxTCPConns is the number of TCP connections the stack can hold.
	MaxTCPConns int
	Logger      *slog.Logger
}

// Stack is a joined WiFi interface with its network stack.
type Stack struct {
	dev     *cyw43439.Device
	net     xnet.StackAsync
	log     *slog.Logger
	sendbuf []byte
}

// Join initializes the radio, joins the network (retrying until it
// succeeds) and resets the network stack. Call DHCP next.
func Join(cfg Config) (*Stack, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("wifi: empty hostname")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	if err := dev.Init(cyw43439.DefaultWifiConfig()); err != nil {
		return nil, errors.New("wifi init:" + err.Error())
	}
	logger.Info("wifi:init", slog.Duration("took", time.Since(start)))

	for {
		logger.Info("wifi:joining", slog.String("ssid", cfg.SSID), slog.Bool("open", cfg.Password == ""))
		err := dev.JoinWPA2(cfg.SSID, cfg.Password)
		if err == nil {
			break
		}
		logger.Error("wifi:join-failed", slog.String("err", err.Error()))
		time.Sleep(5 * time.Second)
	}

	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("wifi hardware address:" + err.Error())
	}
	logger.Info("wifi:joined", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	s := &Stack{dev: dev, log: logger, sendbuf: make([]byte, mtu)}
	err = s.net.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     max(cfg.MaxTCPConns, 1),
		RandSeed:        time.Since(start).Nanoseconds(),
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return nil, errors.New("stack reset:" + err.Error())
	}
	dev.RecvEthHandle(func(pkt []byte) error {
		return s.net.Demux(pkt, 0)
	})
	return s, nil
}

// DHCP obtains an address and gateway. When DHCP does not complete and addr
// is a usable IPv4 address, addr is assigned statically instead.
// The packet pump (Run) must already be running.
func (s *Stack) DHCP(addr netip.Addr) (netip.Addr, error) {
	if !addr.IsValid() {
		addr = netip.AddrFrom4([4]byte{})
	}
	if !addr.Is4() {
		return netip.Addr{}, errors.New("dhcp: only IPv4 is supported")
	}

	rstack := s.net.StackRetrying(50 * time.Millisecond)
	s.log.Info("dhcp:start")
	res, err := rstack.DoDHCPv4(addr.As4(), 3*time.Second, 3)
	if err != nil {
		if addr.IsUnspecified() {
			return netip.Addr{}, errors.New("dhcp:" + err.Error())
		}
		s.log.Info("dhcp:static", slog.String("ip", addr.String()))
		s.net.SetIPAddr(addr)
		return addr, nil
	}
	if err = s.net.AssimilateDHCPResults(res); err != nil {
		return netip.Addr{}, errors.New("dhcp apply:" + err.Error())
	}

	gw, err := rstack.DoResolveHardwareAddress6(res.Router, 500*time.Millisecond, 4)
	if err != nil {
		return netip.Addr{}, errors.New("resolve gateway:" + err.Error())
	}
	s.net.SetGateway6(gw)

	s.log.Info("dhcp:done",
		slog.String("ip", res.AssignedAddr.String()),
		slog.String("router", res.Router.String()),
		slog.Uint64("lease_sec", uint64(res.TLease)),
	)
	return res.AssignedAddr, nil
}

// Run moves packets between the radio and the stack forever.
// Run should be called in a separate goroutine.
func (s *Stack) Run() {
	for {
		sent, recv := s.poll()
		if sent == 0 && !recv {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// poll handles at most one incoming and one outgoing packet.
func (s *Stack) poll() (sent int, recv bool) {
	recv, err := s.dev.PollOne()
	if err != nil {
		s.log.Error("wifi:poll", slog.String("err", err.Error()))
	}
	sent, err = s.net.Encapsulate(s.sendbuf, -1, 0)
	if err != nil {
		s.log.Error("wifi:encapsulate", slog.Int("plen", sent), slog.String("err", err.Error()))
		return 0, recv
	}
	if sent == 0 {
		return 0, recv
	}
	if err = s.dev.SendEth(s.sendbuf[:sent]); err != nil {
		s.log.Error("wifi:send", slog.Int("plen", sent), slog.String("err", err.Error()))
	}
	return sent, recv
}

// Net returns the lneto stack for dialing and DNS.
func (s *Stack) Net() *xnet.StackAsync { return &s.net }

// Addr returns the stack's current IP address.
func (s *Stack) Addr() netip.Addr { return s.net.Addr() }
