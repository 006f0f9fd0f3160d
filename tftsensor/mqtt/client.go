// Package mqtt publishes sensor readings to an MQTT broker over the lneto
// TCP stack, reconnecting whenever the session drops.
package mqtt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"runtime"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"
)

const pollTime = 5 * time.Millisecond

var pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

// Reading is the JSON payload published for every sample.
type Reading struct {
	Voltage     float32       `json:"voltage"`
	Raw         uint16        `json:"raw"`
	Temperature float32       `json:"temperature"`
	Humidity    float32       `json:"humidity"`
	SinceBoot   time.Duration `json:"since_boot_ns"`
}

// Client publishes readings to Topic.
type Client struct {
	ID                string
	Topic             string
	Username          string // optional
	Password          string // optional, requires Username
	Timeout           time.Duration
	HeartbeatInterval time.Duration
	TCPBufSize        int
	Logger            *slog.Logger
	// OnStatus, when set, receives short progress messages for the display.
	OnStatus func(status string)
}

// ConnectAndPublish resolves addr ("host:port"), connects and publishes
// every reading it receives. It only returns on configuration errors; lost
// connections are redialed.
func (c *Client) ConnectAndPublish(stack *xnet.StackAsync, addr string, readings <-chan Reading) error {
	host, portStr, err := splitHostPort(addr)
	if err != nil {
		return errors.New("parse broker address " + addr + ":" + err.Error())
	}
	port := parsePort(portStr)
	if port == 0 {
		return errors.New("parse broker address " + addr + ": bad port")
	}

	rstack := stack.StackRetrying(pollTime)
	brokerIP, err := netip.ParseAddr(host)
	if err != nil {
		c.status("DNS " + host)
		addrs, err := rstack.DoLookupIP(host, 5*time.Second, 3)
		if err != nil {
			return errors.New("dns lookup " + host + ":" + err.Error())
		}
		if len(addrs) == 0 {
			return errors.New("dns lookup " + host + ": no addresses")
		}
		brokerIP = addrs[0]
	}
	broker := netip.AddrPortFrom(brokerIP, port)
	c.log().Info("mqtt:broker", slog.String("addr", broker.String()))

	var conn tcp.Conn
	err = conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, c.TCPBufSize),
		TxBuf:             make([]byte, c.TCPBufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return errors.New("tcp configure:" + err.Error())
	}

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 4096)},
		OnPub: func(_ mqtt.Header, pub mqtt.VariablesPublish, _ io.Reader) error {
			c.log().Info("mqtt:received", slog.String("topic", string(pub.TopicName)))
			return nil
		},
	})
	var connVars mqtt.VariablesConnect
	connVars.SetDefaultMQTT([]byte(c.ID))
	if c.Username != "" {
		connVars.Username = []byte(c.Username)
		if c.Password != "" {
			connVars.Password = []byte(c.Password)
		}
	}

	for {
		localPort := uint16(stack.Prand32()>>17) + 1024
		c.status("TCP connecting")
		err = rstack.DoDialTCP(&conn, localPort, broker, 10*time.Second, 3)
		if err != nil {
			c.log().Error("mqtt:dial-failed", slog.String("err", err.Error()))
			c.close(&conn, "dial failed")
			time.Sleep(2 * time.Second)
			continue
		}

		c.status("MQTT connecting")
		if err = c.connect(client, &conn, &connVars); err != nil {
			c.log().Error("mqtt:connect-failed", slog.String("err", err.Error()))
			c.status("Connect failed")
			c.close(&conn, "connect failed")
			continue
		}

		c.status("Publishing")
		c.publish(stack, client, &conn, readings)

		c.log().Error("mqtt:disconnected", slog.Any("reason", client.Err()))
		c.status("Reconnecting")
		c.close(&conn, "disconnected")
		runtime.Gosched()
	}
}

// connect starts the MQTT handshake and waits up to five seconds for the
// broker's CONNACK.
func (c *Client) connect(client *mqtt.Client, conn *tcp.Conn, vars *mqtt.VariablesConnect) error {
	conn.SetDeadline(time.Now().Add(c.Timeout))
	if err := client.StartConnect(conn, vars); err != nil {
		return err
	}
	for retries := 50; retries > 0 && !client.IsConnected(); retries-- {
		time.Sleep(100 * time.Millisecond)
		if err := client.HandleNext(); err != nil {
			c.log().Error("mqtt:handle-next", slog.String("err", err.Error()))
		}
	}
	if !client.IsConnected() {
		return errors.New("timed out waiting for CONNACK")
	}
	return nil
}

// publish sends readings until the session drops. Between readings it keeps
// the connection alive on every heartbeat.
func (c *Client) publish(stack *xnet.StackAsync, client *mqtt.Client, conn *tcp.Conn, readings <-chan Reading) {
	heartbeat := time.NewTicker(c.HeartbeatInterval)
	defer heartbeat.Stop()

	pubVars := mqtt.VariablesPublish{TopicName: []byte(c.Topic)}
	for client.IsConnected() {
		select {
		case r := <-readings:
			payload, err := json.Marshal(r)
			if err != nil {
				c.log().Error("mqtt:marshal", slog.String("err", err.Error()))
				continue
			}
			conn.SetDeadline(time.Now().Add(c.Timeout))
			pubVars.PacketIdentifier = uint16(stack.Prand32())
			if err = client.PublishPayload(pubFlags, pubVars, payload); err != nil {
				c.log().Error("mqtt:publish", slog.String("err", err.Error()))
				continue
			}
			c.log().Info("mqtt:published", slog.Uint64("packetID", uint64(pubVars.PacketIdentifier)))
			if err = client.HandleNext(); err != nil {
				c.log().Error("mqtt:handle-next", slog.String("err", err.Error()))
			}
		case <-heartbeat.C:
			if err := client.HandleNext(); err != nil {
				c.log().Error("mqtt:handle-next", slog.String("err", err.Error()))
			}
		default:
			// TinyGo runs goroutines on one core; yield so the packet pump runs.
			runtime.Gosched()
		}
	}
}

func (c *Client) close(conn *tcp.Conn, reason string) {
	c.log().Info("tcp:closing", slog.String("reason", reason))
	conn.Close()
	for i := 0; i < 50 && !conn.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	conn.Abort()
}

func (c *Client) status(s string) {
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}

func (c *Client) log() *slog.Logger {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return c.Logger
}

// splitHostPort splits "host:port" at the last colon.
func splitHostPort(addr string) (host, port string, err error) {
	i := len(addr) - 1
	for i >= 0 && addr[i] != ':' {
		i--
	}
	if i < 0 {
		return "", "", errors.New("missing port in address")
	}
	host, port = addr[:i], addr[i+1:]
	if host == "" {
		return "", "", errors.New("empty host")
	}
	if port == "" {
		return "", "", errors.New("empty port")
	}
	return host, port, nil
}

// parsePort returns the port number, or 0 when s is not a valid port.
func parsePort(s string) uint16 {
	var port uint32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		port = port*10 + uint32(s[i]-'0')
		if port > 65535 {
			return 0
		}
	}
	return uint16(port)
}
