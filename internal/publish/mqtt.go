package publish

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ivlev/scenetime/internal/config"
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt timeout")

const waitTimeout = 5 * time.Second

func init() {
	mqtt.ERROR = log.New(os.Stderr, "[!] mqtt: ", 0)
}

// Client publishes frame states to an MQTT broker.
type Client struct {
	client mqtt.Client
	qos    byte
}

// Connect opens a connection to the broker described by cfg.
func Connect(cfg config.Mqtt) (*Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Printf("[*] Подключено к брокеру %s", cfg.URL)
		})
	client := mqtt.NewClient(options)

	token := client.Connect()
	if !token.WaitTimeout(waitTimeout) {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}
	return &Client{client: client, qos: cfg.QoS}, nil
}

// Publish sends payload to topic at the configured QoS without retaining it.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, c.qos, false, payload)
	if !token.WaitTimeout(waitTimeout) {
		return fmt.Errorf("publish %s: %w", topic, ErrTimeout)
	}
	return token.Error()
}

// Close disconnects after giving in-flight messages a moment to drain.
func (c *Client) Close() {
	c.client.Disconnect(250)
}
