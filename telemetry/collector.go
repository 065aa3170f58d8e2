package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/course-server/wind"
)

type Config struct {
	Broker   string
	Port     int
	Topic    string
	Username string
	Password string
}

// Collector subscribes to the buoy telemetry topic and feeds decoded wind
// readings into the store.
type Collector struct {
	config Config
	store  *wind.Store
	client mqtt.Client
}

func NewCollector(config Config, store *wind.Store) *Collector {
	return &Collector{config: config, store: store}
}

func (c *Collector) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", c.config.Broker, c.config.Port))
	opts.SetClientID(fmt.Sprintf("course-server-%d", time.Now().Unix()))
	if c.config.Username != "" {
		opts.SetUsername(c.config.Username)
		opts.SetPassword(c.config.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Infof("Connected to broker %s, subscribing to '%s'", c.config.Broker, c.config.Topic)
		if token := client.Subscribe(c.config.Topic, 0, c.onMessage); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Errorf("Error subscribing to '%s'", c.config.Topic)
		}
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.WithError(err).Warn("Broker connection lost")
	})

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker %s: %w", c.config.Broker, token.Error())
	}
	return nil
}

func (c *Collector) onMessage(client mqtt.Client, msg mqtt.Message) {
	var r wind.Reading
	if err := json.Unmarshal(msg.Payload(), &r); err != nil {
		log.WithError(err).Debugf("Dropping unparseable reading on '%s'", msg.Topic())
		return
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	c.store.Push(r)
	log.Debugf("Reading %s : %.0f° %.1f kt", r.BuoyId, r.Direction, r.Speed)
}

func (c *Collector) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}
