package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	feedbackTopic  = "feedback"
	publishTimeout = 5 * time.Second
	disconnectWait = 250 // ms
)

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// publisher is the subset of mqtt.Client used by MQTTSink.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes feedback cues to <prefix>/feedback for the wearable to play.
// Publishing is asynchronous; delivery failures are logged only.
type MQTTSink struct {
	client publisher
	topic  string
	qos    byte
	log    *logger.Logger
}

var _ service.FeedbackSink = (*MQTTSink)(nil)

// Connect dials the broker with auto-reconnect enabled.
func Connect(cfg MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	return client, nil
}

// Disconnect closes the client, waiting briefly for in-flight work.
func Disconnect(client mqtt.Client) {
	if client != nil {
		client.Disconnect(disconnectWait)
	}
}

func NewMQTTSink(client publisher, topicPrefix string, qos byte, log *logger.Logger) *MQTTSink {
	prefix := strings.TrimSuffix(topicPrefix, "/")
	topic := feedbackTopic
	if prefix != "" {
		topic = prefix + "/" + feedbackTopic
	}
	return &MQTTSink{client: client, topic: topic, qos: qos, log: log}
}

func (s *MQTTSink) SignalEmergency()  { s.publish(EmergencyCue()) }
func (s *MQTTSink) SignalWarning()    { s.publish(WarningCue()) }
func (s *MQTTSink) SignalPrediction() { s.publish(PredictionCue()) }

// Topic returns the topic cues are published to.
func (s *MQTTSink) Topic() string { return s.topic }

func (s *MQTTSink) publish(c Cue) {
	payload, err := json.Marshal(c)
	if err != nil {
		s.log.Errorw("feedback_marshal_failed", "err", err, "kind", c.Kind)
		return
	}
	token := s.client.Publish(s.topic, s.qos, false, payload)
	go s.await(token, c.Kind)
}

func (s *MQTTSink) await(token mqtt.Token, kind string) {
	if !token.WaitTimeout(publishTimeout) {
		s.log.Warnw("feedback_publish_timeout", "topic", s.topic, "kind", kind)
		return
	}
	if err := token.Error(); err != nil {
		s.log.Errorw("feedback_publish_failed", "err", err, "topic", s.topic, "kind", kind)
	}
}
