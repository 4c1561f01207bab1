// Command ultrasonic-relay drives an HC-SR04 style ultrasonic ranger over
// GPIO, switches a relay when an object sits inside the configured proximity
// band, and publishes relay transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/ultrasonic-relay/internal/config"
	"github.com/sweeney/ultrasonic-relay/internal/gpio"
	"github.com/sweeney/ultrasonic-relay/internal/logic"
	"github.com/sweeney/ultrasonic-relay/internal/mqtt"
	"github.com/sweeney/ultrasonic-relay/internal/status"
	"github.com/sweeney/ultrasonic-relay/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "Detection config YAML (defaults used if empty)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printState := flag.Bool("print-state", false, "Print current echo level and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(cfg, *broker, *heartbeat, *printState, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func run(cfg *config.Config, broker string, heartbeat time.Duration, printState bool, httpAddr, wsBroker string) error {
	// The controller rejects a bad tick-domain config before any hardware
	// is touched.
	ctrl, err := logic.New(cfg.ToController())
	if err != nil {
		return err
	}

	// Initialize GPIO
	port, err := gpio.NewRealPort(cfg.Pins.Trigger, cfg.Pins.Echo, cfg.Pins.Relay)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer port.Close()

	// Print state mode
	if printState {
		echo, err := port.ReadEcho()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("echo: %s, relay: OFF\n", levelString(echo))
		return nil
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickUs:      int64(cfg.Timing.TickUs),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPAddr:    httpAddr,
		WSBroker:    wsBroker,
		OnCm:        cfg.Relay.OnCm,
		OffCm:       cfg.Relay.OffCm,
		HoldMs:      int64(cfg.Relay.HoldMs),
		Samples:     cfg.Sensor.Samples,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: tick=%v band=[%d,%d]cm hold=%dms broker=%s heartbeat=%v",
		cfg.TickInterval(), cfg.Relay.OnCm, cfg.Relay.OffCm, cfg.Relay.HoldMs, broker, heartbeat)

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(port, publisher, publisher, tracker, ctrl, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(port gpio.Port, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, ctrl *logic.Controller, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	var (
		prevTrigger   bool
		prevRelay     bool
		lastHeartbeat = now()
	)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// A released relay must not leave the load switched on.
			if err := port.SetRelay(false); err != nil {
				log.Printf("clear relay: %v", err)
			}
			if err := port.SetTrigger(false); err != nil {
				log.Printf("clear trigger: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			echo, err := port.ReadEcho()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			events := ctrl.Tick(echo)

			// Outputs change at most once per tick; only touch the pins on a
			// transition.
			if trigger := ctrl.TriggerOut(); trigger != prevTrigger {
				if err := port.SetTrigger(trigger); err != nil {
					log.Printf("set trigger: %v", err)
				}
				prevTrigger = trigger
			}
			if relay := ctrl.RelayOut(); relay != prevRelay {
				if err := port.SetRelay(relay); err != nil {
					log.Printf("set relay: %v", err)
				}
				prevRelay = relay
			}

			t := now()
			for _, e := range events {
				re := mqtt.RelayEvent{
					Timestamp:  t,
					Type:       e.Type,
					Tick:       e.Tick,
					DistanceCm: e.DistanceCm,
					AverageCm:  e.AverageCm,
				}
				if e.Type == logic.EventRelayOn {
					log.Printf("event: %s (distance=%dcm average=%dcm)", e.Type, e.DistanceCm, e.AverageCm)
				} else {
					log.Printf("event: %s", e.Type)
				}
				if err := publisher.Publish(re); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil {
				tracker.Update(ctrl.Relay(), ctrl.State(), ctrl.Settled(),
					ctrl.LastDistanceCm(), ctrl.LastAverageCm(), ctrl.Counts())
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				counts := ctrl.Counts()
				log.Printf("heartbeat: relay=%s measurements=%d timeouts=%d inconsistent=%d detections=%d",
					ctrl.Relay(), counts.Measurements, counts.Timeouts, counts.Inconsistent, counts.Detections)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func levelString(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
