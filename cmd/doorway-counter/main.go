// Command doorway-counter tracks room occupancy from two directional doorway
// sensors and drives the light relay, publishing events to MQTT.
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

	"github.com/caarlos0/env/v11"

	"github.com/sweeney/doorway-counter/internal/config"
	"github.com/sweeney/doorway-counter/internal/display"
	"github.com/sweeney/doorway-counter/internal/gpio"
	"github.com/sweeney/doorway-counter/internal/logic"
	"github.com/sweeney/doorway-counter/internal/mqtt"
	"github.com/sweeney/doorway-counter/internal/status"
	"github.com/sweeney/doorway-counter/internal/web"
)

// envDefaults are deployment settings readable from the environment.
// Flags override them.
type envDefaults struct {
	Broker   string `env:"DOORWAY_BROKER" envDefault:"tcp://192.168.1.200:1883"`
	HTTPAddr string `env:"DOORWAY_HTTP" envDefault:":80"`
	DBPath   string `env:"DOORWAY_DB" envDefault:"/var/lib/doorway-counter/config.db"`
}

func main() {
	var defs envDefaults
	if err := env.Parse(&defs); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	poll := flag.Duration("poll", 50*time.Millisecond, "Input polling interval")
	broker := flag.String("broker", defs.Broker, "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	dbPath := flag.String("db", defs.DBPath, "Config store path")
	pinEntry := flag.Int("pin-entry", gpio.DefaultPinEntry, "BCM pin number for the entry sensor")
	pinExit := flag.Int("pin-exit", gpio.DefaultPinExit, "BCM pin number for the exit sensor")
	pinInc := flag.Int("pin-inc", gpio.DefaultPinIncrement, "BCM pin number for the +1 button")
	pinReset := flag.Int("pin-reset", gpio.DefaultPinReset, "BCM pin number for the reset button")
	pinEmergency := flag.Int("pin-emergency", gpio.DefaultPinEmergency, "BCM pin number for the emergency switch")
	pinLight := flag.Int("pin-light", gpio.DefaultPinLight, "BCM pin number for the light relay")
	printState := flag.Bool("print-state", false, "Print current input states and exit")
	httpAddr := flag.String("http", defs.HTTPAddr, "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	pins := gpio.Pins{
		Entry:     *pinEntry,
		Exit:      *pinExit,
		Increment: *pinInc,
		Reset:     *pinReset,
		Emergency: *pinEmergency,
		Light:     *pinLight,
	}

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*poll, *broker, *heartbeat, *dbPath, pins, *printState, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, broker string, heartbeat time.Duration, dbPath string, pins gpio.Pins, printState bool, httpAddr, wsBroker string) error {
	// Initialize GPIO inputs
	reader, err := gpio.NewRealReader(pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if printState {
		in, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("Entry: %s, Exit: %s, +1: %s, Reset: %s, Emergency: %s\n",
			activeString(in.Entry), activeString(in.Exit), activeString(in.Increment),
			activeString(in.Reset), activeString(in.Emergency))
		return nil
	}

	// Initialize the light relay
	actuator, err := gpio.NewRealActuator(pins.Light)
	if err != nil {
		return fmt.Errorf("init light: %w", err)
	}
	defer actuator.Close()

	// Load the persisted configuration, substituting defaults on first run
	store, err := config.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	defer store.Close()

	cfg, found, err := store.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !found {
		cfg = config.Default()
		if err := store.Save(cfg); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
		log.Printf("config store empty, wrote defaults")
	}

	// Initialize MQTT (connects in the background; events buffer until up)
	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPPort:    httpAddr,
		WSBroker:    wsBroker,
	})
	tracker.SetTunables(cfg)
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

	log.Printf("started: poll=%v timeout=%v debounce=%v btn-debounce=%v max-persons=%d broker=%s heartbeat=%v",
		poll, cfg.Timeout, cfg.DebounceDelay, cfg.ButtonDebounce, cfg.MaxPersons, broker, heartbeat)

	renderer := display.NewRenderer(display.NewConsole())

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, actuator, publisher, publisher, store, tracker, renderer, cfg, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, actuator gpio.Actuator, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, store config.Store, tracker *status.Tracker, renderer *display.Renderer, cfg config.Config, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	ctl := logic.NewController(cfg, startTime)

	lightSet := false
	lastLight := false

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
			t := now()
			in, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			events := ctl.Process(logic.Input{
				Entry:     in.Entry,
				Exit:      in.Exit,
				Increment: in.Increment,
				Reset:     in.Reset,
				Emergency: in.Emergency,
				Time:      t,
			})

			saveNeeded := false
			for _, event := range events {
				log.Printf("event: %s (count=%d light=%v)", event.Type, event.Count, event.Light)
				notify(renderer, event, t)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
				if event.Type == logic.EventConfigAdjusted || event.Type == logic.EventConfigExited {
					saveNeeded = true
				}
			}

			// Session edits persist on every adjustment and on exit
			if saveNeeded {
				if err := store.Save(ctl.Config()); err != nil {
					log.Printf("config save error: %v", err)
				}
				if tracker != nil {
					tracker.SetTunables(ctl.Config())
				}
			}

			// Drive the relay only on change; the policy is idempotent so
			// a redundant Set would also be harmless.
			light := ctl.Light()
			if !lightSet || light != lastLight {
				if err := actuator.Set(light); err != nil {
					log.Printf("light set error: %v", err)
				}
				lightSet = true
				lastLight = light
			}

			// Check for heartbeat
			if hbData := ctl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v persons=%d entered=%d exited=%d manual=%d resets=%d capacity_hits=%d",
					hbData.Uptime, hbData.Count, hbData.Counts.Entered, hbData.Counts.Exited,
					hbData.Counts.Manual, hbData.Counts.Resets, hbData.Counts.CapacityHits)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
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
					updateTracker(tracker, ctl, light)
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				updateTracker(tracker, ctl, light)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if renderer != nil {
				renderer.Render(display.View{
					Count:         ctl.Count(),
					Light:         light,
					Override:      ctl.Override(),
					SessionActive: ctl.SessionActive(),
					Param:         ctl.Editing(),
					ParamValue:    logic.ParamValue(ctl.Config(), ctl.Editing()),
				}, t)
			}
		}
	}
}

func updateTracker(tracker *status.Tracker, ctl *logic.Controller, light bool) {
	entryStuck, exitStuck := ctl.Stuck()
	tracker.Update(ctl.Count(), light, ctl.Override(), ctl.SessionActive(), ctl.Editing(),
		status.Health{EntryStuck: entryStuck, ExitStuck: exitStuck}, ctl.EventCountsSnapshot())
}

// notify posts transient display notices for operator-relevant events.
// Notices auto-clear on later ticks; nothing blocks.
func notify(renderer *display.Renderer, event logic.Event, t time.Time) {
	if renderer == nil {
		return
	}
	switch event.Type {
	case logic.EventCapacityExceeded:
		renderer.Notify("FULL!", t, display.NoticeError)
	case logic.EventSensorStuck:
		renderer.Notify(fmt.Sprintf("%s STUCK", event.Sensor), t, display.NoticeError)
	case logic.EventNoActivity:
		renderer.Notify("NO ACTIVITY", t, display.NoticeError)
	case logic.EventManualReset:
		renderer.Notify("RESET", t, display.NoticeShort)
	case logic.EventConfigAdjusted, logic.EventConfigExited:
		renderer.Notify("SAVED", t, display.NoticeShort)
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

func activeString(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "idle"
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
