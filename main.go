package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/course-server/api"
	"github.com/a-bouts/course-server/polar"
	"github.com/a-bouts/course-server/telemetry"
	"github.com/a-bouts/course-server/wind"
	"github.com/a-bouts/course-server/xmpp"
)

// analysisWindow is the telemetry window handed to the periodic analysis
// job.
const analysisWindow = 60 * time.Minute

func main() {

	fs := flag.NewFlagSet("course-server", flag.ExitOnError)
	var (
		port             = fs.Int("port", 8888, "http listen port")
		debug            = fs.Bool("debug", false, "debug logs")
		polarsDir        = fs.String("polars-dir", "polars", "boat class polar files directory")
		gribDir          = fs.String("grib-dir", "grib-data", "grib forecast files directory")
		storeCapacity    = fs.Int("store-capacity", 30, "readings kept per buoy")
		analysisInterval = fs.Uint64("analysis-interval", 60, "seconds between analysis runs")
		mqttBroker       = fs.String("mqtt-broker", "", "buoy telemetry broker host, empty to disable")
		mqttPort         = fs.Int("mqtt-port", 1883, "")
		mqttTopic        = fs.String("mqtt-topic", "buoys/+/wind", "")
		mqttUsername     = fs.String("mqtt-username", "", "")
		mqttPassword     = fs.String("mqtt-password", "", "")
		xmppHost         = fs.String("xmpp-host", "", "")
		xmppJid          = fs.String("xmpp-jid", "", "")
		xmppPassword     = fs.String("xmpp-password", "", "")
		xmppTo           = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("Load polars from '%s'", *polarsDir)
	classes, err := polar.LoadAll(*polarsDir)
	if err != nil {
		log.WithError(err).Fatal("Error loading polars")
	}
	log.Infof("Loaded %d boat classes", len(classes))

	store := wind.NewStore(*storeCapacity)

	if *mqttBroker != "" {
		collector := telemetry.NewCollector(telemetry.Config{
			Broker:   *mqttBroker,
			Port:     *mqttPort,
			Topic:    *mqttTopic,
			Username: *mqttUsername,
			Password: *mqttPassword,
		}, store)
		if err := collector.Start(); err != nil {
			log.WithError(err).Fatal("Error starting telemetry collector")
		}
		defer collector.Stop()
	}

	notifier := xmpp.Notifier{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	s := gocron.NewScheduler()
	job := s.Every(*analysisInterval).Seconds()
	job.Do(func() { analyzeAndAlert(store, notifier) })
	go s.Start()

	log.Info("Start server")

	router := api.InitServer(classes, store, *gribDir)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", *port), handlers.CombinedLoggingHandler(os.Stdout, router)))
}

// lastAlert deduplicates shift alerts between scheduler ticks.
var lastAlert time.Time

func analyzeAndAlert(store *wind.Store, notifier xmpp.Notifier) {
	readings := store.Recent(analysisWindow)
	if len(readings) == 0 {
		return
	}

	analysis := wind.Analyze(readings)
	log.Debugf("Analysis : %s (%.2f), favored side %s", analysis.Pattern.Type, analysis.Pattern.Confidence, analysis.FavoredSide.Side)

	if len(analysis.Shifts) == 0 {
		return
	}

	shift := analysis.Shifts[len(analysis.Shifts)-1]
	if shift.Magnitude != "major" || !shift.Time.After(lastAlert) {
		return
	}
	lastAlert = shift.Time

	message := fmt.Sprintf("Major %s : wind moved %.0f° to %.0f° at %s. %s",
		shift.Type, shift.Change, shift.Direction, shift.Time.Format("15:04"), analysis.FavoredSide.Reason)
	if err := notifier.Send(message); err != nil {
		log.WithError(err).Debug("Shift alert not sent")
	}
}
