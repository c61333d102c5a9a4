package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	suture "github.com/thejerf/suture/v4"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/projecthelios/HeliosManager/background"
	"github.com/projecthelios/HeliosManager/config"
	"github.com/projecthelios/HeliosManager/controller"
	"github.com/projecthelios/HeliosManager/system/fanboost"
	"github.com/projecthelios/HeliosManager/system/persist"
	"github.com/projecthelios/HeliosManager/system/profile"
	"github.com/projecthelios/HeliosManager/system/sensors"
	"github.com/projecthelios/HeliosManager/system/wmi"
	"github.com/projecthelios/HeliosManager/util"
)

// Compile time injected variables
var (
	Version     = "v0.0.0-dev"
	IsDebug     = "yes"
	logLocation = "/var/log/helios-manager.log"
)

func main() {
	var zoneTypes util.ArrayFlags

	configPath := flag.String("config", config.DefaultPath, "path to the daemon configuration file")
	dryRun := flag.Bool("dry-run", os.Getenv("DRY_RUN") != "", "emulate firmware access without touching hardware")
	applyLevel := flag.String("apply", "", "apply the named platform profile once, record it as desired, and exit")
	fanBoostAttr := flag.String("fanboost", "", `write "0" or "1" to the fan boost toggle and exit`)
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Var(&zoneTypes, "zone", "preferred cpu thermal zone type, repeatable")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[manager] cannot load configuration: %+v\n", err)
	}
	if len(zoneTypes) > 0 {
		cfg.CPUZoneTypes = zoneTypes
	}

	var transport wmi.Transport
	if *dryRun {
		transport = wmi.NewDryRun()
	} else {
		transport, err = wmi.NewDeviceWithPath(cfg.DevicePath)
		if err != nil {
			log.Fatalf("[manager] cannot open gaming function device: %+v\n", err)
		}
	}

	codec, err := wmi.NewCodec(transport)
	if err != nil {
		log.Fatalf("[manager] cannot create register codec: %+v\n", err)
	}

	profileCtrl, err := profile.NewControl(codec)
	if err != nil {
		log.Fatalf("[manager] cannot create profile control: %+v\n", err)
	}

	boostCtrl, err := fanboost.NewControl(codec)
	if err != nil {
		log.Fatalf("[manager] cannot create fan boost control: %+v\n", err)
	}

	store, err := persist.NewFileStore(cfg.DesiredProfilePath)
	if err != nil {
		log.Fatalf("[manager] cannot open desired profile store: %+v\n", err)
	}

	switch {
	case *applyLevel != "":
		defer codec.Close()
		applyOnce(profileCtrl, store, *applyLevel)
	case *fanBoostAttr != "":
		defer codec.Close()
		setFanBoost(boostCtrl, *fanBoostAttr)
	default:
		runDaemon(cfg, codec, profileCtrl, store)
	}
}

// applyOnce is the one-shot CLI path. The desired profile is recorded only
// after firmware accepts the level, so a rejected request never becomes the
// restore target.
func applyOnce(ctrl *profile.Control, store *persist.FileStore, name string) {
	level, err := profile.ParseLevel(name)
	if err != nil {
		log.Fatalf("[manager] %+v\n", err)
	}
	if err := ctrl.Set(level); err != nil {
		log.Fatalf("[manager] cannot apply %s: %+v\n", level, err)
	}
	if back, err := ctrl.Current(); err != nil {
		log.Printf("[manager] cannot read applied profile back: %+v\n", err)
	} else if back != level {
		log.Printf("[manager] firmware reports %s after applying %s\n", back, level)
	}
	if err := store.Write(level); err != nil {
		log.Fatalf("[manager] cannot record desired profile: %+v\n", err)
	}
	log.Printf("[manager] desired profile is now %s\n", level)
}

func setFanBoost(ctrl *fanboost.Control, attr string) {
	enabled, err := fanboost.ParseAttr([]byte(attr))
	if err != nil {
		log.Fatalf("[manager] %+v\n", err)
	}
	if err := ctrl.SetEnabled(enabled); err != nil {
		log.Fatalf("[manager] cannot set fan boost: %+v\n", err)
	}
	back, err := ctrl.Enabled()
	if err != nil {
		log.Fatalf("[manager] cannot read fan boost back: %+v\n", err)
	}
	fmt.Println(fanboost.FormatAttr(back))
}

func runDaemon(cfg *config.Config, codec *wmi.Codec, profileCtrl *profile.Control, store *persist.FileStore) {

	if IsDebug == "no" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   logLocation,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		})
	}

	log.Printf("HeliosManager version: %s\n", Version)

	cpu := sensors.NewCPUZone(cfg.CPUZoneTypes)

	var gpu sensors.GPUReader
	nvmlReader := sensors.NewNVML()
	if err := nvmlReader.Initialize(); err != nil {
		log.Printf("[manager] no gpu telemetry, treating gpu as cold: %s\n", err)
	} else {
		gpu = nvmlReader
		defer nvmlReader.Shutdown()
	}

	source, err := sensors.NewSystem(cpu, gpu)
	if err != nil {
		log.Fatalf("[manager] cannot create sensor source: %+v\n", err)
	}

	autoBoost, err := controller.NewAutoBoost(controller.Config{
		Applier:    profileCtrl,
		Desired:    store,
		Source:     source,
		Interval:   time.Duration(cfg.Interval),
		Thresholds: cfg.ControllerThresholds(),
		Metrics:    controller.NewMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		log.Fatalf("[supervisor] cannot create auto boost controller: %+v\n", err)
	}

	versionChecker, err := background.NewVersionCheck(Version)
	if err != nil {
		log.Fatalf("[supervisor] cannot get version checker: %+v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	rootSupervisor := suture.New("Supervisor", suture.Spec{})
	rootSupervisor.Add(autoBoost)
	rootSupervisor.Add(versionChecker)
	rootSupervisor.Add(NewWeb(cfg.WebAddress))

	sigc := make(chan os.Signal, 1)

	go func() {
		supervisorErr := rootSupervisor.Serve(ctx)
		if supervisorErr != nil {
			log.Printf("[supervisor] rootSupervisor returns error: %+v\n", supervisorErr)
			sigc <- syscall.SIGTERM
		}
	}()

	signal.Notify(
		sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	sig := <-sigc
	log.Printf("[supervisor] signal received: %+v\n", sig)

	cancel()
	codec.Close()
	time.Sleep(time.Second) // 1 second for grace period
}
