package controller

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/projecthelios/HeliosManager/system/profile"
	"github.com/projecthelios/HeliosManager/system/sensors"
)

type state int

const (
	stateNormal state = iota
	stateBoosted
)

func (s state) String() string {
	return [...]string{"normal", "boosted"}[s]
}

// ProfileApplier applies a profile level to firmware.
type ProfileApplier interface {
	Set(profile.Level) error
}

// DesiredSource reads the user's desired profile, fresh on every call.
type DesiredSource interface {
	Read() (profile.Level, error)
}

// Thresholds is the hysteresis band. Boost engages when either temperature
// reaches its enter threshold, and releases only once both fall below their
// exit thresholds; the asymmetry prevents oscillation at the boundary.
type Thresholds struct {
	CPUEnter int
	GPUEnter int
	CPUExit  int
	GPUExit  int
}

// DefaultThresholds matches the stock auto-turbo tuning.
var DefaultThresholds = Thresholds{
	CPUEnter: 80,
	GPUEnter: 70,
	CPUExit:  75,
	GPUExit:  65,
}

// DefaultInterval is the default poll interval.
const DefaultInterval = time.Second * 2

// Config contains the configuration for the auto-boost loop.
type Config struct {
	Applier    ProfileApplier
	Desired    DesiredSource
	Source     sensors.Source
	Interval   time.Duration
	Thresholds Thresholds
	Metrics    *Metrics
}

// AutoBoost forces maximum fan behavior while the machine is hot and
// restores the user's desired profile once temperatures fall back through
// the hysteresis band. Each instance owns its own two-state machine, so
// multiple instances (e.g. under test) do not interfere. State is not
// persisted: a restarted loop comes up normal and corrects itself within
// one poll if the machine is still hot.
type AutoBoost struct {
	Config

	state state
	tick  chan time.Time
}

// NewAutoBoost validates the configuration and returns a stopped loop.
func NewAutoBoost(conf Config) (*AutoBoost, error) {
	if conf.Applier == nil {
		return nil, errors.New("[autoboost] nil Applier is invalid")
	}
	if conf.Desired == nil {
		return nil, errors.New("[autoboost] nil Desired is invalid")
	}
	if conf.Source == nil {
		return nil, errors.New("[autoboost] nil Source is invalid")
	}
	if conf.Interval == 0 {
		conf.Interval = DefaultInterval
	}
	if conf.Thresholds == (Thresholds{}) {
		conf.Thresholds = DefaultThresholds
	}
	if conf.Thresholds.CPUExit >= conf.Thresholds.CPUEnter ||
		conf.Thresholds.GPUExit >= conf.Thresholds.GPUEnter {
		return nil, errors.New("[autoboost] exit thresholds must sit below enter thresholds")
	}

	tick := make(chan time.Time, 1)
	tick <- time.Now()

	return &AutoBoost{
		Config: conf,
		state:  stateNormal,
		tick:   tick,
	}, nil
}

func (a *AutoBoost) String() string {
	return "AutoBoost"
}

// Serve runs the polling loop until the context is canceled. Cancellation
// takes effect at the next poll boundary; an in-flight firmware call is
// never interrupted.
func (a *AutoBoost) Serve(haltCtx context.Context) error {
	log.Printf("[autoboost] starting poll loop (enter cpu %d / gpu %d, exit cpu %d / gpu %d, every %s)\n",
		a.Thresholds.CPUEnter, a.Thresholds.GPUEnter, a.Thresholds.CPUExit, a.Thresholds.GPUExit, a.Interval)

	go func() {
		ticker := time.NewTicker(a.Interval)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				a.tick <- t
			case <-haltCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-haltCtx.Done():
			log.Println("[autoboost] stopping poll loop")
			return nil
		case <-a.tick:
			a.poll()
		}
	}
}

// poll takes one sample and makes at most one transition decision. A failed
// sensor read keeps the current state; without a temperature there is no
// safe transition to make.
func (a *AutoBoost) poll() {
	sample, err := a.Source.Sample()
	if err != nil {
		log.Printf("[autoboost] sensor read failed, keeping state %s: %s\n", a.state, err)
		return
	}
	a.step(sample)
}

func (a *AutoBoost) step(s sensors.Sample) {
	if a.Metrics != nil {
		a.Metrics.observe(s)
	}

	switch a.state {
	case stateNormal:
		if s.CPU >= a.Thresholds.CPUEnter || s.GPU >= a.Thresholds.GPUEnter {
			log.Printf("[autoboost] temperature high (cpu %d°C, gpu %d°C), forcing turbo fans\n", s.CPU, s.GPU)
			if err := a.Applier.Set(profile.Performance); err != nil {
				log.Printf("[autoboost] cannot apply turbo profile, will retry: %s\n", err)
				return
			}
			a.state = stateBoosted
			if a.Metrics != nil {
				a.Metrics.transition(true)
			}
		}
	case stateBoosted:
		if s.CPU < a.Thresholds.CPUExit && s.GPU < a.Thresholds.GPUExit {
			desired, err := a.Desired.Read()
			if err != nil {
				log.Printf("[autoboost] cannot read desired profile, staying boosted: %s\n", err)
				return
			}
			log.Printf("[autoboost] temperature ok (cpu %d°C, gpu %d°C), restoring %s\n", s.CPU, s.GPU, desired)
			if err := a.Applier.Set(desired); err != nil {
				log.Printf("[autoboost] cannot restore %s, will retry: %s\n", desired, err)
				return
			}
			a.state = stateNormal
			if a.Metrics != nil {
				a.Metrics.transition(false)
			}
		}
	}
}
