package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/bigantr/internal/config"
)

// relTolerance is the relative distance under which two times are the same
// instant.
const relTolerance = 1e-12

// Tolerance returns the absolute distance under which a time equals t.
func Tolerance(t float64) float64 {
	return relTolerance * math.Max(1, math.Abs(t))
}

// Trigger is one output schedule, built by Never, Every or At.
type Trigger struct {
	interval float64
	// k is the index of the next firing of a periodic trigger; next is always
	// k*interval, never a running sum.
	k     float64
	times []float64
	next  float64
}

// Never returns a trigger that never fires.
func Never() Trigger {
	return Trigger{next: math.Inf(1)}
}

// Every returns a trigger firing at each multiple of interval strictly after
// start. A non-positive or non-finite interval never fires.
func Every(interval, start float64) Trigger {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return Never()
	}
	k := math.Floor(start/interval) + 1
	for k*interval <= start {
		k++
	}
	return Trigger{interval: interval, k: k, next: k * interval}
}

// At returns a trigger firing at each of times strictly after start.
func At(times []float64, start float64) Trigger {
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	t := Trigger{times: sorted, next: math.Inf(1)}
	t.skipTo(start)
	return t
}

// FromValue builds a trigger from a configuration value: a number is an
// interval, a list holds explicit times and null disables the trigger.
func FromValue(v config.Value, start float64, where string) (Trigger, error) {
	switch v.Kind() {
	case config.KindNull:
		return Never(), nil
	case config.KindNumber:
		interval, _ := v.AsNumber()
		return Every(interval, start), nil
	case config.KindList:
		times, err := config.ToNumbers(v, where)
		if err != nil {
			return Trigger{}, err
		}
		return At(times, start), nil
	default:
		return Trigger{}, &config.Error{Path: where, Err: config.ErrWrongKind, Detail: fmt.Sprintf("expected number or list, got %s", v.Kind())}
	}
}

// Next returns the next firing time, +Inf when there is none.
func (t *Trigger) Next() float64 { return t.next }

// Interval returns the period of a periodic trigger, or zero.
func (t *Trigger) Interval() float64 { return t.interval }

// advance moves past a firing at now.
func (t *Trigger) advance(now float64) {
	if t.interval > 0 {
		for t.next <= now+Tolerance(now) {
			t.k++
			t.next = t.k * t.interval
		}
		return
	}
	t.skipTo(now)
}

func (t *Trigger) skipTo(now float64) {
	i := sort.Search(len(t.times), func(i int) bool { return t.times[i] > now+Tolerance(now) })
	t.times = t.times[i:]
	if len(t.times) == 0 {
		t.next = math.Inf(1)
		return
	}
	t.next = t.times[0]
}

// Schedule is the default Scheduler over three triggers.
type Schedule struct {
	triggers [len(Kinds)]Trigger
}

// New returns a schedule with the given triggers.
func New(report, plot, save Trigger) *Schedule {
	return &Schedule{triggers: [len(Kinds)]Trigger{report, plot, save}}
}

// Next returns the next firing time of trigger k.
func (s *Schedule) Next(k Kind) float64 {
	return s.triggers[k].Next()
}

// NextPause implements Scheduler.
func (s *Schedule) NextPause(stop float64) float64 {
	pause := stop
	for i := range s.triggers {
		pause = math.Min(pause, s.triggers[i].Next())
	}
	return pause
}

// Due implements Scheduler.
func (s *Schedule) Due(now float64) []Kind {
	var due []Kind
	for _, k := range Kinds {
		if next := s.triggers[k].Next(); now >= next-Tolerance(next) {
			due = append(due, k)
		}
	}
	return due
}

// Advance implements Scheduler.
func (s *Schedule) Advance(k Kind, now float64) {
	s.triggers[k].advance(now)
}
