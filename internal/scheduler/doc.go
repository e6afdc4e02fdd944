// Package scheduler decides when a run pauses to produce output.
//
// A Schedule holds three independent triggers, report, plot and save. A
// trigger is either periodic, firing at every multiple of its interval after
// the run's start time, or a fixed ascending list of times. The run controller
// advances the simulation to NextPause, asks which triggers are Due, performs
// their output in report, plot, save order and then Advances each one.
//
// Periodic trigger times are anchored at zero: after firing at t the trigger
// moves to t + interval, never to the current time + interval, so rounding in
// the sub-steps cannot make the schedule drift.
package scheduler
