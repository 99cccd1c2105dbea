package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/agrimrv-lite/internal/notify"
	"go.uber.org/zap"
)

// Default delays of the simulated interactions.
const (
	DefaultRecordingDuration = 3 * time.Second
	DefaultVerificationDelay = 2 * time.Second
)

// Options configures a Flow. Zero values select the defaults.
type Options struct {
	Clock             Clock
	Notifier          notify.Notifier
	Verifier          Verifier
	Logger            *zap.Logger
	RecordingDuration time.Duration
	VerificationDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Notifier == nil {
		o.Notifier = notify.Discard
	}
	if o.Verifier == nil {
		o.Verifier = SimulatedVerifier{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.RecordingDuration <= 0 {
		o.RecordingDuration = DefaultRecordingDuration
	}
	if o.VerificationDelay <= 0 {
		o.VerificationDelay = DefaultVerificationDelay
	}
	return o
}

// pending is a scheduled callback owned by the flow.
type pending struct {
	timer Timer
}

// Flow is the Farmer Input state machine. All transitions are serialized by
// its mutex; timer callbacks are ignored once the flow is closed.
type Flow struct {
	opts Options

	mu      sync.Mutex
	state   State
	closed  bool
	timers  map[*pending]struct{}
	updated chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewFlow creates a flow in the initial state.
func NewFlow(opts Options) *Flow {
	ctx, cancel := context.WithCancel(context.Background())
	return &Flow{
		opts:    opts.withDefaults(),
		timers:  make(map[*pending]struct{}),
		updated: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Snapshot returns a copy of the current state.
func (f *Flow) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() State {
	s := f.state
	if s.SelectedFile != nil {
		file := *s.SelectedFile
		s.SelectedFile = &file
	}
	if s.Result != nil {
		result := *s.Result
		s.Result = &result
	}
	return s
}

// Updated returns a channel that is closed on the next state change.
func (f *Flow) Updated() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updated
}

// Done is closed when the flow is torn down.
func (f *Flow) Done() <-chan struct{} {
	return f.ctx.Done()
}

// SelectFile stores ref as the photo to verify, replacing any previous selection.
func (f *Flow) SelectFile(ref FileRef) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	file := ref
	f.state.SelectedFile = &file
	f.changedLocked()
	f.mu.Unlock()

	f.opts.Logger.Debug("photo selected", zap.String("file", ref.Name))
	f.opts.Notifier.Notify(notify.Notification{
		Title:       "Photo uploaded successfully",
		Description: fmt.Sprintf("%s is ready for verification", ref.Name),
	})
	return nil
}

// ToggleRecording starts a voice recording when idle and stops it otherwise.
// Starting schedules an auto-revert after RecordingDuration. Stopping by hand
// does not cancel that revert: every started recording's timer fires and
// forces the flow back to idle.
func (f *Flow) ToggleRecording() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.state.IsRecording {
		f.state.IsRecording = false
		f.changedLocked()
		f.mu.Unlock()
		f.opts.Logger.Debug("recording stopped by user")
		return nil
	}

	f.state.IsRecording = true
	f.scheduleLocked(f.opts.RecordingDuration, f.finishRecording)
	f.changedLocked()
	f.mu.Unlock()

	f.opts.Logger.Debug("recording started", zap.Duration("duration", f.opts.RecordingDuration))
	f.opts.Notifier.Notify(notify.Notification{
		Title:       "Recording started",
		Description: "Speak clearly about your farming practices",
	})
	return nil
}

func (f *Flow) finishRecording() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	wasRecording := f.state.IsRecording
	f.state.IsRecording = false
	if wasRecording {
		f.changedLocked()
	}
	f.mu.Unlock()

	if !wasRecording {
		return
	}
	f.opts.Logger.Debug("recording completed")
	f.opts.Notifier.Notify(notify.Notification{
		Title:       "Recording completed",
		Description: "Voice note saved successfully",
	})
}

// Submit starts a verification of the selected photo and/or the recording in
// progress. It returns immediately; the result lands after VerificationDelay.
// With nothing to submit a destructive notification is sent, the state is left
// unchanged and ErrNothingToSubmit is returned.
func (f *Flow) Submit() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.state.IsLoading {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.state.SelectedFile == nil && !f.state.IsRecording {
		f.mu.Unlock()
		f.opts.Notifier.Notify(notify.Notification{
			Title:       "No data to submit",
			Description: "Please upload a photo or record a voice note first",
			Variant:     notify.VariantDestructive,
		})
		return ErrNothingToSubmit
	}

	ev := Evidence{VoiceNote: f.state.IsRecording}
	if f.state.SelectedFile != nil {
		file := *f.state.SelectedFile
		ev.File = &file
	}
	f.state.IsLoading = true
	f.scheduleLocked(f.opts.VerificationDelay, func() { f.completeVerification(ev) })
	f.changedLocked()
	f.mu.Unlock()

	f.opts.Logger.Debug("verification submitted", zap.Bool("voice_note", ev.VoiceNote))
	return nil
}

func (f *Flow) completeVerification(ev Evidence) {
	if f.ctx.Err() != nil {
		return
	}
	result, err := f.opts.Verifier.Verify(f.ctx, ev)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.state.IsLoading = false
	if err == nil {
		f.state.Result = &result
	}
	f.changedLocked()
	f.mu.Unlock()

	if err != nil {
		f.opts.Logger.Warn("verification failed", zap.Error(err))
		f.opts.Notifier.Notify(notify.Notification{
			Title:       "Verification failed",
			Description: "Please try submitting again",
			Variant:     notify.VariantDestructive,
		})
		return
	}

	f.opts.Logger.Info("verification completed",
		zap.String("crop", result.Crop),
		zap.String("proof_id", result.ProofID))
	f.opts.Notifier.Notify(notify.Notification{
		Title:       "Verification completed",
		Description: fmt.Sprintf("Your %s crop has been verified", result.Crop),
	})
}

// Close tears the flow down: pending timers are stopped, an in-flight
// verification is cancelled and later calls return ErrClosed.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for p := range f.timers {
		p.timer.Stop()
	}
	f.timers = nil
	f.cancel()
	close(f.updated)
}

// Closed reports whether Close was called.
func (f *Flow) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// scheduleLocked registers fn to run after d. Caller holds f.mu.
func (f *Flow) scheduleLocked(d time.Duration, fn func()) {
	p := &pending{}
	f.timers[p] = struct{}{}
	p.timer = f.opts.Clock.AfterFunc(d, func() {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return
		}
		delete(f.timers, p)
		f.mu.Unlock()
		fn()
	})
}

// changedLocked wakes Updated() waiters. Caller holds f.mu.
func (f *Flow) changedLocked() {
	f.state.Version++
	close(f.updated)
	f.updated = make(chan struct{})
}
