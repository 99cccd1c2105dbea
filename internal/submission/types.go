// Package submission implements the Farmer Input page state machine: selecting a
// crop photo, recording a voice note and submitting them for verification.
package submission

import (
	"context"
	"errors"
)

// Sentinel errors returned by Flow operations.
var (
	// ErrNothingToSubmit is returned when Submit is called with no photo and no recording in progress.
	ErrNothingToSubmit = errors.New("no data to submit")
	// ErrBusy is returned when Submit is called while a verification is outstanding.
	ErrBusy = errors.New("verification already in progress")
	// ErrClosed is returned after the flow was torn down.
	ErrClosed = errors.New("submission flow closed")
)

// FileRef describes the selected photo. Only Name is used by the flow.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// VerificationResult is produced by a completed submission.
type VerificationResult struct {
	Crop    string `json:"crop"`
	Status  string `json:"status"`
	ProofID string `json:"proof_id"`
}

// State is a snapshot of the flow. Version goes up by one on every change.
type State struct {
	Version      uint64              `json:"version"`
	SelectedFile *FileRef            `json:"selected_file,omitempty"`
	IsRecording  bool                `json:"is_recording"`
	Result       *VerificationResult `json:"result,omitempty"`
	IsLoading    bool                `json:"is_loading"`
}

// Evidence is what a submission hands to the Verifier.
type Evidence struct {
	File      *FileRef
	VoiceNote bool
}

// Verifier turns evidence into a verification result.
type Verifier interface {
	Verify(ctx context.Context, ev Evidence) (VerificationResult, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, ev Evidence) (VerificationResult, error)

// Verify calls f(ctx, ev).
func (f VerifierFunc) Verify(ctx context.Context, ev Evidence) (VerificationResult, error) {
	return f(ctx, ev)
}
