package submission

import (
	"context"
	"crypto/rand"
)

// Values produced by the simulated verifier.
const (
	SimulatedCrop   = "Wheat"
	StatusVerified  = "Verified"
	proofIDLength   = 6
	proofIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Bytes at or above this are skipped so every alphabet symbol is equally likely.
const proofIDByteLimit = 256 - 256%len(proofIDAlphabet)

// NewProofID returns a random 6-character uppercase alphanumeric identifier.
func NewProofID() string {
	id := make([]byte, 0, proofIDLength)
	var buf [16]byte
	for len(id) < proofIDLength {
		rand.Read(buf[:]) //nolint:errcheck // crypto/rand.Read never fails
		for _, b := range buf {
			if int(b) >= proofIDByteLimit {
				continue
			}
			id = append(id, proofIDAlphabet[int(b)%len(proofIDAlphabet)])
			if len(id) == proofIDLength {
				break
			}
		}
	}
	return string(id)
}

// SimulatedVerifier reports every submission as a verified wheat crop.
type SimulatedVerifier struct {
	// NewID generates proof identifiers; NewProofID when nil.
	NewID func() string
}

// Verify implements Verifier.
func (v SimulatedVerifier) Verify(ctx context.Context, _ Evidence) (VerificationResult, error) {
	if err := ctx.Err(); err != nil {
		return VerificationResult{}, err
	}
	newID := v.NewID
	if newID == nil {
		newID = NewProofID
	}
	return VerificationResult{
		Crop:    SimulatedCrop,
		Status:  StatusVerified,
		ProofID: newID(),
	}, nil
}
