package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/server/middleware"
	"github.com/jonathan/agrimrv-lite/internal/submission"
	"go.uber.org/zap"
)

const (
	// maxPhotoBytes bounds an uploaded photo.
	maxPhotoBytes = 10 << 20
	// keepAliveInterval is how often an idle event stream sends a comment.
	keepAliveInterval = 25 * time.Second
)

// wantsJSON reports whether the client asked for a JSON reply instead of a redirect.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// finishFlowAction answers a farmer input action: the flow state as JSON, or
// a redirect back to the page.
func (s *Server) finishFlowAction(w http.ResponseWriter, r *http.Request, flow *submission.Flow, err error) {
	if err != nil && !errors.Is(err, submission.ErrNothingToSubmit) && !errors.Is(err, submission.ErrBusy) {
		s.logger.Warn("farmer input action failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if wantsJSON(r) {
		if err != nil {
			s.errorResponse(w, flowStatus(err), err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, flow.Snapshot())
		return
	}
	http.Redirect(w, r, navigation.PathFarmerInput, http.StatusSeeOther)
}

// handleSelectPhoto records the uploaded photo's metadata. The image itself is never inspected.
func (s *Server) handleSelectPhoto(w http.ResponseWriter, r *http.Request) {
	flow := s.flows.Get(middleware.GetVisitorID(r))

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid photo upload")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("photo")
	if err != nil {
		// No file chosen: nothing changes
		s.finishFlowAction(w, r, flow, nil)
		return
	}
	file.Close()

	err = flow.SelectFile(submission.FileRef{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	s.finishFlowAction(w, r, flow, err)
}

func (s *Server) handleToggleRecording(w http.ResponseWriter, r *http.Request) {
	flow := s.flows.Get(middleware.GetVisitorID(r))
	s.finishFlowAction(w, r, flow, flow.ToggleRecording())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	flow := s.flows.Get(middleware.GetVisitorID(r))
	s.finishFlowAction(w, r, flow, flow.Submit())
}

// handleFlowState returns the visitor's flow state as JSON.
func (s *Server) handleFlowState(w http.ResponseWriter, r *http.Request) {
	flow := s.flows.Get(middleware.GetVisitorID(r))
	s.jsonResponse(w, http.StatusOK, flow.Snapshot())
}

// handleFlowEvents streams the visitor's flow state: one "state" event right
// away and another after every change, until the flow is torn down or the
// client goes away.
func (s *Server) handleFlowEvents(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.flows.Lookup(middleware.GetVisitorID(r))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "no active farmer input session")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-flow.Done():
			sse.WriteClosed("flow closed")
			return
		default:
		}

		// Take the channel before the snapshot so no change is missed
		updated := flow.Updated()
		if err := sse.WriteEvent("state", flow.Snapshot()); err != nil {
			return
		}

	wait:
		for {
			select {
			case <-updated:
				break wait
			case <-flow.Done():
				sse.WriteClosed("flow closed")
				return
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				if err := sse.WriteComment("keep-alive"); err != nil {
					return
				}
			}
		}
	}
}
