package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

// writeError maps service errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var transition *domain.ErrInvalidTransition
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrUnknownTemplate):
		status = http.StatusBadRequest
	case errors.As(err, &transition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSyncNotConfigured):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
		s.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// rangeParams reads the common ?start_date=YYYY-MM-DD&end_date=... query
// pair. start_date defaults to today; end_date is exclusive and defaults
// to two weeks out.
func rangeParams(r *http.Request) (time.Time, int, error) {
	q := r.URL.Query()
	start := domain.DateOf(time.Now())
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid start_date %q", v)
		}
		start = t
	}
	days := 14
	if v := q.Get("end_date"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid end_date %q", v)
		}
		days = int(end.Sub(start) / (24 * time.Hour))
		if days <= 0 {
			return time.Time{}, 0, fmt.Errorf("end_date %q is not after start_date", v)
		}
	}
	return start, days, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := service.GenerateOptions{PreviewOnly: q.Get("preview_only") == "true"}

	start := domain.DateOf(time.Now())
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			s.badRequest(w, fmt.Errorf("invalid start_date %q", v))
			return
		}
		start = t
		opts.Start = t
	}
	// Without end_date the service falls back to the configured horizon.
	if v := q.Get("end_date"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			s.badRequest(w, fmt.Errorf("invalid end_date %q", v))
			return
		}
		days := int(end.Sub(start) / (24 * time.Hour))
		if days <= 0 {
			s.badRequest(w, fmt.Errorf("end_date %q is not after start_date", v))
			return
		}
		opts.Start = start
		opts.Days = days
	}

	res, err := s.schedule.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toGenerateResponse(res))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, days, err := rangeParams(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	sum, err := s.schedule.Summary(r.Context(), start, days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	start, days, err := rangeParams(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	n, err := s.schedule.Clear(r.Context(), start, days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	start, days, err := rangeParams(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	blocks, err := s.schedule.ListBlocks(r.Context(), start, days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]blockDTO, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlockDTO(b))
	}
	s.writeJSON(w, http.StatusOK, out)
}

type completeRequest struct {
	ActualMin *int   `json:"actual_min,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleCompleteBlock(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			s.badRequest(w, err)
			return
		}
	}
	if v := r.URL.Query().Get("actual_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.badRequest(w, fmt.Errorf("invalid actual_minutes %q", v))
			return
		}
		req.ActualMin = &n
	}
	block, err := s.schedule.CompleteBlock(r.Context(), r.PathValue("id"), req.ActualMin, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBlockDTO(block))
}

type skipRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (s *Server) handleSkipBlock(w http.ResponseWriter, r *http.Request) {
	var req skipRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			s.badRequest(w, err)
			return
		}
	}
	block, err := s.schedule.SkipBlock(r.Context(), r.PathValue("id"), req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBlockDTO(block))
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	list, err := s.rules.List(r.Context(), activeOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]ruleDTO, 0, len(list))
	for _, rule := range list {
		out = append(out, toRuleDTO(rule))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var dto ruleDTO
	if err := decodeBody(r, &dto); err != nil {
		s.badRequest(w, err)
		return
	}
	rule, err := fromRuleDTO(dto)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if err := s.rules.Create(r.Context(), rule); err != nil {
		// Create only fails on validation or storage; validation errors
		// are plain errors without a sentinel.
		s.badRequest(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRuleDTO(rule))
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.rules.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	out := []templateDTO{}
	for _, t := range s.rules.Templates(r.Context()) {
		out = append(out, toTemplateDTO(t))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("template_name")
	if key == "" {
		s.badRequest(w, fmt.Errorf("template_name is required"))
		return
	}
	rule, err := s.rules.CreateFromTemplate(r.Context(), key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRuleDTO(rule))
}

func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	start, days, err := rangeParams(r)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	res, err := s.sync.Pull(r.Context(), start, start.AddDate(0, 0, days))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"pulled": res.Pulled, "upserted": res.Upserted})
}
