package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/klabast/wb-services/study-diary/internal/auth"
	"github.com/klabast/wb-services/study-diary/internal/calendar"
)

// ServeIndex serves the calendar page
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.IndexHTML); err != nil {
		s.logger.Printf("Error writing index HTML: %v", err)
	}
}

// HandleLogin sends the browser to the provider's consent page
func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	s.setCookie(w, StateCookie, state, 600)
	http.Redirect(w, r, s.gateway.AuthorizeURL(state), http.StatusFound)
}

var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html lang="ko"><head><meta charset="utf-8"><title>학습일지</title></head>
<body style="font-family: system-ui, sans-serif; padding: 2rem">
<p>카카오 로그인 실패: {{.}}</p>
<p><a href="/">돌아가기</a></p>
</body></html>`))

// loginFailed shows the user why the login did not work. There is no retry.
func (s *Server) loginFailed(w http.ResponseWriter, err error) {
	s.logger.Printf("⚠️  Login failed: %v", err)

	reason := err.Error()
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		reason = authErr.Reason
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	if err := noticeTemplate.Execute(w, reason); err != nil {
		s.logger.Printf("Error writing notice: %v", err)
	}
}

// HandleCallback completes the login and sets the session cookie
func (s *Server) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := auth.CallbackError(q); err != nil {
		s.loginFailed(w, err)
		return
	}

	stateCookie, err := r.Cookie(StateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
		s.loginFailed(w, &auth.Error{Reason: ErrInvalidState})
		return
	}
	s.setCookie(w, StateCookie, "", -1)

	profile, err := s.gateway.Login(r.Context(), q.Get("code"))
	if err != nil {
		s.loginFailed(w, err)
		return
	}

	token, claims, err := s.sessions.Issue(profile)
	if err != nil {
		s.logger.Printf("Error issuing session: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}
	s.setCookie(w, auth.SessionCookie, token, int(s.sessions.Lifetime().Seconds()))

	s.logger.Printf("✅ %s logged in (session %s)", claims.Nickname, claims.SessionID())
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout drops the session cookie and the session's view
func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := s.session(r); ok {
		s.views.Delete(claims.SessionID())
	}
	s.setCookie(w, auth.SessionCookie, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMe returns the logged-in user's greeting data
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nickname": claims.Nickname,
		"greeting": fmt.Sprintf("%s님 환영합니다!", claims.Nickname),
	})
}

// calendarResponse is the view model plus store health
type calendarResponse struct {
	calendar.View
	Saving bool `json:"saving"`
}

func (s *Server) respondView(w http.ResponseWriter, state calendar.State, now time.Time) {
	writeJSON(w, http.StatusOK, calendarResponse{
		View:   calendar.BuildView(state, now),
		Saving: s.diary.Available(),
	})
}

// update applies fn to the caller's state and responds with the new view
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(calendar.State) calendar.State) {
	now := s.now()
	state := s.views.Update(claimsFrom(r).SessionID(), now, s.diary.Progress(), fn)
	s.respondView(w, state, now)
}

// GetCalendar returns the view model of the session's month
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(st calendar.State) calendar.State { return st })
}

// PreviousMonth moves the view one month back
func (s *Server) PreviousMonth(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, calendar.State.PreviousMonth)
}

// NextMonth moves the view one month forward
func (s *Server) NextMonth(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, calendar.State.NextMonth)
}

// CurrentMonth jumps back to today's month
func (s *Server) CurrentMonth(w http.ResponseWriter, r *http.Request) {
	month := calendar.MonthOf(s.now())
	s.update(w, r, func(st calendar.State) calendar.State { return st.GoTo(month) })
}

type dateRequest struct {
	Date   string `json:"date"`
	Period int    `json:"period"`
}

func decodeDate(w http.ResponseWriter, r *http.Request) (dateRequest, time.Time, bool) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody)
		return req, time.Time{}, false
	}
	key, err := calendar.ParseISODate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidDateFormat)
		return req, time.Time{}, false
	}
	return req, key.Time(), true
}

// SelectDate expands or collapses a date's checklist
func (s *Server) SelectDate(w http.ResponseWriter, r *http.Request) {
	_, date, ok := decodeDate(w, r)
	if !ok {
		return
	}
	s.update(w, r, func(st calendar.State) calendar.State { return st.Click(date) })
}

// TogglePeriod flips one period and persists the progress
func (s *Server) TogglePeriod(w http.ResponseWriter, r *http.Request) {
	req, date, ok := decodeDate(w, r)
	if !ok {
		return
	}

	if _, err := s.diary.Toggle(date, calendar.Period(req.Period)); err != nil {
		if errors.Is(err, calendar.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, ErrInvalidPeriod)
			return
		}
		s.logger.Printf("Error toggling period: %v", err)
		writeError(w, http.StatusInternalServerError, ErrInternalServer)
		return
	}
	s.update(w, r, func(st calendar.State) calendar.State { return st })
}

// GetStats returns totals; ?month=2024-03 limits them to one month
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	var month *calendar.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		t, err := time.ParseInLocation("2006-01", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrInvalidMonth)
			return
		}
		m := calendar.MonthOf(t)
		month = &m
	}
	writeJSON(w, http.StatusOK, s.diary.Stats(month))
}

// HandleExport downloads the progress as ics, csv or json
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatICS
	}
	contentType, ok := ContentType(format)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrInvalidFormat)
		return
	}

	claims := claimsFrom(r)
	now := s.now()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=study_diary_%s.%s", now.Format("20060102"), format))
	if err := Export(w, format, claims.Nickname, s.diary.Progress(), now); err != nil {
		s.logger.Printf("Error generating export: %v", err)
	}
}
