package http

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/cache"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/report"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.cache != nil {
		var cached report.Stats
		if found, err := s.cache.Get(ctx, cache.DashboardKey(), &cached); err == nil && found {
			ok(w, cached)
			return
		}
	}

	// varre no máximo BetScanLimit apostas (teto deliberado de escalabilidade,
	// não uma garantia de "todas as apostas")
	page, err := s.bets.List(ctx, nil, s.cfg.BetScanLimit)
	if err != nil {
		s.fail(w, "dashboard stats", err)
		return
	}

	stats := report.Dashboard(page.Items, s.cfg.ProfitMargin)

	if s.cache != nil {
		_ = s.cache.Set(ctx, cache.DashboardKey(), stats, s.cfg.ReportCacheTTL)
	}
	ok(w, stats)
}

func (s *Server) reportByNumber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	gameType := q.Get("gameType")
	if gameType != entity.BetType2D && gameType != entity.BetType3D {
		bad(w, "A valid gameType (2D/3D) is required.")
		return
	}

	var win report.Window
	var cacheKey string

	if gameType == entity.BetType2D {
		dateStr := q.Get("date")
		session := q.Get("session")
		if !dateRe.MatchString(dateStr) || (session != report.SessionMorning && session != report.SessionEvening) {
			bad(w, "For 2D reports, date (YYYY-MM-DD) and session (morning/evening) are required.")
			return
		}
		day, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			bad(w, "For 2D reports, date (YYYY-MM-DD) and session (morning/evening) are required.")
			return
		}
		win, _ = report.SessionWindow(day, session)
		cacheKey = cache.Report2DKey(dateStr, session)
	} else {
		year, errY := strconv.Atoi(q.Get("year"))
		month, errM := strconv.Atoi(q.Get("month")) // 0-indexado, como no cliente
		period := q.Get("period")
		if errY != nil || errM != nil || (period != report.PeriodFirstHalf && period != report.PeriodSecondHalf) {
			bad(w, "For 3D reports, year, month, and period (first_half/second_half) are required.")
			return
		}
		var err error
		win, err = report.HalfMonthWindow(year, month, period)
		if err != nil {
			bad(w, err.Error())
			return
		}
		cacheKey = cache.Report3DKey(year, month, period)
	}

	if s.cache != nil {
		var cached []report.NumberSummary
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			ok(w, cached)
			return
		}
	}

	page, err := s.bets.List(ctx, nil, s.cfg.BetScanLimit)
	if err != nil {
		s.fail(w, "report by number", err)
		return
	}

	result := report.GroupByNumber(page.Items, gameType, win)

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, result, s.cfg.ReportCacheTTL)
	}
	ok(w, result)
}
