// file: internals/features/events/materializer/service/recurrence_expander.go
package service

import (
	"time"

	seriesModel "acaraku_backend/internals/features/events/event_series/model"
)

/* =========================
   Date helpers
========================= */

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Minggu (weekday 0) sebagai awal pekan — basis hitung interval weekly.
func weekStartSunday(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Selisih hari kalender a→b. Dihitung di atas tanggal sipil yang dinormalisasi
// ke UTC supaya hari 23/25 jam saat transisi DST tidak menggeser hitungan.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// Gabungkan tanggal d + jam dari anchor → instant occurrence
func combineDateAndTOD(d, anchor time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(),
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

// Buang nilai di luar 0..6 dan duplikat. Kalau hasilnya kosong, default ke
// weekday anchor supaya weekly series selalu punya minimal satu hari.
func sanitizeDaysOfWeek(raw []int64, anchor time.Time) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(raw))
	for _, v := range raw {
		if v < 0 || v > 6 {
			continue
		}
		set[time.Weekday(v)] = true
	}
	if len(set) == 0 {
		set[anchor.Weekday()] = true
	}
	return set
}

/* =========================
   Expander
========================= */

// ExpandSeries menghitung semua instant occurrence sebuah series di dalam
// window [windowStart, windowEnd] (kedua batas inklusif, granularitas hari
// kalender). Pure function: tanpa I/O, tanpa baca jam sistem — caller yang
// menyuplai window.
//
// Hasil selalu ascending. Window ter-clamp kosong → slice kosong.
func ExpandSeries(s seriesModel.EventSeriesModel, windowStart, windowEnd time.Time) []time.Time {
	interval := s.EventSeriesInterval
	if interval <= 0 {
		interval = 1
	}

	anchor := s.EventSeriesStartAt
	anchorDay := startOfDay(anchor)

	// Clamp: mulai dari max(windowStart, anchor), berhenti di
	// min(windowEnd, untilDate) — untilDate inklusif.
	effStart := startOfDay(windowStart)
	if anchorDay.After(effStart) {
		effStart = anchorDay
	}
	effEnd := startOfDay(windowEnd)
	if s.EventSeriesUntilDate != nil {
		if u := startOfDay(*s.EventSeriesUntilDate); u.Before(effEnd) {
			effEnd = u
		}
	}
	if effEnd.Before(effStart) {
		return nil
	}

	switch s.EventSeriesFrequency {
	case seriesModel.FrequencyDaily:
		return expandDaily(anchor, anchorDay, effStart, effEnd, interval)
	case seriesModel.FrequencyWeekly:
		return expandWeekly(s, anchor, anchorDay, effStart, effEnd, interval)
	}
	// Frequency lain = bug di caller; orchestrator sudah menjaga ini.
	return nil
}

// Daily: anchor + n*interval hari. Fast-forward pakai floor division jumlah
// hari anchor→effStart dibagi interval, lalu step maju per interval sampai
// tidak mendahului effStart — tanpa melewatkan occurrence valid pertama.
func expandDaily(anchor, anchorDay, effStart, effEnd time.Time, interval int) []time.Time {
	steps := daysBetween(anchorDay, effStart) / interval
	if steps < 0 {
		steps = 0
	}
	day := anchorDay.AddDate(0, 0, steps*interval)
	for day.Before(effStart) {
		day = day.AddDate(0, 0, interval)
	}

	var out []time.Time
	for !day.After(effEnd) {
		out = append(out, combineDateAndTOD(day, anchor))
		day = day.AddDate(0, 0, interval)
	}
	return out
}

// Weekly: set weekday berulang tiap `interval` pekan, dihitung dari pekan
// (aligned Minggu) yang memuat anchor. Jam occurrence selalu jam anchor.
func expandWeekly(s seriesModel.EventSeriesModel, anchor, anchorDay, effStart, effEnd time.Time, interval int) []time.Time {
	daySet := sanitizeDaysOfWeek(s.EventSeriesDaysOfWeek, anchor)
	anchorWeek := weekStartSunday(anchorDay)

	var out []time.Time
	for d := effStart; !d.After(effEnd); d = d.AddDate(0, 0, 1) {
		if !daySet[d.Weekday()] {
			continue
		}
		if d.Before(anchorDay) {
			continue
		}
		weeks := daysBetween(anchorWeek, weekStartSunday(d)) / 7
		if weeks%interval != 0 {
			continue
		}
		out = append(out, combineDateAndTOD(d, anchor))
	}
	return out
}
