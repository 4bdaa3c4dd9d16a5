// SPDX-FileCopyrightText: The skyscrub authors
//
// SPDX-License-Identifier: MIT

package snapshot

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/skyscrub/skyscrub/internal/calc"
	"github.com/skyscrub/skyscrub/internal/weather"
)

const (
	timeLayout = "3:04 PM MST"
	dateLayout = "Mon, Jan 2"
)

// Builder produces snapshots from state. It carries only static
// configuration, so builds stay deterministic: two builds over identical
// state produce structurally identical snapshots, which underwrites safe
// memoization downstream.
type Builder struct {
	// DayStartHour offsets the "weather day" used for daily aggregates.
	DayStartHour int
}

// Build produces one immutable snapshot from the given state. It performs no
// I/O and never consults the wall clock; every field derives from state and
// version alone.
func (b Builder) Build(st weather.State, version uint64) *Snapshot {
	tz := st.Timezone
	hourly := calc.BuildHourlyMap(st.Forecast.Hourly, tz.IANAName)
	air := calc.BuildAirQualityMap(st.AirQuality.Hourly, tz.IANAName)

	at := st.Hot.DisplayTimeMs
	snap := &Snapshot{
		Version:          version,
		Timezone:         tz,
		Units:            st.Units,
		Location:         st.Location,
		Forecast:         st.Forecast,
		AirQuality:       st.AirQuality,
		Radar:            st.Radar,
		Minutely:         st.Minutely,
		TemperatureStats: calc.ComputeTemperatureStats(hourly),
		DisplayTimeMs:    at,
		FetchedAtMs:      st.FetchedAtMs,
	}

	snap.Display = b.buildDisplay(st, hourly, air, at)
	snap.DaySummaries = b.buildDaySummaries(st)
	snap.RadarFrameTimes = formatRadarTimes(st.Radar, tz)
	return snap
}

// buildDaySummaries aggregates per weather day. Days without any hourly
// coverage are skipped rather than rendered as placeholders.
func (b Builder) buildDaySummaries(st weather.State) []DaySummary {
	tz := st.Timezone
	var summaries []DaySummary
	for _, day := range st.Forecast.Daily {
		avg := calc.DayAverageTemperature(day.TimestampMs, b.DayStartHour, st.Forecast.Hourly)
		high := calc.DayHighTemperature(day.TimestampMs, b.DayStartHour, st.Forecast.Hourly)
		low := calc.DayLowTemperature(day.TimestampMs, b.DayStartHour, st.Forecast.Hourly)
		if avg == nil && high == nil && low == nil {
			continue
		}
		summaries = append(summaries, DaySummary{
			TimestampMs:           day.TimestampMs,
			Date:                  calc.FormatInZone(day.TimestampMs, tz.IANAName, tz.Abbreviation, dateLayout),
			AverageTemperature:    FormatTemperature(avg, st.Units),
			AverageTemperatureRaw: avg,
			HighTemperature:       FormatTemperature(high, st.Units),
			HighTemperatureRaw:    high,
			LowTemperature:        FormatTemperature(low, st.Units),
			LowTemperatureRaw:     low,
		})
	}
	return summaries
}

func (b Builder) buildDisplay(st weather.State, hourly calc.HourlyMap, air calc.AirQualityMap, at int64,
) DisplayBundle {
	tz := st.Timezone
	d := DisplayBundle{
		Temperature:   Placeholder,
		Humidity:      Placeholder,
		DewPoint:      Placeholder,
		Precipitation: Placeholder,
		MinutelyRate:  Placeholder,
		USAQI:         Placeholder,
		EuropeanAQI:   Placeholder,
		LocationName:  NamePlaceholder,
	}

	if st.Location.Name != "" {
		d.LocationName = st.Location.Name
	}
	d.Time = calc.FormatInZone(at, tz.IANAName, tz.Abbreviation, timeLayout)
	d.Date = calc.FormatInZone(at, tz.IANAName, tz.Abbreviation, dateLayout)

	if point := calc.HourlyAt(hourly, at, tz.IANAName); point != nil {
		temp, hum, dew, precip := point.Temperature, point.RelativeHumidity, point.DewPoint, point.Precipitation
		d.Temperature = FormatTemperature(&temp, st.Units)
		d.TemperatureRaw = &temp
		d.Humidity = FormatPercent(&hum)
		d.HumidityRaw = &hum
		d.DewPoint = FormatTemperature(&dew, st.Units)
		d.DewPointRaw = &dew
		d.Precipitation = FormatPrecipitation(&precip)
		d.PrecipitationRaw = &precip
	}

	if point := calc.AirQualityAt(air, at, tz.IANAName); point != nil {
		us, eu := point.USAQI, point.EuropeanAQI
		d.USAQI = FormatAQI(&us)
		d.USAQIRaw = &us
		d.EuropeanAQI = FormatAQI(&eu)
		d.EuropeanAQIRaw = &eu
	}

	if rate := calc.MinutelyPrecipAt(st.Minutely, at); rate != nil {
		d.MinutelyRate = FormatPrecipitation(rate)
		d.MinutelyRateRaw = rate
	}

	b.fillAstronomy(&d, st, at)
	return d
}

// fillAstronomy resolves moon phase and sunrise/sunset at the display time.
// The forecast's daily point supplies sunrise/sunset when present; otherwise
// they are computed from the coordinates.
func (b Builder) fillAstronomy(d *DisplayBundle, st weather.State, at int64) {
	moon := moonphase.New(time.UnixMilli(at).UTC())
	d.MoonPhase = moon.PhaseName()
	d.MoonPhaseIcon = MoonPhaseIcon(d.MoonPhase)

	dayStart := calc.BucketStart(at, calc.GranularityDay, st.Timezone.IANAName)
	for _, day := range st.Forecast.Daily {
		if day.TimestampMs == dayStart && day.SunriseMs != 0 && day.SunsetMs != 0 {
			d.SunriseMs, d.SunsetMs = day.SunriseMs, day.SunsetMs
			break
		}
	}
	if d.SunriseMs == 0 && st.Location.Coordinates.Valid() && st.ForecastSet {
		// The calendar date must come from the location's local day; near the
		// date line the UTC day can be the neighbouring one.
		loc, err := time.LoadLocation(st.Timezone.IANAName)
		if err != nil {
			loc = time.UTC
		}
		t := time.UnixMilli(at).In(loc)
		rise, set := sunrise.SunriseSunset(st.Location.Coordinates.Latitude, st.Location.Coordinates.Longitude,
			t.Year(), t.Month(), t.Day())
		d.SunriseMs, d.SunsetMs = rise.UnixMilli(), set.UnixMilli()
	}
	d.IsDaytime = d.SunriseMs != 0 && at >= d.SunriseMs && at < d.SunsetMs
}

func formatRadarTimes(radar weather.Radar, tz weather.TimezoneContext) []string {
	if len(radar.Frames) == 0 {
		return nil
	}
	times := make([]string, len(radar.Frames))
	for i, frame := range radar.Frames {
		times[i] = calc.FormatInZone(frame.TimestampMs, tz.IANAName, tz.Abbreviation, timeLayout)
	}
	return times
}
