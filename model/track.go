package model

import (
	"fmt"
)

// Track is the canonical song record. Screens fetch songs in different shapes
// (feed items, search results, album tracks, upload results) and normalize them
// into this one before handing them to the player. Tracks are never mutated in
// place; they are replaced wholesale.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	AudioURL string  `json:"audioUrl,omitempty"`
	CoverURL string  `json:"coverUrl,omitempty"`
	Duration float64 `json:"duration"` // seconds, 0 = unknown
}

func firstString(payload map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := payload[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(payload map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		switch v := payload[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0
}

// TrackFromPayload normalizes a loosely-typed song payload into a Track.
// Backends and screens disagree on field names, so a handful of aliases are
// accepted for each attribute. A payload without an id or title is rejected.
func TrackFromPayload(payload map[string]interface{}) (Track, error) {
	if payload == nil {
		return Track{}, fmt.Errorf("nil song payload")
	}

	t := Track{
		ID:       firstString(payload, "id", "_id", "songId"),
		Title:    firstString(payload, "title", "name", "songName"),
		Artist:   firstString(payload, "artist", "artistName"),
		AudioURL: firstString(payload, "audioUrl", "url", "fileUrl"),
		CoverURL: firstString(payload, "coverUrl", "imageUrl", "thumbnail"),
		Duration: firstNumber(payload, "duration", "durationSeconds"),
	}

	// Detail payloads nest the artist object.
	if t.Artist == "" {
		if nested, ok := payload["artist"].(map[string]interface{}); ok {
			t.Artist = firstString(nested, "fullName", "name", "username")
		}
	}

	if t.ID == "" {
		return Track{}, fmt.Errorf("song payload has no id")
	}
	if t.Title == "" {
		return Track{}, fmt.Errorf("song payload %q has no title", t.ID)
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return t, nil
}

// TracksFromPayloads normalizes a list of song payloads, skipping entries that
// cannot be normalized. The error of the first rejected entry is returned
// alongside the usable tracks so callers can log it.
func TracksFromPayloads(payloads []map[string]interface{}) ([]Track, error) {
	tracks := make([]Track, 0, len(payloads))
	var firstErr error
	for _, p := range payloads {
		t, err := TrackFromPayload(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, firstErr
}
