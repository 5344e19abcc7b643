// ABOUTME: Client-side joins over API lists: sessions to speakers, breakdown to shares
// ABOUTME: Pure functions, safe to call with nil or empty inputs

package conference

import "math"

// JoinSessions resolves each session's SpeakerIDs against speakers.
// Speakers appear in SpeakerIDs order; unknown or repeated IDs are skipped.
// Every result has a non-nil Speakers slice.
func JoinSessions(sessions []Session, speakers []Speaker) []SessionWithSpeakers {
	byID := make(map[string]Speaker, len(speakers))
	for _, sp := range speakers {
		if sp.ID == "" {
			continue
		}
		byID[sp.ID] = sp
	}

	joined := make([]SessionWithSpeakers, 0, len(sessions))
	for _, s := range sessions {
		resolved := make([]Speaker, 0, len(s.SpeakerIDs))
		seen := make(map[string]bool, len(s.SpeakerIDs))
		for _, id := range s.SpeakerIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if sp, ok := byID[id]; ok {
				resolved = append(resolved, sp)
			}
		}
		joined = append(joined, SessionWithSpeakers{Session: s, Speakers: resolved})
	}
	return joined
}

// Share is a designation's fraction of all registrations, in percent.
type Share struct {
	Designation string
	Count       int
	Percent     float64
}

// Shares converts a breakdown into percentages rounded to one decimal.
// Rows with non-positive counts are dropped.
func Shares(breakdown []DesignationBreakdown) []Share {
	total := 0
	for _, b := range breakdown {
		if b.Count > 0 {
			total += b.Count
		}
	}
	if total == 0 {
		return []Share{}
	}

	shares := make([]Share, 0, len(breakdown))
	for _, b := range breakdown {
		if b.Count <= 0 {
			continue
		}
		pct := float64(b.Count) * 100 / float64(total)
		shares = append(shares, Share{
			Designation: b.Designation,
			Count:       b.Count,
			Percent:     math.Round(pct*10) / 10,
		})
	}
	return shares
}

// SpeakerNames returns the display names for ids, skipping unknown ids.
func SpeakerNames(ids []string, speakers []Speaker) []string {
	byID := make(map[string]string, len(speakers))
	for _, sp := range speakers {
		byID[sp.ID] = sp.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
